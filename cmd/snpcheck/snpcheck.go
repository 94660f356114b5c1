// Command snpcheck concurrently validates a batch of Touchstone files
// and reports a sweep/warning count or decode error for each, using a
// fan-out worker pool of decode goroutines.
package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/entrope/touchstone/touchstone"
)

var njobs = pflag.UintP("jobs", "j", 1, "number of concurrent decode workers (0 = NumCPU)")

type result struct {
	filename string
	sweeps   int
	warnings int
	err      error
}

func reportResults(wg *sync.WaitGroup, logger *log.Logger, results <-chan *result, failed *bool) {
	defer wg.Done()
	for res := range results {
		if res.err != nil {
			logger.Error("decode failed", "file", res.filename, "err", res.err)
			*failed = true
			continue
		}
		fmt.Printf("%s : %d sweeps, %d warnings\n", res.filename, res.sweeps, res.warnings)
	}
}

func checkFiles(wg *sync.WaitGroup, results chan<- *result, filenames <-chan string) {
	defer wg.Done()
	for filename := range filenames {
		results <- checkOne(filename)
	}
}

func checkOne(filename string) *result {
	res := &result{filename: filename}

	f, err := os.Open(filename)
	if err != nil {
		res.err = err
		return res
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		if r, err = gzip.NewReader(r); err != nil {
			res.err = err
			return res
		}
	}

	body, err := io.ReadAll(r)
	if err != nil {
		res.err = err
		return res
	}

	p := &touchstone.Parser{
		OnParameters: func(kind touchstone.ParameterKind, numPorts int, data []float64) error {
			res.sweeps++
			return nil
		},
		OnNoise: func(data []float64) error {
			res.sweeps++
			return nil
		},
		OnWarning: func(msg string) {
			res.warnings++
		},
	}

	if err := p.Receive(body); err != nil {
		res.err = err
		return res
	}
	res.err = p.End()
	return res
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - concurrently validate Touchstone (.sNp) files.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

	jobs := *njobs
	if jobs == 0 {
		jobs = uint(runtime.NumCPU())
	}

	filenames := make(chan string, 8+jobs)
	results := make(chan *result, 1+jobs)

	failed := false
	wg1 := sync.WaitGroup{}
	wg1.Add(1)
	go reportResults(&wg1, logger, results, &failed)

	wg2 := sync.WaitGroup{}
	for i := uint(0); i < jobs; i++ {
		wg2.Add(1)
		go checkFiles(&wg2, results, filenames)
	}

	for _, filename := range pflag.Args() {
		filenames <- filename
	}

	close(filenames)
	wg2.Wait()
	close(results)
	wg1.Wait()

	if failed {
		os.Exit(1)
	}
}
