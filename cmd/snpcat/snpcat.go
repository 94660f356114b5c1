// Command snpcat decodes one or more Touchstone files and prints
// their sweep axis and parameter summary to stdout.
package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/entrope/touchstone/touchstone"
)

var verbose = pflag.BoolP("verbose", "v", false, "log per-sweep detail as it is decoded")

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - dump Touchstone (.sNp) files to stdout.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	status := 0
	for _, filename := range pflag.Args() {
		if err := catOne(logger, filename); err != nil {
			logger.Error("decode failed", "file", filename, "err", err)
			status = 1
		}
	}
	os.Exit(status)
}

func catOne(logger *log.Logger, filename string) error {
	if _, err := touchstone.Match(filename); err != nil {
		logger.Warn("filename does not look like Touchstone", "file", filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	p := &touchstone.Parser{
		OnReference: func(ohms []float64) error {
			logger.Debug("reference", "file", filename, "ohms", ohms)
			fmt.Printf("%s: reference = %v\n", filename, ohms)
			return nil
		},
		OnFrequency: func(hz []float64) error {
			logger.Debug("frequency axis", "file", filename, "points", len(hz))
			fmt.Printf("%s: %s sweep of %d points, %g-%g Hz\n",
				filename, touchstone.PacketFrequency, len(hz), hz[0], hz[len(hz)-1])
			return nil
		},
		OnParameters: func(kind touchstone.ParameterKind, numPorts int, data []float64) error {
			fmt.Printf("%s: %d-port %s-parameters, %d values\n", filename, numPorts, kind, len(data))
			return nil
		},
		OnNoise: func(data []float64) error {
			fmt.Printf("%s: noise data, %d points\n", filename, len(data)/5)
			return nil
		},
		OnWarning: func(msg string) {
			logger.Warn(msg, "file", filename)
		},
		OnFrameBegin: func() error {
			fmt.Printf("%s: ---\n", filename)
			return nil
		},
		OnFrameEnd: func() error {
			fmt.Printf("%s: ===\n", filename)
			return nil
		},
	}

	if err := p.Receive(bytes.TrimRight(body, "\x00")); err != nil {
		return err
	}
	return p.End()
}
