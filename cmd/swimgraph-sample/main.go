package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"git.sr.ht/~whereswaldon/swimgraph/backend"
	"git.sr.ht/~whereswaldon/swimgraph/graph"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: write a random swimgraph dataset
Usage:

 %[1]s > data.json

OR, to watch the graph follow a changing file,

 %[1]s -output data.json -interval 2s &
 swimgraph -data data.json

`, os.Args[0])
	flag.PrintDefaults()
}

func encode(w io.Writer, format string, d graph.Data) error {
	switch format {
	case "json":
		return backend.EncodeJSON(w, d)
	case "csv":
		return backend.EncodeCSV(w, d)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// writeFile replaces name with a fresh dataset in one rename so that
// readers never see a partial file.
func writeFile(name, format string, d graph.Data) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), ".swimgraph-*")
	if err != nil {
		return fmt.Errorf("failed creating temporary file: %w", err)
	}
	if err := encode(tmp, format, d); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed closing temporary file: %w", err)
	}
	return os.Rename(tmp.Name(), name)
}

func main() {
	flag.Usage = usage
	format := flag.String("format", "", "Output format, json or csv (default from the output extension, else json)")
	outputName := flag.String("output", "-", "Output file for the dataset")
	interval := flag.Duration("interval", 0, "Rewrite the output file with new data at this interval (requires -output)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	if *format == "" {
		*format = "json"
		if filepath.Ext(*outputName) == ".csv" {
			*format = "csv"
		}
	}
	r := rand.New(rand.NewSource(*seed))

	if *outputName == "-" {
		if *interval > 0 {
			log.Fatalf("-interval needs an output file")
		}
		if err := encode(os.Stdout, *format, backend.RandomData(r)); err != nil {
			log.Fatalf("failed writing dataset: %v", err)
		}
		return
	}
	if err := writeFile(*outputName, *format, backend.RandomData(r)); err != nil {
		log.Fatalf("failed writing %q: %v", *outputName, err)
	}
	if *interval <= 0 {
		return
	}
	ticker := time.NewTicker(*interval)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer ticker.Stop()
	for {
		select {
		case <-sigChan:
			// We've gotten an interrupt; shut down.
			return
		case <-ticker.C:
			if err := writeFile(*outputName, *format, backend.RandomData(r)); err != nil {
				log.Printf("failed writing %q: %v", *outputName, err)
			}
		}
	}
}
