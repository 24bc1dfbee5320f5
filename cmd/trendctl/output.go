package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// writer emits indented JSON documents to stdout or a file.
type writer struct {
	file *os.File
	out  io.Writer
}

func newWriter(path string, stdout io.Writer) (*writer, error) {
	if path == "" || path == "-" {
		return &writer{out: stdout}, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &writer{file: file, out: file}, nil
}

func (w *writer) write(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (w *writer) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
