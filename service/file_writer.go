package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/codepulse/codepulse/domain"
)

// FileWriter routes a report to a file when an output path is set, or to
// the fallback writer otherwise.
type FileWriter struct {
	status io.Writer
}

// NewFileWriter creates a file writer. Status messages go to status,
// typically stderr.
func NewFileWriter(status io.Writer) *FileWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileWriter{status: status}
}

// Write invokes writeFunc with the resolved destination. When writing to
// a file, a status line with the absolute path is printed afterwards.
func (w *FileWriter) Write(fallback io.Writer, outputPath string, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		return writeFunc(fallback)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
	}
	defer file.Close()

	if err := writeFunc(file); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}
	fmt.Fprintf(w.status, "Report written: %s\n", absPath)

	return nil
}
