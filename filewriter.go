package streamxml

import (
	"bufio"
	"fmt"
	"os"
)

// FileWriter is a Sink that fans writes out across a fixed set of channels,
// each backed by its own buffered *os.File. Grounded on
// original_source/processor.h's commented-out Writer/Output machinery
// (SPEC_FULL.md §12 supplements it back in, since spec.md's Writer sink
// interface needs at least one concrete realization).
type FileWriter struct {
	outputs []*bufio.Writer
	files   []*os.File
}

// NewFileWriter opens one file per path, in order; path i becomes channel i.
// On any failure, every file already opened is closed before the error is
// returned.
func NewFileWriter(paths ...string) (*FileWriter, error) {
	w := &FileWriter{
		outputs: make([]*bufio.Writer, 0, len(paths)),
		files:   make([]*os.File, 0, len(paths)),
	}
	for _, path := range paths {
		f, err := os.Create(path)
		if err != nil {
			w.Close()
			return nil, err
		}
		w.files = append(w.files, f)
		w.outputs = append(w.outputs, bufio.NewWriterSize(f, bufferGranularity))
	}
	return w, nil
}

// Write implements Sink. channel must be a valid index into the paths
// NewFileWriter was constructed with.
func (w *FileWriter) Write(data []byte, channel int) error {
	if channel < 0 || channel >= len(w.outputs) {
		return fmt.Errorf("streamxml: channel %d out of range (have %d)", channel, len(w.outputs))
	}
	_, err := w.outputs[channel].Write(data)
	return err
}

// Flush flushes every channel's buffered writer.
func (w *FileWriter) Flush() error {
	for _, out := range w.outputs {
		if err := out.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes every channel (best-effort) and closes every underlying
// file, returning the first error encountered, if any.
func (w *FileWriter) Close() error {
	var first error
	for _, out := range w.outputs {
		if err := out.Flush(); err != nil && first == nil {
			first = err
		}
	}
	for _, f := range w.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
