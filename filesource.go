package streamxml

import (
	"bufio"
	"io"
	"os"
)

// FileSource is a ByteSource backed by an os.File, buffered through
// bufio.Reader so that Refill calls translate into large underlying reads
// rather than one syscall per refill. Grounded on
// original_source/processor.cpp's loadNextChunk (fopen + setvbuf) and on
// the buffered-reader idiom used throughout the example pack for file
// input.
type FileSource struct {
	file   *os.File
	reader *bufio.Reader
}

// OpenFile opens path for reading and wraps it in a FileSource. A failed
// open is returned as os.Open's error; OpenFile does not touch any Parser
// (BindFile is the variant that records ErrOpenFailed on one).
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewFileSource(f), nil
}

// NewFileSource wraps an already-open file. The FileSource takes ownership
// and closes it on Close.
func NewFileSource(f *os.File) *FileSource {
	return &FileSource{file: f, reader: bufio.NewReaderSize(f, bufferGranularity)}
}

// Refill implements ByteSource.
func (s *FileSource) Refill(dst []byte) (int, error) {
	n, err := s.reader.Read(dst)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	return s.file.Close()
}

// BindFile is a convenience combining OpenFile and Parser.Bind, returning
// the FileSource so the caller can Close it once done (the Parser does not
// own the FileSource's lifetime). If the file cannot be opened, p is left
// unbound, at End, with Err() == ErrOpenFailed, and the open error is
// returned.
func BindFile(p *Parser, path string) (*FileSource, error) {
	src, err := OpenFile(path)
	if err != nil {
		p.Bind(nil)
		p.fail(ErrOpenFailed)
		return nil, err
	}
	p.Bind(src)
	return src, nil
}
