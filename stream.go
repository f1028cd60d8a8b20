package bibstrip

import (
	"fmt"
	"io"
	"os"
)

// Names reported for the process's own streams.
const (
	StdinName  = "stdin"
	StdoutName = "stdout"
)

// Stream is an input or output acquired for one run. Streams that wrap the
// process's standard input or output are not closed by Close, so they stay
// usable afterwards.
type Stream struct {
	name   string
	r      io.Reader
	w      io.Writer
	closer io.Closer // nil for standard streams
}

// OpenInput opens path for reading. An empty path or "-" selects standard
// input.
func OpenInput(path string) (*Stream, error) {
	if path == "" || path == "-" {
		return &Stream{name: StdinName, r: os.Stdin}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %q: %w", path, err)
	}
	if fi, err := f.Stat(); err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to open %q: %w", path, err)
	} else if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q is a directory, not a file", path)
	}
	return &Stream{name: path, r: f, closer: f}, nil
}

// CreateOutput creates or truncates path for writing. An empty path or "-"
// selects standard output.
func CreateOutput(path string) (*Stream, error) {
	if path == "" || path == "-" {
		return &Stream{name: StdoutName, w: os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %q for writing: %w", path, err)
	}
	return &Stream{name: path, w: f, closer: f}, nil
}

// NewStream wraps r or w under name without taking ownership.
func NewStream(name string, r io.Reader, w io.Writer) *Stream {
	return &Stream{name: name, r: r, w: w}
}

func (s *Stream) Name() string {
	return s.name
}

func (s *Stream) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, fmt.Errorf("%s is not open for reading", s.name)
	}
	return s.r.Read(p)
}

func (s *Stream) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, fmt.Errorf("%s is not open for writing", s.name)
	}
	return s.w.Write(p)
}

// Close releases a file stream. It is a no-op for standard streams.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// Summary returns the line reported after a run.
func Summary(count int, in, out *Stream) string {
	return fmt.Sprintf("%d entries read from %s and written to %s", count, in.Name(), out.Name())
}
