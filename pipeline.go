package bibstrip

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DefaultRemoveFields lists the fields dropped when none are configured.
const DefaultRemoveFields = "abstract,file,note,url,urldate"

// Config selects what a Pipeline removes and how it orders its output.
type Config struct {
	// RemoveFields lists field names to drop.
	RemoveFields []string `mapstructure:"remove_fields" yaml:"remove_fields"`
	// NoSort preserves input order instead of sorting by label.
	NoSort bool `mapstructure:"no_sort" yaml:"no_sort"`
	// Indent is written before each field line.
	Indent string `mapstructure:"indent" yaml:"indent"`
}

func DefaultConfig() Config {
	return Config{
		RemoveFields: ParseFieldList(DefaultRemoveFields).Names(),
		Indent:       DefaultIndent,
	}
}

// Pipeline reads records, strips fields and writes the records back.
type Pipeline struct {
	remove  FieldSet
	noSort  bool
	printer Printer
	logger  *slog.Logger
}

type Option func(*Pipeline)

// WithLogger sets the logger used for per-record diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		remove:  NewFieldSet(cfg.RemoveFields...),
		noSort:  cfg.NoSort,
		printer: Printer{Indent: cfg.Indent},
		logger:  slog.New(discardHandler{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// sink receives decoded records. In streaming mode records are written as
// they arrive; in sort mode they are held until flush.
type sink interface {
	put(rec *Record) error
	flush() (int, error)
}

type streamSink struct {
	w       *bufio.Writer
	printer Printer
	count   int
}

func (s *streamSink) put(rec *Record) error {
	if err := s.printer.Fprint(s.w, rec); err != nil {
		return err
	}
	s.count++
	return nil
}

func (s *streamSink) flush() (int, error) {
	return s.count, nil
}

type sortSink struct {
	w       *bufio.Writer
	printer Printer
	file    *File
}

func (s *sortSink) put(rec *Record) error {
	s.file.AddRecord(rec)
	return nil
}

func (s *sortSink) flush() (int, error) {
	if err := Sort(s.file); err != nil {
		return 0, err
	}
	if err := s.printer.Fprint(s.w, s.file); err != nil {
		return 0, err
	}
	return s.file.RecordCount(), nil
}

// Run copies every record from r to w and returns the number of records
// written. ctx is checked between records. On error w may hold a partial
// result.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var out sink
	if p.noSort {
		out = &streamSink{w: bw, printer: p.printer}
	} else {
		out = &sortSink{w: bw, printer: p.printer, file: newFile(nameOf(r))}
	}
	sc := NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		raw, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("unable to read input: %w", err)
		}
		if raw.Truncated {
			p.logger.Warn("input ended inside a record", "line", raw.Line)
		}
		rec, err := Decompose(raw, p.remove)
		if err != nil {
			return 0, err
		}
		if dropped := rec.Dropped(); len(dropped) > 0 {
			p.logger.Debug("fields dropped", "label", rec.Label(), "line", rec.Line(), "fields", dropped)
		}
		if err := out.put(rec); err != nil {
			return 0, fmt.Errorf("unable to write output: %w", err)
		}
	}
	count, err := out.flush()
	if err != nil {
		return 0, fmt.Errorf("unable to write output: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("unable to write output: %w", err)
	}
	p.logger.Debug("run complete", "records", count, "lines", sc.LineNum(), "sorted", !p.noSort)
	return count, nil
}

func nameOf(r io.Reader) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

// discardHandler drops all log records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }

func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h discardHandler) WithGroup(string) slog.Handler { return h }
