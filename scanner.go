package bibstrip

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

const (
	LBRACE byte = '{'
	RBRACE byte = '}'
	COMMA  byte = ','
	EQUAL  byte = '='
	AT     byte = '@'
)

// RawRecord holds the physical lines of one record, from its @ line through
// the line that closes its outermost brace group.
type RawRecord struct {
	Lines []string
	// Line is the 1-based line number of Lines[0] in the input.
	Line int
	// Truncated is set when the input ended before the braces balanced.
	Truncated bool
}

// Scanner splits a BibTeX stream into raw records. Text outside records
// (implicit comments) and @comment, @preamble and @string records are
// skipped.
type Scanner struct {
	r         *bufio.Reader
	rawBuffer []byte // used for lines longer than the reader buffer
	lineNum   int
	done      bool
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, 4096)}
}

// LineNum returns the number of lines read so far.
func (s *Scanner) LineNum() int {
	return s.lineNum
}

// readLine reads the next line without the trailing end-of-line marker(s).
// If some bytes were read, then the error is never io.EOF.
// The result is only valid until the next call to readLine.
func (s *Scanner) readLine() ([]byte, error) {
	line, err := s.r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		s.rawBuffer = append(s.rawBuffer[:0], line...)
		for err == bufio.ErrBufferFull {
			line, err = s.r.ReadSlice('\n')
			s.rawBuffer = append(s.rawBuffer, line...)
		}
		line = s.rawBuffer
	}
	readSize := len(line)
	if readSize == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	if err == io.EOF {
		err = nil
	}
	s.lineNum++
	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	return line, err
}

// Next returns the next record or io.EOF when none remain. Any other error
// comes from the underlying reader.
func (s *Scanner) Next() (RawRecord, error) {
	for !s.done {
		raw, err := s.next()
		if err != nil {
			if err == io.EOF {
				s.done = true
			}
			return RawRecord{}, err
		}
		if raw.Truncated {
			s.done = true
		}
		if isIgnoredType(entryType(raw.Lines[0])) {
			continue
		}
		return raw, nil
	}
	return RawRecord{}, io.EOF
}

func (s *Scanner) next() (RawRecord, error) {
	var (
		raw   RawRecord
		depth int
	)
	inRecord := false
	for {
		line, err := s.readLine()
		if err == io.EOF {
			if !inRecord {
				return RawRecord{}, io.EOF
			}
			raw.Truncated = true
			return raw, nil
		}
		if err != nil {
			return RawRecord{}, err
		}
		if !inRecord {
			if len(line) == 0 || line[0] != AT {
				// junk before a record
				continue
			}
			inRecord = true
			raw.Line = s.lineNum
		}
		raw.Lines = append(raw.Lines, string(line))
		depth += braceBalance(line)
		if depth <= 0 {
			return raw, nil
		}
	}
}

// braceBalance returns the count of { minus the count of } in line. Braces
// are counted wherever they occur, including inside field values.
func braceBalance[T string | []byte](line T) int {
	n := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case LBRACE:
			n++
		case RBRACE:
			n--
		}
	}
	return n
}

// entryType returns the lower-cased record type of an @ line.
func entryType(line string) string {
	typ, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(line), "@"), "{")
	return strings.ToLower(strings.TrimSpace(typ))
}

func isIgnoredType(typ string) bool {
	return typ == "comment" || typ == "preamble" || typ == "string"
}
