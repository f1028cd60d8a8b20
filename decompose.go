package bibstrip

import (
	"fmt"
	"sort"
	"strings"
)

// FieldSet is a set of field names matched case-sensitively.
type FieldSet map[string]struct{}

// ParseFieldList parses a comma-separated list of field names. Entries are
// trimmed and empty entries dropped.
func ParseFieldList(list string) FieldSet {
	return NewFieldSet(strings.Split(list, ",")...)
}

func NewFieldSet(names ...string) FieldSet {
	set := make(FieldSet, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

func (set FieldSet) Contains(name string) bool {
	_, ok := set[name]
	return ok
}

// Names returns the set members sorted.
func (set FieldSet) Names() []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (set FieldSet) String() string {
	return strings.Join(set.Names(), ",")
}

// SyntaxError reports a record that cannot be split into fields.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parsing error at %d: %s", e.Line, e.Msg)
}

// Decompose turns the lines of one record into a Record, dropping fields
// found in remove. Fields whose value spans several lines are joined with
// single spaces. Keys containing whitespace are dropped as well.
func Decompose(raw RawRecord, remove FieldSet) (*Record, error) {
	if len(raw.Lines) == 0 {
		return nil, &SyntaxError{Line: raw.Line, Msg: "empty record"}
	}
	head, label, found := strings.Cut(raw.Lines[0], string(LBRACE))
	if !found {
		return nil, &SyntaxError{Line: raw.Line, Msg: "{ is missing"}
	}
	typ := strings.TrimSpace(head)
	if len(typ) > 0 {
		typ = typ[1:] // drop @
	}
	rec := NewRecord(strings.TrimSpace(typ), trimValue(label))
	rec.line = raw.Line

	var (
		depth   = 1 // the brace opened on the @ line
		skip    bool
		current string
	)
	for i, line := range raw.Lines[1:] {
		lineNum := raw.Line + i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}
		if depth != 1 {
			// continuation of a multi-line value
			depth += braceBalance(line)
			if !skip {
				text := strings.TrimSpace(line)
				if depth == 1 {
					// value closed on this line
					text = trimValue(text)
				}
				rec.appendValue(current, text)
			}
			if depth <= 0 {
				break
			}
			continue
		}
		depth += braceBalance(line)
		if depth <= 0 {
			break
		}
		key, value, found := strings.Cut(line, string(EQUAL))
		if !found {
			return rec, &SyntaxError{Line: lineNum, Msg: "= is missing"}
		}
		key = strings.TrimSpace(key)
		if remove.Contains(key) || len(strings.Fields(key)) > 1 {
			skip = true
			rec.dropped = append(rec.dropped, key)
			continue
		}
		skip = false
		current = key
		rec.set(key, trimValue(value), lineNum)
	}
	return rec, nil
}

// trimValue trims surrounding space and trailing commas.
func trimValue(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), string(COMMA))
}
