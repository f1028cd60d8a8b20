package bibstrip

// Reserved keys synthesized from a record's opening line. They are always
// the first two entries of a Record.
const (
	KeyEntryType = "entry_type"
	KeyLabel     = "label"
)

// File is an ordered collection of records read from one input.
type File struct {
	Records []*Record
	name    string
}

func newFile(name string) *File {
	return &File{name: name}
}

func (f *File) AddRecord(rec *Record) {
	f.Records = append(f.Records, rec)
}

func (f *File) RecordCount() int {
	return len(f.Records)
}

func (f *File) Name() string {
	return f.name
}

// Record is an ordered field map. Keys keep first-seen order and setting an
// existing key overwrites its value in place.
type Record struct {
	fields  []Field
	index   map[string]int
	line    int // line number of the opening @ line
	// dropped lists the keys left out while decomposing, in input order.
	dropped []string
}

// NewRecord returns a record holding only the two reserved keys.
func NewRecord(entryType, label string) *Record {
	rec := &Record{index: make(map[string]int, 8)}
	rec.Set(KeyEntryType, entryType)
	rec.Set(KeyLabel, label)
	return rec
}

func (rec *Record) Line() int {
	return rec.line
}

// Type returns the entry type, e.g. "article".
func (rec *Record) Type() string {
	return rec.Field(KeyEntryType)
}

// Label returns the citation key.
func (rec *Record) Label() string {
	return rec.Field(KeyLabel)
}

// Field returns the value stored under fieldName or "" if absent.
func (rec *Record) Field(fieldName string) string {
	if i, ok := rec.index[fieldName]; ok {
		return rec.fields[i].value
	}
	return ""
}

func (rec *Record) Has(fieldName string) bool {
	_, ok := rec.index[fieldName]
	return ok
}

func (rec *Record) Set(key, value string) {
	rec.set(key, value, 0)
}

func (rec *Record) set(key, value string, line int) {
	if i, ok := rec.index[key]; ok {
		rec.fields[i].value = value
		return
	}
	rec.index[key] = len(rec.fields)
	rec.fields = append(rec.fields, Field{key: key, value: value, line: line})
}

// appendValue joins text to the value of key with a single space.
func (rec *Record) appendValue(key, text string) {
	if i, ok := rec.index[key]; ok {
		rec.fields[i].value += " " + text
	}
}

// Dropped returns the keys removed from the record while it was parsed.
func (rec *Record) Dropped() []string {
	return rec.dropped
}

// Len returns the number of keys including the reserved ones.
func (rec *Record) Len() int {
	return len(rec.fields)
}

// Keys returns all keys in order, starting with entry_type and label.
func (rec *Record) Keys() []string {
	keys := make([]string, len(rec.fields))
	for i, fld := range rec.fields {
		keys[i] = fld.key
	}
	return keys
}

// Fields returns the non-reserved fields in order.
func (rec *Record) Fields() []Field {
	res := make([]Field, 0, len(rec.fields))
	for _, fld := range rec.fields {
		if fld.key == KeyEntryType || fld.key == KeyLabel {
			continue
		}
		res = append(res, fld)
	}
	return res
}

type Field struct {
	key   string // name of field
	value string // value of field, possibly joined from several lines
	line  int
}

func (fld Field) Line() int {
	return fld.line
}

func (fld Field) Key() string {
	return fld.key
}

func (fld Field) Value() string {
	return fld.value
}
