package bibstrip

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drgo/core/tu"
)

func run(t *testing.T, cfg Config, src string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	count, err := New(cfg).Run(context.Background(), strings.NewReader(src), &out)
	tu.Equal(t, err, nil, tu.FailNow)
	return out.String(), count
}

func labels(t *testing.T, out string) []string {
	t.Helper()
	var res []string
	for _, raw := range scanAll(t, out) {
		rec, err := Decompose(raw, nil)
		tu.Equal(t, err, nil, tu.FailNow)
		res = append(res, rec.Label())
	}
	return res
}

func TestRunRemovesURL(t *testing.T) {
	out, count := run(t, DefaultConfig(), "@article{doe2020,\n  author = {Doe},\n  url = {http://x},\n}\n")
	tu.Equal(t, out, "@article{doe2020,\n  author = {Doe}\n}\n\n")
	tu.Equal(t, count, 1)
}

const twoRecords = "@article{zeta2019,\n  year = {2019}\n}\n\n@book{alpha2018,\n  year = {2018}\n}\n"

func TestRunSortsByLabel(t *testing.T) {
	out, count := run(t, DefaultConfig(), twoRecords)
	tu.Equal(t, count, 2)
	tu.Equal(t, strings.Join(labels(t, out), ","), "alpha2018,zeta2019")
}

func TestRunNoSortKeepsOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoSort = true
	out, count := run(t, cfg, twoRecords)
	tu.Equal(t, count, 2)
	tu.Equal(t, strings.Join(labels(t, out), ","), "zeta2019,alpha2018")
}

func TestRunSortIsStable(t *testing.T) {
	src := "@misc{b,\n  n = {1}\n}\n@misc{a,\n  n = {2}\n}\n@misc{b,\n  n = {3}\n}\n"
	out, _ := run(t, DefaultConfig(), src)
	var ns []string
	for _, raw := range scanAll(t, out) {
		rec, err := Decompose(raw, nil)
		tu.Equal(t, err, nil, tu.FailNow)
		ns = append(ns, rec.Label()+rec.Field("n"))
	}
	tu.Equal(t, strings.Join(ns, ","), "a{2},b{1},b{3}")
}

func TestRunEmptyInput(t *testing.T) {
	for _, noSort := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.NoSort = noSort
		out, count := run(t, cfg, "")
		tu.Equal(t, out, "")
		tu.Equal(t, count, 0)
	}
}

func TestRunIdempotent(t *testing.T) {
	once, n1 := run(t, DefaultConfig(), bib1)
	twice, n2 := run(t, DefaultConfig(), once)
	tu.Equal(t, twice, once)
	tu.Equal(t, n1, 2)
	tu.Equal(t, n2, 2)
}

func TestRunRemovalComplete(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RemoveFields = []string{"note", "url", "doi", "impactfactor"}
	out, _ := run(t, cfg, bib1)
	for _, raw := range scanAll(t, out) {
		rec, err := Decompose(raw, nil)
		tu.Equal(t, err, nil, tu.FailNow)
		for _, name := range cfg.RemoveFields {
			tu.Equal(t, rec.Has(name), false)
		}
	}
	tu.Equal(t, strings.Contains(out, "@comment"), false)
	tu.Equal(t, strings.Contains(out, "@string"), false)
}

func TestRunTruncatedRecord(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	var out bytes.Buffer
	count, err := New(DefaultConfig(), WithLogger(logger)).
		Run(context.Background(), strings.NewReader("@misc{a,\n  title = {open\n"), &out)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.Equal(t, count, 1)
	tu.Equal(t, out.String(), "@misc{a,\n  title = {open\n}\n\n")
	tu.Equal(t, strings.Contains(logs.String(), "input ended inside a record"), true)
}

func TestRunSyntaxError(t *testing.T) {
	var out bytes.Buffer
	_, err := New(DefaultConfig()).Run(context.Background(), strings.NewReader("@misc{a,\n  nonsense\n}\n"), &out)
	var synErr *SyntaxError
	tu.Equal(t, errors.As(err, &synErr), true)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig()).Run(ctx, strings.NewReader(twoRecords), new(bytes.Buffer))
	tu.Equal(t, errors.Is(err, context.Canceled), true)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.bib")
	outPath := filepath.Join(dir, "out.bib")
	tu.Equal(t, os.WriteFile(inPath, []byte(twoRecords), 0o644), nil, tu.FailNow)

	in, err := OpenInput(inPath)
	tu.Equal(t, err, nil, tu.FailNow)
	defer in.Close()
	out, err := CreateOutput(outPath)
	tu.Equal(t, err, nil, tu.FailNow)

	count, err := New(DefaultConfig()).Run(context.Background(), in, out)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.Equal(t, out.Close(), nil)
	tu.Equal(t, Summary(count, in, out), "2 entries read from "+inPath+" and written to "+outPath)

	b, err := os.ReadFile(outPath)
	tu.Equal(t, err, nil, tu.FailNow)
	tu.Equal(t, strings.HasPrefix(string(b), "@book{alpha2018,\n"), true)
}
