package bibstrip

import (
	"fmt"
	"sort"
)

// Sort orders the records of f by label, ascending. Records with equal
// labels keep their relative order.
func Sort(f *File) error {
	if f == nil {
		return fmt.Errorf("nothing to sort")
	}
	recs := f.Records
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Label() < recs[j].Label()
	})
	return nil
}
