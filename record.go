package bigbed

import "fmt"

// Record is one interval annotation decoded from a data block: the
// chromosome it belongs to, its [Start, End) range in bases, and the
// opaque rest-of-line that follows. Invariant: Start <= End <= the
// Size of the chromosome named by Name.
type Record struct {
	Name  string
	Start uint32
	End   uint32
	Rest  string
}

// String renders a Record as "name\tstart\tend\trest\n", the textual
// form spec.md §4.7 specifies.
func (rec Record) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%s\n", rec.Name, rec.Start, rec.End, rec.Rest)
}
