package sidebyside

import "fmt"

// Stats counts the rows of a diff by kind.
type Stats struct {
	Equal    int
	Deleted  int
	Inserted int
	Replaced int
}

// Count returns the statistics of rows.
func Count(rows []Row) Stats {
	var s Stats
	for _, r := range rows {
		switch r.Op {
		case Equal:
			s.Equal++
		case Delete:
			s.Deleted++
		case Insert:
			s.Inserted++
		case Replace:
			s.Replaced++
		}
	}
	return s
}

// Total returns the number of rows.
func (s Stats) Total() int { return s.Equal + s.Deleted + s.Inserted + s.Replaced }

// Changed reports whether any row differs between the two sides.
func (s Stats) Changed() bool { return s.Deleted+s.Inserted+s.Replaced > 0 }

func (s Stats) String() string {
	return fmt.Sprintf("%d equal, %d deleted, %d inserted, %d replaced", s.Equal, s.Deleted, s.Inserted, s.Replaced)
}
