package entity

// Snapshot is one full read of the monitored feed: a named column schema
// plus rows aligned to it. All values are kept as strings, exactly as the
// feed file carries them.
type Snapshot struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of a named column, or -1 if the
// snapshot does not carry it.
func (s *Snapshot) ColumnIndex(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len returns the number of rows in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}
