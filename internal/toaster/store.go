package toaster

import "github.com/hay-kot/toasty/internal/core/toast"

// store is the ordered set of active records. Insertion order is the
// stacking order within a position, oldest first. Removals never reorder
// the survivors.
type store struct {
	records []toast.Record
}

func (s *store) add(rec toast.Record) toast.Record {
	s.records = append(s.records, rec)
	return rec
}

// remove deletes the record with the given id. Removing an absent id is a
// no-op that reports false.
func (s *store) remove(id toast.ID) (toast.Record, bool) {
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return r, true
		}
	}
	return toast.Record{}, false
}

// clearGroup removes every record at p and returns them in stacking order.
func (s *store) clearGroup(p toast.Position) []toast.Record {
	var removed []toast.Record
	kept := make([]toast.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.Position == p {
			removed = append(removed, r)
			continue
		}
		kept = append(kept, r)
	}
	if len(removed) > 0 {
		s.records = kept
	}
	return removed
}

func (s *store) group(p toast.Position) []toast.Record {
	var out []toast.Record
	for _, r := range s.records {
		if r.Position == p {
			out = append(out, r)
		}
	}
	return out
}

// list returns a copy of the records in insertion order.
func (s *store) list() []toast.Record {
	out := make([]toast.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *store) len() int {
	return len(s.records)
}
