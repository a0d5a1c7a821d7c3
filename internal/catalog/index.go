package catalog

import (
	"sort"
	"strings"
)

// Index is the immutable, queryable view over a parsed catalog. It is
// built in one pass and published only when fully constructed, so query
// methods need no locking.
type Index struct {
	byID    map[int]*Record
	ordered []Record // insertion order, backs name search
	byMag   []*Record
	named   []*Record
}

// NewIndex builds an Index from parsed records. The input slice is copied;
// callers may discard it afterwards.
func NewIndex(records []Record) *Index {
	idx := &Index{
		byID:    make(map[int]*Record, len(records)),
		ordered: make([]Record, len(records)),
		byMag:   make([]*Record, 0, len(records)),
	}
	copy(idx.ordered, records)
	for i := range idx.ordered {
		rec := &idx.ordered[i]
		idx.byID[rec.ID] = rec
		idx.byMag = append(idx.byMag, rec)
		if rec.HasName() {
			idx.named = append(idx.named, rec)
		}
	}
	lessByMag := func(s []*Record) func(i, j int) bool {
		return func(i, j int) bool {
			if s[i].Magnitude != s[j].Magnitude {
				return s[i].Magnitude < s[j].Magnitude
			}
			return s[i].ID < s[j].ID
		}
	}
	sort.SliceStable(idx.byMag, lessByMag(idx.byMag))
	sort.SliceStable(idx.named, lessByMag(idx.named))
	return idx
}

// ByID returns the record with the given id, if present.
func (idx *Index) ByID(id int) (Record, bool) {
	rec, ok := idx.byID[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// ByMagnitudeRange returns all records with min <= magnitude <= max,
// ascending by magnitude with ties broken by ascending id. An empty result
// is not an error.
func (idx *Index) ByMagnitudeRange(min, max float64) []Record {
	lo := sort.Search(len(idx.byMag), func(i int) bool {
		return idx.byMag[i].Magnitude >= min
	})
	out := []Record{}
	for i := lo; i < len(idx.byMag) && idx.byMag[i].Magnitude <= max; i++ {
		out = append(out, *idx.byMag[i])
	}
	return out
}

// SearchByName returns records whose proper name contains the query,
// case-insensitively, in catalog insertion order.
func (idx *Index) SearchByName(query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Record{}
	if q == "" {
		return out
	}
	for i := range idx.ordered {
		if !idx.ordered[i].HasName() {
			continue
		}
		if strings.Contains(strings.ToLower(idx.ordered[i].ProperName), q) {
			out = append(out, idx.ordered[i])
		}
	}
	return out
}

// NamedStars returns every record with a proper name, brightest first.
func (idx *Index) NamedStars() []Record {
	out := make([]Record, len(idx.named))
	for i, rec := range idx.named {
		out[i] = *rec
	}
	return out
}

// Total returns the number of indexed records.
func (idx *Index) Total() int {
	return len(idx.ordered)
}
