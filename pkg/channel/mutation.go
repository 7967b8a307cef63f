package channel

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MutationType classifies a mutation; it selects the marker symbol.
type MutationType string

const (
	Missense   MutationType = "missense"
	Silent     MutationType = "silent"
	Frameshift MutationType = "frameshift"
	SpliceSite MutationType = "splice-site"
	Nonsense   MutationType = "nonsense"
	Insertion  MutationType = "insertion"
	Deletion   MutationType = "deletion"
)

var mutationTypes = []MutationType{Missense, Silent, Frameshift, SpliceSite, Nonsense, Insertion, Deletion}

// MutationTypes returns the types in their fixed ordinal order.
func MutationTypes() []MutationType {
	out := make([]MutationType, len(mutationTypes))
	copy(out, mutationTypes)
	return out
}

// Ordinal is the index of t in MutationTypes, or -1.
func (t MutationType) Ordinal() int {
	for i, mt := range mutationTypes {
		if mt == t {
			return i
		}
	}
	return -1
}

// Display capitalises the type for legends ("Splice-site").
func (t MutationType) Display() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// ParseMutationType accepts any case and "splice site" / "splice_site".
func ParseMutationType(s string) (MutationType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for _, mt := range mutationTypes {
		if MutationType(norm) == mt {
			return mt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMutationType, s)
}

// Phenotypes offered by the entry form; free text is also accepted.
var CommonPhenotypes = []string{"DS", "LO-DS", "FS+", "GEFS+", "GTCS", "DEE", "UEE (Unspecified)"}

// ParsePosition extracts the residue position from a free-text label by
// dropping every non-digit ("L1092P" -> 1092).
func ParsePosition(label string) (int, error) {
	var b strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, &PositionParseError{Label: label}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		return 0, nil
	}
	if len(digits) > 9 {
		return 0, &PositionParseError{Label: label}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &PositionParseError{Label: label}
	}
	return n, nil
}

// Mutation is one user-entered variant placed on the diagram.
type Mutation struct {
	Label     string
	Position  int
	Type      MutationType
	Phenotype string
}

// NewMutation parses label and type and trims the phenotype.
func NewMutation(label, mutationType, phenotype string) (Mutation, error) {
	pos, err := ParsePosition(label)
	if err != nil {
		return Mutation{}, err
	}
	mt, err := ParseMutationType(mutationType)
	if err != nil {
		return Mutation{}, err
	}
	return Mutation{
		Label:     strings.TrimFunc(label, unicode.IsSpace),
		Position:  pos,
		Type:      mt,
		Phenotype: strings.TrimSpace(phenotype),
	}, nil
}

// ColourKey is the palette key for the mutation's phenotype.
func (m Mutation) ColourKey() string {
	return PhenotypeKey(m.Phenotype)
}

// PhenotypeKey is the palette key used for a phenotype swatch.
func PhenotypeKey(phenotype string) string {
	return phenotype + "Colour"
}

// CheckRange rejects positions outside 1..last.
func CheckRange(pos, last int) error {
	if pos < 1 || pos > last {
		return fmt.Errorf("%w: position %d not in 1-%d", ErrOutOfRange, pos, last)
	}
	return nil
}

// ImportRecord is one raw row of a bulk import.
type ImportRecord struct {
	Row         int // 1-based source row, for error reporting
	MutationSeq string
	Type        string
	Phenotype   string
}

// RowError ties an import failure to its source row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// ImportReport summarises a bulk merge.
type ImportReport struct {
	Added    []Mutation
	Skipped  []Mutation // duplicate positions, left untouched
	Rejected []*RowError
}

// MutationSet keeps mutations in entry order with at most one per position.
type MutationSet struct {
	items []Mutation
	index map[int]int
}

// NewMutationSet returns an empty set.
func NewMutationSet() *MutationSet {
	return &MutationSet{index: make(map[int]int)}
}

// Len returns the number of mutations.
func (s *MutationSet) Len() int { return len(s.items) }

// Has reports whether a mutation occupies pos.
func (s *MutationSet) Has(pos int) bool {
	_, ok := s.index[pos]
	return ok
}

// Get returns the mutation at pos.
func (s *MutationSet) Get(pos int) (Mutation, bool) {
	i, ok := s.index[pos]
	if !ok {
		return Mutation{}, false
	}
	return s.items[i], true
}

// All returns a copy of the mutations in entry order.
func (s *MutationSet) All() []Mutation {
	out := make([]Mutation, len(s.items))
	copy(out, s.items)
	return out
}

// Add inserts m unless its position is taken.
func (s *MutationSet) Add(m Mutation) error {
	if s.Has(m.Position) {
		return fmt.Errorf("%w: position %d", ErrDuplicatePosition, m.Position)
	}
	s.index[m.Position] = len(s.items)
	s.items = append(s.items, m)
	return nil
}

// Delete removes the mutation at pos and reports whether one existed.
func (s *MutationSet) Delete(pos int) bool {
	i, ok := s.index[pos]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	return true
}

// Clear empties the set.
func (s *MutationSet) Clear() {
	s.items = nil
	s.index = make(map[int]int)
}

func (s *MutationSet) reindex() {
	s.index = make(map[int]int, len(s.items))
	for i, m := range s.items {
		s.index[m.Position] = i
	}
}

// Merge parses every record and adds the ones at new positions. Existing
// mutations are never overwritten; rows that fail to parse are rejected.
func (s *MutationSet) Merge(records []ImportRecord) ImportReport {
	var rep ImportReport
	for _, rec := range records {
		m, err := NewMutation(rec.MutationSeq, rec.Type, rec.Phenotype)
		if err != nil {
			rep.Rejected = append(rep.Rejected, &RowError{Row: rec.Row, Err: err})
			continue
		}
		if s.Has(m.Position) {
			rep.Skipped = append(rep.Skipped, m)
			continue
		}
		s.index[m.Position] = len(s.items)
		s.items = append(s.items, m)
		rep.Added = append(rep.Added, m)
	}
	return rep
}

// Clone returns an independent copy.
func (s *MutationSet) Clone() *MutationSet {
	c := &MutationSet{items: s.All()}
	c.reindex()
	return c
}

// Phenotypes lists distinct phenotypes in first-seen order.
func (s *MutationSet) Phenotypes() []string {
	return distinct(s.items, func(m Mutation) string { return m.Phenotype })
}

// Types lists distinct mutation types in first-seen order.
func (s *MutationSet) Types() []MutationType {
	names := distinct(s.items, func(m Mutation) string { return string(m.Type) })
	out := make([]MutationType, len(names))
	for i, n := range names {
		out[i] = MutationType(n)
	}
	return out
}

func distinct(ms []Mutation, key func(Mutation) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range ms {
		k := key(m)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
