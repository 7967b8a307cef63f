package channel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Region names used in segment tables.
const (
	RegionCytoplasmic   = "Cytoplasmic"
	RegionExtracellular = "Extracellular"
	RegionPore          = "Pore-forming"
)

// Domain labels in table order.
var DomainLabels = []string{"I", "II", "III", "IV"}

// Range is an inclusive residue interval.
type Range struct {
	Start, End int
}

// Len is End - Start; a single-residue range has length zero.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether pos lies within the range.
func (r Range) Contains(pos int) bool { return pos >= r.Start && pos <= r.End }

// Valid reports whether the range is ordered.
func (r Range) Valid() bool { return r.End >= r.Start }

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

// rangePattern accepts "12-40", "12 – 40" and the mojibake left behind when
// an en dash passes through a Latin-1 round trip.
var rangePattern = regexp.MustCompile(`^\s*(\d+)\s*\x{FFFD}*\s*[-\x{2010}-\x{2015}\x{2212}]\s*\x{FFFD}*\s*(\d+)\s*$`)

// ParseRange parses "<start>-<end>". The end may precede the start; callers
// that need ordered ranges check Valid.
func ParseRange(s string) (Range, error) {
	m := rangePattern.FindStringSubmatch(s)
	if m == nil {
		return Range{}, fmt.Errorf("malformed range %q", s)
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return Range{}, fmt.Errorf("malformed range start %q: %w", m[1], err)
	}
	end, err := strconv.Atoi(m[2])
	if err != nil {
		return Range{}, fmt.Errorf("malformed range end %q: %w", m[2], err)
	}
	return Range{Start: start, End: end}, nil
}

// SegmentRecord is one region of one variant.
type SegmentRecord struct {
	Region      string
	DomainLabel string
	Range       Range
}

// IsLoop reports whether the region is a connecting loop rather than a
// transmembrane segment.
func (r SegmentRecord) IsLoop() bool {
	switch r.Region {
	case RegionCytoplasmic, RegionExtracellular, RegionPore:
		return true
	}
	return false
}

// SegmentIndex returns 0..5 for S1..S6 and -1 for loops.
func (r SegmentRecord) SegmentIndex() int {
	if len(r.Region) == 2 && r.Region[0] == 'S' && r.Region[1] >= '1' && r.Region[1] <= '6' {
		return int(r.Region[1] - '1')
	}
	return -1
}

// TableRow is one raw row of a segment table.
type TableRow struct {
	Region string
	Domain string
	Cells  map[Variant]string
}

// SegmentTable holds the raw rows of a segment lookup table.
type SegmentTable struct {
	Rows []TableRow
}

// NormalizeRegion maps spelling variants onto the canonical region names.
// Unknown names are returned trimmed but otherwise unchanged.
func NormalizeRegion(s string) string {
	t := strings.TrimSpace(s)
	switch strings.ToLower(strings.ReplaceAll(t, " ", "-")) {
	case "cytoplasmic", "cytoplasm", "cytoplasmic-loop":
		return RegionCytoplasmic
	case "extracellular", "extracellular-loop":
		return RegionExtracellular
	case "pore-forming", "pore", "pore-loop":
		return RegionPore
	}
	if len(t) == 2 && (t[0] == 's' || t[0] == 'S') {
		return "S" + t[1:]
	}
	return t
}

// NormalizeDomain accepts "II", "Domain II" or "domain ii".
func NormalizeDomain(s string) string {
	t := strings.TrimSpace(s)
	if len(t) > 6 && strings.EqualFold(t[:6], "domain") {
		t = strings.TrimSpace(t[6:])
	}
	return strings.ToUpper(t)
}

type expectedRegion struct {
	region string
	domain string
}

var domainRegions = []string{
	RegionCytoplasmic, "S1", RegionExtracellular, "S2",
	RegionCytoplasmic, "S3", RegionExtracellular, "S4",
	RegionCytoplasmic, "S5", RegionExtracellular, RegionPore,
	RegionExtracellular, "S6",
}

// DomainsFor lists the domain labels present in a family's topology.
func DomainsFor(f Family) []string {
	if f == Potassium {
		return DomainLabels[:1]
	}
	return DomainLabels
}

func expectedSequence(f Family) []expectedRegion {
	domains := DomainsFor(f)
	var out []expectedRegion
	for _, d := range domains {
		for _, r := range domainRegions {
			out = append(out, expectedRegion{region: r, domain: d})
		}
	}
	return append(out, expectedRegion{region: RegionCytoplasmic, domain: domains[len(domains)-1]})
}

// RecordCount is the number of records a complete table column holds.
func RecordCount(f Family) int {
	return len(expectedSequence(f))
}

// Records extracts and validates the column for v. The returned records are
// in residue order and match the family topology exactly.
func (t *SegmentTable) Records(v Variant) ([]SegmentRecord, error) {
	var recs []SegmentRecord
	for _, row := range t.Rows {
		cell := strings.TrimSpace(row.Cells[v])
		if cell == "" {
			continue
		}
		r, err := ParseRange(cell)
		if err != nil {
			return nil, &DataIntegrityError{Variant: v, Row: len(recs) + 1, Reason: err.Error()}
		}
		recs = append(recs, SegmentRecord{
			Region:      NormalizeRegion(row.Region),
			DomainLabel: NormalizeDomain(row.Domain),
			Range:       r,
		})
	}
	if err := ValidateRecords(v, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ValidateRecords checks that recs describe the topology of v's family with
// ordered, non-overlapping, strictly increasing ranges.
func ValidateRecords(v Variant, recs []SegmentRecord) error {
	want := expectedSequence(v.Family())
	if len(recs) == 0 {
		return &DataIntegrityError{Variant: v, Reason: "no ranges in table"}
	}
	if len(recs) != len(want) {
		return &DataIntegrityError{Variant: v, Reason: fmt.Sprintf("expected %d records, found %d", len(want), len(recs))}
	}
	prevEnd := 0
	for i, rec := range recs {
		if rec.Region != want[i].region || rec.DomainLabel != want[i].domain {
			return &DataIntegrityError{Variant: v, Row: i + 1,
				Reason: fmt.Sprintf("expected %s in domain %s, found %s in domain %s",
					want[i].region, want[i].domain, rec.Region, rec.DomainLabel)}
		}
		if rec.Range.Start < 1 {
			return &DataIntegrityError{Variant: v, Row: i + 1, Reason: fmt.Sprintf("range %s starts before residue 1", rec.Range)}
		}
		if !rec.Range.Valid() {
			return &DataIntegrityError{Variant: v, Row: i + 1, Reason: fmt.Sprintf("range %s ends before it starts", rec.Range)}
		}
		if rec.Range.Start <= prevEnd {
			return &DataIntegrityError{Variant: v, Row: i + 1, Reason: fmt.Sprintf("range %s overlaps previous range ending at %d", rec.Range, prevEnd)}
		}
		prevEnd = rec.Range.End
	}
	return nil
}

// LastResidue is the final residue of a validated record list.
func LastResidue(recs []SegmentRecord) int {
	if len(recs) == 0 {
		return 0
	}
	return recs[len(recs)-1].Range.End
}
