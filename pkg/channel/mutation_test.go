package channel

import (
	"errors"
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		label   string
		want    int
		wantErr bool
	}{
		{"L1092P", 1092, false},
		{"p.Arg1648His", 1648, false},
		{"  R 85 W ", 85, false},
		{"007", 7, false},
		{"c.123+1G>A", 1231, false},
		{"del", 0, true},
		{"", 0, true},
		{"12345678901234", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePosition(tt.label)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePosition(%q) error = %v, wantErr %v", tt.label, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			var pe *PositionParseError
			if !errors.As(err, &pe) {
				t.Errorf("ParsePosition(%q) error type = %T", tt.label, err)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePosition(%q) = %d, want %d", tt.label, got, tt.want)
		}
	}
}

func TestParseMutationType(t *testing.T) {
	tests := map[string]MutationType{
		"Missense":    Missense,
		"SILENT":      Silent,
		"splice site": SpliceSite,
		"Splice_Site": SpliceSite,
		" deletion ":  Deletion,
	}
	for in, want := range tests {
		got, err := ParseMutationType(in)
		if err != nil || got != want {
			t.Errorf("ParseMutationType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMutationType("duplication"); !errors.Is(err, ErrUnknownMutationType) {
		t.Errorf("expected ErrUnknownMutationType, got %v", err)
	}
	if SpliceSite.Display() != "Splice-site" {
		t.Errorf("Display = %q", SpliceSite.Display())
	}
	if Deletion.Ordinal() != 6 || MutationType("x").Ordinal() != -1 {
		t.Error("unexpected ordinals")
	}
}

func TestMutationSetAddDelete(t *testing.T) {
	s := NewMutationSet()
	m1, _ := NewMutation("L1092P", "Missense", "DS")
	m2, _ := NewMutation("R85W", "nonsense", "GEFS+")
	if err := s.Add(m1); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(m2); err != nil {
		t.Fatal(err)
	}
	dup, _ := NewMutation("A1092T", "silent", "FS+")
	if err := s.Add(dup); !errors.Is(err, ErrDuplicatePosition) {
		t.Errorf("expected ErrDuplicatePosition, got %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if !s.Delete(1092) {
		t.Fatal("Delete(1092) = false")
	}
	if s.Delete(1092) {
		t.Error("second Delete(1092) should report false")
	}
	if got, ok := s.Get(85); !ok || got.Label != "R85W" {
		t.Errorf("Get(85) = %+v, %v", got, ok)
	}
	if err := s.Add(dup); err != nil {
		t.Errorf("position should be free after delete: %v", err)
	}
}

func TestMutationSetMergeIdempotent(t *testing.T) {
	s := NewMutationSet()
	batch := []ImportRecord{
		{Row: 2, MutationSeq: "L1092P", Type: "Missense", Phenotype: "DS"},
		{Row: 3, MutationSeq: "no digits", Type: "Missense", Phenotype: "DS"},
		{Row: 4, MutationSeq: "G200R", Type: "mystery", Phenotype: "DS"},
		{Row: 5, MutationSeq: "Q1093*", Type: "Nonsense", Phenotype: "DEE"},
	}
	rep := s.Merge(batch)
	if len(rep.Added) != 2 || len(rep.Rejected) != 2 || len(rep.Skipped) != 0 {
		t.Fatalf("first merge: added %d rejected %d skipped %d", len(rep.Added), len(rep.Rejected), len(rep.Skipped))
	}
	if rep.Rejected[0].Row != 3 {
		t.Errorf("rejected row = %d, want 3", rep.Rejected[0].Row)
	}
	var pe *PositionParseError
	if !errors.As(rep.Rejected[0], &pe) {
		t.Errorf("rejected error should unwrap to PositionParseError: %v", rep.Rejected[0])
	}

	rep = s.Merge(batch)
	if len(rep.Added) != 0 || len(rep.Skipped) != 2 {
		t.Errorf("second merge: added %d skipped %d", len(rep.Added), len(rep.Skipped))
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestMutationSetMergeNeverOverwrites(t *testing.T) {
	s := NewMutationSet()
	orig, _ := NewMutation("L1092P", "Missense", "DS")
	_ = s.Add(orig)
	s.Merge([]ImportRecord{{Row: 1, MutationSeq: "X1092Y", Type: "Deletion", Phenotype: "GTCS"}})
	got, _ := s.Get(1092)
	if got != orig {
		t.Errorf("import overwrote mutation: %+v", got)
	}
}

func TestMutationSetDistinct(t *testing.T) {
	s := NewMutationSet()
	s.Merge([]ImportRecord{
		{MutationSeq: "A1", Type: "missense", Phenotype: "DS"},
		{MutationSeq: "A2", Type: "silent", Phenotype: "FS+"},
		{MutationSeq: "A3", Type: "missense", Phenotype: "DS"},
	})
	if got := s.Phenotypes(); len(got) != 2 || got[0] != "DS" || got[1] != "FS+" {
		t.Errorf("Phenotypes = %v", got)
	}
	if got := s.Types(); len(got) != 2 || got[0] != Missense {
		t.Errorf("Types = %v", got)
	}
	c := s.Clone()
	c.Delete(1)
	if !s.Has(1) {
		t.Error("Clone shares state with original")
	}
}

func TestCheckRange(t *testing.T) {
	if err := CheckRange(10, 10); err != nil {
		t.Errorf("CheckRange(10, 10) = %v", err)
	}
	for _, pos := range []int{0, 11} {
		if err := CheckRange(pos, 10); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("CheckRange(%d, 10) = %v, want ErrOutOfRange", pos, err)
		}
	}
}
