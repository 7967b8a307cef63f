package channelfile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ha1tch/chanmap/pkg/channel"
)

func sampleMutations(t *testing.T) []channel.Mutation {
	t.Helper()
	var out []channel.Mutation
	for _, r := range [][3]string{
		{"L1092P", "Missense", "DS"},
		{"R85W", "Splice-site", "GEFS+"},
		{"Q1450*", "Nonsense", "UEE (Unspecified)"},
	} {
		m, err := channel.NewMutation(r[0], r[1], r[2])
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, m)
	}
	return out
}

func mergeAll(t *testing.T, recs []channel.ImportRecord) []channel.Mutation {
	t.Helper()
	s := channel.NewMutationSet()
	rep := s.Merge(recs)
	if len(rep.Rejected) > 0 {
		t.Fatalf("rejected rows: %v", rep.Rejected)
	}
	return s.All()
}

func TestMutationsRoundTrip(t *testing.T) {
	want := sampleMutations(t)
	for _, ext := range []string{".xlsx", ".csv", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "table"+ext)
			if err := WriteMutationsFile(path, want); err != nil {
				t.Fatalf("write: %v", err)
			}
			recs, err := ReadMutationsFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			got := mergeAll(t, recs)
			if len(got) != len(want) {
				t.Fatalf("got %d mutations, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("mutation %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestReadMutationsCSVHeaderOrder(t *testing.T) {
	src := "phenotype,mutationSeq,type\nDS,L1092P,missense\n,,\nFS+,A5T,silent\n"
	recs, err := ReadMutationsCSV(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].MutationSeq != "L1092P" || recs[0].Phenotype != "DS" || recs[0].Row != 2 {
		t.Errorf("record 0 = %+v", recs[0])
	}
	if recs[1].Row != 4 {
		t.Errorf("record 1 row = %d, want 4", recs[1].Row)
	}
}

func TestReadMutationsCSVWithoutHeader(t *testing.T) {
	recs, err := ReadMutationsCSV(strings.NewReader("L1092P,missense,DS\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Type != "missense" || recs[0].Row != 1 {
		t.Errorf("records = %+v", recs)
	}
}

func TestWriteMutationsXLSXReadable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMutationsXLSX(&buf, sampleMutations(t)); err != nil {
		t.Fatal(err)
	}
	recs, err := ReadMutationsXLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || recs[1].Type != "Splice-site" {
		t.Errorf("records = %+v", recs)
	}
}

func TestTableFileName(t *testing.T) {
	if got := TableFileName(channel.SCN2A); got != "scn2a-variant-map.xlsx" {
		t.Errorf("TableFileName = %q", got)
	}
}
