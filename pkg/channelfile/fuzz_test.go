package channelfile

import (
	"bytes"
	"testing"

	"github.com/ha1tch/chanmap/pkg/channel"
)

func FuzzParseSegmentTable(f *testing.F) {
	f.Add(defaultTableCSV)
	f.Add([]byte("region,domain,scn1a\nCytoplasmic,I,1-10\n"))
	f.Add([]byte("region,domain,kcnq2\n\"unterminated"))
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, data []byte) {
		table, err := ParseSegmentTable(bytes.NewReader(data))
		if err != nil {
			return
		}
		// Records must either validate or fail cleanly.
		for _, v := range channel.Variants() {
			_, _ = table.Records(v)
		}
	})
}

func FuzzReadMutationsCSV(f *testing.F) {
	f.Add([]byte("mutationSeq,type,phenotype\nL1092P,missense,DS\n"))
	f.Add([]byte("a,b\n1\n"))
	f.Fuzz(func(t *testing.T, data []byte) {
		recs, err := ReadMutationsCSV(bytes.NewReader(data))
		if err != nil {
			return
		}
		s := channel.NewMutationSet()
		s.Merge(recs)
		s.Merge(recs)
		seen := make(map[int]bool)
		for _, m := range s.All() {
			if seen[m.Position] {
				t.Fatalf("duplicate position %d after merge", m.Position)
			}
			seen[m.Position] = true
		}
	})
}
