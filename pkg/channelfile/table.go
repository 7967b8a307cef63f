// Package channelfile reads and writes the files the diagram consumes:
// segment lookup tables and mutation lists.
package channelfile

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ha1tch/chanmap/pkg/channel"
)

//go:embed data/mapping-lookup.csv
var defaultTableCSV []byte

var (
	defaultOnce  sync.Once
	defaultTable *channel.SegmentTable
	defaultErr   error
)

// DefaultSegmentTable returns the built-in lookup table covering every
// supported variant. The table is parsed once.
func DefaultSegmentTable() (*channel.SegmentTable, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = ParseSegmentTable(bytes.NewReader(defaultTableCSV))
	})
	return defaultTable, defaultErr
}

// ReadSegmentTableFile loads a segment table from a CSV file.
func ReadSegmentTableFile(path string) (*channel.SegmentTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ParseSegmentTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadSegmentTable returns the table at path, or the built-in table when
// path is empty.
func LoadSegmentTable(path string) (*channel.SegmentTable, error) {
	if path == "" {
		return DefaultSegmentTable()
	}
	return ReadSegmentTableFile(path)
}

// ParseSegmentTable reads a CSV with the header
// "region,domain,<variant>,<variant>...". Unknown variant columns are ignored.
func ParseSegmentTable(r io.Reader) (*channel.SegmentTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("segment table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("header needs region, domain and at least one variant column")
	}
	regionCol, domainCol := -1, -1
	columns := make(map[int]channel.Variant)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch name {
		case "region":
			regionCol = i
		case "domain":
			domainCol = i
		default:
			if v, err := channel.ParseVariant(name); err == nil {
				columns[i] = v
			}
		}
	}
	if regionCol < 0 || domainCol < 0 {
		return nil, fmt.Errorf("header is missing region or domain column")
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("header has no known variant columns")
	}

	t := &channel.SegmentTable{}
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) <= regionCol || len(rec) <= domainCol || strings.TrimSpace(rec[regionCol]) == "" {
			continue
		}
		row := channel.TableRow{
			Region: rec[regionCol],
			Domain: rec[domainCol],
			Cells:  make(map[channel.Variant]string, len(columns)),
		}
		for i, v := range columns {
			if i < len(rec) {
				row.Cells[v] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
