package channelfile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ha1tch/chanmap/pkg/channel"
)

// Column headings shared by every mutation table format.
const (
	HeadingSeq       = "mutationSeq"
	HeadingType      = "type"
	HeadingPhenotype = "phenotype"
)

// SheetName is the worksheet read on import and written on export.
const SheetName = "Sheet1"

// TableFileName is the suggested export name for a variant's mutation table.
func TableFileName(v channel.Variant) string {
	return fmt.Sprintf("%s-variant-map.xlsx", v)
}

// jsonRecord is the JSON representation of one mutation row.
type jsonRecord struct {
	MutationSeq string `json:"mutationSeq"`
	Type        string `json:"type"`
	Phenotype   string `json:"phenotype"`
}

// ReadMutationsFile reads import records, choosing the format by extension
// (.xlsx, .json, anything else as CSV).
func ReadMutationsFile(path string) ([]channel.ImportRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recs []channel.ImportRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		recs, err = ReadMutationsXLSX(f)
	case ".json":
		recs, err = ReadMutationsJSON(f)
	default:
		recs, err = ReadMutationsCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// WriteMutationsFile writes ms in the format implied by the extension
// (.xlsx, .json, anything else as CSV).
func WriteMutationsFile(path string, ms []channel.Mutation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = WriteMutationsXLSX(f, ms)
	case ".json":
		err = WriteMutationsJSON(f, ms)
	default:
		err = WriteMutationsCSV(f, ms)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadMutationsCSV reads a CSV with a mutationSeq,type,phenotype header.
func ReadMutationsCSV(r io.Reader) ([]channel.ImportRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows)
}

// ReadMutationsJSON reads an array of {mutationSeq, type, phenotype} objects.
func ReadMutationsJSON(r io.Reader) ([]channel.ImportRecord, error) {
	var rows []jsonRecord
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, err
	}
	recs := make([]channel.ImportRecord, len(rows))
	for i, j := range rows {
		recs[i] = channel.ImportRecord{Row: i + 1, MutationSeq: j.MutationSeq, Type: j.Type, Phenotype: j.Phenotype}
	}
	return recs, nil
}

// ReadMutationsXLSX reads Sheet1 of a workbook, or its first sheet when
// Sheet1 is missing.
func ReadMutationsXLSX(r io.Reader) ([]channel.ImportRecord, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheet := SheetName
	if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
		list := wb.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = list[0]
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows)
}

// recordsFromRows maps header-named columns onto import records. Without a
// recognisable header the first three columns are used in order.
func recordsFromRows(rows [][]string) ([]channel.ImportRecord, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	seqCol, typeCol, phenoCol := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case strings.ToLower(HeadingSeq), "sequence", "mutation":
			seqCol = i
		case HeadingType, "mutationtype":
			typeCol = i
		case HeadingPhenotype:
			phenoCol = i
		}
	}
	body := rows[1:]
	first := 2
	if seqCol < 0 && typeCol < 0 && phenoCol < 0 {
		seqCol, typeCol, phenoCol = 0, 1, 2
		body = rows
		first = 1
	}
	if seqCol < 0 {
		return nil, fmt.Errorf("missing %s column", HeadingSeq)
	}

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var recs []channel.ImportRecord
	for i, row := range body {
		rec := channel.ImportRecord{
			Row:         first + i,
			MutationSeq: cell(row, seqCol),
			Type:        cell(row, typeCol),
			Phenotype:   cell(row, phenoCol),
		}
		if rec.MutationSeq == "" && rec.Type == "" && rec.Phenotype == "" {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func mutationRow(m channel.Mutation) []string {
	return []string{m.Label, m.Type.Display(), m.Phenotype}
}

// WriteMutationsCSV writes ms with the standard header.
func WriteMutationsCSV(w io.Writer, ms []channel.Mutation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{HeadingSeq, HeadingType, HeadingPhenotype}); err != nil {
		return err
	}
	for _, m := range ms {
		if err := cw.Write(mutationRow(m)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMutationsJSON writes ms as an indented JSON array.
func WriteMutationsJSON(w io.Writer, ms []channel.Mutation) error {
	rows := make([]jsonRecord, len(ms))
	for i, m := range ms {
		rows[i] = jsonRecord{MutationSeq: m.Label, Type: m.Type.Display(), Phenotype: m.Phenotype}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteMutationsXLSX writes ms to Sheet1 of a new workbook.
func WriteMutationsXLSX(w io.Writer, ms []channel.Mutation) error {
	wb := excelize.NewFile()
	defer wb.Close()

	header := []interface{}{HeadingSeq, HeadingType, HeadingPhenotype}
	if err := wb.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, m := range ms {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{m.Label, m.Type.Display(), m.Phenotype}
		if err := wb.SetSheetRow(SheetName, cellName, &row); err != nil {
			return err
		}
	}
	return wb.Write(w)
}
