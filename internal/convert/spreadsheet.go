package convert

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
)

const sheetName = "Sheet1"

var zipMagic = []byte("PK\x03\x04")

// XLSX splits the text into rows by line and cells by comma (lenient CSV)
// and writes them to Sheet1. Cells are stored as strings.
func XLSX() Handler {
	return Handler{
		Format:    "xlsx",
		Extension: "xlsx",
		MediaType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Input:     InputText,
		Write: func(_ context.Context, in Input) ([]byte, error) {
			rows, err := parseCSV(in.Text)
			if err != nil {
				return nil, err
			}
			return writeXLSX(rows)
		},
	}
}

// CSV exports the first sheet of a spreadsheet.
func CSV() Handler {
	return Handler{
		Format:    "csv",
		Extension: "csv",
		MediaType: "text/csv; charset=utf-8",
		Input:     InputBinary,
		Write: func(_ context.Context, in Input) ([]byte, error) {
			rows, err := readXLSX(in.Data)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			w := csv.NewWriter(&buf)
			if err := w.WriteAll(rows); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	}
}

// JSON turns a CSV or spreadsheet with a header row into an array of
// objects keyed by header, columns in header order.
func JSON() Handler {
	return Handler{
		Format:    "json",
		Extension: "json",
		MediaType: "application/json",
		Input:     InputBinary,
		Write: func(_ context.Context, in Input) ([]byte, error) {
			var (
				rows [][]string
				err  error
			)
			if bytes.HasPrefix(in.Data, zipMagic) {
				rows, err = readXLSX(in.Data)
			} else {
				var text string
				text, err = DecodeText(in.Data)
				if err != nil {
					return nil, apperr.Wrap(apperr.KindContent, "convert.JSON", err)
				}
				rows, err = parseCSV(text)
			}
			if err != nil {
				return nil, err
			}
			return rowsToJSON(rows)
		},
	}
}

func parseCSV(text string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindContent, "convert.parseCSV", err, "input is not comma separated text")
	}
	return rows, nil
}

func writeXLSX(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readXLSX(data []byte) ([][]string, error) {
	const op = "convert.readXLSX"

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindContent, op, err, "input is not a spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.New(apperr.KindContent, op, "spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindContent, op, err, "read sheet %q", sheets[0])
	}
	return rows, nil
}

func rowsToJSON(rows [][]string) ([]byte, error) {
	records := make([]model.Record, 0)
	if len(rows) > 0 {
		header := rows[0]
		for i, h := range header {
			if strings.TrimSpace(h) == "" {
				header[i] = fmt.Sprintf("field%d", i+1)
			}
		}
		for _, row := range rows[1:] {
			if isBlankRow(row) {
				continue
			}
			rec := make(model.Record, 0, len(header))
			for i, key := range header {
				v := ""
				if i < len(row) {
					v = row[i]
				}
				raw, err := json.Marshal(v)
				if err != nil {
					return nil, err
				}
				rec.Set(key, raw)
			}
			records = append(records, rec)
		}
	}
	return json.MarshalIndent(records, "", "  ")
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
