package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnsupportedFormat is returned for anything other than .csv/.xlsx/.xls.
	ErrUnsupportedFormat = errors.New("unsupported file format, only CSV and Excel files are accepted")
	// ErrEmptyFile is returned when the file yields no non-empty data rows.
	ErrEmptyFile = errors.New("the file contains no data rows")
)

// RawRecord maps an original column name to the trimmed cell value of one row.
type RawRecord map[string]string

// Table is the decoded form of an uploaded spreadsheet: the header row in
// file order plus one RawRecord per non-empty data row.
type Table struct {
	Headers []string
	Rows    []RawRecord
}

// DecodeOptions configures decoding. The fallback encoding applies to CSV
// content that carries no BOM and is not valid UTF-8.
type DecodeOptions struct {
	FallbackEncoding encoding.Encoding
}

func (o DecodeOptions) fallback() encoding.Encoding {
	if o.FallbackEncoding != nil {
		return o.FallbackEncoding
	}
	return charmap.Windows1252
}

// EncodingByName resolves a configured encoding name to a charmap. Only the
// 8-bit encodings seen in legacy retail exports are accepted.
func EncodingByName(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15, nil
	default:
		return nil, fmt.Errorf("unsupported fallback encoding %q", name)
	}
}

// Decode parses an uploaded file into a Table based on its extension.
// Supported formats are CSV (delimiter-sniffed, encoding-detected) and
// XLSX/XLS (first worksheet only).
func Decode(r io.Reader, filename string, opts DecodeOptions) (*Table, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".csv":
		return decodeCSV(r, opts)
	case ".xlsx", ".xls":
		return decodeXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// detectEncoding picks the decoder for a CSV byte buffer: BOMs win, then a
// UTF-8 validity scan, then the configured legacy fallback.
func detectEncoding(buf []byte, fallback encoding.Encoding) encoding.Encoding {
	if bytes.HasPrefix(buf, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(buf, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(buf, []byte{0xFE, 0xFF}) {
		// BOMOverride consumes the BOM and selects the right decoder.
		return unicode.UTF8
	}
	if utf8.Valid(buf) {
		return unicode.UTF8
	}
	return fallback
}

// sniffDelimiter counts candidate delimiters on the header line and keeps
// the most frequent one. Quoted sections are skipped.
func sniffDelimiter(line string) rune {
	candidates := []rune{',', ';', '\t', '|'}
	counts := make(map[rune]int, len(candidates))
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		for _, c := range candidates {
			if r == c {
				counts[c]++
			}
		}
	}
	best := ','
	bestCount := 0
	for _, c := range candidates {
		if counts[c] > bestCount {
			best = c
			bestCount = counts[c]
		}
	}
	return best
}

func decodeCSV(r io.Reader, opts DecodeOptions) (*Table, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	enc := detectEncoding(buf, opts.fallback())
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(buf), unicode.BOMOverride(enc.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}

	text := string(decoded)
	firstLine := text
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		firstLine = text[:idx]
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(firstLine)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRow, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	headers := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}
		lineNum++

		row := make(RawRecord, len(headers))
		empty := true
		for i, value := range record {
			if i >= len(headers) {
				break
			}
			v := cleanCellValue(value)
			row[headers[i]] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyFile
	}
	return table, nil
}

func decodeXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	// First worksheet only.
	excelRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(excelRows) == 0 {
		return nil, ErrEmptyFile
	}

	headers := make([]string, len(excelRows[0]))
	for i, h := range excelRows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for rowIdx, excelRow := range excelRows[1:] {
		row := make(RawRecord, len(headers))
		empty := true
		for i := range headers {
			v := ""
			if i < len(excelRow) {
				v = cleanCellValue(excelRow[i])
			}
			if v != "" {
				// Date-styled cells come back in the cell's display format
				// (locale-dependent); normalize them to YYYY-MM-DD.
				if cell, err := excelize.CoordinatesToCellName(i+1, rowIdx+2); err == nil {
					if iso, ok := dateCellValue(f, sheets[0], cell); ok {
						v = iso
					}
				}
			}
			row[headers[i]] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyFile
	}
	return table, nil
}

// dateCellValue reads a cell's raw serial value and, when the cell carries a
// date number format, returns it as YYYY-MM-DD.
func dateCellValue(f *excelize.File, sheet, cell string) (string, bool) {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return "", false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || !isDateFormat(style) {
		return "", false
	}
	raw, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", false
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// isDateFormat reports whether a style formats its value as a calendar date.
// Builtin formats 14-17 and 22 are dates; time-only formats (18-21, 45-47)
// are not. Custom formats count when they carry a year token.
func isDateFormat(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if (style.NumFmt >= 14 && style.NumFmt <= 17) || style.NumFmt == 22 {
		return true
	}
	if style.CustomNumFmt != nil {
		return strings.Contains(strings.ToLower(*style.CustomNumFmt), "y")
	}
	return false
}

// cleanCellValue normalizes embedded newlines and trims the cell.
func cleanCellValue(v string) string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	v = strings.ReplaceAll(v, "\r", "\n")
	return strings.TrimSpace(v)
}
