package importer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeCSVCommaDelimited(t *testing.T) {
	csv := "magasin_id,nom_magasin,surface\nMAG001,Carrefour City,450\nMAG002,Monoprix,1200\n"

	table, err := Decode(strings.NewReader(csv), "magasins.csv", DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"magasin_id", "nom_magasin", "surface"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "MAG001", table.Rows[0]["magasin_id"])
	assert.Equal(t, "Monoprix", table.Rows[1]["nom_magasin"])
}

func TestDecodeCSVSniffsSemicolon(t *testing.T) {
	csv := "zone_id;nom_zone;magasin_id\nZ1;Entree;MAG001\n"

	table, err := Decode(strings.NewReader(csv), "zones.csv", DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"zone_id", "nom_zone", "magasin_id"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Entree", table.Rows[0]["nom_zone"])
}

func TestDecodeCSVSniffsTab(t *testing.T) {
	csv := "id\tnom\nC1\tEpicerie\n"

	table, err := Decode(strings.NewReader(csv), "categories.csv", DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "nom"}, table.Headers)
	assert.Equal(t, "Epicerie", table.Rows[0]["nom"])
}

func TestDecodeCSVDelimiterInsideQuotesIgnored(t *testing.T) {
	csv := "magasin_id;nom_magasin\nMAG001;\"Carrefour; City\"\n"

	table, err := Decode(strings.NewReader(csv), "magasins.csv", DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Carrefour; City", table.Rows[0]["nom_magasin"])
}

func TestDecodeCSVStripsUTF8BOM(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	buf.WriteString("magasin_id,nom_magasin\nMAG001,Géant Casino\n")

	table, err := Decode(&buf, "magasins.csv", DecodeOptions{})
	require.NoError(t, err)

	// The BOM must not leak into the first header.
	assert.Equal(t, "magasin_id", table.Headers[0])
	assert.Equal(t, "Géant Casino", table.Rows[0]["nom_magasin"])
}

func TestDecodeCSVWindows1252Fallback(t *testing.T) {
	// "Crèmerie" in windows-1252: è is 0xE8, which is not valid UTF-8.
	raw := []byte("categorie_id,nom\nC10,Cr\xe8merie\n")

	table, err := Decode(bytes.NewReader(raw), "categories.csv", DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Crèmerie", table.Rows[0]["nom"])
}

func TestDecodeCSVConfiguredFallbackEncoding(t *testing.T) {
	// 0xA4 is the euro sign in ISO 8859-15, a currency sign in windows-1252.
	raw := []byte("magasin_id,adresse\nMAG001,12 rue \xa4\n")

	table, err := Decode(bytes.NewReader(raw), "m.csv", DecodeOptions{FallbackEncoding: charmap.ISO8859_15})
	require.NoError(t, err)
	assert.Equal(t, "12 rue €", table.Rows[0]["adresse"])
}

func TestDecodeCSVSkipsFullyEmptyRows(t *testing.T) {
	csv := "magasin_id,nom_magasin\nMAG001,Carrefour\n,\n\nMAG002,Auchan\n"

	table, err := Decode(strings.NewReader(csv), "magasins.csv", DecodeOptions{})
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestDecodeCSVHeaderOnlyIsEmpty(t *testing.T) {
	_, err := Decode(strings.NewReader("magasin_id,nom_magasin\n"), "magasins.csv", DecodeOptions{})
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestDecodeRejectsUnknownExtension(t *testing.T) {
	_, err := Decode(strings.NewReader("whatever"), "magasins.pdf", DecodeOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeCSVNormalizesEmbeddedNewlines(t *testing.T) {
	csv := "magasin_id,adresse\nMAG001,\"12 rue du Port\r\n75001 Paris\"\n"

	table, err := Decode(strings.NewReader(csv), "magasins.csv", DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "12 rue du Port\n75001 Paris", table.Rows[0]["adresse"])
}

func TestDecodeXLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"magasin_id", "nom_magasin", "surface"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"MAG001", "Carrefour City", 450}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"MAG002", "Monoprix", 1200}))

	// A second sheet must be ignored.
	_, err := f.NewSheet("Autre")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Autre", "A1", &[]any{"ignored"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Decode(&buf, "magasins.xlsx", DecodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"magasin_id", "nom_magasin", "surface"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "450", table.Rows[0]["surface"])
}

func TestDecodeXLSXNormalizesDateCells(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"magasin_id", "nom_magasin", "date_creation"}))
	require.NoError(t, f.SetCellValue(sheet, "A2", "MAG001"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "Carrefour"))
	require.NoError(t, f.SetCellValue(sheet, "C2", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Decode(&buf, "magasins.xlsx", DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	// The cell's display format is locale-dependent; RawRecords must carry
	// the ISO form.
	assert.Equal(t, "2024-03-07", table.Rows[0]["date_creation"])
}

func TestDecodeXLSXCustomDateFormatNormalized(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"magasin_id", "nom_magasin", "date_creation"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"MAG001", "Carrefour"}))
	require.NoError(t, f.SetCellValue(sheet, "C2", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)))

	customFmt := "dd/mm/yyyy"
	styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &customFmt})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "C2", "C2", styleID))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Decode(&buf, "magasins.xlsx", DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "2023-12-01", table.Rows[0]["date_creation"])
}

func TestDecodeXLSXNumericCellsNotTreatedAsDates(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"magasin_id", "nom_magasin", "surface"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"MAG001", "Carrefour", 450}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Decode(&buf, "magasins.xlsx", DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "450", table.Rows[0]["surface"])
}

func TestDecodeXLSXShortRowsPadded(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"zone_id", "nom_zone", "emplacement"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Z1", "Entree"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Decode(&buf, "zones.xlsx", DecodeOptions{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "", table.Rows[0]["emplacement"])
}

func TestEncodingByName(t *testing.T) {
	enc, err := EncodingByName("latin1")
	require.NoError(t, err)
	assert.Equal(t, charmap.ISO8859_1, enc)

	enc, err = EncodingByName("")
	require.NoError(t, err)
	assert.Equal(t, charmap.Windows1252, enc)

	_, err = EncodingByName("shift-jis")
	assert.Error(t, err)
}
