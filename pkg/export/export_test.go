package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Komponente", "Bedarf"},
		Rows: []map[string]string{
			{"Komponente": "Summe Grundbedarf", "Bedarf": "34.45"},
			{"Komponente": "Gesamtbedarf (Stunden)", "Bedarf": "40.45"},
		},
		Emphasis: []bool{false, true},
	}
}

func TestCSVExporterUsesSemicolonByDefault(t *testing.T) {
	out, err := NewCSVExporter(0).Render(sampleDataset())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Komponente;Bedarf", lines[0])
	assert.Equal(t, "Summe Grundbedarf;34.45", lines[1])
}

func TestExportersRejectEmptyHeaders(t *testing.T) {
	_, err := NewCSVExporter(',').Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "x")
	assert.Error(t, err)
	_, err = NewXLSXExporter("").Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Stellenbedarf 2025/26")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestXLSXExporterWritesNumericCells(t *testing.T) {
	out, err := NewXLSXExporter("Bericht").Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	header, err := f.GetCellValue("Bericht", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Komponente", header)

	value, err := f.GetCellValue("Bericht", "B2")
	require.NoError(t, err)
	assert.Equal(t, "34.45", value)
}
