package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExtractPlain(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		data       []byte
		wantText   string
		wantFormat string
		wantMethod string
	}{
		{
			name:       "utf-8 text",
			file:       "nota.txt",
			data:       []byte("Emissão: 15/03/2024"),
			wantText:   "Emissão: 15/03/2024",
			wantFormat: constants.FormatText,
			wantMethod: "plain",
		},
		{
			name:       "bom is stripped",
			file:       "nota.json",
			data:       append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"cnpj":"1"}`)...),
			wantText:   `{"cnpj":"1"}`,
			wantFormat: constants.FormatJSON,
			wantMethod: "plain",
		},
		{
			name:       "windows-1252 xml",
			file:       "NOTA.XML",
			data:       []byte("<nota><municipio>S\xe3o Paulo</municipio></nota>"),
			wantText:   "<nota><municipio>São Paulo</municipio></nota>",
			wantFormat: constants.FormatXML,
			wantMethod: "windows-1252",
		},
	}

	ex := NewFileExtractor(Config{}, common.DiscardLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ex.Extract(context.Background(), writeFile(t, tt.file, tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, res.Text)
			assert.Equal(t, tt.wantFormat, res.SourceType)
			assert.Equal(t, tt.wantMethod, res.Method)
		})
	}
}

func TestExtractXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"CNPJ:", "12.345.678/0001-99"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"VALOR:", "R$ 500,00", " "}))
	path := filepath.Join(t.TempDir(), "nota.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	res, err := NewFileExtractor(Config{}, common.DiscardLogger()).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, constants.FormatXLSX, res.SourceType)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "CNPJ:\t12.345.678/0001-99\nVALOR:\tR$ 500,00\n", res.Text)
}

func TestExtractRejects(t *testing.T) {
	ex := NewFileExtractor(Config{MaxBytes: 4}, common.DiscardLogger())
	ctx := context.Background()

	_, err := ex.Extract(ctx, writeFile(t, "nota.png", []byte("x")))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = ex.Extract(ctx, writeFile(t, "nota.txt", []byte("too long")))
	assert.ErrorContains(t, err, "file too large")

	_, err = ex.Extract(ctx, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
