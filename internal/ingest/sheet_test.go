package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/triadeinvest/omie-sync/internal/logger"
)

func TestImportOperationsSheetCSV(t *testing.T) {
	csv := `nome,status,cidade,uf,inicio,roi esperado,documentos
Residencial Aurora,Em Obra,Fortaleza,CE,15/01/2026,30%,https://docs.example.com/aurora
Loteamento Horizonte,Concluido,Eusebio,CE,,"22,5",
,ignorada sem nome,,,,,
`
	ts := newTestStorage()
	svc := NewService(&fakeFetcher{}, ts.storage, logger.New("error"), writeTempCSV(t, csv))

	res, err := svc.RunEntitySync(context.Background(), EntityOperationsSheet, Options{})
	require.NoError(t, err)

	require.Equal(t, 3, res.Fetched)
	require.Equal(t, 2, res.Upserted)
	require.Equal(t, 1, res.Dropped)
	require.Len(t, ts.operations.rows, 2)

	aurora := ts.operations.rows["Residencial Aurora"]
	require.Equal(t, "Em Obra", aurora.Status)
	require.Equal(t, "Fortaleza", aurora.City)
	require.Equal(t, "CE", aurora.State)
	require.NotNil(t, aurora.StartDate)
	require.Equal(t, "https://docs.example.com/aurora", aurora.DocumentsURL)
	require.Equal(t, "30", aurora.ExpectedROI.String())

	horizonte := ts.operations.rows["Loteamento Horizonte"]
	require.Equal(t, "22.5", horizonte.ExpectedROI.String())
	require.Nil(t, horizonte.StartDate)
}

func TestImportOperationsSheetXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operations.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Nome", "Status", "Cidade", "UF", "ROI Esperado"},
		{"Residencial Aurora", "Em Obra", "Fortaleza", "CE", "30%"},
		{"Galpao Industrial", "Captacao", "Maracanau", "CE", "18"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ts := newTestStorage()
	svc := NewService(&fakeFetcher{}, ts.storage, logger.New("error"), path)

	res, err := svc.RunEntitySync(context.Background(), EntityOperationsSheet, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, res.Upserted)

	require.Len(t, ts.operations.rows, 2)
	require.Equal(t, "30", ts.operations.rows["Residencial Aurora"].ExpectedROI.String())
	require.Equal(t, "18", ts.operations.rows["Galpao Industrial"].ExpectedROI.String())
}

func TestImportOperationsSheetMissingFile(t *testing.T) {
	ts := newTestStorage()
	svc := NewService(&fakeFetcher{}, ts.storage, logger.New("error"), filepath.Join(t.TempDir(), "missing.xlsx"))

	_, err := svc.RunEntitySync(context.Background(), EntityOperationsSheet, Options{})
	require.Error(t, err)
}

func TestImportOperationsSheetUnsupportedFormat(t *testing.T) {
	ts := newTestStorage()
	svc := NewService(&fakeFetcher{}, ts.storage, logger.New("error"), "/tmp/operations.txt")

	_, err := svc.RunEntitySync(context.Background(), EntityOperationsSheet, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported sheet format")
}

func TestParseSheetROI(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"30%", "30", true},
		{"22,5", "22.5", true},
		{"0.3", "0.3", true},
		{" 18 ", "18", true},
		{"", "0", false},
		{"n/a", "0", false},
	}
	for _, tc := range cases {
		got, ok := parseSheetROI(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		require.Equal(t, tc.want, got.String(), "input %q", tc.in)
	}
}

func TestNormalizeHeader(t *testing.T) {
	require.Equal(t, "roi esperado", normalizeHeader("  ROI   Esperado "))
	require.Equal(t, "nome", normalizeHeader("Nome"))
}
