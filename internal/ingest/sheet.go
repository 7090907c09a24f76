package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/triadeinvest/omie-sync/internal/omie"
	"github.com/triadeinvest/omie-sync/internal/store"
)

// Header spellings accepted for each operation attribute, Portuguese sheet
// names first (the spreadsheet is maintained in Portuguese).
var sheetHeaders = map[string][]string{
	"name":              {"nome", "operacao", "operação", "name"},
	"status":            {"status", "situacao", "situação"},
	"city":              {"cidade", "city"},
	"state":             {"estado", "uf", "state"},
	"start_date":        {"inicio", "início", "data inicio", "start date"},
	"expected_end_date": {"previsao de termino", "previsão de término", "termino", "end date"},
	"documents_url":     {"documentos", "link documentos", "documents"},
	"expected_roi":      {"roi esperado", "roi", "expected roi"},
}

// importOperationsSheet loads the business-facing operations from the
// configured spreadsheet and upserts them by name. Runs first in the full
// sync so the Omie jobs land against a current join target.
func (s *Service) importOperationsSheet(ctx context.Context, _ Options) (JobResult, error) {
	const component = "SheetImport"
	now := s.now()

	if s.sheetPath == "" {
		return JobResult{}, fmt.Errorf("operations sheet path not configured")
	}

	var (
		rows []map[string]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(s.sheetPath)) {
	case ".xlsx":
		rows, err = readXLSX(s.sheetPath)
	case ".csv":
		rows, err = readCSV(s.sheetPath)
	default:
		err = fmt.Errorf("unsupported sheet format: %s", s.sheetPath)
	}
	if err != nil {
		return JobResult{}, err
	}

	var stats decodeStats
	operations := make([]store.Operation, 0, len(rows))
	for _, row := range rows {
		name := sheetValue(row, "name")
		if name == "" {
			stats.dropped++
			continue
		}
		roi, ok := parseSheetROI(sheetValue(row, "expected_roi"))
		if !ok {
			stats.zeroAmount++
		}
		operations = append(operations, store.Operation{
			Name:            name,
			Status:          sheetValue(row, "status"),
			City:            sheetValue(row, "city"),
			State:           sheetValue(row, "state"),
			StartDate:       omie.ParseDate(sheetValue(row, "start_date")),
			ExpectedEndDate: omie.ParseDate(sheetValue(row, "expected_end_date")),
			DocumentsURL:    sheetValue(row, "documents_url"),
			ExpectedROI:     roi,
		})
	}

	if len(operations) > 0 {
		if err := s.storage.Operations.Upsert(ctx, operations); err != nil {
			return JobResult{}, err
		}
	}
	if err := s.storage.Checkpoints.SetLastSyncAt(ctx, EntityOperationsSheet, now); err != nil {
		return JobResult{}, err
	}

	s.log.Info(component, "Sheet imported: path=%s rows=%d upserted=%d dropped=%d",
		s.sheetPath, len(rows), len(operations), stats.dropped)

	return JobResult{
		Fetched:    len(rows),
		Pages:      1,
		Upserted:   len(operations),
		Dropped:    stats.dropped,
		ZeroAmount: stats.zeroAmount,
		Since:      now,
		NewSyncAt:  now,
	}, nil
}

func readXLSX(path string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("sheet %s has no worksheets", path)
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
	}
	if len(raw) < 2 {
		return nil, nil
	}

	header := raw[0]
	rows := make([]map[string]string, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(cells) {
				row[normalizeHeader(h)] = strings.TrimSpace(cells[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to parse csv %s: %w", path, df.Err)
	}

	rows := make([]map[string]string, 0, df.Nrow())
	for _, rec := range df.Maps() {
		row := make(map[string]string, len(rec))
		for k, v := range rec {
			row[normalizeHeader(k)] = strings.TrimSpace(fmt.Sprintf("%v", v))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), " ")
}

func sheetValue(row map[string]string, logical string) string {
	for _, h := range sheetHeaders[logical] {
		if v, ok := row[h]; ok && v != "" && v != "NaN" {
			return v
		}
	}
	return ""
}

// parseSheetROI tolerates "30%", "30,5" and plain numbers. The fraction vs
// percentage ambiguity is resolved at read time by NormalizeExpectedROI, not
// here.
func parseSheetROI(v string) (decimal.Decimal, bool) {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
