package finance

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/triadeinvest/omie-sync/internal/logger"
	"github.com/triadeinvest/omie-sync/internal/store"
)

var (
	// ErrNoClientCode means the investor's CPF/CNPJ resolved to no ERP
	// party under any matching strategy.
	ErrNoClientCode = errors.New("investor has no ERP client code")
	// ErrNoProjectMatch means an operation's name matched no ERP project.
	ErrNoProjectMatch = errors.New("operation has no matching project")
)

// Engine walks the four weakly-linked keyspaces (investor document, ERP
// client code, ERP project code, operation name) at read time and turns raw
// ledger rows into investor-facing aggregates. Nothing here writes.
type Engine struct {
	store *store.Storage
	log   *logger.Logger
}

func NewEngine(storage *store.Storage, log *logger.Logger) *Engine {
	return &Engine{store: storage, log: log}
}

// Summary is the per-operation financial view.
type Summary struct {
	AmountInvested     decimal.Decimal `json:"amountInvested"`
	ExpectedProfit     decimal.Decimal `json:"expectedProfit"`
	RealizedProfit     decimal.Decimal `json:"realizedProfit"`
	RealizedRoiPercent decimal.Decimal `json:"realizedRoiPercent"`
	RoiExpectedPercent decimal.Decimal `json:"roiExpectedPercent"`
}

type SupplierCost struct {
	PartyCode int64           `json:"partyCode"`
	PartyName string          `json:"partyName"`
	Total     decimal.Decimal `json:"total"`
}

type CategoryCost struct {
	CategoryCode string          `json:"categoryCode"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
	Items        []SupplierCost  `json:"items"`
}

type CostReport struct {
	TotalCosts decimal.Decimal `json:"totalCosts"`
	Categories []CategoryCost  `json:"categories"`
}

// InvestorOperation is an operation row with its financial fields inlined.
type InvestorOperation struct {
	store.Operation
	Financial  Summary         `json:"financial"`
	TotalCosts decimal.Decimal `json:"totalCosts"`
}

// NormalizeExpectedROI accepts both renderings the spreadsheet has used:
// values below 1 are fractions (0.3 means 30%), values from 1 up are already
// percentages.
func NormalizeExpectedROI(roi decimal.Decimal) decimal.Decimal {
	if roi.GreaterThan(decimal.Zero) && roi.LessThan(decimal.NewFromInt(1)) {
		return roi.Mul(decimal.NewFromInt(100))
	}
	return roi
}

// ResolveInvestorClientCodes maps a CPF/CNPJ to every ERP client code
// registered for it. Historical re-registrations mean one investor can carry
// several codes; all of them count as the same investor.
func (e *Engine) ResolveInvestorClientCodes(ctx context.Context, cpfOrCnpj string) ([]int64, error) {
	parties, err := e.store.Parties.FindByDocument(ctx, cpfOrCnpj)
	if err != nil {
		return nil, err
	}
	if len(parties) == 0 {
		return nil, ErrNoClientCode
	}

	codes := make([]int64, 0, len(parties))
	for _, p := range parties {
		codes = append(codes, p.OmieCode)
	}
	return codes, nil
}

// ResolveInvestorOperationNames maps a CPF/CNPJ to the names of the ERP
// projects the investor has movements against. This is the raw visibility
// set, before matching against operation names.
func (e *Engine) ResolveInvestorOperationNames(ctx context.Context, cpfOrCnpj string) ([]string, error) {
	clientCodes, err := e.ResolveInvestorClientCodes(ctx, cpfOrCnpj)
	if err != nil {
		return nil, err
	}

	projectCodes, err := e.store.Movements.ProjectCodesForClients(ctx, clientCodes)
	if err != nil {
		return nil, err
	}
	if len(projectCodes) == 0 {
		return nil, nil
	}

	projects, err := e.store.Projects.GetByInternalCodes(ctx, projectCodes)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, p.Name)
	}
	return names, nil
}

// InvestorCanView is the one-shot form of Scope.CanView.
func (e *Engine) InvestorCanView(ctx context.Context, cpfOrCnpj string, operationID int64) (bool, error) {
	return e.ScopeFor(cpfOrCnpj).CanView(ctx, operationID)
}

// OperationFinancial aggregates invested capital, realized profit and ROI for
// one operation. roiExpectedPercent comes from the caller (spreadsheet-driven)
// and is normalized before use.
func (e *Engine) OperationFinancial(ctx context.Context, operationID int64, roiExpectedPercent decimal.Decimal) (Summary, error) {
	movements, err := e.operationMovements(ctx, operationID)
	if err != nil {
		return Summary{}, err
	}
	return summarize(movements, roiExpectedPercent), nil
}

// OperationCosts groups the operation's payable rows by category then by
// supplier, both levels sorted descending by total. Profit-distribution
// categories never appear here.
func (e *Engine) OperationCosts(ctx context.Context, operationID int64) (CostReport, error) {
	movements, err := e.operationMovements(ctx, operationID)
	if err != nil {
		return CostReport{}, err
	}

	categories, err := e.store.Categories.GetAll(ctx)
	if err != nil {
		return CostReport{}, err
	}
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[NormalizeCode(c.OmieCode)] = c.Name
	}

	costRows := filterCostRows(movements)

	supplierCodes := make([]int64, 0, len(costRows))
	seen := make(map[int64]bool)
	for _, m := range costRows {
		if !seen[m.ClientCode] {
			seen[m.ClientCode] = true
			supplierCodes = append(supplierCodes, m.ClientCode)
		}
	}
	partyNames := make(map[int64]string)
	if len(supplierCodes) > 0 {
		suppliers, err := e.store.Parties.GetByCodes(ctx, supplierCodes)
		if err != nil {
			return CostReport{}, err
		}
		for _, p := range suppliers {
			partyNames[p.OmieCode] = p.Name
		}
	}

	return buildCostReport(costRows, categoryNames, partyNames), nil
}

// ListOperationsForInvestor returns the operations the investor can see, with
// financial fields inlined. Visibility is the resolved project-name set: an
// operation is returned only if its name matches a project the investor has
// movements against.
func (e *Engine) ListOperationsForInvestor(ctx context.Context, cpfOrCnpj string) ([]InvestorOperation, error) {
	clientCodes, err := e.ResolveInvestorClientCodes(ctx, cpfOrCnpj)
	if err != nil {
		return nil, err
	}

	projectCodes, err := e.store.Movements.ProjectCodesForClients(ctx, clientCodes)
	if err != nil {
		return nil, err
	}
	if len(projectCodes) == 0 {
		return []InvestorOperation{}, nil
	}

	projects, err := e.store.Projects.GetByInternalCodes(ctx, projectCodes)
	if err != nil {
		return nil, err
	}

	operations, err := e.store.Operations.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	movements, err := e.store.Movements.GetByProjectCodes(ctx, projectCodes)
	if err != nil {
		return nil, err
	}
	byProject := make(map[int64][]store.Movement)
	for _, m := range movements {
		byProject[m.ProjectCode] = append(byProject[m.ProjectCode], m)
	}

	result := make([]InvestorOperation, 0)
	for _, op := range operations {
		var opMovements []store.Movement
		matched := false
		for _, p := range projects {
			if namesMatch(op.Name, p.Name) {
				matched = true
				opMovements = append(opMovements, byProject[p.OmieInternalCode]...)
			}
		}
		if !matched {
			continue
		}

		summary := summarize(opMovements, op.ExpectedROI)
		result = append(result, InvestorOperation{
			Operation:  op,
			Financial:  summary,
			TotalCosts: sumCostRows(opMovements),
		})
	}
	return result, nil
}

// operationMovements resolves an operation to its project codes and loads the
// ledger rows behind them.
func (e *Engine) operationMovements(ctx context.Context, operationID int64) ([]store.Movement, error) {
	op, err := e.store.Operations.GetByID(ctx, operationID)
	if err != nil {
		return nil, err
	}

	projects, err := e.store.Projects.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var codes []int64
	for _, p := range projects {
		if namesMatch(op.Name, p.Name) {
			codes = append(codes, p.OmieInternalCode)
		}
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: operation %q", ErrNoProjectMatch, op.Name)
	}

	return e.store.Movements.GetByProjectCodes(ctx, codes)
}

// summarize applies the category semantics over ledger rows. Amounts are
// already non-negative magnitudes (canonicalized at ingestion), so plain sums
// are correct here.
func summarize(movements []store.Movement, roiExpectedPercent decimal.Decimal) Summary {
	invested := decimal.Zero
	realized := decimal.Zero
	for _, m := range movements {
		switch {
		case CodesEqual(m.CategoryCode, CategoryCapitalContribution):
			invested = invested.Add(m.Amount)
		case CodesEqual(m.CategoryCode, CategoryProfitDistribution):
			realized = realized.Add(m.Amount)
		}
	}

	roi := NormalizeExpectedROI(roiExpectedPercent)
	hundred := decimal.NewFromInt(100)

	realizedRoi := decimal.Zero
	if invested.GreaterThan(decimal.Zero) {
		realizedRoi = realized.Div(invested).Mul(hundred)
	}

	return Summary{
		AmountInvested:     invested,
		ExpectedProfit:     invested.Mul(roi).Div(hundred),
		RealizedProfit:     realized,
		RealizedRoiPercent: realizedRoi,
		RoiExpectedPercent: roi,
	}
}

func filterCostRows(movements []store.Movement) []store.Movement {
	var rows []store.Movement
	for _, m := range movements {
		if m.Nature != NaturePayable {
			continue
		}
		if isExcludedFromCosts(m.CategoryCode) {
			continue
		}
		rows = append(rows, m)
	}
	return rows
}

func sumCostRows(movements []store.Movement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range filterCostRows(movements) {
		total = total.Add(m.Amount)
	}
	return total
}

func buildCostReport(costRows []store.Movement, categoryNames map[string]string, partyNames map[int64]string) CostReport {
	type supplierKey struct {
		category string
		party    int64
	}

	total := decimal.Zero
	categoryTotals := make(map[string]decimal.Decimal)
	categoryDisplay := make(map[string]string)
	supplierTotals := make(map[supplierKey]decimal.Decimal)

	for _, m := range costRows {
		key := NormalizeCode(m.CategoryCode)
		if _, ok := categoryDisplay[key]; !ok {
			categoryDisplay[key] = m.CategoryCode
		}
		total = total.Add(m.Amount)
		categoryTotals[key] = categoryTotals[key].Add(m.Amount)
		sk := supplierKey{category: key, party: m.ClientCode}
		supplierTotals[sk] = supplierTotals[sk].Add(m.Amount)
	}

	categories := make([]CategoryCost, 0, len(categoryTotals))
	for key, catTotal := range categoryTotals {
		name, ok := categoryNames[key]
		if !ok {
			name = categoryDisplay[key]
		}

		var items []SupplierCost
		for sk, supTotal := range supplierTotals {
			if sk.category != key {
				continue
			}
			items = append(items, SupplierCost{
				PartyCode: sk.party,
				PartyName: partyNames[sk.party],
				Total:     supTotal,
			})
		}
		sort.Slice(items, func(i, j int) bool {
			if c := items[i].Total.Cmp(items[j].Total); c != 0 {
				return c > 0
			}
			return items[i].PartyCode < items[j].PartyCode
		})

		categories = append(categories, CategoryCost{
			CategoryCode: categoryDisplay[key],
			CategoryName: name,
			Total:        catTotal,
			Items:        items,
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		if c := categories[i].Total.Cmp(categories[j].Total); c != 0 {
			return c > 0
		}
		return categories[i].CategoryCode < categories[j].CategoryCode
	})

	return CostReport{TotalCosts: total, Categories: categories}
}
