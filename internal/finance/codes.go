package finance

import "strings"

// Chart-of-accounts codes with fixed accounting meaning.
const (
	// CategoryCapitalContribution marks capital paid in by an investor.
	CategoryCapitalContribution = "1.04.02"
	// CategoryProfitDistribution marks profit paid out to an investor.
	CategoryProfitDistribution = "2.10.98"
	// CategoryProfitReserve is excluded from cost aggregation alongside
	// the distribution code.
	CategoryProfitReserve = "2.10.99"
)

// NaturePayable is the nature flag on supplier-facing (cost) movements.
const NaturePayable = "p"

// NormalizeCode renders a chart-of-accounts code in canonical form: drop
// everything but digits and dots, then strip leading zeros from each
// dot-delimited segment. "01.04.02" and "1.4.2" both normalize to "1.4.2".
func NormalizeCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	segments := strings.Split(b.String(), ".")
	for i, seg := range segments {
		trimmed := strings.TrimLeft(seg, "0")
		if trimmed == "" && seg != "" {
			trimmed = "0"
		}
		segments[i] = trimmed
	}
	return strings.Join(segments, ".")
}

// CodesEqual compares two codes raw first, then in normalized form, so
// formatting noise from different ERP endpoint versions does not break joins.
func CodesEqual(a, b string) bool {
	if a == b {
		return a != ""
	}
	na, nb := NormalizeCode(a), NormalizeCode(b)
	return na != "" && na == nb
}

func isExcludedFromCosts(categoryCode string) bool {
	return CodesEqual(categoryCode, CategoryProfitDistribution) ||
		CodesEqual(categoryCode, CategoryProfitReserve)
}
