package omie

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one raw entry from an Omie listing response. Field names vary by
// endpoint version, so values are looked up through a FieldTable rather than
// directly.
type Record map[string]any

// Flatten merges nested objects (Omie wraps movement fields in "detalhes" and
// "resumo" envelopes) one level down into the record itself. Top-level keys
// win on collision.
func (r Record) Flatten() Record {
	out := make(Record, len(r))
	for k, v := range r {
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range nested {
				if _, exists := out[nk]; !exists {
					out[nk] = nv
				}
			}
			continue
		}
		out[k] = v
	}
	for k, v := range r {
		if _, nested := v.(map[string]any); !nested {
			out[k] = v
		}
	}
	return out
}

// Raw returns the original record serialized back to JSON, for audit columns.
func (r Record) Raw() json.RawMessage {
	b, err := json.Marshal(r)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}

// FieldTable maps a logical attribute to the ordered list of spellings the
// ERP has used for it across endpoint versions. First spelling that yields a
// value wins.
type FieldTable map[string][]string

func (t FieldTable) lookup(r Record, logical string) (any, bool) {
	for _, key := range t[logical] {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Str resolves a logical field to a string, stringifying numeric values the
// way the ERP renders codes (integers without a fraction).
func (t FieldTable) Str(r Record, logical string) string {
	v, ok := t.lookup(r, logical)
	if !ok {
		return ""
	}
	return stringify(v)
}

// Int64 resolves a logical field to an integer id, 0 when absent or
// non-numeric.
func (t FieldTable) Int64(r Record, logical string) int64 {
	v, ok := t.lookup(r, logical)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	}
	return 0
}

// Decimal resolves a logical monetary field. The second return reports
// whether a usable numeric value was present, so callers can count the
// defaulted-to-zero rows instead of hiding them.
func (t FieldTable) Decimal(r Record, logical string) (decimal.Decimal, bool) {
	v, ok := t.lookup(r, logical)
	if !ok {
		return decimal.Zero, false
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// Time resolves a logical date field, nil when absent or unparseable.
func (t FieldTable) Time(r Record, logical string) *time.Time {
	s := t.Str(r, logical)
	return ParseDate(s)
}

// ParseDate accepts the two date renderings the ERP emits.
func ParseDate(dateStr string) *time.Time {
	if dateStr == "" {
		return nil
	}
	// Try dd/mm/yyyy format first
	if t, err := time.Parse("02/01/2006", dateStr); err == nil {
		return &t
	}
	// Fallback to yyyy-mm-dd just in case
	if t, err := time.Parse("2006-01-02", dateStr); err == nil {
		return &t
	}
	return nil
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		if s {
			return "S"
		}
		return "N"
	}
	return ""
}
