package omie

import (
	"github.com/triadeinvest/omie-sync/internal/logger"
)

// Each listing call wraps its page items in a differently named array field.
// The registry pins the known shapes per call; the heuristic scan below is a
// logged last resort for calls added before their shape is registered.
var pageArrayField = map[string]string{
	"ListarCategorias":  "categoria_cadastro",
	"ListarClientes":    "clientes_cadastro",
	"ListarProjetos":    "cadastro",
	"ListarContasPagar": "conta_pagar_cadastro",
	"ListarMovimentos":  "movimentos",
}

// Field names the ERP has used for generic listings, probed in order before
// falling back to the first array of objects found.
var knownArrayFields = []string{"registros", "cadastros", "lista", "itens", "titulosEncontrados"}

// extractItems pulls the page's item array out of a parsed response. The
// boolean reports whether any array field was located at all; an empty page
// returns (nil, true).
func extractItems(call string, page map[string]any, log *logger.Logger) ([]Record, bool) {
	const component = "OmieShapes"

	if field, ok := pageArrayField[call]; ok {
		if items, found := recordsAt(page, field); found {
			return items, true
		}
	}

	for _, field := range knownArrayFields {
		if items, found := recordsAt(page, field); found {
			log.Warn(component, "Registered shape missed, matched probe field: call=%s field=%s", call, field)
			return items, true
		}
	}

	for field, v := range page {
		if arr, ok := v.([]any); ok && arrayOfObjects(arr) {
			log.Warn(component, "Falling back to first array field: call=%s field=%s", call, field)
			return toRecords(arr), true
		}
	}

	return nil, false
}

func recordsAt(page map[string]any, field string) ([]Record, bool) {
	v, ok := page[field]
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return toRecords(arr), true
}

func arrayOfObjects(arr []any) bool {
	if len(arr) == 0 {
		return false
	}
	_, ok := arr[0].(map[string]any)
	return ok
}

func toRecords(arr []any) []Record {
	items := make([]Record, 0, len(arr))
	for _, v := range arr {
		if obj, ok := v.(map[string]any); ok {
			items = append(items, Record(obj))
		}
	}
	return items
}
