package mapping

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// NormalizeRationale turns a stored rationale blob into the canonical review shape:
// an ordered list of at most domain.MaxReviewRationale non-empty strings.
// The blob may be a JSON list, a JSON object with a "reasons" field, a JSON string,
// or plain text written before rationale was stored as JSON.
func NormalizeRationale(raw []byte) []string {
	reasons := CollapseRationale(decodeRationale(raw))
	if len(reasons) > domain.MaxReviewRationale {
		reasons = reasons[:domain.MaxReviewRationale]
	}
	return reasons
}

// CollapseRationale flattens any of the accepted rationale shapes into an ordered
// list of trimmed, non-empty strings. It never returns nil.
func CollapseRationale(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case nil:
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = append(out, s)
		}
	case []string:
		for _, s := range val {
			out = append(out, CollapseRationale(s)...)
		}
	case []any:
		for _, elem := range val {
			switch e := elem.(type) {
			case string:
				out = append(out, CollapseRationale(e)...)
			case nil:
			default:
				out = append(out, CollapseRationale(fmt.Sprint(e))...)
			}
		}
	case map[string]any:
		if reasons, ok := val["reasons"]; ok {
			out = append(out, CollapseRationale(reasons)...)
		} else if reason, ok := val["reason"]; ok {
			out = append(out, CollapseRationale(reason)...)
		}
	default:
		out = append(out, CollapseRationale(fmt.Sprint(val))...)
	}
	return out
}

func decodeRationale(raw []byte) any {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		// Legacy rows hold a bare, unquoted string.
		return trimmed
	}
	return v
}
