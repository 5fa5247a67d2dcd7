package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/utils/mapping"
)

// ModelParseError reports model output that could not be turned into a result.
// No field of a failed parse is ever used.
type ModelParseError struct {
	Reason string
}

func (e *ModelParseError) Error() string {
	return "model response could not be parsed: " + e.Reason
}

func parseFailure(format string, args ...any) *ModelParseError {
	return &ModelParseError{Reason: fmt.Sprintf(format, args...)}
}

// ParseModelResponse extracts the first valid JSON object from free-form model
// output and validates it. Code fences and prose around the object are tolerated.
func ParseModelResponse(text string) (domain.CategorizationResult, error) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return domain.CategorizationResult{}, parseFailure("no JSON object found")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return domain.CategorizationResult{}, parseFailure("invalid JSON: %v", err)
	}

	categoryID, ok := payload["category_id"].(string)
	categoryID = strings.TrimSpace(categoryID)
	if !ok || categoryID == "" {
		return domain.CategorizationResult{}, parseFailure("category_id must be a non-empty string")
	}

	confidence, ok := payload["confidence"].(float64)
	if !ok {
		return domain.CategorizationResult{}, parseFailure("confidence must be a number")
	}
	if confidence < 0 || confidence > 1 {
		return domain.CategorizationResult{}, parseFailure("confidence %v outside [0, 1]", confidence)
	}

	var attributes map[string]any
	if v, present := payload["attributes"]; present && v != nil {
		attributes, ok = v.(map[string]any)
		if !ok {
			return domain.CategorizationResult{}, parseFailure("attributes must be an object")
		}
	}

	return domain.CategorizationResult{
		CategoryID: &categoryID,
		Confidence: confidence,
		Rationale:  mapping.CollapseRationale(payload["rationale"]),
		Attributes: attributes,
	}, nil
}

// extractJSONObject returns the first balanced {...} span that is valid JSON, honouring JSON string
// quoting so braces inside strings do not count.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	for start >= 0 {
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(text); i++ {
			ch := text[i]
			if inString {
				switch {
				case escaped:
					escaped = false
				case ch == '\\':
					escaped = true
				case ch == '"':
					inString = false
				}
				continue
			}
			switch ch {
			case '"':
				inString = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					if span := text[start : i+1]; json.Valid([]byte(span)) {
						return span, true
					}
					i = len(text)
				}
			}
		}
		// Unbalanced or not JSON from this brace; try the next one.
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// failClosedResult is the result recorded when model output cannot be trusted.
func failClosedResult(err error) domain.CategorizationResult {
	return domain.CategorizationResult{
		Confidence: 0,
		Rationale:  []string{err.Error()},
	}
}
