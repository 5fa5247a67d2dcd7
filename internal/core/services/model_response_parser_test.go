package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelResponse(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantCategory   string
		wantConfidence float64
		wantRationale  []string
		wantAttrs      map[string]any
	}{
		{
			name:           "plain object",
			text:           `{"category_id":"cat_food_beverage","confidence":0.9,"rationale":["coffee shop"]}`,
			wantCategory:   "cat_food_beverage",
			wantConfidence: 0.9,
			wantRationale:  []string{"coffee shop"},
		},
		{
			name:           "fenced with prose",
			text:           "Sure! Here you go:\n```json\n{\"category_id\": \"cat_software\", \"confidence\": 0.72, \"rationale\": {\"reasons\": [\"SaaS\", \"monthly\"]}, \"attributes\": {\"subscription_period\": \"monthly\"}}\n```\nLet me know.",
			wantCategory:   "cat_software",
			wantConfidence: 0.72,
			wantRationale:  []string{"SaaS", "monthly"},
			wantAttrs:      map[string]any{"subscription_period": "monthly"},
		},
		{
			name:           "prose braces before the object",
			text:           `see {note}: {"category_id":"cat_travel","confidence":0.64,"rationale":["airline"]}`,
			wantCategory:   "cat_travel",
			wantConfidence: 0.64,
			wantRationale:  []string{"airline"},
		},
		{
			name:           "bare string rationale and braces in strings",
			text:           `{"category_id":"cat_meals","confidence":1,"rationale":"menu {lunch} item"} trailing {`,
			wantCategory:   "cat_meals",
			wantConfidence: 1,
			wantRationale:  []string{"menu {lunch} item"},
		},
		{
			name:           "missing rationale",
			text:           `{"category_id":"cat_meals","confidence":0}`,
			wantCategory:   "cat_meals",
			wantConfidence: 0,
			wantRationale:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseModelResponse(tt.text)
			require.NoError(t, err)
			require.NotNil(t, result.CategoryID)
			assert.Equal(t, tt.wantCategory, *result.CategoryID)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.Equal(t, tt.wantRationale, result.Rationale)
			assert.Equal(t, tt.wantAttrs, result.Attributes)
		})
	}
}

func TestParseModelResponseFailsClosed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "prose only", text: "I think this is a coffee purchase."},
		{name: "unbalanced", text: `{"category_id":"cat_meals","confidence":0.9`},
		{name: "only non-JSON braces", text: `pick {cat_meals} with {confidence: high}`},
		{name: "missing category", text: `{"confidence":0.9}`},
		{name: "blank category", text: `{"category_id":"  ","confidence":0.9}`},
		{name: "numeric category", text: `{"category_id":7,"confidence":0.9}`},
		{name: "string confidence", text: `{"category_id":"cat","confidence":"0.9"}`},
		{name: "confidence above one", text: `{"category_id":"cat","confidence":1.2}`},
		{name: "negative confidence", text: `{"category_id":"cat","confidence":-0.1}`},
		{name: "attributes not object", text: `{"category_id":"cat","confidence":0.5,"attributes":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseModelResponse(tt.text)
			require.Error(t, err)
			var parseErr *ModelParseError
			assert.ErrorAs(t, err, &parseErr)
			assert.Nil(t, result.CategoryID)

			closed := failClosedResult(err)
			assert.Nil(t, closed.CategoryID)
			assert.Equal(t, 0.0, closed.Confidence)
			require.Len(t, closed.Rationale, 1)
			assert.Contains(t, closed.Rationale[0], "model response could not be parsed")
		})
	}
}
