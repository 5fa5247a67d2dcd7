package llm

import (
	"context"
	"testing"

	portssvc "github.com/SscSPs/categorization_engine/internal/core/ports/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledProviderReportsNotConfigured(t *testing.T) {
	out, err := DisabledProvider{}.Generate(context.Background(), "prompt", 64, 0.1)

	require.Error(t, err)
	assert.ErrorIs(t, err, portssvc.ErrModelNotConfigured)
	assert.Empty(t, out)
}

func TestNewGeminiProviderRequiresModelName(t *testing.T) {
	p, err := NewGeminiProvider(context.Background(), "key", "")

	assert.Error(t, err)
	assert.Nil(t, p)
}
