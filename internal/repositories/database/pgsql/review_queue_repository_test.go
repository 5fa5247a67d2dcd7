package pgsql

import (
	"testing"
	"time"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReviewQueueQuery_DefaultFilter(t *testing.T) {
	query, args := buildReviewQueueQuery("org-1", domain.DefaultReviewFilter(), nil, 101)

	assert.Contains(t, query, "t.org_id = $1 AND t.needs_review AND")
	assert.Contains(t, query, "(t.confidence IS NULL OR t.confidence BETWEEN $2 AND $3)")
	assert.Contains(t, query, "ORDER BY t.txn_date DESC, t.confidence ASC NULLS LAST, t.transaction_id ASC LIMIT $4")
	assert.NotContains(t, query, "ILIKE")
	assert.Equal(t, []any{"org-1", 0.0, 1.0, 101}, args)
}

func TestBuildReviewQueueQuery_PositiveMinExcludesUnknownConfidence(t *testing.T) {
	filter := domain.ReviewFilter{MinConfidence: 0.5, MaxConfidence: 0.9}

	query, _ := buildReviewQueueQuery("org-1", filter, nil, 10)

	assert.NotContains(t, query, "t.confidence IS NULL")
	assert.NotContains(t, query, "t.needs_review AND")
	assert.Contains(t, query, "t.confidence BETWEEN $2 AND $3")
}

func TestBuildReviewQueueQuery_DatesAndSearch(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	filter := domain.ReviewFilter{MaxConfidence: 1, DateFrom: &from, DateTo: &to, Search: " 50%_off "}

	query, args := buildReviewQueueQuery("org-1", filter, nil, 10)

	assert.Contains(t, query, "t.txn_date >= $4")
	assert.Contains(t, query, "t.txn_date <= $5")
	assert.Contains(t, query, "(t.description ILIKE $6 OR t.merchant_name ILIKE $6)")
	require.Len(t, args, 7)
	assert.Equal(t, `%50\%\_off%`, args[5])
}

func TestBuildReviewQueueQuery_CursorWithConfidence(t *testing.T) {
	conf := 0.4
	cursor := &domain.ReviewCursor{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Confidence: &conf, TransactionID: "txn-9"}

	query, args := buildReviewQueueQuery("org-1", domain.DefaultReviewFilter(), cursor, 5)

	assert.Contains(t, query,
		"(t.txn_date < $4 OR (t.txn_date = $4 AND (t.confidence > $6 OR t.confidence IS NULL OR (t.confidence = $6 AND t.transaction_id > $5))))")
	assert.Equal(t, []any{"org-1", 0.0, 1.0, cursor.Date, "txn-9", 0.4, 5}, args)
}

func TestBuildReviewQueueQuery_CursorWithUnknownConfidence(t *testing.T) {
	cursor := &domain.ReviewCursor{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), TransactionID: "txn-9"}

	query, args := buildReviewQueueQuery("org-1", domain.DefaultReviewFilter(), cursor, 5)

	assert.Contains(t, query, "(t.txn_date < $4 OR (t.txn_date = $4 AND (t.confidence IS NULL AND t.transaction_id > $5)))")
	assert.Len(t, args, 6)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\\b\%c\_d`, escapeLike(`a\b%c_d`))
}
