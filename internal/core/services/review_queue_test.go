package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/categorization_engine/internal/apperrors"
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/core/services"
	"github.com/SscSPs/categorization_engine/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReviewQueue(store *memory.Store, orgID string, n int) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		var conf *float64
		if i%4 != 0 {
			c := float64(i%7) / 10
			conf = &c
		}
		store.PutTransaction(domain.NormalizedTransaction{
			TransactionID: fmt.Sprintf("txn-%03d", i),
			OrgID:         orgID,
			Date:          base.AddDate(0, 0, i%5),
			AmountMinor:   int64(-100 * i),
			CurrencyCode:  "USD",
			Description:   fmt.Sprintf("vendor %d", i),
			Confidence:    conf,
			NeedsReview:   i%9 != 0,
		})
	}
}

func TestReviewQueuePagesAreOrderedAndComplete(t *testing.T) {
	store := memory.NewStore()
	seedReviewQueue(store, "org-1", 60)
	seedReviewQueue(store, "org-2", 10)
	svc := services.NewReviewQueueService(store)
	org := domain.OrgContext{OrgID: "org-1"}
	ctx := context.Background()

	full, err := svc.ListReviewQueue(ctx, org, domain.DefaultReviewFilter(), "", domain.MaxReviewPageSize)
	require.NoError(t, err)
	assert.False(t, full.HasMore)
	assert.Nil(t, full.NextCursor)

	var paged []domain.ReviewQueueItem
	cursor := ""
	pages := 0
	for {
		page, err := svc.ListReviewQueue(ctx, org, domain.DefaultReviewFilter(), cursor, 7)
		require.NoError(t, err)
		require.LessOrEqual(t, len(page.Items), 7)
		paged = append(paged, page.Items...)
		pages++
		if !page.HasMore {
			assert.Nil(t, page.NextCursor)
			break
		}
		require.NotNil(t, page.NextCursor)
		cursor = *page.NextCursor
	}

	require.Equal(t, len(full.Items), len(paged))
	assert.Greater(t, pages, 1)
	seen := map[string]bool{}
	for i, item := range paged {
		assert.Equal(t, full.Items[i].TransactionID, item.TransactionID)
		assert.False(t, seen[item.TransactionID], "duplicate %s", item.TransactionID)
		seen[item.TransactionID] = true
		assert.True(t, item.NeedsReview)
		if i == 0 {
			continue
		}
		prev := paged[i-1]
		assert.False(t, item.Date.After(prev.Date), "dates must be non-increasing")
		if item.Date.Equal(prev.Date) && prev.Confidence != nil && item.Confidence != nil {
			assert.GreaterOrEqual(t, *item.Confidence, *prev.Confidence, "confidence must be non-decreasing within a date")
		}
		if item.Date.Equal(prev.Date) && prev.Confidence == nil {
			assert.Nil(t, item.Confidence, "unknown confidence sorts last within a date")
		}
	}
}

func TestReviewQueueExactPageHasNoMore(t *testing.T) {
	store := memory.NewStore()
	seedReviewQueue(store, "org-1", 8) // txn-000 is not in review
	svc := services.NewReviewQueueService(store)

	page, err := svc.ListReviewQueue(context.Background(), domain.OrgContext{OrgID: "org-1"}, domain.DefaultReviewFilter(), "", 7)
	require.NoError(t, err)
	assert.Len(t, page.Items, 7)
	assert.False(t, page.HasMore)
}

func TestReviewQueueFilters(t *testing.T) {
	store := memory.NewStore()
	seedReviewQueue(store, "org-1", 40)
	svc := services.NewReviewQueueService(store)
	org := domain.OrgContext{OrgID: "org-1"}
	ctx := context.Background()

	filter := domain.DefaultReviewFilter()
	filter.MinConfidence = 0.2
	filter.MaxConfidence = 0.4
	page, err := svc.ListReviewQueue(ctx, org, filter, "", 0)
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	for _, item := range page.Items {
		require.NotNil(t, item.Confidence)
		assert.GreaterOrEqual(t, *item.Confidence, 0.2)
		assert.LessOrEqual(t, *item.Confidence, 0.4)
	}

	filter = domain.DefaultReviewFilter()
	filter.Search = "VENDOR 1"
	page, err = svc.ListReviewQueue(ctx, org, filter, "", 0)
	require.NoError(t, err)
	for _, item := range page.Items {
		assert.Contains(t, item.Description, "vendor 1")
	}

	from := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	filter = domain.DefaultReviewFilter()
	filter.DateFrom = &from
	page, err = svc.ListReviewQueue(ctx, org, filter, "", 0)
	require.NoError(t, err)
	for _, item := range page.Items {
		assert.False(t, item.Date.Before(from))
	}

	filter = domain.DefaultReviewFilter()
	filter.NeedsReviewOnly = false
	all, err := svc.ListReviewQueue(ctx, org, filter, "", 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 40)
}

func TestReviewQueueValidation(t *testing.T) {
	svc := services.NewReviewQueueService(memory.NewStore())
	org := domain.OrgContext{OrgID: "org-1"}
	ctx := context.Background()
	later := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	earlier := later.AddDate(0, 0, -1)

	tests := []struct {
		name     string
		filter   func(f *domain.ReviewFilter)
		cursor   string
		pageSize int
	}{
		{name: "page size too large", pageSize: domain.MaxReviewPageSize + 1},
		{name: "negative page size", pageSize: -1},
		{name: "min above max", filter: func(f *domain.ReviewFilter) { f.MinConfidence = 0.8; f.MaxConfidence = 0.2 }},
		{name: "max above one", filter: func(f *domain.ReviewFilter) { f.MaxConfidence = 1.5 }},
		{name: "negative min", filter: func(f *domain.ReviewFilter) { f.MinConfidence = -0.1 }},
		{name: "inverted dates", filter: func(f *domain.ReviewFilter) { f.DateFrom = &later; f.DateTo = &earlier }},
		{name: "garbage cursor", cursor: "%%%not-base64"},
		{name: "wrong cursor shape", cursor: "c29tZXRoaW5n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := domain.DefaultReviewFilter()
			if tt.filter != nil {
				tt.filter(&filter)
			}
			_, err := svc.ListReviewQueue(ctx, org, filter, tt.cursor, tt.pageSize)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}
