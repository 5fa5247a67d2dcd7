package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

const (
	timeFormat     = time.RFC3339Nano // Use a precise time format
	nullConfidence = "null"
	fieldSeparator = "|"
)

// EncodeReviewCursor creates an opaque token from the (date, confidence, id) position
// of the last item of a review queue page. A nil confidence is encoded explicitly.
func EncodeReviewCursor(date time.Time, confidence *float64, transactionID string) string {
	conf := nullConfidence
	if confidence != nil {
		// 'g' with precision -1 yields the shortest representation that round-trips exactly.
		conf = strconv.FormatFloat(*confidence, 'g', -1, 64)
	}
	return EncodeMultiFieldToken(date.Format(timeFormat), conf, transactionID)
}

// DecodeReviewCursor parses a token produced by EncodeReviewCursor.
func DecodeReviewCursor(token string) (domain.ReviewCursor, error) {
	// The transaction id is the last field and may itself contain the separator.
	parts, err := DecodeMultiFieldTokenN(token, 3)
	if err != nil {
		return domain.ReviewCursor{}, err
	}
	if len(parts) != 3 {
		return domain.ReviewCursor{}, fmt.Errorf("invalid pagination token format (split): expected 3 fields, got %d", len(parts))
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return domain.ReviewCursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	var confidence *float64
	if parts[1] != nullConfidence {
		c, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return domain.ReviewCursor{}, fmt.Errorf("invalid pagination token format (confidence parse): %w", err)
		}
		if c < 0 || c > 1 {
			return domain.ReviewCursor{}, fmt.Errorf("invalid pagination token format (confidence out of range): %v", c)
		}
		confidence = &c
	}

	if parts[2] == "" {
		return domain.ReviewCursor{}, fmt.Errorf("invalid pagination token format (missing transaction id)")
	}

	return domain.ReviewCursor{Date: date, Confidence: confidence, TransactionID: parts[2]}, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields.
// URL-safe base64 is used because tokens travel in query strings.
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, fieldSeparator)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, fieldSeparator)
	return parts, nil
}

// DecodeMultiFieldTokenN decodes a token into at most n fields; the last field holds
// the remainder unsplit.
func DecodeMultiFieldTokenN(token string, n int) ([]string, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.SplitN(string(decodedBytes), fieldSeparator, n), nil
}
