package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	// Payment processors prepend their own tag to the merchant descriptor.
	processorPrefixRe = regexp.MustCompile(`^(?:SQ|TST|PAYPAL|PP|SP|IC|POS|DD|CKE|BT|PY|GOOGLE|APL|FS)\s*\*\s*`)

	// A store number marks the end of the brand; whatever follows is location noise.
	storeMarkerRe = regexp.MustCompile(`(?:#\s*\d+|\bSTORE\s*(?:NO\.?|NUM\.?)?\s*\d+|\b\d{4,}\b)`)

	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// NormalizeVendor turns merchant or description text into the canonical vendor key
// shared by rule matching and rule learning.
//
// Example: "SQ *Blue Bottle Coffee #123 Oakland CA" returns "BLUE BOTTLE COFFEE".
func NormalizeVendor(raw string) string {
	s := norm.NFKC.String(raw)
	s = cases.Upper(language.Und).String(s)
	s = strings.TrimSpace(s)

	for {
		trimmed := processorPrefixRe.ReplaceAllString(s, "")
		if trimmed == s {
			break
		}
		s = strings.TrimSpace(trimmed)
	}

	if loc := storeMarkerRe.FindStringIndex(s); loc != nil && loc[0] > 0 {
		s = s[:loc[0]]
	}

	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")
	s = punctuationRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// normalizeMCC trims an MCC and maps blank values to nil.
func normalizeMCC(mcc *string) *string {
	if mcc == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*mcc)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
