package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/utils"
)

const (
	maxPromptHints            = 5
	maxPromptCategories       = 150
	maxPromptDescriptionRunes = 256
)

// BuildCategorizationPrompt renders the bounded Pass2 prompt for one transaction.
// Hints and categories beyond their caps are dropped.
func BuildCategorizationPrompt(txn domain.NormalizedTransaction, hints []string, categories []domain.Category) string {
	var b strings.Builder

	b.WriteString("You are a bookkeeping assistant. Assign exactly one accounting category to the transaction below.\n\n")

	b.WriteString("Transaction:\n")
	fmt.Fprintf(&b, "- date: %s\n", txn.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "- amount: %s %s\n", utils.FormatMinorUnits(txn.AmountMinor, txn.CurrencyCode), txn.CurrencyCode)
	fmt.Fprintf(&b, "- description: %s\n", truncateRunes(sanitizePromptText(txn.Description), maxPromptDescriptionRunes))
	if txn.MerchantName != nil && *txn.MerchantName != "" {
		fmt.Fprintf(&b, "- merchant: %s\n", truncateRunes(sanitizePromptText(*txn.MerchantName), maxPromptDescriptionRunes))
	}
	if txn.MCC != nil && *txn.MCC != "" {
		fmt.Fprintf(&b, "- mcc: %s", *txn.MCC)
		if group, ok := MCCGroupDescription(*txn.MCC); ok {
			fmt.Fprintf(&b, " (%s)", group)
		}
		b.WriteString("\n")
	}

	if len(hints) > 0 {
		b.WriteString("\nHints from deterministic rules (advisory only):\n")
		for i, h := range hints {
			if i == maxPromptHints {
				break
			}
			fmt.Fprintf(&b, "- %s\n", truncateRunes(sanitizePromptText(h), maxPromptDescriptionRunes))
		}
	}

	b.WriteString("\nAllowed categories (category_id: name [tier]):\n")
	for i, c := range categories {
		if i == maxPromptCategories {
			break
		}
		fmt.Fprintf(&b, "- %s: %s", c.CategoryID, sanitizePromptText(c.Name))
		if c.Tier != nil {
			fmt.Fprintf(&b, " [%s]", *c.Tier)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- category_id MUST be one of the allowed category ids listed above.\n")
	b.WriteString("- confidence is a number between 0 and 1.\n")
	b.WriteString("- rationale is a list of at most 3 short reasons.\n")
	b.WriteString("- attributes is an optional object of extracted facts (e.g. \"subscription_period\": \"monthly\").\n\n")
	b.WriteString("Return ONLY one raw JSON object, without code fences or Markdown:\n")
	b.WriteString(`{"category_id": "...", "confidence": 0.0, "rationale": ["..."], "attributes": {}}`)
	b.WriteString("\n")
	return b.String()
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// sanitizePromptText keeps feed text on a single line.
func sanitizePromptText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
