package mapping

import (
	"github.com/SscSPs/categorization_engine/internal/core/domain"
	"github.com/SscSPs/categorization_engine/internal/models"
)

// ToDomainTransaction converts a model Transaction to a domain NormalizedTransaction
func ToDomainTransaction(m models.Transaction) domain.NormalizedTransaction {
	return domain.NormalizedTransaction{
		TransactionID: m.TransactionID,
		OrgID:         m.OrgID,
		Date:          m.TxnDate,
		AmountMinor:   m.AmountMinor,
		CurrencyCode:  m.CurrencyCode,
		Description:   m.Description,
		MerchantName:  m.MerchantName,
		MCC:           m.MCC,
		Source:        m.Source,
		RawPayload:    m.RawPayload,
		CategoryID:    m.CategoryID,
		Confidence:    m.Confidence,
		NeedsReview:   m.NeedsReview,
		Reviewed:      m.Reviewed,
		AuditFields:   domain.AuditFields(m.AuditFields),
	}
}
