package models

// Rule is the row model of the categorization_rules table.
// Absent org and MCC are stored as empty strings so that the (org_id, vendor, mcc)
// unique index also covers global and vendor-only rules.
type Rule struct {
	RuleID      string  `db:"rule_id"`
	OrgID       string  `db:"org_id"` // '' for global rules
	Vendor      string  `db:"vendor"` // '' for MCC-only rules
	MCC         string  `db:"mcc"`    // '' when the rule ignores MCC
	CategoryID  string  `db:"category_id"`
	Weight      int     `db:"weight"`
	Description *string `db:"description"` // Nullable
	AuditFields
}
