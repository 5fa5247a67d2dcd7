package models

// Category is the row model of the categories table.
type Category struct {
	CategoryID string  `db:"category_id"`
	OrgID      *string `db:"org_id"`    // NULL for global categories
	ParentID   *string `db:"parent_id"` // Nullable
	Name       string  `db:"name"`
	Tier       *string `db:"tier"` // Nullable
	AuditFields
}
