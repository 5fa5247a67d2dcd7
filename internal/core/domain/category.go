package domain

// CategoryTier is the accounting tier a category rolls up into.
type CategoryTier string

const (
	TierRevenue          CategoryTier = "revenue"
	TierCostOfGoods      CategoryTier = "cost_of_goods"
	TierOperatingExpense CategoryTier = "operating_expense"
)

// Category is an accounting category. A nil OrgID marks a global category shared
// across all organizations.
type Category struct {
	CategoryID string        `json:"categoryID"`
	OrgID      *string       `json:"orgID,omitempty"`
	ParentID   *string       `json:"parentID,omitempty"`
	Name       string        `json:"name"`
	Tier       *CategoryTier `json:"tier,omitempty"`
	AuditFields
}

// IsGlobal reports whether the category is shared across organizations.
func (c Category) IsGlobal() bool {
	return c.OrgID == nil
}

// VisibleTo reports whether the category may be referenced by the given organization.
func (c Category) VisibleTo(orgID string) bool {
	return c.OrgID == nil || *c.OrgID == orgID
}

// CategorySeed describes a category to create during seeding. Parent references use
// the seed Key, not a database id.
type CategorySeed struct {
	Key       string        `yaml:"key" json:"key"`
	Name      string        `yaml:"name" json:"name"`
	ParentKey string        `yaml:"parent,omitempty" json:"parent,omitempty"`
	Tier      *CategoryTier `yaml:"tier,omitempty" json:"tier,omitempty"`
}
