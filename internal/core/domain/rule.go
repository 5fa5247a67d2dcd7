package domain

// Rule maps a normalized vendor (and optionally an MCC) to a category. A nil OrgID
// marks a global fallback rule; an empty Vendor marks a coarse MCC-only rule.
type Rule struct {
	RuleID      string  `json:"ruleID"`
	OrgID       *string `json:"orgID,omitempty"`
	Vendor      string  `json:"vendor"`
	MCC         *string `json:"mcc,omitempty"`
	CategoryID  string  `json:"categoryID"`
	Weight      int     `json:"weight"`
	Description *string `json:"description,omitempty"`
	AuditFields
}

// RulePatch holds the mutable fields of a rule.
type RulePatch struct {
	CategoryID  *string
	WeightDelta int
	Description *string
	UpdatedBy   string
}

// LearnRuleRequest is the input of the rule learner.
type LearnRuleRequest struct {
	Vendor      string
	MCC         *string
	CategoryID  string
	WeightDelta int // Defaults to 1 when zero
	Description *string
}

// LearnRuleResult reports what the rule learner did.
type LearnRuleResult struct {
	RuleID  string `json:"ruleID"`
	IsNew   bool   `json:"isNew"`
	Weight  int    `json:"weight"`
	Message string `json:"message"`
}

// RuleSeed describes a curated rule loaded at setup time. An empty Vendor seeds a
// coarse MCC-only rule. Category holds a category id or, when categories are seeded
// from the same file, a category seed key.
type RuleSeed struct {
	Vendor      string  `yaml:"vendor,omitempty" json:"vendor,omitempty"`
	MCC         string  `yaml:"mcc,omitempty" json:"mcc,omitempty"`
	Category    string  `yaml:"category" json:"category"`
	Weight      int     `yaml:"weight,omitempty" json:"weight,omitempty"`
	Description *string `yaml:"description,omitempty" json:"description,omitempty"`
}

// RuleSeedResult counts what seeding did to each pattern.
type RuleSeedResult struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
}
