package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// OrgContext identifies the organization (tenant) and the acting user of a call.
// It is passed explicitly through every categorization operation; tenant identity
// is never read from ambient state.
type OrgContext struct {
	OrgID  string `json:"orgID"`
	UserID string `json:"userID"`
}

// Actor returns the identifier recorded as the author of a change.
func (o OrgContext) Actor() string {
	if o.UserID == "" {
		return "system"
	}
	return o.UserID
}
