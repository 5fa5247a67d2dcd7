package dto

import (
	"time"

	"github.com/SscSPs/categorization_engine/internal/core/domain"
)

// CreateRuleRequest teaches or reinforces a rule directly.
type CreateRuleRequest struct {
	Vendor      string  `json:"vendor" binding:"required,max=200"`
	MCC         *string `json:"mcc" binding:"omitempty,len=4,numeric"`
	CategoryID  string  `json:"categoryID" binding:"required"`
	WeightDelta int     `json:"weightDelta" binding:"omitempty,min=1,max=1000"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ToLearnRuleRequest converts the request into the learner input.
func (r CreateRuleRequest) ToLearnRuleRequest() domain.LearnRuleRequest {
	return domain.LearnRuleRequest{
		Vendor:      r.Vendor,
		MCC:         r.MCC,
		CategoryID:  r.CategoryID,
		WeightDelta: r.WeightDelta,
		Description: r.Description,
	}
}

// LearnRuleResponse mirrors domain.LearnRuleResult.
type LearnRuleResponse struct {
	RuleID  string `json:"ruleID"`
	IsNew   bool   `json:"isNew"`
	Weight  int    `json:"weight"`
	Message string `json:"message"`
}

// ToLearnRuleResponse converts a domain.LearnRuleResult.
func ToLearnRuleResponse(r *domain.LearnRuleResult) LearnRuleResponse {
	return LearnRuleResponse{
		RuleID:  r.RuleID,
		IsNew:   r.IsNew,
		Weight:  r.Weight,
		Message: r.Message,
	}
}

// RuleResponse defines the data returned for a rule.
type RuleResponse struct {
	RuleID        string    `json:"ruleID"`
	Vendor        string    `json:"vendor"`
	MCC           *string   `json:"mcc,omitempty"`
	CategoryID    string    `json:"categoryID"`
	Weight        int       `json:"weight"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToListRulesResponse converts a slice of domain.Rule.
func ToListRulesResponse(rules []domain.Rule) []RuleResponse {
	res := make([]RuleResponse, len(rules))
	for i, r := range rules {
		res[i] = RuleResponse{
			RuleID:        r.RuleID,
			Vendor:        r.Vendor,
			MCC:           r.MCC,
			CategoryID:    r.CategoryID,
			Weight:        r.Weight,
			Description:   r.Description,
			CreatedAt:     r.CreatedAt,
			CreatedBy:     r.CreatedBy,
			LastUpdatedAt: r.LastUpdatedAt,
			LastUpdatedBy: r.LastUpdatedBy,
		}
	}
	return res
}
