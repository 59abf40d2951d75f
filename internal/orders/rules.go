package orders

import (
	"context"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

// SaveRule is a cross-cutting constraint attached to the aggregate's save
// path. Rules run unconditionally on every save and short-circuit
// internally on order state; they are not tied to a single operation.
type SaveRule interface {
	Name() string
	// Roots returns the property-path roots the rule reports on, used to
	// decide whether a save that touched those fields must hard-fail.
	Roots() []string
	Check(ctx context.Context, order *models.Order) validation.Violations
}

// RuleSet holds the registered save rules.
type RuleSet struct {
	rules []SaveRule
}

// NewRuleSet builds a rule set from the provided rules.
func NewRuleSet(rules ...SaveRule) *RuleSet {
	return &RuleSet{rules: rules}
}

// Register appends a rule to the set.
func (s *RuleSet) Register(rule SaveRule) {
	if rule == nil {
		return
	}
	s.rules = append(s.rules, rule)
}

// Check runs every rule against the order and concatenates violations.
func (s *RuleSet) Check(ctx context.Context, order *models.Order) validation.Violations {
	if s == nil {
		return nil
	}
	var violations validation.Violations
	for _, rule := range s.rules {
		violations = append(violations, rule.Check(ctx, order)...)
	}
	return violations
}
