package discovery

import "github.com/campuscrush/app/internal/entity"

// Rule is one eligibility predicate. A candidate must pass every rule
// in the chain to enter the queue. Already-swiped and blocked targets
// are excluded earlier at the fetch, so rules only see fresh faces.
type Rule struct {
	Name  string
	Allow func(self, candidate *entity.Profile) bool
}

// RuleNotShadowBanned hides flagged profiles without notifying them.
var RuleNotShadowBanned = Rule{
	Name: "not_shadow_banned",
	Allow: func(_, candidate *entity.Profile) bool {
		return !candidate.IsShadowBanned
	},
}

// RuleOppositeSexOnly is current campus policy, kept as a named rule so
// revisiting it never touches scoring or queue code.
var RuleOppositeSexOnly = Rule{
	Name: "opposite_sex_only",
	Allow: func(self, candidate *entity.Profile) bool {
		return self.Sex != candidate.Sex
	},
}

func DefaultRules() []Rule {
	return []Rule{RuleNotShadowBanned, RuleOppositeSexOnly}
}

func eligible(rules []Rule, self, candidate *entity.Profile) bool {
	for _, rule := range rules {
		if !rule.Allow(self, candidate) {
			return false
		}
	}
	return true
}

// Score computes the per-viewer compatibility value: a deterministic
// core from shared attributes plus the given jitter, capped at 99.
// Recomputed on every load, never persisted.
func Score(self, candidate *entity.Profile, jitter int) int {
	score := 50

	if self.Section != "" && self.Section == candidate.Section {
		score += 10
	}

	diff := self.Chronotype - candidate.Chronotype
	if diff < 0 {
		diff = -diff
	}
	if diff < 20 {
		score += 15
	}

	if self.Program != "" && self.Program == candidate.Program && self.Batch == candidate.Batch {
		score += 5
	}

	if self.Sex != candidate.Sex {
		score += 10
	}

	score += jitter
	if score > 99 {
		score = 99
	}
	return score
}
