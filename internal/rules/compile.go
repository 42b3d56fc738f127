// Package rules compiles persisted rule definitions into the ordered,
// validated set the classification engine evaluates. Compilation is always
// wholesale: any rule mutation rebuilds the entire set so evaluation order
// reflects current priorities, never an incrementally patched state.
package rules

import (
	"regexp"
	"sort"

	"fjacquet/csv-classify/internal/models"
)

// CompiledRule is one rule ready for evaluation.
type CompiledRule struct {
	Pattern  *regexp.Regexp
	Target   models.TargetRef
	RuleID   int64
	Priority int
}

// CompiledRuleSet is the ordered active rule set. It is read-only once
// built; callers hold it as an immutable snapshot for the duration of a
// classification pass and swap in a new set on reload.
type CompiledRuleSet struct {
	rules []CompiledRule
}

// Compile attempts to compile every rule's pattern as a case-insensitive
// regular expression. Rules that fail to compile are excluded from the
// active set and recorded in the failure list; the rest of the set is
// unaffected. The result is sorted by (priority ascending, id ascending),
// which is the single source of truth for first-match-wins evaluation.
func Compile(defs []models.Rule) (*CompiledRuleSet, []models.FailedRule) {
	compiled := make([]CompiledRule, 0, len(defs))
	var failed []models.FailedRule

	for _, def := range defs {
		re, err := regexp.Compile("(?i)" + def.Pattern)
		if err != nil {
			failed = append(failed, models.FailedRule{
				Pattern: def.Pattern,
				Error:   err.Error(),
			})
			continue
		}
		compiled = append(compiled, CompiledRule{
			Pattern:  re,
			Target:   def.Target,
			RuleID:   def.ID,
			Priority: def.Priority,
		})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		if compiled[i].Priority != compiled[j].Priority {
			return compiled[i].Priority < compiled[j].Priority
		}
		return compiled[i].RuleID < compiled[j].RuleID
	})

	return &CompiledRuleSet{rules: compiled}, failed
}

// Len returns the number of active rules.
func (s *CompiledRuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules returns the rules in evaluation order.
func (s *CompiledRuleSet) Rules() []CompiledRule {
	if s == nil {
		return nil
	}
	return s.rules
}

// FirstMatch scans the set in order and returns the first rule whose
// pattern matches anywhere in the description.
func (s *CompiledRuleSet) FirstMatch(description string) (CompiledRule, bool) {
	if s == nil {
		return CompiledRule{}, false
	}
	for _, r := range s.rules {
		if r.Pattern.MatchString(description) {
			return r, true
		}
	}
	return CompiledRule{}, false
}

// MatchingLabels scans the entire set, ignoring the category waterfall's
// short-circuit, and returns the label IDs of every label rule that
// matches. The result is de-duplicated, preserving rule order.
func (s *CompiledRuleSet) MatchingLabels(description string) []int64 {
	if s == nil {
		return nil
	}
	var out []int64
	seen := make(map[int64]struct{})
	for _, r := range s.rules {
		if r.Target.Kind != models.TargetLabel {
			continue
		}
		if !r.Pattern.MatchString(description) {
			continue
		}
		if _, dup := seen[r.Target.ID]; dup {
			continue
		}
		seen[r.Target.ID] = struct{}{}
		out = append(out, r.Target.ID)
	}
	return out
}
