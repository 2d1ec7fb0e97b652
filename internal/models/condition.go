package models

import "strings"

// Condition is the canonical state of an offer.
type Condition string

const (
	ConditionNew            Condition = "new"
	ConditionUsedLikeNew    Condition = "used-like-new"
	ConditionUsedVeryGood   Condition = "used-very-good"
	ConditionUsedGood       Condition = "used-good"
	ConditionUsedAcceptable Condition = "used-acceptable"
	ConditionUsed           Condition = "used"
	ConditionUnknown        Condition = "unknown"
)

// conditionTable maps keyword sets to canonical states. Listing pages mix
// Italian and English labels. Order matters: the multi-word used subtypes
// must be tested before the bare "used"/"usato" fallback or every used
// offer collapses to the generic state.
var conditionTable = []struct {
	state    Condition
	keywords []string
}{
	{ConditionUsedLikeNew, []string{"usato - come nuovo", "used - like new"}},
	{ConditionUsedVeryGood, []string{"usato - ottime condizioni", "used - very good"}},
	{ConditionUsedGood, []string{"usato - buone condizioni", "used - good"}},
	{ConditionUsedAcceptable, []string{"usato - condizioni accettabili", "used - acceptable"}},
	{ConditionUsed, []string{"usato", "used"}},
	{ConditionNew, []string{"nuovo", "new"}},
}

// NormalizeCondition maps free-text condition labels onto a canonical state.
// The input is whitespace-normalized and matched case-insensitively; the
// first table entry with a matching keyword wins. No match yields
// ConditionUnknown, which is a valid result, not an error.
func NormalizeCondition(raw string) Condition {
	cleaned := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if cleaned == "" {
		return ConditionUnknown
	}
	for _, entry := range conditionTable {
		for _, kw := range entry.keywords {
			if strings.Contains(cleaned, kw) {
				return entry.state
			}
		}
	}
	return ConditionUnknown
}
