package analysis

import (
	"fmt"
	"strings"
)

const (
	apologyLookback       = 10 // messages scanned before an apology for conflict
	reconciliationForward = 20 // messages scanned after a conflict for resolution
)

// messageFlags caches the per-message lexicon hits the apology classifier
// needs, so the windowed scans stay linear overall.
type messageFlags struct {
	explicitApology bool
	softApology     bool
	conflict        bool
	reconciliation  bool
}

func classifyApologyFlags(msgs []Message) []messageFlags {
	flags := make([]messageFlags, len(msgs))
	for i, m := range msgs {
		lower := strings.ToLower(m.Content)
		flags[i] = messageFlags{
			explicitApology: matchesAnyPhrase(lower, apologyExplicit),
			softApology:     matchesAnyPhrase(lower, apologySoft),
			conflict:        anyConflictTerm(lower),
			reconciliation:  matchesAnyPhrase(lower, reconciliationTerms),
		}
	}
	return flags
}

// sincerityScore rates one apology 0-100: base 50, raised by length and
// specific acknowledgment or promises to change, lowered by deflection.
func sincerityScore(content string) int {
	lower := strings.ToLower(content)
	score := 50.0
	if len(content) > 80 {
		score += 10
	}
	if len(content) > 160 {
		score += 5
	}
	if matchesAnyPhrase(lower, acknowledgmentTerms) {
		score += 15
	}
	if matchesAnyPhrase(lower, changePromiseTerms) {
		score += 15
	}
	if matchesAnyPhrase(lower, deflectionTerms) {
		score -= 20
	}
	return int(clamp(score, 0, 100))
}

type apologyTally struct {
	explicit         int
	soft             int
	sinceritySum     int
	firstToApologize int
}

// AnalyzeApologies classifies explicit vs soft apologies per party, scores
// each apology's sincerity, tallies who apologizes first after conflict, and
// measures how often detected conflicts resolve within the forward window.
func AnalyzeApologies(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to analyze apologies")
	}

	flags := classifyApologyFlags(msgs)
	tallies := map[Direction]*apologyTally{
		DirectionRequester:   {},
		DirectionCounterpart: {},
	}

	for i, m := range msgs {
		f := flags[i]
		if !f.explicitApology && !f.softApology {
			continue
		}
		t := tallies[m.Direction]
		if f.explicitApology {
			t.explicit++
		} else {
			t.soft++
		}
		t.sinceritySum += sincerityScore(m.Content)

		if firstAfterConflict(msgs, flags, i) {
			t.firstToApologize++
		}
	}

	conflicts, resolved, msgsToResolve := reconciliationOutcomes(msgs, flags)

	resolutionRate := 0.0
	avgToResolve := 0.0
	if conflicts > 0 {
		resolutionRate = float64(resolved) / float64(conflicts)
	}
	if resolved > 0 {
		avgToResolve = float64(msgsToResolve) / float64(resolved)
	}

	total := 0
	for _, t := range tallies {
		total += t.explicit + t.soft
	}

	return AnalyzerResult{
		Value:       fmt.Sprintf("%d apologies", total),
		Requester:   apologySection(tallies[DirectionRequester]),
		Counterpart: apologySection(tallies[DirectionCounterpart]),
		Comparison: map[string]string{
			"firstToApologize": firstToApologizeLabel(tallies),
		},
		Summary: apologySummary(total, conflicts, resolutionRate),
		Details: []Detail{
			{Label: "conflicts", Value: fmt.Sprintf("%d", conflicts)},
			{Label: "resolved", Value: fmt.Sprintf("%d", resolved)},
			{Label: "resolutionRate", Value: formatPct(resolutionRate * 100)},
			{Label: "avgMessagesToResolve", Value: formatFloat(avgToResolve)},
		},
	}
}

// firstAfterConflict looks back up to apologyLookback messages for a prior
// conflict indicator and checks no apology by the other party landed in
// between.
func firstAfterConflict(msgs []Message, flags []messageFlags, at int) bool {
	start := at - apologyLookback
	if start < 0 {
		start = 0
	}
	conflictIdx := -1
	for j := at - 1; j >= start; j-- {
		if flags[j].conflict {
			conflictIdx = j
			break
		}
	}
	if conflictIdx < 0 {
		return false
	}
	other := DirectionCounterpart
	if msgs[at].Direction == DirectionCounterpart {
		other = DirectionRequester
	}
	for j := conflictIdx + 1; j < at; j++ {
		if msgs[j].Direction == other && (flags[j].explicitApology || flags[j].softApology) {
			return false
		}
	}
	return true
}

// reconciliationOutcomes scans forward from each conflict indicator for an
// apology or reconciliation phrase within the window.
func reconciliationOutcomes(msgs []Message, flags []messageFlags) (conflicts, resolved, msgsToResolve int) {
	for i := range msgs {
		if !flags[i].conflict {
			continue
		}
		conflicts++
		end := i + reconciliationForward
		if end >= len(msgs) {
			end = len(msgs) - 1
		}
		for j := i + 1; j <= end; j++ {
			if flags[j].explicitApology || flags[j].softApology || flags[j].reconciliation {
				resolved++
				msgsToResolve += j - i
				break
			}
		}
	}
	return conflicts, resolved, msgsToResolve
}

func apologySection(t *apologyTally) map[string]string {
	count := t.explicit + t.soft
	avgSincerity := 0
	if count > 0 {
		avgSincerity = t.sinceritySum / count
	}
	return map[string]string{
		"explicit":         fmt.Sprintf("%d", t.explicit),
		"soft":             fmt.Sprintf("%d", t.soft),
		"averageSincerity": fmt.Sprintf("%d", avgSincerity),
		"firstToApologize": fmt.Sprintf("%d", t.firstToApologize),
	}
}

func firstToApologizeLabel(tallies map[Direction]*apologyTally) string {
	req := tallies[DirectionRequester].firstToApologize
	cpt := tallies[DirectionCounterpart].firstToApologize
	switch {
	case req > cpt:
		return "requester"
	case cpt > req:
		return "counterpart"
	case req == 0:
		return "neither"
	default:
		return "even"
	}
}

func apologySummary(total, conflicts int, resolutionRate float64) string {
	if total == 0 && conflicts == 0 {
		return "no apologies or conflicts detected"
	}
	return fmt.Sprintf("%d apologies across %d detected conflicts (%s resolved)",
		total, conflicts, formatPct(resolutionRate*100))
}
