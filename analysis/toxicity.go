package analysis

import (
	"fmt"
	"strings"
)

// Per-match score increments by severity tier.
const (
	toxicitySevereInc   = 0.5
	toxicityStrongInc   = 0.3
	toxicityModerateInc = 0.15
	toxicityMildInc     = 0.05
	gaslightingInc      = 0.3
	escalationInc       = 0.2
	shutdownInc         = 0.15
	dismissiveInc       = 0.1

	yellingPunctInc = 0.1
	yellingCapsInc  = 0.15

	toxicMessageCutoff = 0.25
)

type toxicityScore struct {
	score  float64
	severe bool
}

// AnalyzeToxicity scores every message in [0, 1] from the severity tiers,
// gaslighting and conflict lexicons, with playful-context halving and
// yelling signals. Per-party aggregates reuse the same precomputed scores,
// so the whole analysis is one pass over the stream.
func AnalyzeToxicity(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to assess toxicity")
	}

	scores := make([]toxicityScore, len(msgs))
	for i, m := range msgs {
		scores[i] = scoreToxicity(m.Content)
	}

	var (
		all                  []float64
		toxicCount           int
		reqToxic, cptToxic   int
		reqScores, cptScores []float64
	)
	for i, m := range msgs {
		s := scores[i]
		all = append(all, s.score)
		toxic := s.score > toxicMessageCutoff || s.severe
		if toxic {
			toxicCount++
		}
		if m.Direction == DirectionRequester {
			reqScores = append(reqScores, s.score)
			if toxic {
				reqToxic++
			}
		} else {
			cptScores = append(cptScores, s.score)
			if toxic {
				cptToxic++
			}
		}
	}

	avg := mean(all)
	toxicPct := pct(toxicCount, len(msgs))
	level := toxicityLevel(avg, toxicPct, toxicCount)

	return AnalyzerResult{
		Value: level,
		Requester: map[string]string{
			"averageScore":  formatFloat(mean(reqScores)),
			"toxicMessages": fmt.Sprintf("%d", reqToxic),
		},
		Counterpart: map[string]string{
			"averageScore":  formatFloat(mean(cptScores)),
			"toxicMessages": fmt.Sprintf("%d", cptToxic),
		},
		Comparison: map[string]string{
			"difference": formatFloat(mean(reqScores) - mean(cptScores)),
		},
		Summary: fmt.Sprintf("toxicity level is %s (%s of messages flagged)", level, formatPct(toxicPct)),
		Details: []Detail{
			{Label: "averageScore", Value: formatFloat(avg)},
			{Label: "toxicMessages", Value: fmt.Sprintf("%d", toxicCount)},
			{Label: "toxicPercent", Value: formatPct(toxicPct)},
		},
	}
}

// toxicityLevel buckets the aggregate from mean score and flagged share.
func toxicityLevel(avg, toxicPct float64, toxicCount int) string {
	switch {
	case toxicCount == 0 && avg < 0.05:
		return "none"
	case avg < 0.1 && toxicPct < 10:
		return "low"
	case avg < 0.2 && toxicPct < 25:
		return "moderate"
	case avg < 0.4 && toxicPct < 50:
		return "high"
	default:
		return "severe"
	}
}

// scoreToxicity computes one message's score, clamped to [0, 1].
func scoreToxicity(content string) toxicityScore {
	lower := strings.ToLower(content)

	// Laughing markers halve keyword increments: banter reads differently.
	factor := 1.0
	if matchesAnyPhrase(lower, playfulMarkers) {
		factor = 0.5
	}

	var out toxicityScore
	add := func(terms []string, inc float64) int {
		n := countAnyPhrase(lower, terms)
		out.score += float64(n) * inc * factor
		return n
	}

	if add(toxicitySevere, toxicitySevereInc) > 0 {
		out.severe = true
	}
	add(toxicityStrong, toxicityStrongInc)
	add(toxicityModerate, toxicityModerateInc)
	add(toxicityMild, toxicityMildInc)
	add(gaslightingTerms, gaslightingInc)
	add(conflictEscalation, escalationInc)
	add(conflictShutdown, shutdownInc)
	add(conflictDismissive, dismissiveInc)

	// Yelling signals are not dampened by playful context.
	if strings.Count(content, "!")+strings.Count(content, "?") > 3 {
		out.score += yellingPunctInc
	}
	if len(content) > 10 && capitalRatio(content) > 0.6 {
		out.score += yellingCapsInc
	}

	out.score = clamp(out.score, 0, 1)
	return out
}
