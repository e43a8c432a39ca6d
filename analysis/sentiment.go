package analysis

import (
	"fmt"
	"strings"
)

// Sentiment scoring constants.
const (
	negationWindow           = 4    // words before a keyword a negation can occupy
	sarcasmDamp              = 0.30 // surviving share of a sarcastic positive hit
	negatedNegativeShare     = 0.5  // "not sad" is mildly positive, not fully
	passiveAggressivePenalty = 0.4
	sentimentPositiveCutoff  = 0.15
	sentimentNegativeCutoff  = -0.15
)

// AnalyzeSentiment scores every message in [-1, 1] with the tiered lexicons,
// negation window, sarcasm and passive-aggressive heuristics, and intensity
// amplifiers, then reports the classification breakdown and a per-party
// comparison.
func AnalyzeSentiment(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to score sentiment")
	}

	scores := make([]float64, len(msgs))
	for i, m := range msgs {
		scores[i] = scoreSentiment(m.Content)
	}

	pos, neg, neu := 0, 0, 0
	for _, s := range scores {
		switch classifySentiment(s) {
		case "positive":
			pos++
		case "negative":
			neg++
		default:
			neu++
		}
	}

	dominant := "neutral"
	dominantCount := neu
	if pos > dominantCount {
		dominant, dominantCount = "positive", pos
	}
	if neg > dominantCount {
		dominant, dominantCount = "negative", neg
	}
	confidence := float64(dominantCount) / float64(len(msgs))

	var reqScores, cptScores []float64
	for i, m := range msgs {
		if m.Direction == DirectionRequester {
			reqScores = append(reqScores, scores[i])
		} else {
			cptScores = append(cptScores, scores[i])
		}
	}
	reqAvg, cptAvg := mean(reqScores), mean(cptScores)
	diff := reqAvg - cptAvg

	return AnalyzerResult{
		Value: dominant,
		Requester: map[string]string{
			"averageScore": formatFloat(reqAvg),
			"messages":     fmt.Sprintf("%d", len(reqScores)),
		},
		Counterpart: map[string]string{
			"averageScore": formatFloat(cptAvg),
			"messages":     fmt.Sprintf("%d", len(cptScores)),
		},
		Comparison: map[string]string{
			"difference":     formatFloat(diff),
			"interpretation": sentimentComparisonLabel(diff),
		},
		Summary: fmt.Sprintf("overall tone is %s (%.0f%% of messages)", dominant, confidence*100),
		Details: []Detail{
			{Label: "positive", Value: fmt.Sprintf("%d (%s)", pos, formatPct(pct(pos, len(msgs))))},
			{Label: "negative", Value: fmt.Sprintf("%d (%s)", neg, formatPct(pct(neg, len(msgs))))},
			{Label: "neutral", Value: fmt.Sprintf("%d (%s)", neu, formatPct(pct(neu, len(msgs))))},
			{Label: "averageScore", Value: formatFloat(mean(scores))},
			{Label: "confidence", Value: formatFloat(confidence)},
		},
	}
}

func classifySentiment(score float64) string {
	switch {
	case score > sentimentPositiveCutoff:
		return "positive"
	case score < sentimentNegativeCutoff:
		return "negative"
	default:
		return "neutral"
	}
}

func sentimentComparisonLabel(diff float64) string {
	switch {
	case diff > 0.2:
		return "requester noticeably more positive"
	case diff > 0.05:
		return "requester slightly more positive"
	case diff < -0.2:
		return "counterpart noticeably more positive"
	case diff < -0.05:
		return "counterpart slightly more positive"
	default:
		return "similar tone on both sides"
	}
}

// keywordHit is one lexicon match anchored at a token position.
type keywordHit struct {
	tokenIndex int
	weight     float64
	positive   bool
}

// scoreSentiment computes the per-message sentiment score in [-1, 1].
func scoreSentiment(content string) float64 {
	lower := strings.ToLower(content)
	tokens := tokenize(lower)
	sarcastic := detectSarcasm(lower, tokens, content)

	raw := 0.0
	for _, hit := range collectKeywordHits(tokens) {
		negated := isNegated(tokens, hit.tokenIndex)
		switch {
		case hit.positive && negated:
			// A negated positive keyword subtracts its weight outright.
			raw -= hit.weight
		case hit.positive && sarcastic:
			raw += hit.weight * sarcasmDamp
		case hit.positive:
			raw += hit.weight
		case negated:
			// "not sad" ends up mildly positive.
			raw += hit.weight * negatedNegativeShare
		default:
			raw -= hit.weight
		}
	}

	if isPassiveAggressive(lower) {
		raw -= passiveAggressivePenalty
	}

	// Bounded question bonus: curiosity reads as engagement.
	if q := strings.Count(content, "?"); q > 0 {
		bonus := 0.05 * float64(q)
		if bonus > 0.15 {
			bonus = 0.15
		}
		raw += bonus
	}

	// Caps and exclamations amplify whatever sign the message already has.
	if raw != 0 {
		amp := 1.0
		if caps := capsWordCount(content); caps > 0 {
			if caps > 3 {
				caps = 3
			}
			amp += 0.15 * float64(caps)
		}
		if excl := strings.Count(content, "!"); excl > 0 {
			if excl > 3 {
				excl = 3
			}
			amp += 0.10 * float64(excl)
		}
		raw *= amp
	}

	raw += emojiScoreSum(content) * 0.25

	return clamp(raw, -1, 1)
}

// collectKeywordHits matches both sentiment lexicons against the token
// stream. Multi-word phrases match as consecutive tokens, which keeps their
// anchor position available for the negation window.
func collectKeywordHits(tokens []string) []keywordHit {
	var hits []keywordHit
	for _, tier := range positiveTiers {
		hits = appendTierHits(hits, tokens, tier, true)
	}
	for _, tier := range negativeTiers {
		hits = appendTierHits(hits, tokens, tier, false)
	}
	return hits
}

func appendTierHits(hits []keywordHit, tokens []string, tier lexiconTier, positive bool) []keywordHit {
	for _, term := range tier.terms {
		termTokens := strings.Fields(term)
		if len(termTokens) == 0 {
			continue
		}
		for i := 0; i+len(termTokens) <= len(tokens); i++ {
			if tokensMatchAt(tokens, i, termTokens) {
				hits = append(hits, keywordHit{tokenIndex: i, weight: tier.weight, positive: positive})
			}
		}
	}
	return hits
}

func tokensMatchAt(tokens []string, at int, term []string) bool {
	for j, tt := range term {
		if tokens[at+j] != tt {
			return false
		}
	}
	return true
}

// isNegated reports whether a negation term sits inside the window of words
// preceding the keyword.
func isNegated(tokens []string, at int) bool {
	start := at - negationWindow
	if start < 0 {
		start = 0
	}
	for _, t := range tokens[start:at] {
		if _, ok := negationTerms[t]; ok {
			return true
		}
	}
	return false
}

// detectSarcasm applies three heuristics: an explicit marker phrase, a
// positive adjective repeated at least twice, or a positive adjective
// trailed by excessive punctuation.
func detectSarcasm(lower string, tokens []string, content string) bool {
	for _, marker := range sarcasmMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	adjSeen := map[string]int{}
	hasPositiveAdj := false
	for _, t := range tokens {
		if _, ok := positiveAdjectives[t]; ok {
			hasPositiveAdj = true
			adjSeen[t]++
			if adjSeen[t] >= 2 {
				return true
			}
		}
	}

	if hasPositiveAdj {
		trailing := 0
		for i := len(content) - 1; i >= 0; i-- {
			c := content[i]
			if c == '!' || c == '?' {
				trailing++
				continue
			}
			break
		}
		if trailing >= 3 {
			return true
		}
	}
	return false
}

func isPassiveAggressive(lower string) bool {
	trimmed := strings.TrimSpace(lower)
	if _, ok := passiveAggressiveDismissals[trimmed]; ok {
		return true
	}
	return matchesAnyPhrase(lower, passiveAggressiveTerms)
}
