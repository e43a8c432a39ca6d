package analysis

import (
	"fmt"
	"strings"
)

// healthTrendMinMessages gates the first-half/second-half trend comparison.
const healthTrendMinMessages = 10

// healthSubScores holds the five weighted components of the positivity
// composite. The composite depends only on the message stream itself; it
// recomputes its inputs rather than consuming other analyzers' outputs.
type healthSubScores struct {
	sentiment   float64 // 0..40
	engagement  float64 // 0..30
	toxicity    float64 // -30..0
	effort      float64 // 0..20
	consistency float64 // 0..10
}

func (s healthSubScores) total() float64 {
	return clamp(s.sentiment+s.engagement+s.toxicity+s.effort+s.consistency, 0, 100)
}

// AnalyzeHealth computes the positivity/health composite: five weighted
// sub-components summed and clamped to [0, 100], a bucketed label, and a
// trend from comparing the sentiment component across stream halves.
func AnalyzeHealth(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to score relationship health")
	}

	sub := computeHealthSubScores(msgs)
	total := sub.total()
	label := healthLabel(total)

	trend := "insufficient_data"
	if len(msgs) >= healthTrendMinMessages {
		half := len(msgs) / 2
		first := healthSentimentComponent(msgs[:half])
		second := healthSentimentComponent(msgs[half:])
		switch {
		case second-first > 2:
			trend = "improving"
		case first-second > 2:
			trend = "declining"
		default:
			trend = "stable"
		}
	}

	return AnalyzerResult{
		Value:   fmt.Sprintf("%d", int(total)),
		Summary: fmt.Sprintf("relationship health is %s (%d/100), trend %s", label, int(total), trend),
		Details: []Detail{
			{Label: "label", Value: label},
			{Label: "trend", Value: trend},
			{Label: "sentimentComponent", Value: formatFloat(sub.sentiment)},
			{Label: "engagementComponent", Value: formatFloat(sub.engagement)},
			{Label: "toxicityPenalty", Value: formatFloat(sub.toxicity)},
			{Label: "effortComponent", Value: formatFloat(sub.effort)},
			{Label: "consistencyComponent", Value: formatFloat(sub.consistency)},
		},
	}
}

func healthLabel(total float64) string {
	switch {
	case total >= 80:
		return "excellent"
	case total >= 60:
		return "good"
	case total >= 40:
		return "moderate"
	case total >= 20:
		return "poor"
	default:
		return "toxic"
	}
}

func computeHealthSubScores(msgs []Message) healthSubScores {
	var sub healthSubScores
	sub.sentiment = healthSentimentComponent(msgs)
	sub.engagement = healthEngagementComponent(msgs)
	sub.toxicity = healthToxicityPenalty(msgs)
	sub.effort = healthEffortComponent(msgs)
	sub.consistency = healthConsistencyComponent(msgs)
	return sub
}

// healthSentimentComponent scales the positive/negative keyword ratio to
// 0..40. A stream with no sentiment keywords sits at the neutral midpoint.
func healthSentimentComponent(msgs []Message) float64 {
	posHits, negHits := 0, 0
	for _, m := range msgs {
		lower := strings.ToLower(m.Content)
		for _, tier := range positiveTiers {
			posHits += countAnyPhrase(lower, tier.terms)
		}
		for _, tier := range negativeTiers {
			negHits += countAnyPhrase(lower, tier.terms)
		}
	}
	if posHits+negHits == 0 {
		return 20
	}
	ratio := float64(posHits) / float64(posHits+negHits)
	return ratio * 40
}

// healthEngagementComponent scores question/emoji/length density to 0..30.
func healthEngagementComponent(msgs []Message) float64 {
	questions, emoji, totalLen := 0, 0, 0
	for _, m := range msgs {
		questions += strings.Count(m.Content, "?")
		emoji += countEmoji(m.Content)
		totalLen += m.Length
	}
	n := float64(len(msgs))
	score := clamp(float64(questions)/n*60, 0, 12)
	score += clamp(float64(emoji)/n*40, 0, 8)
	score += clamp(float64(totalLen)/n/80, 0, 1) * 10
	return clamp(score, 0, 30)
}

// healthToxicityPenalty maps the toxic-message share to a 0..-30 penalty.
func healthToxicityPenalty(msgs []Message) float64 {
	toxic := 0
	for _, m := range msgs {
		s := scoreToxicity(m.Content)
		if s.score > toxicMessageCutoff || s.severe {
			toxic++
		}
	}
	share := pct(toxic, len(msgs))
	switch {
	case toxic == 0:
		return 0
	case share < 5:
		return -5
	case share < 15:
		return -15
	case share < 30:
		return -25
	default:
		return -30
	}
}

// healthEffortComponent scores the counterpart's responsiveness and reply
// length to 0..20: health as seen from the requester's side depends on the
// other party showing up.
func healthEffortComponent(msgs []Message) float64 {
	_, counterpartRate := callbackRates(msgs)

	cptLen, cptCount := 0, 0
	for _, m := range msgs {
		if m.Direction == DirectionCounterpart {
			cptLen += m.Length
			cptCount++
		}
	}
	avgLen := 0.0
	if cptCount > 0 {
		avgLen = float64(cptLen) / float64(cptCount)
	}
	return clamp(counterpartRate*12+clamp(avgLen/80, 0, 1)*8, 0, 20)
}

// healthConsistencyComponent scores timestamp-gap regularity to 0..10.
func healthConsistencyComponent(msgs []Message) float64 {
	var gaps []float64
	for _, m := range msgs {
		if m.TimeSinceLast != nil {
			gaps = append(gaps, m.TimeSinceLast.Seconds())
		}
	}
	if len(gaps) == 0 {
		return 0
	}
	m := mean(gaps)
	if m == 0 {
		return 0
	}
	cv := stdDev(gaps) / m
	switch {
	case cv < 0.5:
		return 10
	case cv < 1.0:
		return 7
	case cv < 2.0:
		return 4
	default:
		return 1
	}
}
