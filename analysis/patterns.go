package analysis

import (
	"fmt"
	"strings"
)

type patternTally struct {
	messages      int
	totalLength   int
	longest       int
	questions     int
	statements    int
	emoji         int
	words         int
	distinctWords map[string]struct{}
}

func (t *patternTally) vocabularyRichness() float64 {
	if t.words == 0 {
		return 0
	}
	return float64(len(t.distinctWords)) / float64(t.words)
}

// AnalyzeCommunicationPatterns profiles each party's style: message length,
// vocabulary richness, question vs statement ratio, emoji rate, plus an
// overall conversational-balance ratio.
func AnalyzeCommunicationPatterns(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to profile communication patterns")
	}

	tallies := map[Direction]*patternTally{
		DirectionRequester:   {distinctWords: map[string]struct{}{}},
		DirectionCounterpart: {distinctWords: map[string]struct{}{}},
	}
	for _, m := range msgs {
		t := tallies[m.Direction]
		t.messages++
		t.totalLength += m.Length
		if m.Length > t.longest {
			t.longest = m.Length
		}
		if strings.Contains(m.Content, "?") {
			t.questions++
		} else {
			t.statements++
		}
		t.emoji += countEmoji(m.Content)
		for _, w := range tokenize(strings.ToLower(m.Content)) {
			t.words++
			t.distinctWords[w] = struct{}{}
		}
	}

	req := tallies[DirectionRequester]
	cpt := tallies[DirectionCounterpart]

	balance := balanceRatio(req.messages, cpt.messages)
	label := balanceLabel(balance)

	return AnalyzerResult{
		Value:       label,
		Requester:   patternSection(req),
		Counterpart: patternSection(cpt),
		Comparison: map[string]string{
			"balanceRatio": formatFloat(balance),
			"balance":      label,
		},
		Summary: fmt.Sprintf("conversation is %s (message ratio %s)", label, formatFloat(balance)),
		Details: []Detail{
			{Label: "requesterShare", Value: formatPct(pct(req.messages, len(msgs)))},
			{Label: "counterpartShare", Value: formatPct(pct(cpt.messages, len(msgs)))},
		},
	}
}

func patternSection(t *patternTally) map[string]string {
	avgLen := 0.0
	emojiRate := 0.0
	qRatio := 0.0
	if t.messages > 0 {
		avgLen = float64(t.totalLength) / float64(t.messages)
		emojiRate = float64(t.emoji) / float64(t.messages)
	}
	if t.statements > 0 {
		qRatio = float64(t.questions) / float64(t.statements)
	} else if t.questions > 0 {
		qRatio = float64(t.questions)
	}
	return map[string]string{
		"averageLength":      formatFloat(avgLen),
		"longestMessage":     fmt.Sprintf("%d", t.longest),
		"vocabularyRichness": formatFloat(t.vocabularyRichness()),
		"questionRatio":      formatFloat(qRatio),
		"emojiRate":          formatFloat(emojiRate),
	}
}

// balanceRatio is smaller party share over larger, in (0, 1].
func balanceRatio(a, b int) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	return float64(a) / float64(b)
}

func balanceLabel(ratio float64) string {
	switch {
	case ratio >= 0.8:
		return "balanced"
	case ratio >= 0.5:
		return "leaning one way"
	default:
		return "one-sided"
	}
}
