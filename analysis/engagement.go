package analysis

import (
	"fmt"
	"strings"
	"time"
)

// initiationGap is the silence that makes the next message a fresh
// conversation initiation rather than a continuation.
const initiationGap = 4 * time.Hour

type engagementTally struct {
	messages    int
	questions   int
	emoji       int
	totalLength int
	initiations int
}

func (t engagementTally) avgLength() float64 {
	if t.messages == 0 {
		return 0
	}
	return float64(t.totalLength) / float64(t.messages)
}

// engagementScore folds question, emoji and length densities plus initiation
// share into a 0-100 score.
func engagementScore(t engagementTally, totalInitiations int) int {
	if t.messages == 0 {
		return 0
	}
	qDensity := float64(t.questions) / float64(t.messages)
	eDensity := float64(t.emoji) / float64(t.messages)
	score := clamp(qDensity*100, 0, 30) + clamp(eDensity*80, 0, 20)
	score += clamp(t.avgLength()/120, 0, 1) * 30
	if totalInitiations > 0 {
		score += float64(t.initiations) / float64(totalInitiations) * 20
	}
	return int(clamp(score, 0, 100))
}

// AnalyzeEngagement measures how much each party puts into the conversation:
// questions asked, emoji used, message length, and who starts conversations
// after long silences.
func AnalyzeEngagement(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to measure engagement")
	}

	tallies := map[Direction]*engagementTally{
		DirectionRequester:   {},
		DirectionCounterpart: {},
	}
	for i, m := range msgs {
		t := tallies[m.Direction]
		t.messages++
		t.questions += strings.Count(m.Content, "?")
		t.emoji += countEmoji(m.Content)
		t.totalLength += m.Length
		if i == 0 || (m.TimeSinceLast != nil && *m.TimeSinceLast > initiationGap) {
			t.initiations++
		}
	}

	req := tallies[DirectionRequester]
	cpt := tallies[DirectionCounterpart]
	totalInit := req.initiations + cpt.initiations
	reqScore := engagementScore(*req, totalInit)
	cptScore := engagementScore(*cpt, totalInit)

	return AnalyzerResult{
		Value:       fmt.Sprintf("%d / %d", reqScore, cptScore),
		Requester:   engagementSection(req, reqScore),
		Counterpart: engagementSection(cpt, cptScore),
		Comparison: map[string]string{
			"balance": engagementBalanceLabel(reqScore, cptScore),
		},
		Summary: fmt.Sprintf("engagement scores: requester %d, counterpart %d", reqScore, cptScore),
		Details: []Detail{
			{Label: "totalQuestions", Value: fmt.Sprintf("%d", req.questions+cpt.questions)},
			{Label: "totalEmoji", Value: fmt.Sprintf("%d", req.emoji+cpt.emoji)},
			{Label: "initiations", Value: fmt.Sprintf("%d", totalInit)},
		},
	}
}

func engagementSection(t *engagementTally, score int) map[string]string {
	return map[string]string{
		"score":         fmt.Sprintf("%d", score),
		"questions":     fmt.Sprintf("%d", t.questions),
		"emoji":         fmt.Sprintf("%d", t.emoji),
		"averageLength": formatFloat(t.avgLength()),
		"initiations":   fmt.Sprintf("%d", t.initiations),
	}
}

func engagementBalanceLabel(req, cpt int) string {
	diff := req - cpt
	switch {
	case diff > 20:
		return "requester carries the conversation"
	case diff > 8:
		return "requester slightly more engaged"
	case diff < -20:
		return "counterpart carries the conversation"
	case diff < -8:
		return "counterpart slightly more engaged"
	default:
		return "evenly engaged"
	}
}
