package analysis

import (
	"fmt"
	"time"
)

// Streak is a maximal run of at least two consecutive messages from the same
// party with no intervening reply.
type Streak struct {
	Direction Direction
	Start     int // index into the stream of the first message
	End       int // index of the last message, inclusive
	Count     int
	AvgGap    time.Duration // mean gap between consecutive messages inside the run
	Pacing    string        // rapid, quick, moderate, spaced
}

// detectStreaks segments the ordered stream into same-direction runs and
// keeps the ones of length >= 2.
func detectStreaks(msgs []Message) []Streak {
	var streaks []Streak
	runStart := 0
	for i := 1; i <= len(msgs); i++ {
		if i < len(msgs) && msgs[i].Direction == msgs[runStart].Direction {
			continue
		}
		if count := i - runStart; count >= 2 {
			s := Streak{
				Direction: msgs[runStart].Direction,
				Start:     runStart,
				End:       i - 1,
				Count:     count,
			}
			total := msgs[i-1].Timestamp.Sub(msgs[runStart].Timestamp)
			s.AvgGap = total / time.Duration(count-1)
			s.Pacing = streakPacing(s.AvgGap)
			streaks = append(streaks, s)
		}
		runStart = i
	}
	return streaks
}

func streakPacing(avgGap time.Duration) string {
	switch {
	case avgGap < 30*time.Second:
		return "rapid"
	case avgGap < 2*time.Minute:
		return "quick"
	case avgGap < 10*time.Minute:
		return "moderate"
	default:
		return "spaced"
	}
}

type streakTally struct {
	doubles    int // runs of exactly 2+
	triples    int // runs of 3+
	quadPlus   int // runs of 4+
	longest    int
	totalRuns  int
	totalMsgs  int // messages absorbed into streaks
	partyMsgs  int
	lengthsSum int
}

func (t streakTally) avgLength() float64 {
	if t.totalRuns == 0 {
		return 0
	}
	return float64(t.lengthsSum) / float64(t.totalRuns)
}

func (t streakTally) rate() float64 {
	if t.partyMsgs == 0 {
		return 0
	}
	return float64(t.totalMsgs) / float64(t.partyMsgs)
}

// investmentScore combines capped contributions from the streak counts and
// the streak frequency relative to the whole stream, clamped to [0, 100].
func investmentScore(t streakTally, totalMessages int) int {
	score := 0.0
	score += clamp(float64(t.doubles)*5, 0, 30)
	score += clamp(float64(t.triples)*7, 0, 25)
	score += clamp(float64(t.quadPlus)*10, 0, 25)
	if totalMessages > 0 {
		freq := float64(t.totalRuns) / float64(totalMessages)
		score += clamp(freq*100, 0, 20)
	}
	return int(clamp(score, 0, 100))
}

// AnalyzeStreaks runs the double-text detector: per-party streak counts by
// threshold, longest streak, rates, pacing, and the investment score.
func AnalyzeStreaks(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to detect streaks")
	}

	streaks := detectStreaks(msgs)
	tallies := map[Direction]*streakTally{
		DirectionRequester:   {},
		DirectionCounterpart: {},
	}
	for _, m := range msgs {
		tallies[m.Direction].partyMsgs++
	}
	for _, s := range streaks {
		t := tallies[s.Direction]
		t.doubles++
		if s.Count >= 3 {
			t.triples++
		}
		if s.Count >= 4 {
			t.quadPlus++
		}
		if s.Count > t.longest {
			t.longest = s.Count
		}
		t.totalRuns++
		t.totalMsgs += s.Count
		t.lengthsSum += s.Count
	}

	req := tallies[DirectionRequester]
	cpt := tallies[DirectionCounterpart]
	reqInvest := investmentScore(*req, len(msgs))
	cptInvest := investmentScore(*cpt, len(msgs))

	pacingCounts := map[string]int{}
	for _, s := range streaks {
		pacingCounts[s.Pacing]++
	}

	return AnalyzerResult{
		Value:       fmt.Sprintf("%d streaks", len(streaks)),
		Requester:   streakSection(req, reqInvest),
		Counterpart: streakSection(cpt, cptInvest),
		Comparison: map[string]string{
			"investmentGap": fmt.Sprintf("%d", reqInvest-cptInvest),
			"moreInvested":  moreInvestedLabel(reqInvest, cptInvest),
		},
		Summary: fmt.Sprintf("%d double-text streaks detected across the conversation", len(streaks)),
		Details: []Detail{
			{Label: "totalStreaks", Value: fmt.Sprintf("%d", len(streaks))},
			{Label: "rapid", Value: fmt.Sprintf("%d", pacingCounts["rapid"])},
			{Label: "quick", Value: fmt.Sprintf("%d", pacingCounts["quick"])},
			{Label: "moderate", Value: fmt.Sprintf("%d", pacingCounts["moderate"])},
			{Label: "spaced", Value: fmt.Sprintf("%d", pacingCounts["spaced"])},
		},
	}
}

func streakSection(t *streakTally, invest int) map[string]string {
	return map[string]string{
		"doubleTexts":     fmt.Sprintf("%d", t.doubles),
		"tripleTexts":     fmt.Sprintf("%d", t.triples),
		"quadPlusTexts":   fmt.Sprintf("%d", t.quadPlus),
		"longestStreak":   fmt.Sprintf("%d", t.longest),
		"averageStreak":   formatFloat(t.avgLength()),
		"streakMessages":  fmt.Sprintf("%d", t.totalMsgs),
		"doubleTextRate":  formatFloat(t.rate()),
		"investmentScore": fmt.Sprintf("%d", invest),
	}
}

func moreInvestedLabel(req, cpt int) string {
	switch {
	case req > cpt+5:
		return "requester"
	case cpt > req+5:
		return "counterpart"
	default:
		return "balanced"
	}
}
