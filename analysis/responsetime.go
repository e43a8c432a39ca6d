package analysis

import (
	"fmt"
	"time"
)

// response is one direction change: a message answering the other party.
type response struct {
	index   int
	by      Direction
	latency time.Duration
}

func extractResponses(msgs []Message) []response {
	var out []response
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Direction == msgs[i-1].Direction {
			continue
		}
		out = append(out, response{
			index:   i,
			by:      msgs[i].Direction,
			latency: msgs[i].Timestamp.Sub(msgs[i-1].Timestamp),
		})
	}
	return out
}

// AnalyzeResponseTimes reports per-party latency statistics (mean, median,
// min/max, spread, quartiles, consistency) plus the callback-consistency
// sub-analysis: how reliably each party answers the other's initiations.
func AnalyzeResponseTimes(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to measure response times")
	}

	responses := extractResponses(msgs)
	if len(responses) == 0 {
		return emptyResult("conversation never changes direction")
	}

	perParty := map[Direction][]float64{}
	for _, r := range responses {
		perParty[r.by] = append(perParty[r.by], r.latency.Seconds())
	}

	all := make([]float64, 0, len(responses))
	for _, r := range responses {
		all = append(all, r.latency.Seconds())
	}
	overallAvg := time.Duration(mean(all) * float64(time.Second))

	reqAnswered, cptAnswered := callbackRates(msgs)

	return AnalyzerResult{
		Value:       formatDuration(overallAvg),
		Requester:   latencySection(perParty[DirectionRequester], reqAnswered),
		Counterpart: latencySection(perParty[DirectionCounterpart], cptAnswered),
		Comparison: map[string]string{
			"fasterResponder": fasterResponderLabel(perParty),
		},
		Summary: fmt.Sprintf("average reply takes %s across %d responses", formatDuration(overallAvg), len(responses)),
		Details: []Detail{
			{Label: "responses", Value: fmt.Sprintf("%d", len(responses))},
			{Label: "average", Value: formatDuration(overallAvg)},
			{Label: "median", Value: formatDuration(time.Duration(median(all) * float64(time.Second)))},
		},
	}
}

func latencySection(latencies []float64, callbackRate float64) map[string]string {
	if len(latencies) == 0 {
		return map[string]string{"responses": "0", "consistency": "unknown"}
	}
	m := mean(latencies)
	sd := stdDev(latencies)
	min, max := minMax(latencies)
	sec := func(v float64) string { return formatDuration(time.Duration(v * float64(time.Second))) }
	return map[string]string{
		"responses":    fmt.Sprintf("%d", len(latencies)),
		"average":      sec(m),
		"median":       sec(median(latencies)),
		"min":          sec(min),
		"max":          sec(max),
		"stdDev":       sec(sd),
		"p25":          sec(percentile(latencies, 25)),
		"p75":          sec(percentile(latencies, 75)),
		"consistency":  consistencyLabel(m, sd),
		"callbackRate": formatPct(callbackRate * 100),
	}
}

// callbackWindow bounds how late a reply can land and still count as
// answering an initiation.
const callbackWindow = 24 * time.Hour

// callbackRates measures how reliably each party answers the other's
// initiations. An initiation is the first message after a silence longer
// than initiationGap (or the stream start); it counts as answered when the
// other party's next message lands within callbackWindow of it. A fresh
// initiation by the same party before any reply marks the previous one as
// ignored.
func callbackRates(msgs []Message) (requesterRate, counterpartRate float64) {
	fresh := func(i int) bool {
		return i == 0 || (msgs[i].TimeSinceLast != nil && *msgs[i].TimeSinceLast > initiationGap)
	}

	counts := map[Direction]struct{ initiated, answered int }{}
	for i, m := range msgs {
		if !fresh(i) {
			continue
		}
		c := counts[m.Direction]
		c.initiated++
		for j := i + 1; j < len(msgs); j++ {
			if msgs[j].Direction == m.Direction {
				if fresh(j) {
					break
				}
				continue
			}
			if msgs[j].Timestamp.Sub(m.Timestamp) <= callbackWindow {
				c.answered++
			}
			break
		}
		counts[m.Direction] = c
	}

	rate := func(d Direction) float64 {
		c := counts[d]
		if c.initiated == 0 {
			return 0
		}
		return float64(c.answered) / float64(c.initiated)
	}
	// Requester's callback rate is how often they answered counterpart
	// initiations, and vice versa.
	return rate(DirectionCounterpart), rate(DirectionRequester)
}

func fasterResponderLabel(perParty map[Direction][]float64) string {
	req := mean(perParty[DirectionRequester])
	cpt := mean(perParty[DirectionCounterpart])
	switch {
	case len(perParty[DirectionRequester]) == 0 || len(perParty[DirectionCounterpart]) == 0:
		return "unknown"
	case req < cpt*0.8:
		return "requester"
	case cpt < req*0.8:
		return "counterpart"
	default:
		return "similar"
	}
}
