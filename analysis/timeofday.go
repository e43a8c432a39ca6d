package analysis

import (
	"fmt"
)

// Day parts used by the weekday/time-of-day analyzer.
var dayParts = []struct {
	name       string
	start, end int // start inclusive, end exclusive; night wraps midnight
}{
	{"morning", 5, 12},
	{"afternoon", 12, 17},
	{"evening", 17, 22},
	{"night", 22, 5},
}

func dayPartFor(hour int) string {
	for _, p := range dayParts {
		if p.start < p.end {
			if hour >= p.start && hour < p.end {
				return p.name
			}
		} else if hour >= p.start || hour < p.end {
			return p.name
		}
	}
	return "night"
}

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// AnalyzeTiming buckets messages per weekday and day part, reporting each
// party's peak bucket and the busiest hour overall.
func AnalyzeTiming(msgs []Message) AnalyzerResult {
	if len(msgs) <= 1 {
		return emptyResult("not enough messages to find timing patterns")
	}

	type buckets struct {
		weekday [7]int
		part    map[string]int
	}
	perParty := map[Direction]*buckets{
		DirectionRequester:   {part: map[string]int{}},
		DirectionCounterpart: {part: map[string]int{}},
	}
	var hourCounts [24]int

	for _, m := range msgs {
		b := perParty[m.Direction]
		b.weekday[int(m.Timestamp.Weekday())]++
		b.part[dayPartFor(m.Timestamp.Hour())]++
		hourCounts[m.Timestamp.Hour()]++
	}

	peakHour := 0
	for h, c := range hourCounts {
		if c > hourCounts[peakHour] {
			peakHour = h
		}
	}

	section := func(b *buckets) map[string]string {
		peakDay := 0
		for d, c := range b.weekday {
			if c > b.weekday[peakDay] {
				peakDay = d
			}
		}
		peakPart := "morning"
		for _, p := range dayParts {
			if b.part[p.name] > b.part[peakPart] {
				peakPart = p.name
			}
		}
		s := map[string]string{
			"peakWeekday": weekdayNames[peakDay],
			"peakDayPart": peakPart,
		}
		for _, p := range dayParts {
			s[p.name] = fmt.Sprintf("%d", b.part[p.name])
		}
		for d, c := range b.weekday {
			s[weekdayNames[d]] = fmt.Sprintf("%d", c)
		}
		return s
	}

	req := perParty[DirectionRequester]
	cpt := perParty[DirectionCounterpart]

	return AnalyzerResult{
		Value:       fmt.Sprintf("%02d:00 peak", peakHour),
		Requester:   section(req),
		Counterpart: section(cpt),
		Summary:     fmt.Sprintf("most messages land around %02d:00", peakHour),
		Details: []Detail{
			{Label: "peakHour", Value: fmt.Sprintf("%02d:00", peakHour)},
			{Label: "peakHourMessages", Value: fmt.Sprintf("%d", hourCounts[peakHour])},
		},
	}
}
