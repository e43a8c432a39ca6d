// Package analysis implements the conversation analysis pipeline: it
// normalizes raw exported two-party transcripts into a canonical ordered
// message stream, runs a set of independent heuristic analyzers over that
// stream, and aggregates everything into one composite relationship report.
//
// The pipeline is deterministic for a given input and personalization
// context, performs no I/O, and keeps no state between invocations.
package analysis

import (
	"strings"
	"time"
)

// MaxMessages is the hard ceiling on normalized stream length. Input beyond
// it is truncated from the tail, never sampled, and the report flags that
// truncation happened.
const MaxMessages = 500_000

// Direction identifies which of the two logical parties authored a message.
type Direction string

const (
	DirectionRequester   Direction = "requester"
	DirectionCounterpart Direction = "counterpart"
)

// Message is one canonical transcript entry. Messages are immutable once the
// normalizer returns them.
type Message struct {
	ID            int
	Timestamp     time.Time
	Sender        string
	Content       string
	Length        int
	Direction     Direction
	TimeSinceLast *time.Duration // nil for the first message in the stream
}

// Personalization carries the caller's naming and intent context. All fields
// are optional; zero values get the documented defaults.
type Personalization struct {
	RequesterName   string `json:"requesterName"`
	CounterpartName string `json:"counterpartName"`
	AnalysisGoal    string `json:"analysisGoal"`
}

func (p Personalization) withDefaults() Personalization {
	if strings.TrimSpace(p.RequesterName) == "" {
		p.RequesterName = "You"
	}
	if strings.TrimSpace(p.CounterpartName) == "" {
		p.CounterpartName = "Them"
	}
	return p
}

// displayName returns the personalized label for a direction.
func (p Personalization) displayName(d Direction) string {
	if d == DirectionRequester {
		return p.RequesterName
	}
	return p.CounterpartName
}

// FormatHint tells the normalizer which parser strategy to try first. The
// strategies themselves still sniff the payload, so a wrong hint degrades to
// auto-detection instead of failing.
type FormatHint string

const (
	FormatAuto           FormatHint = ""
	FormatFreeform       FormatHint = "freeform"
	FormatStructuredText FormatHint = "structured-text"
	FormatStructuredData FormatHint = "structured-data"
)

// partition splits the stream by direction, preserving order.
func partition(msgs []Message) (requester, counterpart []Message) {
	for _, m := range msgs {
		if m.Direction == DirectionRequester {
			requester = append(requester, m)
		} else {
			counterpart = append(counterpart, m)
		}
	}
	return requester, counterpart
}

// fuzzyNameMatch reports whether two party names refer to the same person
// using bidirectional case-insensitive substring containment.
func fuzzyNameMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
