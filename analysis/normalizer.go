package analysis

import (
	"bytes"
	"sort"
	"time"

	"go.uber.org/zap"
)

// rawMessage is the parser-level intermediate before direction resolution.
type rawMessage struct {
	Timestamp time.Time
	Sender    string
	Content   string
	Direction Direction
	// Tagged means the format itself carried the direction (block format
	// from/to headers); tagged directions are trusted as-is.
	Tagged bool
}

// parserStrategy is one format-specific parser. Strategies are tried in
// priority order; the first one that can parse the payload and yields at
// least one message wins.
type parserStrategy interface {
	Name() string
	CanParse(raw []byte, hint FormatHint) bool
	Parse(raw []byte, now time.Time, logger *zap.Logger) []rawMessage
}

// parserOrder returns the strategies in try order, moving the hinted format
// to the front. The line parser always stays last: it accepts anything.
func parserOrder(hint FormatHint) []parserStrategy {
	block := blockParser{}
	data := structuredDataParser{}
	lines := lineParser{}
	switch hint {
	case FormatStructuredData:
		return []parserStrategy{data, block, lines}
	case FormatFreeform:
		return []parserStrategy{lines}
	default: // FormatStructuredText and auto share the default order
		return []parserStrategy{block, data, lines}
	}
}

// Normalize parses raw transcript bytes into the canonical ordered message
// stream and reports whether the input was truncated at MaxMessages.
//
// Normalize never fails: unrecoverable input yields an empty stream, which
// the orchestrator surfaces as insufficient data. Malformed individual
// entries are skipped with a warning on logger (pass nil for silence).
func Normalize(raw []byte, hint FormatHint, p Personalization, logger *zap.Logger) ([]Message, bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p = p.withDefaults()

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false
	}

	// Unparseable timestamps fall back to a single clock reading so one run
	// stays internally consistent.
	now := time.Now().UTC()

	var parsed []rawMessage
	for _, strat := range parserOrder(hint) {
		if !strat.CanParse(trimmed, hint) {
			continue
		}
		parsed = strat.Parse(trimmed, now, logger)
		if len(parsed) > 0 {
			logger.Debug("transcript parsed",
				zap.String("strategy", strat.Name()),
				zap.Int("messages", len(parsed)))
			break
		}
	}
	if len(parsed) == 0 {
		return nil, false
	}

	parsed = dropEmptyAndDuplicates(parsed)

	// Analyzers assume ascending timestamps. Stable sort keeps the original
	// order for equal timestamps, which matters for untimestamped input.
	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].Timestamp.Before(parsed[j].Timestamp)
	})

	truncated := false
	if len(parsed) > MaxMessages {
		logger.Warn("input exceeds message cap, truncating",
			zap.Int("parsed", len(parsed)),
			zap.Int("cap", MaxMessages))
		parsed = parsed[:MaxMessages]
		truncated = true
	}

	resolveDirections(parsed, p)

	msgs := make([]Message, len(parsed))
	for i, r := range parsed {
		m := Message{
			ID:        i,
			Timestamp: r.Timestamp,
			Sender:    r.Sender,
			Content:   r.Content,
			Length:    len([]rune(r.Content)),
			Direction: r.Direction,
		}
		if i > 0 {
			gap := r.Timestamp.Sub(parsed[i-1].Timestamp)
			m.TimeSinceLast = &gap
		}
		msgs[i] = m
	}
	return msgs, truncated
}

func dropEmptyAndDuplicates(in []rawMessage) []rawMessage {
	out := in[:0]
	for i, r := range in {
		if r.Content == "" {
			continue
		}
		if i > 0 {
			prev := in[i-1]
			if r.Sender == prev.Sender && r.Content == prev.Content && r.Timestamp.Equal(prev.Timestamp) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// resolveDirections assigns every message to one of the two parties.
// Explicit tags from block parsing win; otherwise the requester is the
// sender whose name fuzzy-matches the personalization, falling back to the
// first sender seen. Every other sender collapses to counterpart.
func resolveDirections(msgs []rawMessage, p Personalization) {
	requesterSenders := map[string]struct{}{}
	counterpartSenders := map[string]struct{}{}
	anyTagged := false
	for _, m := range msgs {
		if !m.Tagged {
			continue
		}
		anyTagged = true
		if m.Direction == DirectionRequester {
			requesterSenders[m.Sender] = struct{}{}
		} else {
			counterpartSenders[m.Sender] = struct{}{}
		}
	}

	if anyTagged {
		for i := range msgs {
			if msgs[i].Tagged {
				continue
			}
			if _, ok := requesterSenders[msgs[i].Sender]; ok {
				msgs[i].Direction = DirectionRequester
			} else {
				msgs[i].Direction = DirectionCounterpart
			}
		}
		return
	}

	var senders []string
	seen := map[string]struct{}{}
	for _, m := range msgs {
		if _, ok := seen[m.Sender]; !ok {
			seen[m.Sender] = struct{}{}
			senders = append(senders, m.Sender)
		}
	}

	requester := ""
	for _, s := range senders {
		if fuzzyNameMatch(s, p.RequesterName) {
			requester = s
			break
		}
	}
	if requester == "" && len(senders) > 0 {
		requester = senders[0]
	}

	for i := range msgs {
		if msgs[i].Sender == requester {
			msgs[i].Direction = DirectionRequester
		} else {
			msgs[i].Direction = DirectionCounterpart
		}
	}
}
