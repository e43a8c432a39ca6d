package analysis

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// lineParser is the freeform fallback: one message per non-empty line. It
// strips a recognized timestamp prefix, then splits sender from content on
// the first colon or a dash/arrow/pipe delimiter. Lines with no recognizable
// sender alternate between two synthetic parties on line parity, so even an
// unattributable transcript still yields a two-party stream. That
// alternation is best-effort attribution, not ground truth.
type lineParser struct{}

// timestampLayouts covers the common export conventions, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04 PM",
	"1/2/06, 3:04 PM",
	"1/2/2006, 3:04 PM",
	"02/01/2006, 15:04",
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006, 3:04 PM",
	"02.01.2006 15:04",
	"3:04 PM",
}

// parseTimestamp tries every supported layout. Time-only layouts borrow the
// reference date so they stay comparable within one transcript.
func parseTimestamp(s string, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(ref.Year(), ref.Month(), ref.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
		}
		return t.UTC(), true
	}
	return time.Time{}, false
}

func (lineParser) Name() string { return "freeform" }

func (lineParser) CanParse(raw []byte, _ FormatHint) bool {
	return len(raw) > 0
}

func (lineParser) Parse(raw []byte, now time.Time, logger *zap.Logger) []rawMessage {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	out := make([]rawMessage, 0, len(lines))
	idx := 0 // index over emitted messages, drives the alternation fallback
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		ts, rest, ok := stripTimestampPrefix(line, now)
		if !ok {
			ts, rest = now, line
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			continue
		}

		sender, content, ok := splitSender(rest)
		if !ok {
			if idx%2 == 0 {
				sender = "Party A"
			} else {
				sender = "Party B"
			}
			content = rest
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		out = append(out, rawMessage{
			Timestamp: ts,
			Sender:    sender,
			Content:   strings.TrimSpace(content),
		})
		idx++
	}
	if len(out) == 0 {
		logger.Warn("freeform parse produced no messages", zap.Int("lines", len(lines)))
	}
	return out
}

var isoPrefixRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(?::\d{2})?(?:Z|[+-]\d{2}:\d{2})?)\s*[-,:]?\s*(.*)$`)

// stripTimestampPrefix removes a leading timestamp in any supported shape:
// bracketed ("[1/2/24, 3:04 PM] ..."), dash-delimited WhatsApp style
// ("1/2/24, 3:04 PM - ..."), or a bare ISO prefix.
func stripTimestampPrefix(line string, ref time.Time) (time.Time, string, bool) {
	if strings.HasPrefix(line, "[") {
		if end := strings.Index(line, "]"); end > 0 {
			if ts, ok := parseTimestamp(line[1:end], ref); ok {
				return ts, line[end+1:], true
			}
		}
	}
	if pos := strings.Index(line, " - "); pos > 0 {
		if ts, ok := parseTimestamp(line[:pos], ref); ok {
			return ts, line[pos+3:], true
		}
	}
	if m := isoPrefixRe.FindStringSubmatch(line); m != nil {
		if ts, ok := parseTimestamp(m[1], ref); ok {
			return ts, m[2], true
		}
	}
	return time.Time{}, line, false
}

var senderDelimiters = []string{" -> ", " → ", " - ", " — ", " | "}

// splitSender separates "<sender><delim><content>". The colon form wins; a
// sender must be short and must not look like a URL scheme.
func splitSender(rest string) (sender, content string, ok bool) {
	if pos := strings.Index(rest, ":"); pos > 0 && pos <= 40 {
		candidate := strings.TrimSpace(rest[:pos])
		if candidate != "" && !strings.Contains(candidate, "http") && !strings.HasPrefix(rest[pos:], "://") {
			return candidate, rest[pos+1:], true
		}
	}
	for _, delim := range senderDelimiters {
		if pos := strings.Index(rest, delim); pos > 0 && pos <= 40 {
			candidate := strings.TrimSpace(rest[:pos])
			if candidate != "" {
				return candidate, rest[pos+len(delim):], true
			}
		}
	}
	return "", "", false
}
