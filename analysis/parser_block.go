package analysis

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// blockParser handles the structured text export format: multi-line blocks
// separated by long dashed rules, each starting with a
// "<timestamp> (from|to) <name>" header line. "from" marks a
// counterpart-authored message, "to" a requester-authored one.
type blockParser struct{}

var (
	blockSeparatorRe = regexp.MustCompile(`(?m)^\s*-{10,}\s*$`)
	blockHeaderRe    = regexp.MustCompile(`(?i)^\s*(.+?)\s+\(?(from|to)\)?\s+(.+?)\s*$`)
)

func (blockParser) Name() string { return "structured-text" }

func (blockParser) CanParse(raw []byte, _ FormatHint) bool {
	text := string(raw)
	if !blockSeparatorRe.MatchString(text) {
		return false
	}
	for _, block := range blockSeparatorRe.Split(text, -1) {
		header := firstNonEmptyLine(block)
		if header == "" {
			continue
		}
		return blockHeaderRe.MatchString(header)
	}
	return false
}

func (blockParser) Parse(raw []byte, now time.Time, logger *zap.Logger) []rawMessage {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	blocks := blockSeparatorRe.Split(text, -1)

	out := make([]rawMessage, 0, len(blocks))
	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		headerIdx := -1
		for j, line := range lines {
			if strings.TrimSpace(line) != "" {
				headerIdx = j
				break
			}
		}
		if headerIdx < 0 {
			continue
		}

		m := blockHeaderRe.FindStringSubmatch(strings.TrimSpace(lines[headerIdx]))
		if m == nil {
			logger.Warn("skipping block with unrecognized header", zap.Int("block", i))
			continue
		}

		ts, ok := parseTimestamp(m[1], now)
		if !ok {
			ts = now
		}
		dir := DirectionCounterpart
		if strings.EqualFold(m[2], "to") {
			dir = DirectionRequester
		}

		content := strings.TrimSpace(strings.Join(lines[headerIdx+1:], "\n"))
		if content == "" {
			continue
		}

		out = append(out, rawMessage{
			Timestamp: ts,
			Sender:    strings.TrimSpace(m[3]),
			Content:   content,
			Direction: dir,
			Tagged:    true,
		})
	}
	return out
}

func firstNonEmptyLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}
