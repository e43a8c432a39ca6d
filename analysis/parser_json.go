package analysis

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// structuredDataParser handles structured byte payloads: a top-level JSON
// array of message objects, or an object carrying a messages array. The
// array is walked with a streaming decoder so a near-cap export does not get
// double-buffered in memory.
type structuredDataParser struct{}

func (structuredDataParser) Name() string { return "structured-data" }

func (structuredDataParser) CanParse(raw []byte, _ FormatHint) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] != '[' && trimmed[0] != '{' {
		return false
	}
	return gjson.ValidBytes(trimmed)
}

func (p structuredDataParser) Parse(raw []byte, now time.Time, logger *zap.Logger) []rawMessage {
	// Prefer an explicit "messages" field when the payload is an object;
	// otherwise the first array-valued field is taken.
	targetField := ""
	if bytes.TrimSpace(raw)[0] == '{' && gjson.GetBytes(raw, "messages").IsArray() {
		targetField = "messages"
	}

	dec := json.NewDecoder(bufio.NewReaderSize(bytes.NewReader(raw), 1<<20))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '[':
		return decodeEntriesFromOpen(dec, now, logger)
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil
			}
			valTok, err := dec.Token()
			if err != nil {
				return nil
			}

			isTarget := key == targetField
			if targetField == "" {
				if d, ok := valTok.(json.Delim); ok && d == '[' {
					isTarget = true
				}
			}
			if isTarget {
				if d, ok := valTok.(json.Delim); !ok || d != '[' {
					return nil
				}
				return decodeEntriesFromOpen(dec, now, logger)
			}
			if err := skipJSONValue(dec, valTok); err != nil {
				return nil
			}
		}
		return nil
	default:
		return nil
	}
}

func decodeEntriesFromOpen(dec *json.Decoder, now time.Time, logger *zap.Logger) []rawMessage {
	var out []rawMessage
	idx := -1
	for dec.More() {
		idx++
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			logger.Warn("stopping structured-data parse on bad element",
				zap.Int("index", idx), zap.Error(err))
			return out
		}
		m, ok := decodeEntry(raw, now)
		if !ok {
			logger.Warn("skipping structured-data entry without content",
				zap.Int("index", idx))
			continue
		}
		out = append(out, m)
	}
	return out
}

// Field aliases seen across common export shapes.
var (
	senderFields    = []string{"sender", "from", "author", "name", "user", "role"}
	contentFields   = []string{"content", "text", "message", "body"}
	timestampFields = []string{"timestamp", "time", "date", "ts", "create_time", "created_at", "sent_at"}
)

func decodeEntry(raw json.RawMessage, now time.Time) (rawMessage, bool) {
	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return rawMessage{}, false
	}

	content := strings.TrimSpace(firstStringField(obj, contentFields))
	if content == "" {
		return rawMessage{}, false
	}

	m := rawMessage{
		Sender:    strings.TrimSpace(firstStringField(obj, senderFields)),
		Content:   content,
		Timestamp: now,
	}
	if ts, ok := entryTimestamp(obj, now); ok {
		m.Timestamp = ts
	}
	if d, ok := obj["direction"].(string); ok {
		switch Direction(strings.ToLower(strings.TrimSpace(d))) {
		case DirectionRequester:
			m.Direction, m.Tagged = DirectionRequester, true
		case DirectionCounterpart:
			m.Direction, m.Tagged = DirectionCounterpart, true
		}
	}
	return m, true
}

func firstStringField(obj map[string]any, fields []string) string {
	for _, f := range fields {
		if v, ok := obj[f].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func entryTimestamp(obj map[string]any, now time.Time) (time.Time, bool) {
	for _, f := range timestampFields {
		v, ok := obj[f]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if ts, ok := parseTimestamp(t, now); ok {
				return ts, true
			}
		case json.Number:
			if sec, err := t.Float64(); err == nil && sec > 0 {
				// Values past the year 33658 in seconds are epoch millis.
				if sec > 1e12 {
					sec /= 1000
				}
				return time.Unix(0, int64(sec*1e9)).UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// skipJSONValue consumes the remainder of the value whose first token is
// already read.
func skipJSONValue(dec *json.Decoder, tok json.Token) error {
	if _, ok := tok.(json.Delim); !ok {
		return nil
	}
	depth := 1
	for depth > 0 {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := t.(json.Delim); ok {
			switch d {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
	return nil
}
