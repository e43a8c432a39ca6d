package analysis

import "time"

// buildStream constructs a canonical stream for analyzer tests without going
// through the normalizer. Contents cycle when shorter than dirs.
func buildStream(dirs []Direction, contents []string, gap time.Duration) []Message {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msgs := make([]Message, len(dirs))
	for i := range dirs {
		content := "message body"
		if len(contents) > 0 {
			content = contents[i%len(contents)]
		}
		m := Message{
			ID:        i,
			Timestamp: base.Add(time.Duration(i) * gap),
			Sender:    string(dirs[i]),
			Content:   content,
			Length:    len([]rune(content)),
			Direction: dirs[i],
		}
		if i > 0 {
			d := gap
			m.TimeSinceLast = &d
		}
		msgs[i] = m
	}
	return msgs
}

var (
	reqDir = DirectionRequester
	cptDir = DirectionCounterpart
)
