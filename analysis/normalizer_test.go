package analysis

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNormalizeBlockFormat(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"--------------------------------------------------",
		"2024-03-01 18:00:00 (from) Alice",
		"hey, are you coming tonight?",
		"--------------------------------------------------",
		"2024-03-01 18:05:00 (to) Alice",
		"yeah! leaving soon",
		"--------------------------------------------------",
	}, "\n")

	msgs, truncated := Normalize([]byte(raw), FormatStructuredText, Personalization{}, nil)
	if truncated {
		t.Fatalf("unexpected truncation")
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs)=%d, want 2", len(msgs))
	}
	if msgs[0].Direction != DirectionCounterpart {
		t.Fatalf("msg0 direction=%s, want counterpart ('from' header)", msgs[0].Direction)
	}
	if msgs[1].Direction != DirectionRequester {
		t.Fatalf("msg1 direction=%s, want requester ('to' header)", msgs[1].Direction)
	}
	if msgs[1].TimeSinceLast == nil || *msgs[1].TimeSinceLast != 5*time.Minute {
		t.Fatalf("msg1 timeSinceLast=%v, want 5m", msgs[1].TimeSinceLast)
	}
}

func TestNormalizeStructuredData(t *testing.T) {
	t.Parallel()

	raw := `{"export":"v2","messages":[
		{"sender":"Alice","timestamp":"2024-03-01T18:00:00Z","text":"hey"},
		{"sender":"Bob","timestamp":"2024-03-01T18:00:45Z","text":"hi yourself"}
	]}`

	msgs, _ := Normalize([]byte(raw), FormatStructuredData, Personalization{RequesterName: "ali"}, nil)
	if len(msgs) != 2 {
		t.Fatalf("len(msgs)=%d, want 2", len(msgs))
	}
	if msgs[0].Sender != "Alice" || msgs[0].Direction != DirectionRequester {
		t.Fatalf("fuzzy name match failed: sender=%q direction=%s", msgs[0].Sender, msgs[0].Direction)
	}
	if msgs[1].Direction != DirectionCounterpart {
		t.Fatalf("msg1 direction=%s, want counterpart", msgs[1].Direction)
	}
}

func TestNormalizeStructuredDataTopLevelArray(t *testing.T) {
	t.Parallel()

	raw := `[{"from":"Cara","ts":1709316000,"message":"morning"},{"from":"Dan","ts":1709316060,"message":"morning!"}]`

	msgs, _ := Normalize([]byte(raw), FormatAuto, Personalization{}, nil)
	if len(msgs) != 2 {
		t.Fatalf("len(msgs)=%d, want 2", len(msgs))
	}
	if msgs[0].Timestamp.Unix() != 1709316000 {
		t.Fatalf("timestamp=%v, want unix 1709316000", msgs[0].Timestamp)
	}
	// No name hint: earliest sender becomes the requester.
	if msgs[0].Direction != DirectionRequester {
		t.Fatalf("first-seen sender should be requester, got %s", msgs[0].Direction)
	}
}

func TestNormalizeLineFormats(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"1/2/24, 3:04 PM - Alice: running late, sorry!",
		"[2024-01-02 15:06] Bob: no worries",
		"2024-01-02 15:07:30 Alice: be there in ten",
	}, "\n")

	msgs, _ := Normalize([]byte(raw), FormatFreeform, Personalization{RequesterName: "Alice"}, nil)
	if len(msgs) != 3 {
		t.Fatalf("len(msgs)=%d, want 3", len(msgs))
	}
	if msgs[0].Sender != "Alice" || msgs[1].Sender != "Bob" {
		t.Fatalf("senders=%q,%q", msgs[0].Sender, msgs[1].Sender)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Fatalf("messages not in ascending timestamp order at %d", i)
		}
	}
}

// Undelimited transcripts fall back to alternating two synthetic parties.
// That attribution is best-effort only, so the test pins just the two-party
// invariant and determinism, not who is who.
func TestNormalizeAlternationFallback(t *testing.T) {
	t.Parallel()

	raw := "hello there\ngeneral kenobi\nyou are a bold one"

	msgs, _ := Normalize([]byte(raw), FormatFreeform, Personalization{}, nil)
	if len(msgs) != 3 {
		t.Fatalf("len(msgs)=%d, want 3", len(msgs))
	}
	parties := map[Direction]int{}
	for _, m := range msgs {
		if m.Direction != DirectionRequester && m.Direction != DirectionCounterpart {
			t.Fatalf("unexpected direction %q", m.Direction)
		}
		parties[m.Direction]++
	}
	if len(parties) != 2 {
		t.Fatalf("expected exactly two parties, got %v", parties)
	}
	if msgs[0].Direction != msgs[2].Direction || msgs[0].Direction == msgs[1].Direction {
		t.Fatalf("alternation not deterministic: %v %v %v",
			msgs[0].Direction, msgs[1].Direction, msgs[2].Direction)
	}
}

func TestNormalizeSortsShuffledTimestamps(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"2024-01-02 15:10:00 Alice: third",
		"2024-01-02 15:00:00 Alice: first",
		"2024-01-02 15:05:00 Bob: second",
	}, "\n")

	msgs, _ := Normalize([]byte(raw), FormatFreeform, Personalization{}, nil)
	if len(msgs) != 3 {
		t.Fatalf("len(msgs)=%d, want 3", len(msgs))
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if !strings.Contains(msgs[i].Content, w) {
			t.Fatalf("msgs[%d]=%q, want %q", i, msgs[i].Content, w)
		}
		if msgs[i].ID != i {
			t.Fatalf("msgs[%d].ID=%d after sort, want %d", i, msgs[i].ID, i)
		}
	}
}

func TestNormalizeDropsEmptyAndDuplicateLines(t *testing.T) {
	t.Parallel()

	raw := "Alice: hello\nAlice: hello\n\nBob: hi"
	msgs, _ := Normalize([]byte(raw), FormatFreeform, Personalization{}, nil)
	if len(msgs) != 2 {
		t.Fatalf("len(msgs)=%d, want 2 (duplicate and blank dropped)", len(msgs))
	}
}

func TestNormalizeUnparseableInput(t *testing.T) {
	t.Parallel()

	msgs, truncated := Normalize([]byte("   \n\t  "), FormatAuto, Personalization{}, nil)
	if len(msgs) != 0 || truncated {
		t.Fatalf("expected empty stream for blank input, got %d msgs", len(msgs))
	}
}

func TestNormalizeTruncatesAtCap(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < MaxMessages+100_000; i++ {
		fmt.Fprintf(&b, "msg number %d\n", i)
	}

	msgs, truncated := Normalize([]byte(b.String()), FormatFreeform, Personalization{}, nil)
	if !truncated {
		t.Fatalf("expected truncation flag")
	}
	if len(msgs) != MaxMessages {
		t.Fatalf("len(msgs)=%d, want exactly %d", len(msgs), MaxMessages)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []string{
		"2024-03-01T18:00:00Z",
		"2024-03-01 18:00:00",
		"2024-03-01 18:00",
		"03/01/2024 18:00:00",
		"1/2/24, 3:04 PM",
		"Jan 2, 2024, 3:04 PM",
		"02.01.2024 15:04",
		"3:04 PM",
	}
	for _, c := range cases {
		if _, ok := parseTimestamp(c, ref); !ok {
			t.Fatalf("parseTimestamp(%q) failed", c)
		}
	}
	if _, ok := parseTimestamp("not a date", ref); ok {
		t.Fatalf("expected failure for garbage input")
	}
}
