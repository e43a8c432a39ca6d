package analysis

import (
	"testing"
	"time"
)

func TestEngagementScoreBounds(t *testing.T) {
	t.Parallel()

	if got := engagementScore(engagementTally{}, 0); got != 0 {
		t.Fatalf("empty tally score=%d, want 0", got)
	}
	busy := engagementTally{messages: 10, questions: 20, emoji: 10, totalLength: 5000, initiations: 5}
	if got := engagementScore(busy, 5); got < 0 || got > 100 {
		t.Fatalf("busy tally score=%d outside [0,100]", got)
	}
}

func TestAnalyzeEngagementInitiations(t *testing.T) {
	t.Parallel()

	// A five-hour silence before the third message makes it a fresh
	// initiation; the first message always is one.
	msgs := buildStream(
		[]Direction{reqDir, cptDir, reqDir, cptDir},
		[]string{"morning! how did it go?", "pretty well actually", "hey, you around?", "yep"},
		time.Minute,
	)
	gap := 5 * time.Hour
	msgs[2].Timestamp = msgs[1].Timestamp.Add(gap)
	msgs[2].TimeSinceLast = &gap
	msgs[3].Timestamp = msgs[2].Timestamp.Add(time.Minute)

	res := AnalyzeEngagement(msgs)
	if res.Requester["initiations"] != "2" {
		t.Fatalf("requester initiations=%q, want 2", res.Requester["initiations"])
	}
	if res.Counterpart["initiations"] != "0" {
		t.Fatalf("counterpart initiations=%q, want 0", res.Counterpart["initiations"])
	}
	if res.Requester["questions"] != "2" {
		t.Fatalf("requester questions=%q, want 2", res.Requester["questions"])
	}
}

func TestEngagementBalanceLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		req, cpt int
		want     string
	}{
		{80, 40, "requester carries the conversation"},
		{60, 50, "requester slightly more engaged"},
		{40, 80, "counterpart carries the conversation"},
		{50, 60, "counterpart slightly more engaged"},
		{55, 52, "evenly engaged"},
	}
	for _, c := range cases {
		if got := engagementBalanceLabel(c.req, c.cpt); got != c.want {
			t.Fatalf("engagementBalanceLabel(%d, %d)=%q, want %q", c.req, c.cpt, got, c.want)
		}
	}
}
