package analysis

import (
	"testing"
	"time"
)

func TestDetectStreaksRuns(t *testing.T) {
	t.Parallel()

	msgs := buildStream(
		[]Direction{reqDir, reqDir, reqDir, cptDir, reqDir, reqDir},
		[]string{"hey", "you there", "hello?", "sorry, here now", "ok", "what's up"},
		time.Minute,
	)
	streaks := detectStreaks(msgs)
	if len(streaks) != 2 {
		t.Fatalf("len(streaks)=%d, want 2", len(streaks))
	}
	first, second := streaks[0], streaks[1]
	if first.Direction != reqDir || first.Start != 0 || first.End != 2 || first.Count != 3 {
		t.Fatalf("first streak=%+v, want requester run over [0,2]", first)
	}
	if second.Direction != reqDir || second.Start != 4 || second.End != 5 || second.Count != 2 {
		t.Fatalf("second streak=%+v, want requester run over [4,5]", second)
	}
	for _, s := range streaks {
		if s.Direction == cptDir {
			t.Fatalf("counterpart should have no streaks, got %+v", s)
		}
	}
}

func TestDetectStreaksNoneWhenAlternating(t *testing.T) {
	t.Parallel()

	msgs := buildStream(
		[]Direction{reqDir, cptDir, reqDir, cptDir},
		[]string{"a", "b", "c", "d"},
		time.Minute,
	)
	if streaks := detectStreaks(msgs); len(streaks) != 0 {
		t.Fatalf("len(streaks)=%d, want 0", len(streaks))
	}
}

func TestStreakPacing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		gap  time.Duration
		want string
	}{
		{10 * time.Second, "rapid"},
		{time.Minute, "quick"},
		{5 * time.Minute, "moderate"},
		{time.Hour, "spaced"},
	}
	for _, c := range cases {
		if got := streakPacing(c.gap); got != c.want {
			t.Fatalf("streakPacing(%v)=%q, want %q", c.gap, got, c.want)
		}
	}
}

func TestInvestmentScoreBounds(t *testing.T) {
	t.Parallel()

	if got := investmentScore(streakTally{}, 100); got != 0 {
		t.Fatalf("empty tally score=%d, want 0", got)
	}
	heavy := streakTally{doubles: 50, triples: 40, quadPlus: 30, totalRuns: 50}
	if got := investmentScore(heavy, 50); got < 0 || got > 100 {
		t.Fatalf("heavy tally score=%d outside [0,100]", got)
	}
}

func TestAnalyzeStreaksSections(t *testing.T) {
	t.Parallel()

	msgs := buildStream(
		[]Direction{reqDir, reqDir, reqDir, cptDir, reqDir, reqDir},
		[]string{"hey", "you there", "hello?", "here", "ok", "cool"},
		time.Minute,
	)
	res := AnalyzeStreaks(msgs)
	if res.Value != "2 streaks" {
		t.Fatalf("Value=%q, want %q", res.Value, "2 streaks")
	}
	if res.Requester["doubleTexts"] != "2" {
		t.Fatalf("requester doubleTexts=%q, want 2", res.Requester["doubleTexts"])
	}
	if res.Requester["tripleTexts"] != "1" {
		t.Fatalf("requester tripleTexts=%q, want 1", res.Requester["tripleTexts"])
	}
	if res.Requester["longestStreak"] != "3" {
		t.Fatalf("requester longestStreak=%q, want 3", res.Requester["longestStreak"])
	}
	if res.Counterpart["doubleTexts"] != "0" {
		t.Fatalf("counterpart doubleTexts=%q, want 0", res.Counterpart["doubleTexts"])
	}
	if res.Comparison["moreInvested"] != "requester" {
		t.Fatalf("moreInvested=%q, want requester", res.Comparison["moreInvested"])
	}
}
