package analysis

import (
	"strconv"
	"testing"
	"time"
)

func TestAnalyzeHealthRange(t *testing.T) {
	t.Parallel()

	streams := [][]string{
		{"love you so much ❤️", "love you too 😊", "can't wait for tonight", "me neither!"},
		{"i hate you", "you're pathetic", "fuck you", "we're done"},
		{"ok", "sure", "fine", "whatever"},
	}
	for _, contents := range streams {
		msgs := buildStream([]Direction{reqDir, cptDir, reqDir, cptDir}, contents, time.Minute)
		res := AnalyzeHealth(msgs)
		score, err := strconv.Atoi(res.Value)
		if err != nil {
			t.Fatalf("Value=%q is not an integer: %v", res.Value, err)
		}
		if score < 0 || score > 100 {
			t.Fatalf("health score %d outside [0,100] for %v", score, contents)
		}
	}
}

func TestAnalyzeHealthOrdering(t *testing.T) {
	t.Parallel()

	warm := buildStream(
		[]Direction{reqDir, cptDir, reqDir, cptDir},
		[]string{"love you so much ❤️", "love you too 😊", "how was your day?", "wonderful, thanks for asking!"},
		time.Minute,
	)
	hostile := buildStream(
		[]Direction{reqDir, cptDir, reqDir, cptDir},
		[]string{"i hate you", "you're pathetic and stupid", "fuck you", "we're done"},
		time.Minute,
	)
	warmScore, _ := strconv.Atoi(AnalyzeHealth(warm).Value)
	hostileScore, _ := strconv.Atoi(AnalyzeHealth(hostile).Value)
	if warmScore <= hostileScore {
		t.Fatalf("warm stream %d should outscore hostile stream %d", warmScore, hostileScore)
	}
}

func TestAnalyzeHealthTrendGate(t *testing.T) {
	t.Parallel()

	short := buildStream([]Direction{reqDir, cptDir, reqDir, cptDir}, nil, time.Minute)
	res := AnalyzeHealth(short)
	if got := detailValue(res, "trend"); got != "insufficient_data" {
		t.Fatalf("trend for 4 messages=%q, want insufficient_data", got)
	}

	dirs := make([]Direction, 12)
	contents := make([]string, 12)
	for i := range dirs {
		dirs[i] = reqDir
		if i%2 == 1 {
			dirs[i] = cptDir
		}
		contents[i] = "this is awful and terrible"
		if i >= 6 {
			contents[i] = "this is wonderful and amazing"
		}
	}
	res = AnalyzeHealth(buildStream(dirs, contents, time.Minute))
	if got := detailValue(res, "trend"); got != "improving" {
		t.Fatalf("trend=%q, want improving", got)
	}
}

func TestHealthLabelBuckets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total float64
		want  string
	}{
		{90, "excellent"},
		{80, "excellent"},
		{65, "good"},
		{45, "moderate"},
		{25, "poor"},
		{10, "toxic"},
	}
	for _, c := range cases {
		if got := healthLabel(c.total); got != c.want {
			t.Fatalf("healthLabel(%v)=%q, want %q", c.total, got, c.want)
		}
	}
}

func TestHealthEffortComponentTracksCallbacks(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	answered := timedStream([]Direction{reqDir, cptDir}, []time.Time{base, base.Add(30 * time.Minute)})
	ignored := timedStream([]Direction{reqDir, cptDir}, []time.Time{base, base.Add(30 * time.Hour)})

	if a, i := healthEffortComponent(answered), healthEffortComponent(ignored); a <= i {
		t.Fatalf("answered initiations should raise effort: answered=%v ignored=%v", a, i)
	}
}

func TestHealthSentimentComponentNeutralMidpoint(t *testing.T) {
	t.Parallel()

	msgs := buildStream([]Direction{reqDir, cptDir}, []string{"see you at the station", "platform 4"}, time.Minute)
	if got := healthSentimentComponent(msgs); got != 20 {
		t.Fatalf("neutral stream component=%v, want 20", got)
	}
}
