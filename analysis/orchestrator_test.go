package analysis

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orchestratorTranscript = `2024-03-01 12:00:00 - Alice: hey, how was your day? 😊
2024-03-01 12:01:00 - Bob: pretty good, thanks for asking
2024-03-01 12:02:30 - Alice: want to grab dinner later?
2024-03-01 12:05:00 - Bob: sure, that sounds great
2024-03-01 12:06:00 - Alice: perfect, love it ❤️
2024-03-01 12:08:00 - Bob: see you at 7
`

func TestRunProducesFullReport(t *testing.T) {
	t.Parallel()

	report := RunAnalysis([]byte(orchestratorTranscript), FormatAuto, Personalization{RequesterName: "Alice", CounterpartName: "Bob"})
	require.True(t, report.Success)
	require.Empty(t, report.Error)

	for _, name := range []string{
		MetricSentiment, MetricToxicity, MetricEngagement, MetricStreaks,
		MetricResponse, MetricTiming, MetricApologies, MetricPatterns, MetricHealth,
	} {
		res, ok := report.Metrics[name]
		require.True(t, ok, "metric %s missing", name)
		assert.NotEmpty(t, res.Value, "metric %s has no value", name)
	}

	assert.Equal(t, 6, report.Stats.TotalMessages)
	assert.Equal(t, 3, report.Stats.RequesterMessages)
	assert.Equal(t, "Alice", report.Stats.Requester)
	assert.Contains(t, report.Summary, "Alice")
	assert.NotEmpty(t, report.MessageExcerpts)
	assert.LessOrEqual(t, len(report.MessageExcerpts), maxExcerpts)
}

func TestRunInsufficientData(t *testing.T) {
	t.Parallel()

	report := RunAnalysis([]byte("2024-03-01 12:00:00 - Alice: hello"), FormatAuto, Personalization{})
	require.False(t, report.Success)
	assert.Equal(t, "insufficient data", report.Error)
	assert.Empty(t, report.Metrics)
}

func TestRunToleratesPanickingAnalyzer(t *testing.T) {
	t.Parallel()

	p := NewPipeline(nil)
	p.analyzers = append(p.analyzers, analyzerSpec{
		name: "exploding",
		run:  func([]Message) AnalyzerResult { panic("boom") },
	})

	report := p.Run([]byte(orchestratorTranscript), FormatAuto, Personalization{})
	require.True(t, report.Success, "one failing analyzer must not abort the run")
	assert.Equal(t, fallbackResult(), report.Metrics["exploding"])
	assert.NotEqual(t, "n/a", report.Metrics[MetricSentiment].Value)
}

func TestRunIsIdempotentModuloTimestamp(t *testing.T) {
	t.Parallel()

	pers := Personalization{RequesterName: "Alice", CounterpartName: "Bob", AnalysisGoal: "check in"}
	a := RunAnalysis([]byte(orchestratorTranscript), FormatAuto, pers)
	b := RunAnalysis([]byte(orchestratorTranscript), FormatAuto, pers)

	a.GeneratedAt, b.GeneratedAt = time.Time{}, time.Time{}
	aj, err := a.JSON(false)
	require.NoError(t, err)
	bj, err := b.JSON(false)
	require.NoError(t, err)
	assert.Equal(t, string(aj), string(bj))
}

func TestDeriveAnalysisIDStability(t *testing.T) {
	t.Parallel()

	pers := Personalization{RequesterName: "Alice", CounterpartName: "Bob"}
	id1 := deriveAnalysisID([]byte("same input"), pers)
	id2 := deriveAnalysisID([]byte("same input"), pers)
	assert.Equal(t, id1, id2)

	other := deriveAnalysisID([]byte("different input"), pers)
	assert.NotEqual(t, id1, other)

	renamed := deriveAnalysisID([]byte("same input"), Personalization{RequesterName: "Carol"})
	assert.NotEqual(t, id1, renamed)
}

func TestSelectExcerptsBoundsAndDedupe(t *testing.T) {
	t.Parallel()

	dirs := make([]Direction, 200)
	contents := make([]string, 200)
	for i := range dirs {
		dirs[i] = reqDir
		if i%2 == 1 {
			dirs[i] = cptDir
		}
		contents[i] = fmt.Sprintf("message number %d with some padding text", i)
		if i%7 == 0 {
			contents[i] += " right?"
		}
	}
	msgs := buildStream(dirs, contents, time.Minute)

	excerpts := selectExcerpts(msgs)
	require.NotEmpty(t, excerpts)
	assert.LessOrEqual(t, len(excerpts), maxExcerpts)

	seen := map[int]bool{}
	for i, e := range excerpts {
		assert.False(t, seen[e.ID], "duplicate excerpt id %d", e.ID)
		seen[e.ID] = true
		if i > 0 {
			assert.Greater(t, e.ID, excerpts[i-1].ID, "excerpts must be sorted by id")
		}
	}
}

func TestDeriveRecommendationsOrdering(t *testing.T) {
	t.Parallel()

	metrics := map[string]AnalyzerResult{
		MetricToxicity:  {Value: "severe"},
		MetricSentiment: {Value: "negative"},
		MetricPatterns:  {Value: "one-sided"},
		MetricHealth: {Value: "15", Details: []Detail{
			{Label: "label", Value: "toxic"},
			{Label: "trend", Value: "declining"},
		}},
	}
	recs := deriveRecommendations(metrics)
	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority, recs[i].Priority)
	}
	assert.Equal(t, "Address toxicity", recs[0].Action)

	insights := deriveInsights(metrics)
	require.NotEmpty(t, insights)
	assert.Equal(t, "high", insights[0].Importance)
	if !strings.Contains(insights[0].Text, "Toxic") && insights[0].Category != "conflict" {
		t.Fatalf("expected the toxicity insight first, got %+v", insights[0])
	}
}
