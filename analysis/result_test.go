package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() CompositeReport {
	return CompositeReport{
		AnalysisID:  "8a6e0804-2bd0-4672-b79d-d97027f9071a",
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Stats:       ConversationStats{TotalMessages: 4, RequesterMessages: 2, CounterpartMessages: 2, Span: "3m"},
		Metrics: map[string]AnalyzerResult{
			MetricSentiment: {
				Value:   "positive",
				Summary: "overall tone is positive",
				Details: []Detail{{Label: "confidence", Value: "0.75"}},
			},
		},
		Summary: "Analyzed 4 messages.",
		Success: true,
	}
}

func TestFlatTableKeys(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	table := r.FlatTable()

	assert.Equal(t, "positive", table["metrics.sentiment.value"])
	assert.Equal(t, "0.75", table["metrics.sentiment.detail.confidence"])
	assert.Equal(t, "4", table["stats.totalMessages"])
	assert.Equal(t, "true", table["success"])
	assert.NotContains(t, table, "generatedAt")
	assert.NotContains(t, table, "error")

	keys := r.FlatTableKeys()
	require.Len(t, keys, len(table))
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i], "keys must be sorted")
	}
}

func TestFlatTableIncludesError(t *testing.T) {
	t.Parallel()

	r := CompositeReport{Error: "insufficient data"}
	assert.Equal(t, "insufficient data", r.FlatTable()["error"])
}

func TestReportJSONRoundTrip(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	b, err := r.JSON(true)
	require.NoError(t, err)

	var back CompositeReport
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r.AnalysisID, back.AnalysisID)
	assert.Equal(t, r.Metrics[MetricSentiment].Value, back.Metrics[MetricSentiment].Value)
}

func TestReportSchema(t *testing.T) {
	t.Parallel()

	schema, err := ReportSchema()
	require.NoError(t, err)
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "schema has no properties object")
	for _, field := range []string{"analysisId", "metrics", "stats", "success"} {
		assert.Contains(t, props, field)
	}
}
