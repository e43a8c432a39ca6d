package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/invopop/jsonschema"
)

// Detail is one labeled line of an analyzer breakdown.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// AnalyzerResult is the shape every analyzer module returns, including on
// insufficient data (see emptyResult). Section and comparison maps use
// string values so the report serializes deterministically.
type AnalyzerResult struct {
	Value       string            `json:"value"`
	Requester   map[string]string `json:"requester,omitempty"`
	Counterpart map[string]string `json:"counterpart,omitempty"`
	Comparison  map[string]string `json:"comparison,omitempty"`
	Summary     string            `json:"summary"`
	Details     []Detail          `json:"details,omitempty"`
}

// emptyResult is the documented default an analyzer returns when the stream
// is too short for it to say anything.
func emptyResult(summary string) AnalyzerResult {
	return AnalyzerResult{Value: "n/a", Summary: summary}
}

// fallbackResult replaces the output of an analyzer module that failed.
// Partial-failure tolerance: the rest of the report is unaffected.
func fallbackResult() AnalyzerResult {
	return AnalyzerResult{Value: "n/a", Summary: "analysis unavailable"}
}

// ConversationStats summarizes the normalized stream itself.
type ConversationStats struct {
	TotalMessages       int       `json:"totalMessages"`
	RequesterMessages   int       `json:"requesterMessages"`
	CounterpartMessages int       `json:"counterpartMessages"`
	FirstMessage        time.Time `json:"firstMessage"`
	LastMessage         time.Time `json:"lastMessage"`
	Span                string    `json:"span"`
	Requester           string    `json:"requester"`
	Counterpart         string    `json:"counterpart"`
}

// Insight is one derived observation, ranked by importance.
type Insight struct {
	Category   string `json:"category"`
	Text       string `json:"text"`
	Importance string `json:"importance"` // high, medium, low
}

// Recommendation is one suggested action tied to a metric threshold.
// Lower Priority sorts first.
type Recommendation struct {
	Priority int    `json:"priority"`
	Action   string `json:"action"`
	Detail   string `json:"detail"`
}

// ExcerptedMessage is one representative message picked for the report.
type ExcerptedMessage struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Direction Direction `json:"direction"`
	Content   string    `json:"content"`
	Reason    string    `json:"reason"`
}

// CompositeReport is the single immutable output of a pipeline invocation.
// GeneratedAt is the only field that varies between identical runs;
// AnalysisID is derived from the input and is stable.
type CompositeReport struct {
	AnalysisID      string                    `json:"analysisId"`
	GeneratedAt     time.Time                 `json:"generatedAt"`
	Stats           ConversationStats         `json:"stats"`
	Metrics         map[string]AnalyzerResult `json:"metrics"`
	Summary         string                    `json:"summary"`
	Insights        []Insight                 `json:"insights"`
	Recommendations []Recommendation          `json:"recommendations"`
	MessageExcerpts []ExcerptedMessage        `json:"messageExcerpts"`
	Truncated       bool                      `json:"truncated"`
	Success         bool                      `json:"success"`
	Error           string                    `json:"error,omitempty"`
}

// JSON serializes the report. Map keys marshal sorted, so the output is
// byte-identical across runs apart from GeneratedAt.
func (r CompositeReport) JSON(pretty bool) ([]byte, error) {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(r, "", "  ")
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return nil, fmt.Errorf("CompositeReport.JSON: marshal: %w", err)
	}
	return b, nil
}

// FlatTable flattens the report into a sorted-iterable key/value view for
// collaborators that want tabular output. GeneratedAt is left out so the
// table is fully deterministic.
func (r CompositeReport) FlatTable() map[string]string {
	t := map[string]string{
		"analysisId":                r.AnalysisID,
		"success":                   fmt.Sprintf("%t", r.Success),
		"truncated":                 fmt.Sprintf("%t", r.Truncated),
		"summary":                   r.Summary,
		"stats.totalMessages":       fmt.Sprintf("%d", r.Stats.TotalMessages),
		"stats.requesterMessages":   fmt.Sprintf("%d", r.Stats.RequesterMessages),
		"stats.counterpartMessages": fmt.Sprintf("%d", r.Stats.CounterpartMessages),
		"stats.span":                r.Stats.Span,
	}
	if r.Error != "" {
		t["error"] = r.Error
	}
	for name, m := range r.Metrics {
		t["metrics."+name+".value"] = m.Value
		t["metrics."+name+".summary"] = m.Summary
		for _, d := range m.Details {
			t["metrics."+name+".detail."+d.Label] = d.Value
		}
	}
	for i, in := range r.Insights {
		t[fmt.Sprintf("insights.%d", i)] = fmt.Sprintf("[%s] %s", in.Importance, in.Text)
	}
	for i, rec := range r.Recommendations {
		t[fmt.Sprintf("recommendations.%d", i)] = fmt.Sprintf("%s: %s", rec.Action, rec.Detail)
	}
	return t
}

// FlatTableKeys returns the table keys in sorted order, for stable rendering.
func (r CompositeReport) FlatTableKeys() []string {
	t := r.FlatTable()
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReportSchema reflects the JSON schema of CompositeReport, for collaborators
// that validate or document the report payload.
func ReportSchema() (map[string]interface{}, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(CompositeReport{})
	return schemaToMap(schema)
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("ReportSchema: marshal: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("ReportSchema: unmarshal: %w", err)
	}
	return m, nil
}
