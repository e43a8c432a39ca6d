package analysis

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metric names as they appear in CompositeReport.Metrics.
const (
	MetricSentiment  = "sentiment"
	MetricToxicity   = "toxicity"
	MetricEngagement = "engagement"
	MetricStreaks    = "doubleTexts"
	MetricResponse   = "responseTime"
	MetricTiming     = "timing"
	MetricApologies  = "apologies"
	MetricPatterns   = "communicationPatterns"
	MetricHealth     = "positivity"
)

// analysisNamespace seeds the content-derived report IDs.
var analysisNamespace = uuid.MustParse("a1d5c3a2-7e4b-4f16-9c31-2f8d0b6e4a90")

// maxExcerpts bounds the representative message sample on the report.
const maxExcerpts = 50

type analyzerSpec struct {
	name string
	run  func([]Message) AnalyzerResult
}

func defaultAnalyzers() []analyzerSpec {
	return []analyzerSpec{
		{MetricSentiment, AnalyzeSentiment},
		{MetricToxicity, AnalyzeToxicity},
		{MetricEngagement, AnalyzeEngagement},
		{MetricStreaks, AnalyzeStreaks},
		{MetricResponse, AnalyzeResponseTimes},
		{MetricTiming, AnalyzeTiming},
		{MetricApologies, AnalyzeApologies},
		{MetricPatterns, AnalyzeCommunicationPatterns},
	}
}

// Pipeline runs the full analysis. It holds no state between invocations and
// is safe to share across goroutines.
type Pipeline struct {
	logger    *zap.Logger
	analyzers []analyzerSpec
	// health consumes the same stream but runs after the fan-out join; it
	// is the one module with a declared ordering dependency.
	health func([]Message) AnalyzerResult
}

// NewPipeline builds a pipeline. logger may be nil for silence.
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		logger:    logger,
		analyzers: defaultAnalyzers(),
		health:    AnalyzeHealth,
	}
}

// RunAnalysis is the package-level convenience entry point.
func RunAnalysis(raw []byte, hint FormatHint, pers Personalization) CompositeReport {
	return NewPipeline(nil).Run(raw, hint, pers)
}

// Run normalizes the input and fans out every analyzer over the immutable
// stream. A panicking analyzer is replaced by a fallback result: one failing
// module never aborts the pipeline.
func (p *Pipeline) Run(raw []byte, hint FormatHint, pers Personalization) CompositeReport {
	pers = pers.withDefaults()
	report := CompositeReport{
		AnalysisID:  deriveAnalysisID(raw, pers),
		GeneratedAt: time.Now().UTC(),
		Metrics:     map[string]AnalyzerResult{},
	}

	msgs, truncated := Normalize(raw, hint, pers, p.logger)
	report.Truncated = truncated
	if len(msgs) < 2 {
		report.Success = false
		report.Error = "insufficient data"
		return report
	}

	results := make([]AnalyzerResult, len(p.analyzers))
	var wg sync.WaitGroup
	for i, spec := range p.analyzers {
		wg.Add(1)
		go func(i int, spec analyzerSpec) {
			defer wg.Done()
			results[i] = p.runGuarded(spec, msgs)
		}(i, spec)
	}
	wg.Wait()

	for i, spec := range p.analyzers {
		report.Metrics[spec.name] = results[i]
	}
	report.Metrics[MetricHealth] = p.runGuarded(analyzerSpec{MetricHealth, p.health}, msgs)

	report.Stats = buildStats(msgs, pers)
	report.Summary = buildSummary(report.Stats, report.Metrics, pers)
	report.Insights = deriveInsights(report.Metrics)
	report.Recommendations = deriveRecommendations(report.Metrics)
	report.MessageExcerpts = selectExcerpts(msgs)
	report.Success = true
	return report
}

// runGuarded isolates one analyzer: a panic becomes the fallback result.
func (p *Pipeline) runGuarded(spec analyzerSpec, msgs []Message) (res AnalyzerResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("analyzer failed, using fallback result",
				zap.String("analyzer", spec.name),
				zap.Any("panic", r))
			res = fallbackResult()
		}
	}()
	return spec.run(msgs)
}

func deriveAnalysisID(raw []byte, pers Personalization) string {
	payload := make([]byte, 0, len(raw)+64)
	payload = append(payload, raw...)
	payload = append(payload, 0)
	payload = append(payload, pers.RequesterName...)
	payload = append(payload, 0)
	payload = append(payload, pers.CounterpartName...)
	payload = append(payload, 0)
	payload = append(payload, pers.AnalysisGoal...)
	return uuid.NewSHA1(analysisNamespace, payload).String()
}

func buildStats(msgs []Message, pers Personalization) ConversationStats {
	req, cpt := partition(msgs)
	first := msgs[0].Timestamp
	last := msgs[len(msgs)-1].Timestamp
	return ConversationStats{
		TotalMessages:       len(msgs),
		RequesterMessages:   len(req),
		CounterpartMessages: len(cpt),
		FirstMessage:        first,
		LastMessage:         last,
		Span:                formatDuration(last.Sub(first)),
		Requester:           pers.RequesterName,
		Counterpart:         pers.CounterpartName,
	}
}

func buildSummary(stats ConversationStats, metrics map[string]AnalyzerResult, pers Personalization) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyzed %d messages between %s and %s over %s.",
		stats.TotalMessages, pers.RequesterName, pers.CounterpartName, stats.Span)
	if tone := metrics[MetricSentiment].Value; tone != "" && tone != "n/a" {
		fmt.Fprintf(&b, " Overall tone is %s.", tone)
	}
	if label := detailValue(metrics[MetricHealth], "label"); label != "" {
		fmt.Fprintf(&b, " Relationship health is %s (%s/100).", label, metrics[MetricHealth].Value)
	}
	if goal := strings.TrimSpace(pers.AnalysisGoal); goal != "" {
		fmt.Fprintf(&b, " Analysis goal: %s.", goal)
	}
	return b.String()
}

// detailValue finds one labeled detail line on a result, or "".
func detailValue(res AnalyzerResult, label string) string {
	for _, d := range res.Details {
		if d.Label == label {
			return d.Value
		}
	}
	return ""
}

var importanceRank = map[string]int{"high": 0, "medium": 1, "low": 2}

func deriveInsights(metrics map[string]AnalyzerResult) []Insight {
	var insights []Insight
	add := func(category, importance, text string) {
		insights = append(insights, Insight{Category: category, Text: text, Importance: importance})
	}

	switch metrics[MetricToxicity].Value {
	case "high", "severe":
		add("conflict", "high", "Toxic language shows up often enough to strain the relationship.")
	case "moderate":
		add("conflict", "medium", "Some exchanges carry a harsh edge worth watching.")
	}

	switch metrics[MetricSentiment].Value {
	case "negative":
		add("tone", "high", "The overall tone of the conversation leans negative.")
	case "positive":
		add("tone", "low", "The overall tone of the conversation is positive.")
	}

	switch detailValue(metrics[MetricHealth], "label") {
	case "poor", "toxic":
		add("health", "high", "The composite health score sits in the lowest range.")
	case "moderate":
		add("health", "medium", "The composite health score has room to improve.")
	case "excellent":
		add("health", "low", "The composite health score is excellent.")
	}
	if trend := detailValue(metrics[MetricHealth], "trend"); trend == "declining" {
		add("health", "medium", "Sentiment has slipped between the first and second half of the conversation.")
	}

	if metrics[MetricPatterns].Value == "one-sided" {
		add("balance", "medium", "One party sends a clear majority of the messages.")
	}

	if cmp := metrics[MetricStreaks].Comparison; cmp != nil {
		switch cmp["moreInvested"] {
		case "requester":
			add("investment", "low", "The requester double-texts more, suggesting higher investment.")
		case "counterpart":
			add("investment", "low", "The counterpart double-texts more, suggesting higher investment.")
		}
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return importanceRank[insights[i].Importance] < importanceRank[insights[j].Importance]
	})
	return insights
}

func deriveRecommendations(metrics map[string]AnalyzerResult) []Recommendation {
	var recs []Recommendation
	add := func(priority int, action, detail string) {
		recs = append(recs, Recommendation{Priority: priority, Action: action, Detail: detail})
	}

	switch metrics[MetricToxicity].Value {
	case "high", "severe":
		add(1, "Address toxicity", "Toxic language was flagged at a high level; name the pattern directly and agree on ground rules.")
	case "moderate":
		add(3, "Watch the tone", "Occasional harsh exchanges were flagged; cooling-off pauses help before replying heated.")
	}

	switch detailValue(metrics[MetricHealth], "label") {
	case "poor", "toxic":
		add(2, "Rebuild positive ground", "The health composite is low; schedule low-stakes positive interactions before tackling conflicts.")
	}

	if metrics[MetricSentiment].Value == "negative" {
		add(4, "Shift the tone", "Negative sentiment dominates; try leading exchanges with appreciation instead of grievances.")
	}

	if metrics[MetricPatterns].Value == "one-sided" {
		add(5, "Rebalance participation", "Message volume is one-sided; shorter messages with more questions invite the quieter party in.")
	}

	if rate := detailValue(metrics[MetricApologies], "resolutionRate"); rate == "0.0%" {
		if detailValue(metrics[MetricApologies], "conflicts") != "0" {
			add(6, "Close open conflicts", "Detected conflicts never resolve within the conversation; revisit them explicitly.")
		}
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
	return recs
}

// selectExcerpts samples a bounded, diverse set of representative messages:
// the longest ones, question and emoji carriers, and an even spread across
// the timeline, deduplicated by message ID.
func selectExcerpts(msgs []Message) []ExcerptedMessage {
	type pick struct {
		msg    Message
		reason string
	}
	var picks []pick

	byLength := make([]Message, len(msgs))
	copy(byLength, msgs)
	sort.SliceStable(byLength, func(i, j int) bool { return byLength[i].Length > byLength[j].Length })
	for i := 0; i < len(byLength) && i < 15; i++ {
		picks = append(picks, pick{byLength[i], "longest"})
	}

	questions := 0
	for _, m := range msgs {
		if questions >= 15 {
			break
		}
		if strings.Contains(m.Content, "?") {
			picks = append(picks, pick{m, "question"})
			questions++
		}
	}

	emoji := 0
	for _, m := range msgs {
		if emoji >= 10 {
			break
		}
		if countEmoji(m.Content) > 0 {
			picks = append(picks, pick{m, "emoji"})
			emoji++
		}
	}

	const spread = 10
	for i := 0; i < spread; i++ {
		idx := i * len(msgs) / spread
		picks = append(picks, pick{msgs[idx], "timeline"})
	}

	seen := map[int]struct{}{}
	var out []ExcerptedMessage
	for _, p := range picks {
		if _, ok := seen[p.msg.ID]; ok {
			continue
		}
		seen[p.msg.ID] = struct{}{}
		out = append(out, ExcerptedMessage{
			ID:        p.msg.ID,
			Timestamp: p.msg.Timestamp,
			Sender:    p.msg.Sender,
			Direction: p.msg.Direction,
			Content:   p.msg.Content,
			Reason:    p.reason,
		})
		if len(out) >= maxExcerpts {
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
