package insight

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Threshold constants preserved from the original analysis behavior. They are
// deliberately not configurable.
const (
	minTrendSamples      = 3
	trendSlopeThreshold  = 0.1
	trendConfidenceFloor = 60.0
	trendDampingSamples  = 20.0

	sweetSpotWinRate   = 0.7
	sweetSpotMinTrades = 5

	dangerZoneWinRate   = 0.3
	dangerZoneMinTrades = 3

	volatilityThreshold  = 2.0
	volatilityConfidence = 85.0
	minVolatilitySamples = 2

	patternGroupMinTrades = 3
	dayPatternWinRateGap  = 0.3
	hourPatternWinRateGap = 0.4

	minEmotionLevel = 1
	maxEmotionLevel = 10
)

// Engine computes emotion/performance correlations over caller-supplied
// collections. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for Insight.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides the generator used for Insight.ID.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an engine with the given options. By default insights are
// stamped with time.Now and identified by a fresh UUID.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CalculateTrend fits an ordinary least-squares line through the emotion
// levels ordered by timestamp, using the ordinal position as the independent
// variable. Fewer than three samples yields TrendInsufficientData and no
// regression is attempted.
func (e *Engine) CalculateTrend(samples []EmotionSample) TrendAnalysis {
	if len(samples) < minTrendSamples {
		return TrendAnalysis{Direction: TrendInsufficientData}
	}

	sorted := make([]EmotionSample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	n := float64(len(sorted))
	var sumX, sumY, sumXY, sumXX float64
	for i, s := range sorted {
		x := float64(i)
		sumX += x
		sumY += s.Level
		sumXY += x * s.Level
		sumXX += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	direction := TrendStable
	switch {
	case slope > trendSlopeThreshold:
		direction = TrendImproving
	case slope < -trendSlopeThreshold:
		direction = TrendDeclining
	}

	mean := sumY / n
	var residualSS, totalSS float64
	for i, s := range sorted {
		fitted := intercept + slope*float64(i)
		residualSS += (s.Level - fitted) * (s.Level - fitted)
		totalSS += (s.Level - mean) * (s.Level - mean)
	}

	// Zero variance leaves R² undefined; report zero confidence instead of
	// dividing by zero.
	confidence := 0.0
	if totalSS > 0 {
		rSquared := 1 - residualSS/totalSS
		confidence = rSquared * 100 * math.Min(1, n/trendDampingSamples)
	}
	confidence = clampConfidence(confidence)

	return TrendAnalysis{
		Direction:  direction,
		Slope:      slope,
		Intercept:  intercept,
		Confidence: confidence,
	}
}

// AnalyzeEmotionPerformance buckets trades by their rounded pre-trade emotion
// level and computes win rate and average profit per level. Trades without a
// pre-trade emotion are excluded; levels with no qualifying trades are omitted.
func (e *Engine) AnalyzeEmotionPerformance(trades []TradeRecord) []EmotionPerformanceBucket {
	var buckets []EmotionPerformanceBucket
	for level := minEmotionLevel; level <= maxEmotionLevel; level++ {
		var (
			wins        int
			count       int
			totalProfit float64
			tradeIDs    []string
		)
		for _, t := range trades {
			if t.PreTradeEmotion == nil {
				continue
			}
			if int(math.Round(*t.PreTradeEmotion)) != level {
				continue
			}
			count++
			totalProfit += t.Profit
			if t.IsWin() {
				wins++
			}
			tradeIDs = append(tradeIDs, t.ID)
		}
		if count == 0 {
			continue
		}
		buckets = append(buckets, EmotionPerformanceBucket{
			EmotionLevel:  level,
			WinRate:       float64(wins) / float64(count),
			TradeCount:    count,
			AverageProfit: totalProfit / float64(count),
			TradeIDs:      tradeIDs,
		})
	}
	return buckets
}

// GenerateInsights evaluates every insight rule against the user's history and
// returns the ones that fired, ordered by priority then descending confidence.
// Small or empty inputs never produce an error, only fewer insights.
func (e *Engine) GenerateInsights(userID string, samples []EmotionSample, trades []TradeRecord) []Insight {
	var insights []Insight

	buckets := e.AnalyzeEmotionPerformance(trades)

	if best, ok := bestPerformingBucket(buckets); ok &&
		best.WinRate > sweetSpotWinRate && best.TradeCount >= sweetSpotMinTrades {
		insights = append(insights, e.newInsight(
			TypePerformanceCorrelation,
			PriorityHigh,
			"Emotional Sweet Spot Detected",
			fmt.Sprintf("You win %d%% of your trades when your emotion level is %d. Look for setups when you feel this way.",
				roundPercent(best.WinRate), best.EmotionLevel),
			sampleSizeConfidence(best.TradeCount),
		))
	}

	if worst, ok := worstQualifyingBucket(buckets); ok && worst.WinRate < dangerZoneWinRate {
		insights = append(insights, e.newInsight(
			TypeWarning,
			PriorityHigh,
			"Emotional Danger Zone",
			fmt.Sprintf("Only %d%% of your trades are profitable when your emotion level is %d. Consider staying out of the market when you feel this way.",
				roundPercent(worst.WinRate), worst.EmotionLevel),
			sampleSizeConfidence(worst.TradeCount),
		))
	}

	if trendInsight, ok := e.trendInsight(samples); ok {
		insights = append(insights, trendInsight)
	}

	if volatilityInsight, ok := e.volatilityInsight(samples); ok {
		insights = append(insights, volatilityInsight)
	}

	if dayInsight, ok := e.dayOfWeekInsight(trades); ok {
		insights = append(insights, dayInsight)
	}

	if hourInsight, ok := e.hourOfDayInsight(trades); ok {
		insights = append(insights, hourInsight)
	}

	// Stable sort keeps rule order for equal priority and confidence.
	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Priority.Rank() != insights[j].Priority.Rank() {
			return insights[i].Priority.Rank() > insights[j].Priority.Rank()
		}
		return insights[i].Confidence > insights[j].Confidence
	})

	return insights
}

func (e *Engine) trendInsight(samples []EmotionSample) (Insight, bool) {
	trend := e.CalculateTrend(samples)
	if trend.Direction == TrendInsufficientData || trend.Confidence <= trendConfidenceFloor {
		return Insight{}, false
	}

	priority := PriorityMedium
	var title, description string
	switch trend.Direction {
	case TrendImproving:
		title = "Emotional Trend: Improving"
		description = "Your emotional state has been improving over your recent check-ins. Whatever you changed is working, keep it up."
	case TrendDeclining:
		priority = PriorityHigh
		title = "Emotional Trend: Declining"
		description = "Your emotional state has been declining over your recent check-ins. Consider reducing position sizes or taking a break until it recovers."
	case TrendStable:
		title = "Emotional Trend: Stable"
		description = "Your emotional state has been steady over your recent check-ins. A stable baseline is a solid foundation for disciplined trading."
	default:
		title = "Emotional Trend"
		description = "Your emotional state shows no clear direction over your recent check-ins."
	}

	return e.newInsight(TypeTrend, priority, title, description, trend.Confidence), true
}

func (e *Engine) volatilityInsight(samples []EmotionSample) (Insight, bool) {
	if len(samples) < minVolatilitySamples {
		return Insight{}, false
	}

	var sum float64
	for _, s := range samples {
		sum += s.Level
	}
	mean := sum / float64(len(samples))

	var variance float64
	for _, s := range samples {
		variance += (s.Level - mean) * (s.Level - mean)
	}
	stddev := math.Sqrt(variance / float64(len(samples)))

	if stddev <= volatilityThreshold {
		return Insight{}, false
	}

	return e.newInsight(
		TypeWarning,
		PriorityHigh,
		"High Emotional Volatility",
		fmt.Sprintf("Your emotional state swings widely between check-ins (stddev %.1f). Large swings often lead to inconsistent decisions; consider a pre-trade routine to level out.",
			stddev),
		volatilityConfidence,
	), true
}

func (e *Engine) dayOfWeekInsight(trades []TradeRecord) (Insight, bool) {
	groups := make(map[int]*performanceGroup)
	for _, t := range trades {
		if t.PreTradeEmotion == nil {
			continue
		}
		day := int(t.Timestamp.Weekday())
		g, ok := groups[day]
		if !ok {
			g = &performanceGroup{label: t.Timestamp.Weekday().String()}
			groups[day] = g
		}
		g.add(t)
	}

	best, worst, ok := bestAndWorstGroups(groups, 7)
	if !ok || best.winRate()-worst.winRate() <= dayPatternWinRateGap {
		return Insight{}, false
	}

	return e.newInsight(
		TypePerformanceCorrelation,
		PriorityMedium,
		"Day-of-Week Performance Pattern",
		fmt.Sprintf("You win %d%% of your trades on %s but only %d%% on %s. Consider sizing down or sitting out on your weaker day.",
			roundPercent(best.winRate()), best.label, roundPercent(worst.winRate()), worst.label),
		sampleSizeConfidence(best.count+worst.count),
	), true
}

func (e *Engine) hourOfDayInsight(trades []TradeRecord) (Insight, bool) {
	groups := make(map[int]*performanceGroup)
	for _, t := range trades {
		if t.PreTradeEmotion == nil {
			continue
		}
		hour := t.Timestamp.Hour()
		g, ok := groups[hour]
		if !ok {
			g = &performanceGroup{label: formatHour(hour)}
			groups[hour] = g
		}
		g.add(t)
	}

	best, worst, ok := bestAndWorstGroups(groups, 24)
	if !ok || best.winRate()-worst.winRate() <= hourPatternWinRateGap {
		return Insight{}, false
	}

	return e.newInsight(
		TypePerformanceCorrelation,
		PriorityMedium,
		"Hour-of-Day Performance Pattern",
		fmt.Sprintf("Trades opened around %s win %d%% of the time, while trades around %s win only %d%%. Your best trading window matters.",
			best.label, roundPercent(best.winRate()), worst.label, roundPercent(worst.winRate())),
		sampleSizeConfidence(best.count+worst.count),
	), true
}

func (e *Engine) newInsight(insightType InsightType, priority Priority, title, description string, confidence float64) Insight {
	return Insight{
		ID:          e.newID(),
		Type:        insightType,
		Title:       title,
		Description: description,
		Confidence:  clampConfidence(confidence),
		Priority:    priority,
		Actionable:  true,
		CreatedAt:   e.now(),
	}
}

// performanceGroup accumulates win/loss counts for one calendar grouping key.
type performanceGroup struct {
	label string
	wins  int
	count int
}

func (g *performanceGroup) add(t TradeRecord) {
	g.count++
	if t.IsWin() {
		g.wins++
	}
}

func (g *performanceGroup) winRate() float64 {
	if g.count == 0 {
		return 0
	}
	return float64(g.wins) / float64(g.count)
}

// bestAndWorstGroups scans group keys in ascending order so that ties resolve
// deterministically. Groups below the minimum trade count are ignored; at
// least two qualifying groups are required.
func bestAndWorstGroups(groups map[int]*performanceGroup, keySpace int) (best, worst *performanceGroup, ok bool) {
	qualifying := 0
	for key := 0; key < keySpace; key++ {
		g, exists := groups[key]
		if !exists || g.count < patternGroupMinTrades {
			continue
		}
		qualifying++
		if best == nil || g.winRate() > best.winRate() {
			best = g
		}
		if worst == nil || g.winRate() < worst.winRate() {
			worst = g
		}
	}
	return best, worst, qualifying >= 2
}

func bestPerformingBucket(buckets []EmotionPerformanceBucket) (EmotionPerformanceBucket, bool) {
	var best EmotionPerformanceBucket
	found := false
	for _, b := range buckets {
		if !found || b.WinRate > best.WinRate {
			best = b
			found = true
		}
	}
	return best, found
}

func worstQualifyingBucket(buckets []EmotionPerformanceBucket) (EmotionPerformanceBucket, bool) {
	var worst EmotionPerformanceBucket
	found := false
	for _, b := range buckets {
		if b.TradeCount < dangerZoneMinTrades {
			continue
		}
		if !found || b.WinRate < worst.WinRate {
			worst = b
			found = true
		}
	}
	return worst, found
}

// sampleSizeConfidence maps a raw observation count onto the fixed confidence
// ladder. The steps are not interpolated.
func sampleSizeConfidence(count int) float64 {
	switch {
	case count < 3:
		return 30
	case count < 5:
		return 50
	case count < 10:
		return 70
	case count < 20:
		return 85
	default:
		return 95
	}
}

func clampConfidence(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 100 {
		return 100
	}
	return confidence
}

func roundPercent(rate float64) int {
	return int(math.Round(rate * 100))
}

// formatHour renders an hour-of-day on a 12-hour clock, e.g. 15 -> "3 PM".
func formatHour(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}
