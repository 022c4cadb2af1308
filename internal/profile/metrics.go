package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/store"
)

// Well-known metric names.
const (
	MetricSteps         = "Steps"
	MetricCalories      = "Calories Burned"
	MetricActiveMinutes = "Active Minutes"
)

// DefaultMetrics are stored the first time a user's metrics are read.
func DefaultMetrics() []models.Metric {
	return []models.Metric{
		{ID: 1, Name: MetricSteps, Value: 8000},
		{ID: 2, Name: MetricCalories, Value: 500},
		{ID: 3, Name: MetricActiveMinutes, Value: 60},
	}
}

// Feedback is the encouragement shown next to a metric.
type Feedback struct {
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
	Badge   string  `json:"badge"`
}

type tier struct {
	min     float64
	message string
	badge   string
}

// feedbackTiers are ordered from highest threshold down; the last entry has
// no threshold.
var feedbackTiers = map[string][]tier{
	MetricSteps: {
		{10000, "Great job! You have reached your daily step goal.", "🏅"},
		{5000, "Good effort! Try to reach 10,000 steps.", "🥈"},
		{0, "Keep moving! Aim for at least 5,000 steps.", "🥉"},
	},
	MetricCalories: {
		{500, "Excellent! You have burned a significant amount of calories.", "🔥"},
		{300, "Good work! Try to burn 500 calories.", "💪"},
		{0, "Keep going! Aim to burn at least 300 calories.", "🏃"},
	},
	MetricActiveMinutes: {
		{60, "Fantastic! You have been active for an hour.", "🏆"},
		{30, "Nice job! Try to be active for 60 minutes.", "🏅"},
		{0, "Keep it up! Aim for at least 30 active minutes.", "🎖️"},
	},
}

// MetricFeedback returns the feedback for m. ok is false for metrics without
// thresholds.
func MetricFeedback(m models.Metric) (Feedback, bool) {
	tiers, ok := feedbackTiers[m.Name]
	if !ok {
		return Feedback{}, false
	}
	chosen := tiers[len(tiers)-1]
	for _, t := range tiers[:len(tiers)-1] {
		if m.Value >= t.min {
			chosen = t
			break
		}
	}
	return Feedback{Metric: m.Name, Value: m.Value, Message: chosen.message, Badge: chosen.badge}, true
}

// HealthScore is the mean metric value, 0 when there are none.
func HealthScore(metrics []models.Metric) float64 {
	if len(metrics) == 0 {
		return 0
	}
	var total float64
	for _, m := range metrics {
		total += m.Value
	}
	return total / float64(len(metrics))
}

// Metrics returns the user's metrics, storing DefaultMetrics on first read.
func (p *Profile) Metrics(ctx context.Context, userID string) ([]models.Metric, error) {
	var metrics []models.Metric
	err := p.kv.Update(ctx, store.Key(store.ConcernMetrics, userID), func(value string, found bool) (string, error) {
		if found {
			if err := json.Unmarshal([]byte(value), &metrics); err != nil {
				return "", fmt.Errorf("decode metrics: %w", err)
			}
			return value, nil
		}
		metrics = DefaultMetrics()
		data, err := json.Marshal(metrics)
		if err != nil {
			return "", fmt.Errorf("encode metrics: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = []models.Metric{}
	}
	return metrics, nil
}

// SaveMetrics replaces the user's metrics.
func (p *Profile) SaveMetrics(ctx context.Context, userID string, metrics []models.Metric) error {
	if metrics == nil {
		metrics = []models.Metric{}
	}
	data, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	return p.kv.Set(ctx, store.Key(store.ConcernMetrics, userID), string(data))
}

// SetMetric updates the value of the named metric, appending it with the
// next free id when absent. Defaults are seeded first for a new user.
func (p *Profile) SetMetric(ctx context.Context, userID, name string, value float64) ([]models.Metric, error) {
	var updated []models.Metric
	err := p.kv.Update(ctx, store.Key(store.ConcernMetrics, userID), func(raw string, found bool) (string, error) {
		updated = DefaultMetrics()
		if found {
			updated = nil
			if err := json.Unmarshal([]byte(raw), &updated); err != nil {
				return "", fmt.Errorf("decode metrics: %w", err)
			}
		}
		updated = withMetric(updated, name, value)
		data, err := json.Marshal(updated)
		if err != nil {
			return "", fmt.Errorf("encode metrics: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func withMetric(metrics []models.Metric, name string, value float64) []models.Metric {
	maxID := 0
	for i := range metrics {
		if metrics[i].Name == name {
			metrics[i].Value = value
			return metrics
		}
		if metrics[i].ID > maxID {
			maxID = metrics[i].ID
		}
	}
	return append(metrics, models.Metric{ID: maxID + 1, Name: name, Value: value})
}
