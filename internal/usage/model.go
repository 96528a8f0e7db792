package usage

import "time"

// Feature names a usage-limited operation.
type Feature string

const (
	FeatureTransform     Feature = "transform"
	FeatureAISuggestions Feature = "ai_suggestions"
)

// Counter is a per-user, per-feature usage snapshot.
type Counter struct {
	Feature   Feature
	Count     int
	LastReset *time.Time
}

// Limits bounds one feature. A zero Window means the cap is lifetime.
type Limits struct {
	Cap    int
	Window time.Duration
}

// Windowed reports whether the counter resets over time.
func (l Limits) Windowed() bool {
	return l.Window > 0
}

// Policy maps each feature to its limits.
type Policy map[Feature]Limits

// DefaultPolicy returns the stock limits: 4 lifetime transforms and
// 10 suggestions per 24 hours.
func DefaultPolicy() Policy {
	return Policy{
		FeatureTransform:     {Cap: 4},
		FeatureAISuggestions: {Cap: 10, Window: 24 * time.Hour},
	}
}

// Report is the wire shape of a usage read.
type Report struct {
	UsageCount int `json:"usageCount"`
	MaxUsage   int `json:"maxUsage"`
}
