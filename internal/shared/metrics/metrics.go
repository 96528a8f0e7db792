package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LLM call outcomes recorded by ObserveLLMCall.
const (
	OutcomeSuccess     = "success"
	OutcomeTimeout     = "timeout"
	OutcomeInvalid     = "invalid_response"
	OutcomeError       = "error"
	OutcomeLimitHit    = "limit_reached"
	OutcomeUnavailable = "unavailable"
)

var (
	llmCalls     = newCounterVec()
	resumeWrites = newCounterVec()

	llmDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// ObserveLLMCall records one gated model call for feature with outcome.
func ObserveLLMCall(feature, outcome string, elapsed time.Duration) {
	llmCalls.Inc(feature + "|" + outcome)
	if outcome == OutcomeLimitHit {
		return
	}
	ms := float64(elapsed.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	llmDuration.Observe(ms)
}

// IncResumeWrite counts history mutations by operation (save, delete, restore).
func IncResumeWrite(op string) {
	resumeWrites.Inc(op)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# HELP llm_calls_total Gated model calls by feature and outcome\n")
	fmt.Fprintf(&buf, "# TYPE llm_calls_total counter\n")
	for _, e := range llmCalls.Snapshot() {
		feature, outcome := splitKey(e.key)
		fmt.Fprintf(&buf, "llm_calls_total{feature=%q,outcome=%q} %d\n", feature, outcome, e.value)
	}
	fmt.Fprintf(&buf, "# HELP resume_history_writes_total Saved resume mutations by operation\n")
	fmt.Fprintf(&buf, "# TYPE resume_history_writes_total counter\n")
	for _, e := range resumeWrites.Snapshot() {
		fmt.Fprintf(&buf, "resume_history_writes_total{op=%q} %d\n", e.key, e.value)
	}
	writeHistogram(&buf, "llm_call_duration_ms", "Model call duration in milliseconds", llmDuration.Snapshot())
	return buf.String()
}

func splitKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

type counterVec struct {
	mu     sync.Mutex
	values map[string]uint64
}

type counterEntry struct {
	key   string
	value uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (v *counterVec) Inc(key string) {
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) Snapshot() []counterEntry {
	v.mu.Lock()
	out := make([]counterEntry, 0, len(v.values))
	for k, n := range v.values {
		out = append(out, counterEntry{key: k, value: n})
	}
	v.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe files value into the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
