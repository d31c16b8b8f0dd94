package session

// Statistics is the incrementally maintained per-session aggregate. Averages
// are running sums divided by the count, never recomputed over history.
type Statistics struct {
	TotalAnalyzed      int64   `json:"total_analyzed"`
	ViolationsDetected int64   `json:"violations_detected"`
	ActionsTaken       int64   `json:"actions_taken"`
	AvgLatencyMs       float64 `json:"avg_latency_ms"`
	AvgConfidence      float64 `json:"avg_confidence"`
	ViolationRate      float64 `json:"violation_rate"`
	CacheHits          int64   `json:"cache_hits"`
}
