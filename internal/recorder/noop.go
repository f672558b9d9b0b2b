package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ *AnalysisRecord) (string, error) { return "", nil }
func (n *NoopRecorder) RecordPlan(_ *PlanRecord) error                   { return nil }
func (n *NoopRecorder) RecentAnalyses(_ string, _ int) ([]AnalysisRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
