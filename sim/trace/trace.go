package trace

// TraceLevel controls the verbosity of regime tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelRegimes captures the throttle regime of every evaluated row.
	TraceLevelRegimes TraceLevel = "regimes"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelRegimes: true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelRegimes
}

// EvaluationTrace collects regime records across one or more evaluations.
type EvaluationTrace struct {
	Config  TraceConfig
	Regimes []RegimeRecord
}

// NewEvaluationTrace creates an EvaluationTrace ready for recording.
func NewEvaluationTrace(config TraceConfig) *EvaluationTrace {
	return &EvaluationTrace{
		Config:  config,
		Regimes: make([]RegimeRecord, 0),
	}
}

// RecordRegime appends a regime record. No-op when tracing is disabled.
func (et *EvaluationTrace) RecordRegime(record RegimeRecord) {
	if !et.Config.Enabled() {
		return
	}
	et.Regimes = append(et.Regimes, record)
}
