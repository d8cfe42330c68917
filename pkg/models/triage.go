package models

// Priority is the urgency classification assigned to an incoming request.
type Priority string

// Priority levels, most to least urgent.
const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// Rank returns a lower-is-more-urgent ordinal, useful for "floor to at
// least P1" style comparisons.
func (p Priority) Rank() int {
	switch p {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	default:
		return 3
	}
}

// Intent is the coarse classification of what the user wants done.
type Intent string

// Intent values.
const (
	IntentQuery    Intent = "query"
	IntentAction   Intent = "action"
	IntentAnalysis Intent = "analysis"
)

// ConfirmationMode governs how the orchestrator gates write/critical tool calls.
type ConfirmationMode string

// Confirmation modes.
const (
	ConfirmationNone         ConfirmationMode = "none"
	ConfirmationCriticalOnly ConfirmationMode = "critical_only"
	ConfirmationWritesOnly   ConfirmationMode = "writes_only"
	ConfirmationAll          ConfirmationMode = "all"
)

// ResponseFormat governs how verbose the orchestrator's final answer is.
type ResponseFormat string

// Response formats.
const (
	ResponseTerse    ResponseFormat = "terse"
	ResponseStandard ResponseFormat = "standard"
	ResponseDetailed ResponseFormat = "detailed"
)

// BehaviorProfile is the immutable per-priority bundle of execution
// policies. Values come from spec.md's behavior-profile table verbatim.
type BehaviorProfile struct {
	Priority                Priority
	MaxAnalysisTimeSeconds  int
	UseChainOfThought       bool
	ShowThinking            bool
	ParallelExecution       bool
	AutoConfirmReads        bool
	AutoConfirmWrites       bool
	MaxCommandsBeforePause  int
	ConfirmationMode        ConfirmationMode
	ResponseFormat          ResponseFormat
	IncludeNextSteps        bool
	IncludeExplanations     bool
}

// ShouldConfirm reports whether a tool call of the given write/critical
// shape requires user confirmation under this profile.
func (b BehaviorProfile) ShouldConfirm(isWrite, isCritical bool) bool {
	switch b.ConfirmationMode {
	case ConfirmationNone:
		return false
	case ConfirmationCriticalOnly:
		return isCritical
	case ConfirmationWritesOnly:
		return isWrite || isCritical
	case ConfirmationAll:
		return true
	default:
		return true
	}
}

// ShouldAutoConfirm reports whether a tool call of this write/read shape
// may proceed without prompting, independent of ShouldConfirm — callers
// consult both per spec.md's orchestrator contract.
func (b BehaviorProfile) ShouldAutoConfirm(isWrite bool) bool {
	if isWrite {
		return b.AutoConfirmWrites
	}
	return b.AutoConfirmReads
}

// PriorityResult is the value object produced per request by the
// priority/intent classifier.
type PriorityResult struct {
	Priority             Priority
	Intent               Intent
	Confidence           float64
	Signals              []string
	Reasoning            string
	EscalationRequired   bool
	EnvironmentDetected  string
	ServiceDetected      string
	HostDetected         string
}

// SystemState is the optional runtime context the classifier may consult
// (accessibility, resource thresholds) to amplify priority.
type SystemState struct {
	HostAccessible   *bool
	DiskUsedPercent  *float64
	MemoryUsedPercent *float64
	LoadAverage      *float64
	CPUCount         int
}

// TriagePattern is a learned (user_id, normalized query) -> outcome tuple.
type TriagePattern struct {
	UserID           string
	QueryNormalized  string
	Intent           Intent
	Priority         Priority
	Embedding        []float64
	Confidence       float64
	UseCount         int
	CreatedAt        int64
}
