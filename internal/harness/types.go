package harness

// Trace event types.
const (
	EventInvocation = "invocation"
	EventCompletion = "completion"
	EventRefresh    = "refresh"
)

// CaseOK is the completion case of a successful operation.
const CaseOK = "ok"

// CaseInvalidArgument is the completion case of an operation whose
// arguments were rejected before reaching the registry.
const CaseInvalidArgument = "INVALID_ARGUMENT"

// TraceEvent is one entry of a scenario trace.
//
// Invocations carry Op and Args, completions carry Case and Result, and
// refresh events record the listing handed to the registry's observer after a
// registration.
type TraceEvent struct {
	Type   string         `json:"type"`
	Op     string         `json:"op,omitempty"`
	Args   map[string]any `json:"args,omitempty"`
	Case   string         `json:"case,omitempty"`
	Result map[string]any `json:"result,omitempty"`
	Seq    int64          `json:"seq"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every event in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddInvocationTrace adds an invocation to the trace.
func (r *Result) AddInvocationTrace(op string, args map[string]any, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type: EventInvocation,
		Op:   op,
		Args: args,
		Seq:  seq,
	})
}

// AddCompletionTrace adds a completion to the trace.
func (r *Result) AddCompletionTrace(outcome string, result map[string]any, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventCompletion,
		Case:   outcome,
		Result: result,
		Seq:    seq,
	})
}

// AddRefreshTrace records a listing refresh.
func (r *Result) AddRefreshTrace(count int, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventRefresh,
		Result: map[string]any{"count": float64(count)},
		Seq:    seq,
	})
}
