package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/inscripciones/internal/attendee"
)

// DefaultToday is the registration date used when a scenario sets none.
const DefaultToday = "2024-03-01"

// Scenario defines a registry test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Today is the calendar date (YYYY-MM-DD) stamped on new registrations.
	// If empty, DefaultToday is used.
	Today string `yaml:"today,omitempty"`

	// Seed loads the five sample attendees before setup.
	Seed bool `yaml:"seed,omitempty"`

	// RequestToken is the fixed request token for registry logs.
	// If empty, defaults to "test-request-default".
	RequestToken string `yaml:"request_token,omitempty"`

	// Setup contains operations run before the main flow.
	// Each must complete with case "ok".
	Setup []Step `yaml:"setup,omitempty"`

	// Flow contains the operations under test.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and registry contents.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is a single operation.
type Step struct {
	// Op is the operation name (e.g., "register").
	Op string `yaml:"op"`

	// Args contains the operation arguments. May be omitted for
	// operations without arguments.
	Args map[string]any `yaml:"args,omitempty"`
}

// FlowStep is an operation whose outcome may be checked.
type FlowStep struct {
	Op   string         `yaml:"op"`
	Args map[string]any `yaml:"args,omitempty"`

	// Expect specifies the expected completion.
	// If nil, no validation is performed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected completion behavior.
type ExpectClause struct {
	// Case is "ok", an attendee error kind, or INVALID_ARGUMENT.
	Case string `yaml:"case"`

	// Result contains expected result fields (subset match).
	// If nil, only the case is validated.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates the trace or the final registry contents.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Op is the operation name (trace_contains, trace_count).
	Op string `yaml:"op,omitempty"`

	// Args are the expected invocation arguments (trace_contains, subset match).
	Args map[string]any `yaml:"args,omitempty"`

	// Ops is the expected operation order (trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Count is the expected number of occurrences (trace_count) or
	// attendees (final_count).
	Count int `yaml:"count,omitempty"`

	// NationalID selects the attendee to inspect (final_state).
	NationalID string `yaml:"national_id,omitempty"`

	// Expect contains expected attendee fields (final_state, subset match).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertFinalCount    = "final_count"
)

// Operation names.
const (
	OpRegister     = "register"
	OpList         = "list"
	OpSearch       = "search"
	OpSort         = "sort"
	OpTotal        = "total"
	OpInstitutions = "institutions"
	OpLookup       = "lookup"
	OpExport       = "export"
)

var knownOps = map[string]bool{
	OpRegister:     true,
	OpList:         true,
	OpSearch:       true,
	OpSort:         true,
	OpTotal:        true,
	OpInstitutions: true,
	OpLookup:       true,
	OpExport:       true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// today returns the scenario's registration date.
func (s *Scenario) today() (time.Time, error) {
	day := s.Today
	if day == "" {
		day = DefaultToday
	}
	return time.Parse(attendee.DateLayout, day)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := s.today(); err != nil {
		return fmt.Errorf("today must be YYYY-MM-DD: %w", err)
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if !knownOps[step.Op] {
			return fmt.Errorf("setup[%d]: unknown op %q", i, step.Op)
		}
	}

	for i, step := range s.Flow {
		if !knownOps[step.Op] {
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
		if step.Expect != nil && step.Expect.Case == "" {
			return fmt.Errorf("flow[%d].expect: case is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.NationalID == "" {
			return fmt.Errorf("assertions[%d]: national_id is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertFinalCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for final_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
