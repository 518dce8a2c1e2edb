package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/inscripciones/internal/attendee"
	"github.com/roach88/inscripciones/internal/export"
	"github.com/roach88/inscripciones/internal/logging"
	"github.com/roach88/inscripciones/internal/registry"
	"github.com/roach88/inscripciones/internal/store"
	"github.com/roach88/inscripciones/internal/testutil"
)

// Harness is the test execution engine.
// It runs scenarios against a registry with a fixed date and request token.
type Harness struct {
	store   *store.Store
	service *registry.Service
	logger  *slog.Logger
	seq     int64
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Create fresh in-memory database, seeded if requested
//  2. Execute setup steps (each must succeed)
//  3. Execute flow steps with expect validation
//  4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	day, err := scenario.today()
	if err != nil {
		return nil, fmt.Errorf("invalid today: %w", err)
	}
	clock := testutil.NewCalendarClock(day.Year(), day.Month(), day.Day())

	st, err := store.Open(":memory:", store.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()

	if scenario.Seed {
		if _, err := st.Seed(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}

	result := NewResult()
	h := &Harness{
		store:  st,
		logger: logging.Discard(),
	}
	h.service = registry.New(st,
		registry.WithTokenGenerator(testutil.NewFixedTokenGenerator(scenario.RequestToken)),
		registry.WithLogger(h.logger),
		registry.WithListingObserver(func(_ context.Context, listing []attendee.Attendee) {
			result.AddRefreshTrace(len(listing), h.next())
		}),
	)

	for i, step := range scenario.Setup {
		outcome, res, err := h.step(ctx, step.Op, step.Args, result)
		if err != nil {
			return nil, fmt.Errorf("setup step %d: %w", i, err)
		}
		if outcome != CaseOK {
			return nil, fmt.Errorf("setup step %d (%s) failed: %s %v", i, step.Op, outcome, res["message"])
		}
	}

	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// next returns the next trace sequence number.
func (h *Harness) next() int64 {
	h.seq++
	return h.seq
}

// executeFlow runs all flow steps and validates expect clauses.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		outcome, res, err := h.step(ctx, step.Op, step.Args, result)
		if err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}

		if step.Expect == nil {
			continue
		}
		if outcome != step.Expect.Case {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected case %q, got %q (%v)",
				i, step.Op, step.Expect.Case, outcome, res))
			continue
		}
		if step.Expect.Result != nil {
			want, err := normalize(step.Expect.Result)
			if err != nil {
				return fmt.Errorf("flow step %d: expected result: %w", i, err)
			}
			if !matchArgs(res, want) {
				result.AddError(fmt.Sprintf("flow[%d] %s: expected result %v, got %v",
					i, step.Op, want, res))
			}
		}

		h.logger.Debug("flow step validated", "step", i, "op", step.Op, "case", outcome)
	}

	return nil
}

// step records the invocation, runs op and records its completion.
func (h *Harness) step(ctx context.Context, op string, args map[string]any, result *Result) (string, map[string]any, error) {
	normalized, err := normalize(args)
	if err != nil {
		return "", nil, fmt.Errorf("%s args: %w", op, err)
	}
	result.AddInvocationTrace(op, normalized, h.next())

	outcome, res := h.execute(ctx, op, args)
	res, err = normalize(res)
	if err != nil {
		return "", nil, fmt.Errorf("%s result: %w", op, err)
	}
	result.AddCompletionTrace(outcome, res, h.next())

	return outcome, res, nil
}

// execute dispatches op to the registry.
func (h *Harness) execute(ctx context.Context, op string, args map[string]any) (string, map[string]any) {
	switch op {
	case OpRegister:
		id, err := h.service.Register(ctx, attendee.Payload{
			FirstName:   argString(args, "first_name"),
			LastName:    argString(args, "last_name"),
			NationalID:  argString(args, "national_id"),
			Email:       argString(args, "email"),
			Phone:       argString(args, "phone"),
			Institution: argString(args, "institution"),
		})
		if err != nil {
			return failure(err)
		}
		return CaseOK, map[string]any{"id": id}

	case OpList:
		return listing(h.service.List(ctx))

	case OpSearch:
		return listing(h.service.Search(ctx, argString(args, "term")))

	case OpSort:
		field, err := attendee.ParseSortField(argString(args, "field"))
		if err != nil {
			return invalidArgument(err)
		}
		return listing(h.service.SortBy(ctx, field))

	case OpTotal:
		n, err := h.service.TotalCount(ctx)
		if err != nil {
			return failure(err)
		}
		return CaseOK, map[string]any{"total": n}

	case OpInstitutions:
		counts, err := h.service.CountByInstitution(ctx)
		if err != nil {
			return failure(err)
		}
		return CaseOK, map[string]any{"counts": counts}

	case OpLookup:
		a, err := h.service.FindByNationalID(ctx, argString(args, "national_id"))
		if err != nil {
			return failure(err)
		}
		return CaseOK, map[string]any{"attendee": a}

	case OpExport:
		format, err := export.ParseFormat(argString(args, "format"))
		if err != nil {
			return invalidArgument(err)
		}
		var buf bytes.Buffer
		n, err := h.service.Export(ctx, &buf, format)
		if err != nil {
			return failure(err)
		}
		firstLine, _, _ := strings.Cut(buf.String(), "\n")
		return CaseOK, map[string]any{"count": n, "first_line": firstLine}
	}

	return invalidArgument(fmt.Errorf("unknown op %q", op))
}

// listing summarizes a list result by national ID, in order.
func listing(list []attendee.Attendee, err error) (string, map[string]any) {
	if err != nil {
		return failure(err)
	}
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.NationalID
	}
	return CaseOK, map[string]any{"count": len(list), "national_ids": ids}
}

func failure(err error) (string, map[string]any) {
	kind := attendee.KindOf(err)
	if kind == "" {
		return "ERROR", map[string]any{"message": err.Error()}
	}
	return string(kind), map[string]any{"message": registry.Message(err)}
}

func invalidArgument(err error) (string, map[string]any) {
	return CaseInvalidArgument, map[string]any{"message": err.Error()}
}

// argString returns args[key] as a string, or "" when absent.
// Unquoted YAML numbers (national_id: 30123456) are accepted.
func argString(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// normalize converts v to plain JSON values (map[string]any, []any,
// float64, string, bool) so that YAML input and Go results compare equal.
func normalize(v map[string]any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
