// Package harness runs attendee registry scenarios as executable tests.
//
// A scenario drives a fresh registry through a sequence of operations,
// checks each outcome, and records a trace that can be compared against a
// golden file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	today: "2024-03-01"      # registration date for new attendees
//	seed: true               # start from the five sample attendees
//	setup:
//	  - op: register
//	    args: { first_name: Ana, last_name: Paz, national_id: "1", email: a@x }
//	flow:
//	  - op: search
//	    args: { term: Paz }
//	    expect:
//	      case: ok
//	      result: { count: 1 }
//	assertions:
//	  - type: trace_contains
//	    op: search
//	  - type: final_state
//	    national_id: "1"
//	    expect: { first_name: Ana }
//
// # Operations
//
//   - register: first_name, last_name, national_id, email, phone, institution
//   - list
//   - search: term
//   - sort: field (first-name, last-name, date)
//   - total
//   - institutions
//   - lookup: national_id
//   - export: format (csv, yaml)
//
// Each completion carries a case: "ok", an attendee error kind such as
// DUPLICATE_KEY, or INVALID_ARGUMENT for a bad sort field or export format.
//
// # Assertion Types
//
//   - trace_contains: an operation appears in the trace with matching args
//   - trace_order: operations appear in the given order
//   - trace_count: an operation appears exactly N times
//   - final_state: the attendee with a national ID has the expected fields
//   - final_count: the registry holds exactly N attendees
//
// # Deterministic Testing
//
// Every run uses an in-memory database, a fixed calendar date and a fixed
// request token, so traces are identical across runs.
package harness
