// Package harness runs declarative motif-search scenarios.
//
// A scenario names an engine (directly or through a CUE motif library), a
// sequence to scan, and assertions about the recorded trace. The harness
// records the run with a deterministic clock and a pinned run ID, so the
// same scenario always yields a byte-identical trace that can be compared
// against a golden file.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: tata_box_spacer
//	description: "TATA boxes one base apart"
//	automaton: ENFA
//	pattern: "TATA{1,3}TATA"
//	sequence: TATAGTATA
//	run_id: test-run-tata
//	assertions:
//	  - type: matches
//	    matches: [[0, 8]]
//	  - type: trace_contains
//	    index: 4
//	    text: "spacer may end here"
//	  - type: deterministic
//
// Instead of automaton/pattern/min_length a scenario may reference a
// library entry:
//
//	library: ../library
//	motif: tata_box
//
// Library paths are resolved relative to the scenario file.
//
// # Assertion Types
//
//   - matches: the full match list equals the given [start, end] pairs
//   - match_count: the number of matches
//   - trace_contains: some step narration contains text (optionally at index)
//   - accepted_steps: exactly these step indices completed a match
//   - final_states: the configuration after the last step
//   - deterministic: re-recording yields identical canonical bytes
//   - construction_error: building the engine fails (optionally containing error)
package harness
