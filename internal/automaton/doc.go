// Package automaton simulates the finite-state and stack-based recognizers
// that locate DNA motifs.
//
// Four engines implement the Automaton contract:
//
//   - Exact (DFA): one literal, e.g. the start codon ATG.
//   - Alternation (NFA): any of several literals, e.g. TAA|TAG|TGA.
//   - Gap (ε-NFA): two literals around a bounded spacer, e.g. TATA{1,10}TATA.
//   - Palindrome (PDA): reverse-complement palindromes such as GAATTC.
//
// Every engine is built once from its pattern and keeps an immutable
// transition relation. Only the configuration (current states, cursor, and
// for the palindrome finder a narration stack) changes while simulating.
//
// # Simulation
//
// Step consumes one base and returns the new configuration, whether a match
// completed, and a narration line for viewers:
//
//	Read 'G': Q2 → Q0 [PATTERN MATCHED!]
//
// FindAllMatches scans a whole sequence and returns inclusive (start, end)
// windows sorted by start. Input is case-insensitive. Bytes outside A, T, G
// and C never abort a scan: the finite-state engines drop partial progress
// and restart, the palindrome finder treats them as unpaired.
//
// # Concurrency
//
// Engines hold no locks. One engine instance must be driven by one caller at
// a time; independent instances share nothing.
package automaton
