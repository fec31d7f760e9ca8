// Package session defines the bot session model and the pure lifecycle rules
// around it: the closed status vocabulary, the display-status derivation that
// reconciles calendar timing with provider-reported state, and the policy
// predicates that gate field edits and remote termination.
//
// Everything here is a pure function of its arguments. Time is always passed
// in explicitly; nothing reads an ambient clock, so the same inputs always
// produce the same answer in tests and in handlers.
//
// Treat this package as the single source of truth for session semantics;
// stores and services consume it rather than re-deriving status rules.
package session
