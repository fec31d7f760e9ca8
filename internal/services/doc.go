// Package services holds cross-cutting service plumbing: the shared error
// taxonomy used to classify failures across the engine, and context helpers
// that thread session, event, and correlation identifiers through call chains
// for logging.
package services
