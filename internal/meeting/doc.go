// Package meeting joins calendar events with bot sessions and provides the
// deterministic filter, sort, and paginate pipeline behind every meeting
// listing surface. All functions are pure over the snapshots they receive;
// the reference instant is always an explicit parameter.
package meeting
