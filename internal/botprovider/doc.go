// Package botprovider wraps the recording-bot provider's HTTP API. The
// workflow uses it to dispatch bots, poll their progress, and terminate
// them; whether a call should happen at all is decided by the session
// policies, never here.
package botprovider
