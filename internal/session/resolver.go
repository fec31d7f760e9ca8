package session

import "time"

// EffectiveStatus derives the display status for a meeting from its timing
// and optional session. A nil session yields StatusNoBot. A session the
// provider reports as joining ahead of the meeting start is shown as
// scheduled; the persisted status is never changed by this rule. The caller
// supplies now so the derivation stays deterministic.
func EffectiveStatus(meetingStart time.Time, now time.Time, s *Session) Status {
	if s == nil {
		return StatusNoBot
	}
	if s.Status == StatusJoining && meetingStart.After(now) {
		return StatusScheduled
	}
	return s.Status
}
