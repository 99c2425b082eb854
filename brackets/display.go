package brackets

import "github.com/frostpuck/hockey-tournaments/models"

// MatchDisplay classifies a match for match lists and placement math.
type MatchDisplay string

const (
	// DisplayPlayable: both sides are known (or a result already exists),
	// the match can be played and locked.
	DisplayPlayable MatchDisplay = "playable"
	// DisplaySkipped: a bye. One side will never be filled because the
	// upstream match already decided a bye; no result is required here.
	DisplaySkipped MatchDisplay = "skipped"
	// DisplayPending: a structural slot still waiting for both sides.
	DisplayPending MatchDisplay = "pending"
)

// IsSkipped reports the bye condition: no locked result and exactly one
// side populated. The populated side auto-advances along next_match_id;
// the generation procedure performs the wiring, the core only recognizes
// the condition.
func IsSkipped(m *models.MatchWithResult) bool {
	if m == nil || m.HasLockedResult() {
		return false
	}
	home := m.HomeParticipantID != nil
	away := m.AwayParticipantID != nil
	return home != away
}

// IsDisplayable reports whether the match belongs in match lists. A
// skipped bye is hidden; decided matches, matches with both sides known,
// and genuine structural TBD slots stay visible (TBD slots still occupy
// bracket-diagram positions).
func IsDisplayable(m *models.MatchWithResult) bool {
	if m == nil {
		return false
	}
	if m.Result != nil {
		return true
	}
	if m.HomeParticipantID != nil && m.AwayParticipantID != nil {
		return true
	}
	return !IsSkipped(m)
}

// Classify resolves the display state of one match.
func Classify(m *models.MatchWithResult) MatchDisplay {
	switch {
	case IsSkipped(m):
		return DisplaySkipped
	case m != nil && (m.Result != nil || (m.HomeParticipantID != nil && m.AwayParticipantID != nil)):
		return DisplayPlayable
	default:
		return DisplayPending
	}
}
