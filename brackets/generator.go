package brackets

import (
	"context"

	"github.com/frostpuck/hockey-tournaments/models"
)

// BracketMatch is a match blueprint produced by a generator before any
// database row exists. Advancement wiring is expressed positionally;
// the bracket service resolves positions to row ids in a second pass.
type BracketMatch struct {
	Bracket     models.BracketType
	Round       int
	Slot        int
	GroupIndex  int // group stage only
	HomeID      *int
	AwayID      *int
	NextRound   int // 0 when terminal
	NextSlot    int
	NextSide    models.MatchSide
	NextBracket models.BracketType
}

type GenerateParams struct {
	Tournament   *models.Tournament
	Participants []*models.Participant
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*BracketMatch, error)

	Name() string
}
