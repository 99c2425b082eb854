package brackets

import (
	"errors"
	"strconv"
	"strings"

	"github.com/frostpuck/hockey-tournaments/models"
)

var (
	// ErrIncompleteInput: a field is empty, not a number, or negative.
	ErrIncompleteInput = errors.New("all result fields must be non-negative numbers")
	// ErrShotsBelowScore: shots on goal cannot be less than goals scored.
	ErrShotsBelowScore = errors.New("shots on goal cannot be below the score")
	// ErrTieNotAllowed: every match must have a winner; the decision code
	// records how a team won, not a draw.
	ErrTieNotAllowed = errors.New("tied score is not allowed")
)

// ParsedResult is a validated result ready for persistence.
type ParsedResult struct {
	HomeScore int
	AwayScore int
	HomeShots int
	AwayShots int
	Decision  models.Decision
}

// ValidateResult enforces score/shots/decision consistency before a
// result may be written or locked. It runs before any persistence call;
// on failure the write is never attempted.
func ValidateResult(homeScore, awayScore, homeShots, awayShots string, decision models.Decision) (*ParsedResult, error) {
	hs, err := parseScore(homeScore)
	if err != nil {
		return nil, err
	}
	as, err := parseScore(awayScore)
	if err != nil {
		return nil, err
	}
	hsog, err := parseScore(homeShots)
	if err != nil {
		return nil, err
	}
	asog, err := parseScore(awayShots)
	if err != nil {
		return nil, err
	}
	if !models.ValidDecision(string(decision)) {
		return nil, ErrIncompleteInput
	}

	if hsog < hs || asog < as {
		return nil, ErrShotsBelowScore
	}
	if hs == as {
		return nil, ErrTieNotAllowed
	}

	return &ParsedResult{
		HomeScore: hs,
		AwayScore: as,
		HomeShots: hsog,
		AwayShots: asog,
		Decision:  decision,
	}, nil
}

func parseScore(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrIncompleteInput
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ErrIncompleteInput
	}
	return n, nil
}
