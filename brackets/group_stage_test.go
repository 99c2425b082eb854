package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupStageGeneratorSnakeDeal(t *testing.T) {
	g := NewGroupStageGenerator(2)
	matches, err := g.Generate(context.Background(), GenerateParams{
		Participants: seededParticipants(8),
	})
	require.NoError(t, err)

	members := map[int]map[int]bool{}
	for _, m := range matches {
		if members[m.GroupIndex] == nil {
			members[m.GroupIndex] = map[int]bool{}
		}
		members[m.GroupIndex][*m.HomeID] = true
		members[m.GroupIndex][*m.AwayID] = true
	}
	require.Len(t, members, 2)

	// Змейка: 1,4,5,8 в первой группе, 2,3,6,7 во второй.
	assert.Equal(t, map[int]bool{100: true, 103: true, 104: true, 107: true}, members[0])
	assert.Equal(t, map[int]bool{101: true, 102: true, 105: true, 106: true}, members[1])
}

func TestGroupStageGeneratorRoundRobinCounts(t *testing.T) {
	testCases := []struct {
		name            string
		participants    int
		groups          int
		expectedMatches int
	}{
		{"single group of four", 4, 1, 6},
		{"single group of five", 5, 1, 10},
		{"two groups of four", 8, 2, 12},
		{"two groups, odd split", 7, 2, 9},
		{"three groups of three", 9, 3, 9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGroupStageGenerator(tc.groups)
			matches, err := g.Generate(context.Background(), GenerateParams{
				Participants: seededParticipants(tc.participants),
			})
			require.NoError(t, err)
			assert.Len(t, matches, tc.expectedMatches)
		})
	}
}

func TestGroupStageGeneratorEveryPairMeetsOnce(t *testing.T) {
	g := NewGroupStageGenerator(1)
	matches, err := g.Generate(context.Background(), GenerateParams{
		Participants: seededParticipants(5),
	})
	require.NoError(t, err)

	seen := map[[2]int]int{}
	for _, m := range matches {
		a, b := *m.HomeID, *m.AwayID
		if a > b {
			a, b = b, a
		}
		seen[[2]int{a, b}]++
	}
	require.Len(t, seen, 10)
	for pair, count := range seen {
		assert.Equal(t, 1, count, "pair %v", pair)
	}
}

func TestGroupStageGeneratorNoSelfPlay(t *testing.T) {
	g := NewGroupStageGenerator(2)
	matches, err := g.Generate(context.Background(), GenerateParams{
		Participants: seededParticipants(7),
	})
	require.NoError(t, err)

	for _, m := range matches {
		require.NotNil(t, m.HomeID)
		require.NotNil(t, m.AwayID)
		assert.NotEqual(t, *m.HomeID, *m.AwayID)
		assert.Positive(t, m.Round)
		assert.Positive(t, m.Slot)
	}
}

func TestGroupStageGeneratorTooFew(t *testing.T) {
	g := NewGroupStageGenerator(1)
	_, err := g.Generate(context.Background(), GenerateParams{
		Participants: seededParticipants(1),
	})
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)
}

func TestSanitizeGroupCount(t *testing.T) {
	testCases := []struct {
		name          string
		participants  int
		requested     int
		expectedCount int
		expectNote    bool
		expectErr     bool
	}{
		{"request fits", 12, 4, 4, false, false},
		{"request clamped to four", 24, 9, 4, true, false},
		{"zero falls back to one", 8, 0, 1, true, false},
		{"too few per group shrinks the count", 8, 4, 2, true, false},
		{"seven into three becomes two", 7, 3, 2, true, false},
		{"minimum field size", 3, 2, 1, true, false},
		{"too few participants", 2, 1, 0, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			count, note, err := SanitizeGroupCount(tc.participants, tc.requested)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCount, count)
			if tc.expectNote {
				assert.NotEmpty(t, note)
			} else {
				assert.Empty(t, note)
			}
		})
	}
}
