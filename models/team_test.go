package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamTier(t *testing.T) {
	testCases := []struct {
		overall  int
		expected TeamTier
	}{
		{95, TierTop5},
		{90, TierTop5},
		{89, TierTop10},
		{87, TierTop10},
		{86, TierMiddle},
		{83, TierMiddle},
		{82, TierBottom},
		{70, TierBottom},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, Team{Overall: tc.overall}.Tier(), "overall=%d", tc.overall)
	}
}

func TestTeamMatchesFilter(t *testing.T) {
	top5 := Team{Overall: 92}
	top10 := Team{Overall: 88}
	middle := Team{Overall: 84}

	assert.True(t, top5.MatchesFilter(TierTop5))
	assert.False(t, top10.MatchesFilter(TierTop5))

	// Фильтр Top 10 включает и пятёрку лучших.
	assert.True(t, top5.MatchesFilter(TierTop10))
	assert.True(t, top10.MatchesFilter(TierTop10))
	assert.False(t, middle.MatchesFilter(TierTop10))

	assert.True(t, middle.MatchesFilter(TierMiddle))
	assert.False(t, top5.MatchesFilter(TierMiddle))
}

func TestTeamLogoURL(t *testing.T) {
	nhl := Team{Code: "TOR", Pool: PoolNHL}
	assert.Equal(t, "https://assets.nhle.com/logos/nhl/svg/TOR_light.svg", nhl.LogoURL())

	intl := Team{Code: "SWE", Pool: PoolINTL}
	assert.Equal(t, "https://flagcdn.com/w80/se.png", intl.LogoURL())

	unknown := Team{Code: "XXX", Pool: PoolINTL}
	assert.Equal(t, "https://flagcdn.com/w80/un.png", unknown.LogoURL())
}
