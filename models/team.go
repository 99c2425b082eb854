package models

import "fmt"

// TeamTier is the label derived from the overall rating, used by the
// team picker filters.
type TeamTier string

const (
	TierTop5   TeamTier = "Top 5"
	TierTop10  TeamTier = "Top 10"
	TierMiddle TeamTier = "Middle Tier"
	TierBottom TeamTier = "Bottom Tier"
)

type Team struct {
	ID             int      `json:"id" db:"id"`
	Code           string   `json:"code" db:"code"`
	Pool           TeamPool `json:"pool" db:"pool"`
	Name           string   `json:"name" db:"name"`
	ShortName      string   `json:"short_name" db:"short_name"`
	PrimaryColor   string   `json:"primary_color" db:"primary_color"`
	SecondaryColor string   `json:"secondary_color" db:"secondary_color"`
	TextColor      string   `json:"text_color" db:"text_color"`
	Overall        int      `json:"overall" db:"overall"`
	Offense        int      `json:"offense" db:"offense"`
	Defense        int      `json:"defense" db:"defense"`
	Goalie         int      `json:"goalie" db:"goalie"`
}

// Tier buckets the overall rating. Thresholds follow the picker UI:
// 90+ Top 5, 87+ Top 10, 83+ middle, the rest bottom.
func (t Team) Tier() TeamTier {
	switch {
	case t.Overall >= 90:
		return TierTop5
	case t.Overall >= 87:
		return TierTop10
	case t.Overall >= 83:
		return TierMiddle
	default:
		return TierBottom
	}
}

// MatchesFilter reports whether the team passes a tier filter. The
// "Top 10" filter includes Top 5 teams.
func (t Team) MatchesFilter(filter TeamTier) bool {
	tier := t.Tier()
	if filter == TierTop10 {
		return tier == TierTop5 || tier == TierTop10
	}
	return tier == filter
}

var countryFlagCodeByTeamCode = map[string]string{
	"AUT": "at",
	"CAN": "ca",
	"CZE": "cz",
	"DEN": "dk",
	"FIN": "fi",
	"FRA": "fr",
	"GBR": "gb",
	"GER": "de",
	"ITA": "it",
	"LAT": "lv",
	"NOR": "no",
	"POL": "pl",
	"SVK": "sk",
	"SUI": "ch",
	"SWE": "se",
	"USA": "us",
}

// LogoURL returns the public logo asset for the team: NHL teams use the
// league CDN, international teams fall back to country flags.
func (t Team) LogoURL() string {
	if t.Pool == PoolNHL {
		return fmt.Sprintf("https://assets.nhle.com/logos/nhl/svg/%s_light.svg", t.Code)
	}
	flagCode, ok := countryFlagCodeByTeamCode[t.Code]
	if !ok {
		flagCode = "un"
	}
	return fmt.Sprintf("https://flagcdn.com/w80/%s.png", flagCode)
}
