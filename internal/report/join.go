package report

import "rosterclean/internal/roster"

// Join computes each player's BMI and inner-joins players with teams on the
// Team key. Output follows player order; a player whose team appears several
// times yields one row per team row, in team order. A missing Team matches
// nothing.
func Join(players []roster.Player, teams []roster.Team) []roster.Output {
	byTeam := make(map[string][]roster.Team, len(teams))
	for _, t := range teams {
		if t.Team == "" {
			continue
		}
		byTeam[t.Team] = append(byTeam[t.Team], t)
	}

	out := make([]roster.Output, 0, len(players))
	for _, p := range players {
		matches := byTeam[p.Team]
		if p.Team == "" || len(matches) == 0 {
			continue
		}
		bmi := roster.PlayerBMI(p)
		for _, t := range matches {
			out = append(out, roster.Output{
				Player:  p,
				BMI:     bmi,
				Payroll: t.Payroll,
				Wins:    t.Wins,
			})
		}
	}
	return out
}
