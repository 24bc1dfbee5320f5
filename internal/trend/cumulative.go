package trend

import (
	"sort"
	"time"
)

// TeamStanding is a team's cumulative position as of one week.
type TeamStanding struct {
	TeamName             string `json:"team_name"`
	TotalViolations      int    `json:"total_violations"`
	TotalDetractors      int    `json:"total_detractors"`
	TotalNeutrals        int    `json:"total_neutrals"`
	EquivalentDetractors int    `json:"equivalent_detractors"`
	EventsThisWeek       int    `json:"events_this_week"`
	ViolatedWeeks        []int  `json:"violated_weeks"`
}

// Leaderboard is the as-of snapshot for one week: every team with at least
// one event in that week, with totals over all events up to and including it.
type Leaderboard struct {
	Week  int            `json:"week"`
	Start time.Time      `json:"start"`
	End   time.Time      `json:"end"`
	Teams []TeamStanding `json:"teams"`
}

type runningTeam struct {
	events     int
	detractors int
	neutrals   int
	weeks      []int
}

// Cumulative builds one leaderboard per populated week, ascending. Teams with
// only older history are left out of a week's board, though their older
// events still count toward the totals of weeks they do appear in.
func Cumulative(events []Event, cal Calendar) []Leaderboard {
	byWeek := make(map[int][]Event)
	for _, e := range events {
		if !e.Scheduled() || TeamKey(e) == "" {
			continue
		}
		w := cal.WeekOf(e.Date)
		byWeek[w] = append(byWeek[w], e)
	}

	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	running := make(map[string]*runningTeam)
	out := make([]Leaderboard, 0, len(weeks))
	for _, w := range weeks {
		active := make(map[string]int)
		for _, e := range byWeek[w] {
			name := TeamKey(e)
			rt, ok := running[name]
			if !ok {
				rt = &runningTeam{}
				running[name] = rt
			}
			rt.events++
			switch e.Band() {
			case BandDetractor:
				rt.detractors++
			case BandNeutral:
				rt.neutrals++
			}
			if active[name] == 0 {
				rt.weeks = append(rt.weeks, w)
			}
			active[name]++
		}

		start, end := cal.Range(w)
		board := Leaderboard{Week: w, Start: start, End: end, Teams: make([]TeamStanding, 0, len(active))}
		for name, n := range active {
			rt := running[name]
			board.Teams = append(board.Teams, TeamStanding{
				TeamName:             name,
				TotalViolations:      rt.events,
				TotalDetractors:      rt.detractors,
				TotalNeutrals:        rt.neutrals,
				EquivalentDetractors: EquivalentDetractors(rt.detractors, rt.neutrals),
				EventsThisWeek:       n,
				ViolatedWeeks:        append([]int(nil), rt.weeks...),
			})
		}
		sortStandings(board.Teams)
		out = append(out, board)
	}
	return out
}

func sortStandings(teams []TeamStanding) {
	sort.Slice(teams, func(i, j int) bool {
		a, b := teams[i], teams[j]
		if a.EquivalentDetractors != b.EquivalentDetractors {
			return a.EquivalentDetractors > b.EquivalentDetractors
		}
		if a.TotalViolations != b.TotalViolations {
			return a.TotalViolations > b.TotalViolations
		}
		return a.TeamName < b.TeamName
	})
}
