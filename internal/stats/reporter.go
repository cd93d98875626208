// Package stats derives the dashboard and statistics views from a
// user's persisted game history. Nothing here caches: every view is
// recomputed from the rows it is handed.
package stats

import (
	"fmt"
	"sort"

	"github.com/geoquest-app/geoquest/internal/db"
	"github.com/geoquest-app/geoquest/internal/geoscore"
)

// Macro-regions used for the regional strength breakdown. Countries not
// in the lookup fall into Other.
var regionByCountry = map[string]string{
	"UK":           "Europe",
	"France":       "Europe",
	"Italy":        "Europe",
	"Spain":        "Europe",
	"Germany":      "Europe",
	"USA":          "N. America",
	"Canada":       "N. America",
	"Mexico":       "N. America",
	"Japan":        "Asia",
	"China":        "Asia",
	"India":        "Asia",
	"Thailand":     "Asia",
	"Egypt":        "Africa",
	"South Africa": "Africa",
	"Nigeria":      "Africa",
	"Brazil":       "S. America",
	"Argentina":    "S. America",
	"Chile":        "S. America",
	"Australia":    "Oceania",
	"New Zealand":  "Oceania",
}

const fallbackRegion = "Other"

// Pie-chart colors per difficulty, fixed so clients render consistently.
var difficultyColors = map[string]string{
	"easy":   "#22c55e",
	"medium": "#3b82f6",
	"hard":   "#a855f7",
}

const defaultColor = "#6b7280"

// maxRegionalStrengths caps the regional breakdown at the top entries.
const maxRegionalStrengths = 4

// lastGamesCount is the length of the recent-games trend.
const lastGamesCount = 7

type RegionalStrength struct {
	Region   string `json:"region"`
	Accuracy int    `json:"accuracy"`
}

type DashboardView struct {
	BestScore         int                `json:"bestScore"`
	AverageErrorKm    float64            `json:"averageErrorKm"`
	GamesPlayed       int                `json:"gamesPlayed"`
	GlobalRank        *int               `json:"globalRank"`
	RegionalStrengths []RegionalStrength `json:"regionalStrengths"`
}

type Summary struct {
	BestScore        int     `json:"bestScore"`
	AverageErrorKm   float64 `json:"averageErrorKm"`
	GamesPlayed      int     `json:"gamesPlayed"`
	TotalTimeSeconds int     `json:"totalTimeSeconds"`
}

type ModeStats struct {
	Mode         string `json:"mode"`
	Games        int    `json:"games"`
	AverageScore int    `json:"averageScore"`
}

type DifficultySlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type GamePoint struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

type StatisticsView struct {
	Summary           Summary            `json:"summary"`
	ByMode            []ModeStats        `json:"byMode"`
	ByDifficulty      []DifficultySlice  `json:"byDifficulty"`
	LastGames         []GamePoint        `json:"lastGames"`
	RegionalStrengths []RegionalStrength `json:"regionalStrengths"`
}

// HistorySummary is the secondary statistics block on the history page.
type HistorySummary struct {
	TotalGames      int `json:"totalGames"`
	AverageScore    int `json:"averageScore"`
	BestScore       int `json:"bestScore"`
	AverageAccuracy int `json:"averageAccuracy"`
}

// Dashboard builds the dashboard view. History must be ordered newest
// first; an empty history yields the defined all-zero state.
func Dashboard(history []db.GameHistory, globalRank *int) DashboardView {
	view := DashboardView{RegionalStrengths: []RegionalStrength{}}
	if len(history) == 0 {
		return view
	}

	view.BestScore = bestScore(history)
	view.GamesPlayed = len(history)
	view.AverageErrorKm = averageErrorKm(history)
	view.GlobalRank = globalRank
	view.RegionalStrengths = regionalStrengths(history)
	return view
}

// Overview builds the full statistics view. History must be ordered
// newest first.
func Overview(history []db.GameHistory) StatisticsView {
	view := StatisticsView{
		ByMode:            []ModeStats{},
		ByDifficulty:      []DifficultySlice{},
		LastGames:         []GamePoint{},
		RegionalStrengths: []RegionalStrength{},
	}
	if len(history) == 0 {
		return view
	}

	totalTime := 0
	for _, h := range history {
		totalTime += h.TotalTimeSeconds
	}
	view.Summary = Summary{
		BestScore:        bestScore(history),
		AverageErrorKm:   averageErrorKm(history),
		GamesPlayed:      len(history),
		TotalTimeSeconds: totalTime,
	}

	view.ByMode = byMode(history)
	view.ByDifficulty = byDifficulty(history)
	view.LastGames = lastGames(history)
	view.RegionalStrengths = regionalStrengths(history)
	return view
}

// Summarize builds the history page's summary block.
func Summarize(history []db.GameHistory) HistorySummary {
	if len(history) == 0 {
		return HistorySummary{}
	}

	totalScore, totalAccuracy := 0, 0
	for _, h := range history {
		totalScore += h.FinalScore
		totalAccuracy += h.DetailedStatistics.Accuracy
	}
	return HistorySummary{
		TotalGames:      len(history),
		AverageScore:    geoscore.RoundPercent(float64(totalScore) / float64(len(history))),
		BestScore:       bestScore(history),
		AverageAccuracy: geoscore.RoundPercent(float64(totalAccuracy) / float64(len(history))),
	}
}

func bestScore(history []db.GameHistory) int {
	best := 0
	for _, h := range history {
		if h.FinalScore > best {
			best = h.FinalScore
		}
	}
	return best
}

// averageErrorKm is the mean of each game's average distance, to one
// decimal place.
func averageErrorKm(history []db.GameHistory) float64 {
	var total float64
	for _, h := range history {
		total += h.DetailedStatistics.AverageDistance
	}
	return geoscore.Round1(total / float64(len(history)))
}

func byMode(history []db.GameHistory) []ModeStats {
	type acc struct {
		games      int
		totalScore int
	}
	var order []string
	modes := make(map[string]*acc)
	for _, h := range history {
		mode := h.GameModeName
		if mode == "" {
			mode = "Unknown"
		}
		if _, ok := modes[mode]; !ok {
			modes[mode] = &acc{}
			order = append(order, mode)
		}
		modes[mode].games++
		modes[mode].totalScore += h.FinalScore
	}

	out := make([]ModeStats, 0, len(order))
	for _, mode := range order {
		a := modes[mode]
		out = append(out, ModeStats{
			Mode:         mode,
			Games:        a.games,
			AverageScore: geoscore.RoundPercent(float64(a.totalScore) / float64(a.games)),
		})
	}
	return out
}

func byDifficulty(history []db.GameHistory) []DifficultySlice {
	var order []string
	counts := make(map[string]int)
	for _, h := range history {
		diff := h.DifficultyLevel
		if diff == "" {
			diff = "Unknown"
		}
		if _, ok := counts[diff]; !ok {
			order = append(order, diff)
		}
		counts[diff]++
	}

	out := make([]DifficultySlice, 0, len(order))
	for _, diff := range order {
		color, ok := difficultyColors[diff]
		if !ok {
			color = defaultColor
		}
		out = append(out, DifficultySlice{Name: diff, Value: counts[diff], Color: color})
	}
	return out
}

func lastGames(history []db.GameHistory) []GamePoint {
	n := len(history)
	count := lastGamesCount
	if n < count {
		count = n
	}
	out := make([]GamePoint, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, GamePoint{
			Label: fmt.Sprintf("Game %d", n-i),
			Score: history[i].FinalScore,
		})
	}
	return out
}

// regionalStrengths flattens every question across every game, averages
// the guess error per macro-region and converts it to an accuracy score:
// 0 km is 100, 10000 km or worse is 0, linear in between. The top 4
// regions are returned, best first.
func regionalStrengths(history []db.GameHistory) []RegionalStrength {
	type acc struct {
		totalDistance float64
		count         int
	}
	var order []string
	regions := make(map[string]*acc)
	for _, h := range history {
		for _, q := range h.DetailedStatistics.Questions {
			region, ok := regionByCountry[q.Country]
			if !ok {
				region = fallbackRegion
			}
			if _, seen := regions[region]; !seen {
				regions[region] = &acc{}
				order = append(order, region)
			}
			regions[region].totalDistance += q.Distance
			regions[region].count++
		}
	}

	out := make([]RegionalStrength, 0, len(order))
	for _, region := range order {
		a := regions[region]
		avg := a.totalDistance / float64(a.count)
		accuracy := geoscore.RoundPercent(100 - avg/10000*100)
		if accuracy < 0 {
			accuracy = 0
		}
		if accuracy > 100 {
			accuracy = 100
		}
		out = append(out, RegionalStrength{Region: region, Accuracy: accuracy})
	}

	// Accuracy descending, region name on ties so the order is stable.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accuracy != out[j].Accuracy {
			return out[i].Accuracy > out[j].Accuracy
		}
		return out[i].Region < out[j].Region
	})
	if len(out) > maxRegionalStrengths {
		out = out[:maxRegionalStrengths]
	}
	return out
}
