// Package catalog holds the location reference data the game draws its
// questions from. The catalog is immutable once loaded.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
)

//go:embed locations.json
var locationsJSON []byte

// Difficulty tiers of the catalog.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// QuestionsPerGame is the size of a generated question set.
const QuestionsPerGame = 10

// Location is one catalog entry: a named place with its street-level
// image reference and WGS84 coordinates.
type Location struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	ImageID    string  `json:"imageId"`
	Hint       string  `json:"hint"`
	Difficulty string  `json:"difficulty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// Question wraps a location with shuffled name options for the client.
type Question struct {
	Location      Location `json:"location"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Decoy city names per difficulty, mixed into the answer options.
var decoyNames = map[string][]string{
	DifficultyEasy:   {"Paris", "Rome", "Tokyo", "New York", "London", "Berlin", "Madrid", "Moscow"},
	DifficultyMedium: {"Cairo", "Sydney", "Rio de Janeiro", "Dubai", "Barcelona", "Singapore", "Istanbul", "Bangkok"},
	DifficultyHard:   {"Reykjavik", "Marrakech", "Prague", "Kyoto", "Cusco", "Tallinn", "Bruges", "Ljubljana"},
}

type Catalog struct {
	locations []Location
	byID      map[int]Location
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var locations []Location
	if err := json.Unmarshal(locationsJSON, &locations); err != nil {
		return nil, fmt.Errorf("failed to parse location catalog: %w", err)
	}

	byID := make(map[int]Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}

	return &Catalog{locations: locations, byID: byID}, nil
}

// ValidDifficulty reports whether s names a catalog difficulty tier.
func ValidDifficulty(s string) bool {
	return s == DifficultyEasy || s == DifficultyMedium || s == DifficultyHard
}

// LocationByID looks up a catalog entry.
func (c *Catalog) LocationByID(id int) (Location, bool) {
	loc, ok := c.byID[id]
	return loc, ok
}

// Locations returns all entries for the given difficulty.
func (c *Catalog) Locations(difficulty string) []Location {
	var out []Location
	for _, loc := range c.locations {
		if loc.Difficulty == difficulty {
			out = append(out, loc)
		}
	}
	return out
}

// GenerateQuestions builds a randomized question set for a difficulty.
// Each question carries four shuffled name options including the answer.
// Fewer than count questions are returned if the tier is smaller.
func (c *Catalog) GenerateQuestions(difficulty string, count int) []Question {
	pool := c.Locations(difficulty)
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > count {
		pool = pool[:count]
	}

	questions := make([]Question, 0, len(pool))
	for _, loc := range pool {
		var decoys []string
		for _, name := range decoyNames[difficulty] {
			if name != loc.Name {
				decoys = append(decoys, name)
			}
		}
		rand.Shuffle(len(decoys), func(i, j int) {
			decoys[i], decoys[j] = decoys[j], decoys[i]
		})

		options := append([]string{loc.Name}, decoys[:3]...)
		rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})

		questions = append(questions, Question{
			Location:      loc,
			Options:       options,
			CorrectAnswer: loc.Name,
		})
	}
	return questions
}
