package game

import (
	"errors"

	"github.com/geoquest-app/geoquest/internal/geoscore"
)

// ModeName is stamped on every persisted game row.
const ModeName = "GeoGuess"

var (
	ErrMissingFields    = errors.New("difficulty, score and totalQuestions are required")
	ErrEmptySubmission  = errors.New("submission has no questions")
	ErrScoreOutOfRange  = errors.New("score cannot exceed totalQuestions")
	ErrNegativeDistance = errors.New("question distance cannot be negative")
)

// QuestionResult is one question of a finished game as reported by the
// client. UserCoordinates is nil when the question went unanswered, in
// which case Distance is 0 and IsCorrect false.
type QuestionResult struct {
	LocationName       string                `json:"locationName"`
	Country            string                `json:"country"`
	Distance           float64               `json:"distance"`
	IsCorrect          bool                  `json:"isCorrect"`
	TimeSpent          int                   `json:"timeSpent"`
	UserCoordinates    *geoscore.Coordinates `json:"userCoordinates"`
	CorrectCoordinates geoscore.Coordinates  `json:"correctCoordinates"`
}

// Submission is a completed game session sent by the client for scoring
// and persistence. Score counts correct guesses, TotalTime is seconds.
type Submission struct {
	Difficulty     string           `json:"difficulty"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	TotalTime      int              `json:"totalTime"`
	Questions      []QuestionResult `json:"questions"`
	PlayerName     string           `json:"playerName"`
}

// QuestionStatistics is the per-question breakdown embedded in a
// game_history row.
type QuestionStatistics struct {
	QuestionNumber     int                   `json:"questionNumber"`
	LocationName       string                `json:"locationName"`
	Country            string                `json:"country"`
	Distance           float64               `json:"distance"`
	IsCorrect          bool                  `json:"isCorrect"`
	TimeSpent          int                   `json:"timeSpent"`
	UserCoordinates    *geoscore.Coordinates `json:"userCoordinates"`
	CorrectCoordinates geoscore.Coordinates  `json:"correctCoordinates"`
}

// DetailedStatistics is the summary blob persisted alongside a game.
type DetailedStatistics struct {
	PlayerName      string               `json:"playerName"`
	Questions       []QuestionStatistics `json:"questions"`
	Accuracy        int                  `json:"accuracy"`
	AverageDistance float64              `json:"averageDistance"`
}

// Validate rejects submissions that would corrupt statistics: missing
// required fields, an empty question list (division by zero downstream)
// or a score exceeding the question count.
func (s Submission) Validate() error {
	if s.Difficulty == "" || s.TotalQuestions == 0 {
		return ErrMissingFields
	}
	if s.TotalQuestions < 0 || s.Score < 0 || s.Score > s.TotalQuestions {
		return ErrScoreOutOfRange
	}
	if len(s.Questions) == 0 {
		return ErrEmptySubmission
	}
	for _, q := range s.Questions {
		if q.Distance < 0 {
			return ErrNegativeDistance
		}
	}
	return nil
}

// TotalErrorDistance sums the guess error over all questions (km).
func TotalErrorDistance(questions []QuestionResult) float64 {
	var total float64
	for _, q := range questions {
		total += q.Distance
	}
	return total
}

// Aggregate derives the persisted statistics for a validated submission.
func Aggregate(sub Submission) (DetailedStatistics, error) {
	if err := sub.Validate(); err != nil {
		return DetailedStatistics{}, err
	}

	total := TotalErrorDistance(sub.Questions)

	questions := make([]QuestionStatistics, len(sub.Questions))
	for i, q := range sub.Questions {
		questions[i] = QuestionStatistics{
			QuestionNumber:     i + 1,
			LocationName:       q.LocationName,
			Country:            q.Country,
			Distance:           q.Distance,
			IsCorrect:          q.IsCorrect,
			TimeSpent:          q.TimeSpent,
			UserCoordinates:    q.UserCoordinates,
			CorrectCoordinates: q.CorrectCoordinates,
		}
	}

	return DetailedStatistics{
		PlayerName:      sub.PlayerName,
		Questions:       questions,
		Accuracy:        geoscore.RoundPercent(float64(sub.Score) / float64(sub.TotalQuestions) * 100),
		AverageDistance: total / float64(sub.TotalQuestions),
	}, nil
}
