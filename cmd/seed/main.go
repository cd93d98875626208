// Command seed fills the database with demo users and played games so
// dashboards and leaderboards have data to show during development.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/geoquest-app/geoquest/internal/catalog"
	"github.com/geoquest-app/geoquest/internal/db"
	"github.com/geoquest-app/geoquest/internal/game"
	"github.com/geoquest-app/geoquest/internal/geoscore"
	"github.com/geoquest-app/geoquest/internal/ranking"
)

func main() {
	users := flag.Int("users", 10, "number of demo users")
	games := flag.Int("games", 5, "games played per user")
	flag.Parse()

	_ = godotenv.Load()
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	database, err := db.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load location catalog: %v", err)
	}

	ledger := ranking.NewLedger(database)
	difficulties := []string{catalog.DifficultyEasy, catalog.DifficultyMedium, catalog.DifficultyHard}

	for i := 0; i < *users; i++ {
		user, err := database.UpsertUser(ctx, "seed-"+uuid.NewString(), gofakeit.Username())
		if err != nil {
			log.Fatalf("Failed to create demo user: %v", err)
		}

		for j := 0; j < *games; j++ {
			difficulty := difficulties[gofakeit.Number(0, len(difficulties)-1)]
			if err := playGame(ctx, database, ledger, cat, user, difficulty); err != nil {
				log.Fatalf("Failed to seed game for %s: %v", user.Username, err)
			}
		}
		log.Printf("Seeded %d games for %s", *games, user.Username)
	}
}

// playGame simulates one full game through the real submission path:
// generate questions, guess near or far from each target, aggregate and
// persist, then feed the ledger.
func playGame(ctx context.Context, database *db.DB, ledger *ranking.Ledger, cat *catalog.Catalog, user *db.User, difficulty string) error {
	questions := cat.GenerateQuestions(difficulty, catalog.QuestionsPerGame)

	sub := game.Submission{
		Difficulty:     difficulty,
		TotalQuestions: len(questions),
		PlayerName:     user.Username,
	}

	for _, q := range questions {
		target := geoscore.Coordinates{Lng: q.Location.Longitude, Lat: q.Location.Latitude}

		// Guesses land anywhere from spot-on to a continent away.
		guess := &geoscore.Coordinates{
			Lng: target.Lng + gofakeit.Float64Range(-8, 8),
			Lat: target.Lat + gofakeit.Float64Range(-8, 8),
		}

		verdict, err := geoscore.Evaluate(guess, target)
		if err != nil {
			return err
		}
		if verdict.IsCorrect {
			sub.Score++
		}

		timeSpent := gofakeit.Number(5, 45)
		sub.TotalTime += timeSpent
		sub.Questions = append(sub.Questions, game.QuestionResult{
			LocationName:       q.Location.Name,
			Country:            q.Location.Country,
			Distance:           verdict.DistanceKm,
			IsCorrect:          verdict.IsCorrect,
			TimeSpent:          timeSpent,
			UserCoordinates:    guess,
			CorrectCoordinates: target,
		})
	}

	detailed, err := game.Aggregate(sub)
	if err != nil {
		return err
	}

	now := time.Now()
	gameID, err := database.InsertGame(ctx, db.Game{
		UserID:             user.ID,
		SessionIdentifier:  uuid.NewString(),
		GameModeName:       game.ModeName,
		DifficultyLevel:    sub.Difficulty,
		TotalScore:         sub.Score,
		TotalErrorDistance: game.TotalErrorDistance(sub.Questions),
		TotalAttempts:      sub.TotalQuestions,
		StartTime:          now.Add(-time.Duration(sub.TotalTime) * time.Second),
		EndTime:            now,
	})
	if err != nil {
		return err
	}

	if _, err := database.InsertGameHistory(ctx, db.GameHistory{
		UserID:             user.ID,
		GameID:             gameID,
		GameDate:           now,
		FinalScore:         sub.Score,
		GameModeName:       game.ModeName,
		DifficultyLevel:    sub.Difficulty,
		TotalTimeSeconds:   sub.TotalTime,
		DetailedStatistics: detailed,
	}); err != nil {
		return err
	}

	return ledger.RecordSubmission(ctx, user.ID, sub.Score, sub.Difficulty, now)
}
