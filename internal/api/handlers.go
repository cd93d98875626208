package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/geoquest-app/geoquest/internal/catalog"
	"github.com/geoquest-app/geoquest/internal/db"
	"github.com/geoquest-app/geoquest/internal/game"
	"github.com/geoquest-app/geoquest/internal/geoscore"
	"github.com/geoquest-app/geoquest/internal/stats"
)

// Public handlers

func (a *API) handleQuestions(w http.ResponseWriter, r *http.Request) {
	difficulty := r.URL.Query().Get("difficulty")
	if !catalog.ValidDifficulty(difficulty) {
		writeError(w, http.StatusBadRequest, "invalid difficulty")
		return
	}

	questions := a.catalog.GenerateQuestions(difficulty, catalog.QuestionsPerGame)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
	})
}

func (a *API) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LocationID int                   `json:"locationId"`
		Guess      *geoscore.Coordinates `json:"guess"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	loc, ok := a.catalog.LocationByID(req.LocationID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown location")
		return
	}

	verdict, err := geoscore.Evaluate(req.Guess, geoscore.Coordinates{Lng: loc.Longitude, Lat: loc.Latitude})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"distanceKm":   verdict.DistanceKm,
		"isCorrect":    verdict.IsCorrect,
		"locationName": loc.Name,
		"country":      loc.Country,
		"correctCoordinates": geoscore.Coordinates{
			Lng: loc.Longitude,
			Lat: loc.Latitude,
		},
	})
}

// Protected handlers

func (a *API) handleSubmitGame(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)

	var sub game.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detailed, err := game.Aggregate(sub)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	now := time.Now()

	gameID, err := a.db.InsertGame(ctx, db.Game{
		UserID:             claims.UserID,
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
		writeErrorDetails(w, http.StatusInternalServerError, "failed to save game", err.Error())
		return
	}

	historyID, err := a.db.InsertGameHistory(ctx, db.GameHistory{
		UserID:             claims.UserID,
		GameID:             gameID,
		GameDate:           now,
		FinalScore:         sub.Score,
		GameModeName:       game.ModeName,
		DifficultyLevel:    sub.Difficulty,
		TotalTimeSeconds:   sub.TotalTime,
		DetailedStatistics: detailed,
	})
	if err != nil {
		// The game row stays; history is a separate step, not a transaction.
		writeErrorDetails(w, http.StatusInternalServerError, "failed to save game history", err.Error())
		return
	}

	// Ranking is best-effort: a failed leaderboard update never fails the
	// submission the player already made.
	if err := a.ledger.RecordSubmission(ctx, claims.UserID, sub.Score, sub.Difficulty, now); err != nil {
		log.Printf("ranking update failed for user %s: %v", claims.UserID, err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"gameId":             gameID,
			"historyId":          historyID,
			"score":              sub.Score,
			"totalQuestions":     sub.TotalQuestions,
			"percentage":         detailed.Accuracy,
			"difficulty":         sub.Difficulty,
			"totalTime":          sub.TotalTime,
			"detailedStatistics": detailed,
		},
	})
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	ctx := r.Context()

	history, err := a.db.AllHistoryForUser(ctx, claims.UserID)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "failed to fetch game history", err.Error())
		return
	}

	var globalRank *int
	if len(history) > 0 {
		globalRank, err = a.db.LatestGlobalPosition(ctx, claims.UserID)
		if err != nil {
			writeErrorDetails(w, http.StatusInternalServerError, "failed to fetch ranking", err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, stats.Dashboard(history, globalRank))
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	ctx := r.Context()

	difficulty := r.URL.Query().Get("difficulty")
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	history, err := a.db.HistoryForUser(ctx, claims.UserID, difficulty, limit, offset)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "failed to fetch game history", err.Error())
		return
	}
	if history == nil {
		history = []db.GameHistory{}
	}

	// The summary block is secondary: if it cannot be computed the page
	// of history is still served.
	all, err := a.db.AllHistoryForUser(ctx, claims.UserID)
	if err != nil {
		log.Printf("failed to fetch history statistics for user %s: %v", claims.UserID, err)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"gameHistory": history,
			"statistics":  nil,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gameHistory": history,
		"statistics":  stats.Summarize(all),
		"pagination": map[string]interface{}{
			"offset":  offset,
			"limit":   limit,
			"total":   len(all),
			"hasMore": offset+limit < len(all),
		},
	})
}

func (a *API) handleRanking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rankingType := r.URL.Query().Get("type")
	period := r.URL.Query().Get("period")
	region := r.URL.Query().Get("region")
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	entries, err := a.db.ListRanking(ctx, rankingType, period, region, limit, offset)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "failed to fetch ranking", err.Error())
		return
	}
	if entries == nil {
		entries = []db.RankingRow{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"pagination": map[string]interface{}{
			"offset": offset,
			"limit":  limit,
			"count":  len(entries),
		},
	})
}

func (a *API) handleStatistics(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)

	history, err := a.db.AllHistoryForUser(r.Context(), claims.UserID)
	if err != nil {
		writeErrorDetails(w, http.StatusInternalServerError, "failed to fetch game history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats.Overview(history))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
