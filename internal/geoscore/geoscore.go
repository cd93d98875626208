package geoscore

import (
	"errors"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius used for haversine distances.
	EarthRadiusKm = 6371.0

	// CorrectThresholdKm is the guess-to-target distance at or below which
	// a guess counts as correct.
	CorrectThresholdKm = 200.0
)

// ErrNoGuess is returned when a guess is evaluated without coordinates.
// Unanswered questions must be handled upstream, never scored.
var ErrNoGuess = errors.New("no guess coordinates to evaluate")

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Verdict is the outcome of scoring a single guess.
type Verdict struct {
	DistanceKm float64 `json:"distanceKm"`
	IsCorrect  bool    `json:"isCorrect"`
}

// DistanceKm returns the haversine distance (km) between two WGS84 lat/lng points (degrees).
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	φ1 := lat1 * math.Pi / 180.0
	φ2 := lat2 * math.Pi / 180.0
	dφ := (lat2 - lat1) * math.Pi / 180.0
	dλ := (lng2 - lng1) * math.Pi / 180.0

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	a := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Evaluate scores a guess against a target. The threshold is inclusive:
// a guess exactly CorrectThresholdKm away is still correct.
func Evaluate(guess *Coordinates, target Coordinates) (Verdict, error) {
	if guess == nil {
		return Verdict{}, ErrNoGuess
	}
	d := DistanceKm(guess.Lat, guess.Lng, target.Lat, target.Lng)
	return Verdict{DistanceKm: d, IsCorrect: d <= CorrectThresholdKm}, nil
}

// RoundPercent rounds to the nearest integer, halves away from zero,
// matching the client's Math.round semantics for percentage figures.
func RoundPercent(x float64) int {
	return int(math.Round(x))
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
