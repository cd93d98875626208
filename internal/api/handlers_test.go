package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/geoquest-app/geoquest/internal/catalog"
)

func testAPI(t *testing.T) *API {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	return &API{catalog: cat, jwtSecret: []byte("test-secret")}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	api := testAPI(t)

	called := false
	handler := api.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest("GET", "/api/game/dashboard", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if called {
		t.Error("inner handler called without credentials")
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("401 body has no error message")
	}
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	api := testAPI(t)

	claims := &Claims{
		UserID:   "u1",
		Username: "ana",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(api.jwtSecret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	var got *Claims
	handler := api.authMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Context().Value("claims").(*Claims)
	}))

	req := httptest.NewRequest("GET", "/api/game/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got == nil || got.UserID != "u1" {
		t.Errorf("claims = %+v, want user u1", got)
	}
}

func TestHandleQuestionsRejectsBadDifficulty(t *testing.T) {
	api := testAPI(t)

	for _, difficulty := range []string{"", "extreme"} {
		req := httptest.NewRequest("GET", "/api/game/questions?difficulty="+difficulty, nil)
		w := httptest.NewRecorder()
		api.handleQuestions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("difficulty %q: status = %d, want 400", difficulty, w.Code)
		}
	}
}

func TestHandleQuestions(t *testing.T) {
	api := testAPI(t)

	req := httptest.NewRequest("GET", "/api/game/questions?difficulty=easy", nil)
	w := httptest.NewRecorder()
	api.handleQuestions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Questions []catalog.Question `json:"questions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Questions) == 0 {
		t.Fatal("no questions returned")
	}
	for _, q := range body.Questions {
		if len(q.Options) != 4 {
			t.Errorf("question has %d options, want 4", len(q.Options))
		}
	}
}

func TestHandleGuess(t *testing.T) {
	api := testAPI(t)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantCorrect bool
	}{
		{
			name:        "spot on",
			body:        `{"locationId": 1, "guess": {"lng": 2.346178, "lat": 48.852121}}`,
			wantStatus:  http.StatusOK,
			wantCorrect: true,
		},
		{
			name:        "wrong continent",
			body:        `{"locationId": 1, "guess": {"lng": 139.6917, "lat": 35.6895}}`,
			wantStatus:  http.StatusOK,
			wantCorrect: false,
		},
		{
			name:       "missing guess",
			body:       `{"locationId": 1, "guess": null}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown location",
			body:       `{"locationId": 999, "guess": {"lng": 0, "lat": 0}}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "garbage body",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/game/guess", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			api.handleGuess(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				DistanceKm float64 `json:"distanceKm"`
				IsCorrect  bool    `json:"isCorrect"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.IsCorrect != tt.wantCorrect {
				t.Errorf("isCorrect = %v at %v km, want %v", body.IsCorrect, body.DistanceKm, tt.wantCorrect)
			}
		})
	}
}

func TestHandleSubmitGameRejectsInvalid(t *testing.T) {
	api := testAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty questions", `{"difficulty": "easy", "score": 3, "totalQuestions": 5, "questions": []}`},
		{"missing difficulty", `{"score": 3, "totalQuestions": 5, "questions": [{"distance": 10}]}`},
		{"score above total", `{"difficulty": "easy", "score": 6, "totalQuestions": 5, "questions": [{"distance": 10}]}`},
		{"garbage body", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/game", strings.NewReader(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), "claims", &Claims{UserID: "u1"}))
			w := httptest.NewRecorder()

			// a.db is nil here: the handler must reject before touching
			// the store, or this test panics.
			api.handleSubmitGame(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}
