package catalog

import (
	"testing"
)

func TestLoad(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cat.locations) == 0 {
		t.Fatal("catalog is empty")
	}

	loc, ok := cat.LocationByID(1)
	if !ok {
		t.Fatal("location 1 not found")
	}
	if loc.Name != "Paris" || loc.Country != "France" {
		t.Errorf("location 1 = %s, %s; want Paris, France", loc.Name, loc.Country)
	}
	if loc.Latitude == 0 || loc.Longitude == 0 {
		t.Error("location 1 has no coordinates")
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if !ValidDifficulty(d) {
			t.Errorf("ValidDifficulty(%q) = false", d)
		}
	}
	for _, d := range []string{"", "extreme", "EASY"} {
		if ValidDifficulty(d) {
			t.Errorf("ValidDifficulty(%q) = true", d)
		}
	}
}

func TestGenerateQuestions(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, difficulty := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		t.Run(difficulty, func(t *testing.T) {
			questions := cat.GenerateQuestions(difficulty, QuestionsPerGame)
			if len(questions) == 0 {
				t.Fatal("no questions generated")
			}
			if len(questions) > QuestionsPerGame {
				t.Fatalf("generated %d questions, cap is %d", len(questions), QuestionsPerGame)
			}

			seen := make(map[int]bool)
			for _, q := range questions {
				if q.Location.Difficulty != difficulty {
					t.Errorf("question for %s has %s location", difficulty, q.Location.Difficulty)
				}
				if seen[q.Location.ID] {
					t.Errorf("location %d repeated", q.Location.ID)
				}
				seen[q.Location.ID] = true

				if len(q.Options) != 4 {
					t.Fatalf("question has %d options, want 4", len(q.Options))
				}
				if q.CorrectAnswer != q.Location.Name {
					t.Errorf("CorrectAnswer = %q, want %q", q.CorrectAnswer, q.Location.Name)
				}
				found := false
				for _, opt := range q.Options {
					if opt == q.CorrectAnswer {
						found = true
					}
				}
				if !found {
					t.Errorf("options %v missing answer %q", q.Options, q.CorrectAnswer)
				}
			}
		})
	}
}

func TestGenerateQuestionsCount(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cat.GenerateQuestions(DifficultyEasy, 3); len(got) != 3 {
		t.Errorf("generated %d questions, want 3", len(got))
	}
}
