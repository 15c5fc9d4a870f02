package survey

import (
	"math"
	"testing"
)

func questions(category Category, keys ...string) []Question {
	list := []Question{}
	for _, k := range keys {
		list = append(list, Question{Column: k, Key: k, Category: category})
	}

	return list
}

func TestScores(t *testing.T) {
	qs := append(questions(TechAndData, "q1", "q2", "q3"), questions(Reporting, "q4", "q5")...)

	response := Response{
		Email: "alice@example.com",
		Answers: map[string]float64{
			"q1": 1,
			"q2": 2,
			"q3": 3,
			"q4": 4,
		},
	}

	scores := response.Scores(qs)

	if score, ok := scores[TechAndData]; !ok || math.Abs(score-2.0) > 0.0001 {
		t.Errorf("Incorrect score for '%v' - expected:%v, got:%v", TechAndData, 2.0, score)
	}

	if score, ok := scores[Reporting]; !ok || math.Abs(score-4.0) > 0.0001 {
		t.Errorf("Incorrect score for '%v' - expected:%v, got:%v", Reporting, 4.0, score)
	}
}

func TestScoresOmitsUnansweredCategories(t *testing.T) {
	qs := append(questions(TechAndData, "q1"), questions(People, "q2")...)

	response := Response{
		Email: "bob@example.com",
		Answers: map[string]float64{
			"q1": 3,
		},
	}

	scores := response.Scores(qs)

	if _, ok := scores[People]; ok {
		t.Errorf("Expected no score for '%v', got %v", People, scores[People])
	}

	if len(scores) != 1 {
		t.Errorf("Incorrect score count - expected:%v, got:%v", 1, len(scores))
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{1.0, "not mature"},
		{1.5, "not mature"},
		{1.51, "developing"},
		{2.5, "developing"},
		{3.0, "mature"},
		{3.5, "mature"},
		{3.51, "very mature"},
		{4.0, "very mature"},
	}

	for _, test := range tests {
		if level := Level(test.score); level != test.expected {
			t.Errorf("Incorrect level for score %v - expected:%v, got:%v", test.score, test.expected, level)
		}
	}
}

func TestFilename(t *testing.T) {
	expected := "alice_at_example_com_Maturity_Assessment.pptx"

	if filename := Filename("alice@example.com"); filename != expected {
		t.Errorf("Incorrect filename - expected:%v, got:%v", expected, filename)
	}
}
