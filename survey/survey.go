package survey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Category is one of the five fixed question groups in the maturity survey.
type Category string

const (
	TechAndData  Category = "Tech & Data"
	Campaigning  Category = "Campaigning & Assets"
	Segmentation Category = "Segmentation & Personalisation"
	Reporting    Category = "Reporting & Insights"
	People       Category = "People & Operations"
)

// Categories lists the question groups in worksheet order, with the number
// of question columns assigned to each group.
var Categories = []struct {
	Name  Category
	Count int
}{
	{TechAndData, 5},
	{Campaigning, 6},
	{Segmentation, 3},
	{Reporting, 6},
	{People, 4},
}

// Ratings outside this range are treated as unanswered.
const (
	MinRating = 1.0
	MaxRating = 4.0
)

// Question is a single survey question column.
type Question struct {
	Column   string // column header as it appears in the worksheet
	Key      string // cleaned column name
	Category Category
}

// Response is one respondent's row.
type Response struct {
	Timestamp string
	Email     string
	Answers   map[string]float64 // cleaned question key to rating, valid answers only
	Raw       map[string]string  // cleaned question key to cell value as entered
}

// Survey is a parsed responses worksheet.
type Survey struct {
	Questions []Question
	Responses []Response
}

var email = regexp.MustCompile(`^\s*\S+@\S+\.\S+\s*$`)

// ParseSheet converts a worksheet range into a Survey. The first row is
// expected to be the header row with 'Timestamp' and 'Email Address' columns
// plus the question columns in category order.
func ParseSheet(data *sheets.ValueRange) (*Survey, error) {
	if len(data.Values) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}

	// .. build index
	index := map[string]int{}
	row := data.Values[0]
	for i, v := range row {
		k := Normalise(fmt.Sprintf("%v", v))
		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("duplicate column name '%v'", v)
		}

		index[k] = i
	}

	if _, ok := index["timestamp"]; !ok {
		return nil, fmt.Errorf("missing 'Timestamp' column")
	}

	if _, ok := index["emailaddress"]; !ok {
		return nil, fmt.Errorf("missing 'Email Address' column")
	}

	// ... question columns, in sheet order
	questions := []Question{}
	for _, v := range row {
		k := Normalise(fmt.Sprintf("%v", v))
		if k == "timestamp" || k == "emailaddress" {
			continue
		}

		questions = append(questions, Question{
			Column: clean(fmt.Sprintf("%v", v)),
			Key:    CleanColumn(fmt.Sprintf("%v", v)),
		})
	}

	expected := 0
	for _, c := range Categories {
		expected += c.Count
	}

	if len(questions) < expected {
		return nil, fmt.Errorf("expected %v question columns, got %v", expected, len(questions))
	}

	ix := 0
	for _, c := range Categories {
		for i := 0; i < c.Count; i++ {
			questions[ix].Category = c.Name
			ix++
		}
	}

	questions = questions[:expected]

	// ... records
	responses := []Response{}
	for _, record := range data.Values[1:] {
		cell := func(k string) string {
			if i, ok := index[k]; ok && i < len(record) {
				return fmt.Sprintf("%v", record[i])
			}
			return ""
		}

		address := cell("emailaddress")
		if !email.MatchString(address) {
			continue
		}

		response := Response{
			Timestamp: clean(cell("timestamp")),
			Email:     clean(address),
			Answers:   map[string]float64{},
			Raw:       map[string]string{},
		}

		for _, q := range questions {
			v := cell(Normalise(q.Column))

			response.Raw[q.Key] = clean(v)

			if rating, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				if rating >= MinRating && rating <= MaxRating {
					response.Answers[q.Key] = rating
				}
			}
		}

		responses = append(responses, response)
	}

	return &Survey{
		Questions: questions,
		Responses: responses,
	}, nil
}

// QuestionsFor returns the survey questions belonging to a category, in
// worksheet order.
func (s *Survey) QuestionsFor(category Category) []Question {
	questions := []Question{}
	for _, q := range s.Questions {
		if q.Category == category {
			questions = append(questions, q)
		}
	}

	return questions
}

// Normalise reduces a column header to a lookup key.
func Normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}

// CleanColumn reduces a column header to a stable identifier: lowercased,
// punctuation stripped, whitespace collapsed to single underscores.
func CleanColumn(v string) string {
	cleaned := strings.ToLower(v)
	cleaned = strings.ReplaceAll(cleaned, "-", " ")
	cleaned = regexp.MustCompile(`[^a-z0-9\s]`).ReplaceAllString(cleaned, "")
	cleaned = regexp.MustCompile(`\s+`).ReplaceAllString(cleaned, " ")

	return strings.ReplaceAll(strings.TrimSpace(cleaned), " ", "_")
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
