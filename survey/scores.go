package survey

import (
	"fmt"
	"strings"
)

// Scores returns the respondent's category scores - the mean of the valid
// answers in each category. Categories without a single valid answer are
// omitted.
func (r Response) Scores(questions []Question) map[Category]float64 {
	scores := map[Category]float64{}

	for _, c := range Categories {
		sum := 0.0
		n := 0

		for _, q := range questions {
			if q.Category != c.Name {
				continue
			}

			if rating, ok := r.Answers[q.Key]; ok {
				sum += rating
				n++
			}
		}

		if n > 0 {
			scores[c.Name] = sum / float64(n)
		}
	}

	return scores
}

// Level bands a category score into a maturity level.
func Level(score float64) string {
	switch {
	case score <= 1.5:
		return "not mature"
	case score <= 2.5:
		return "developing"
	case score <= 3.5:
		return "mature"
	default:
		return "very mature"
	}
}

// Filename derives the per-respondent deck file name from the respondent's
// email address.
func Filename(email string) string {
	sanitized := strings.ReplaceAll(email, "@", "_at_")
	sanitized = strings.ReplaceAll(sanitized, ".", "_")

	return fmt.Sprintf("%s_Maturity_Assessment.pptx", sanitized)
}
