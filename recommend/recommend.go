// Package recommend generates the per-category maturity summary and
// recommendations by prompting an LLM with the respondent's answers.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"maturity-assessment/survey"
)

// Count is the number of recommendations rendered on each category slide.
const Count = 4

// A question scoring at or below this threshold is called out as a focus
// area in the prompt.
const focusThreshold = 2.0

const system = "You are an expert CRM marketing consultant providing actionable recommendations."

// Provider is a minimal chat-completion client.
type Provider interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// QuestionScore pairs a question with the respondent's rating.
type QuestionScore struct {
	Question string
	Score    float64
}

// Request describes one category of one respondent's answers.
type Request struct {
	Category  string
	Score     float64
	Questions []QuestionScore
}

// Recommendation is the parsed model output for one category.
type Recommendation struct {
	Summary         string
	Recommendations []string
}

// Generate prompts the provider for a category summary and recommendations.
// On provider failure it returns the fallback content along with the error
// so that a deck can still be rendered.
func Generate(ctx context.Context, p Provider, rq Request) (Recommendation, error) {
	result, err := p.Complete(ctx, system, Prompt(rq))
	if err != nil {
		return Fallback(err), err
	}

	return Parse(result), nil
}

// Prompt builds the consultant prompt for a category.
func Prompt(rq Request) string {
	questions := make([]QuestionScore, len(rq.Questions))
	copy(questions, rq.Questions)

	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Score < questions[j].Score })

	var detail strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&detail, "- Question: %s\n  Score: %v/4\n", q.Question, q.Score)
	}

	focus := ""
	low := []QuestionScore{}
	for _, q := range questions {
		if q.Score <= focusThreshold {
			low = append(low, q)
		}
	}

	if len(low) > 0 {
		if len(low) > 3 {
			low = low[:3]
		}

		var b strings.Builder
		b.WriteString("\n\nAreas requiring immediate attention (low scores):\n")
		for _, q := range low {
			fmt.Fprintf(&b, "- %s (Score: %v/4)\n", q.Question, q.Score)
		}

		focus = strings.TrimRight(b.String(), "\n")
	}

	return fmt.Sprintf(`You are a CRM marketing maturity consultant. Generate recommendations for a client.

Category: %s
Overall Maturity Score: %.2f/4.0 (%s)

Client's responses to all questions in this category:
%s%s

Instructions:
1. Generate a brief 2-3 sentence summary of their current maturity level in this category
2. Generate four specific, actionable recommendations that:
   - PRIORITIZE addressing the low-scoring areas identified above
   - Reference the specific questions where they scored low (1-2 out of 4)
   - Provide concrete, actionable steps based on the question context
   - Are tailored to their current maturity level

Focus especially on the questions where they scored 1-2, as these are the areas needing the most improvement.

Format the response as:
SUMMARY: [your summary here]
RECOMMENDATIONS:
1. [recommendation 1 - should address a specific low-scoring question]
2. [recommendation 2 - should address a specific low-scoring question]
3. [recommendation 3 - can address another area or build on improvements]
4. [recommendation 4 - can address another area or build on improvements]

Make each recommendation specific, actionable, and directly related to the questions they answered poorly.`,
		rq.Category, rq.Score, survey.Level(rq.Score), strings.TrimRight(detail.String(), "\n"), focus)
}

// Parse extracts the summary and recommendations from the model output,
// padding or truncating to exactly Count recommendations.
func Parse(result string) Recommendation {
	if strings.Contains(result, "SUMMARY:") {
		parts := strings.SplitN(result, "RECOMMENDATIONS:", 2)

		summary := strings.TrimSpace(strings.Replace(parts[0], "SUMMARY:", "", 1))
		body := ""
		if len(parts) > 1 {
			body = parts[1]
		}

		recommendations := []string{}
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if line[0] >= '0' && line[0] <= '9' {
				if _, rec, found := strings.Cut(line, "."); found {
					line = rec
				}
			} else if strings.HasPrefix(line, "-") {
				line = strings.TrimLeft(line, "- ")
			} else {
				continue
			}

			if rec := strings.TrimSpace(line); rec != "" {
				recommendations = append(recommendations, rec)
			}
		}

		for len(recommendations) < Count {
			recommendations = append(recommendations, "Continue building on the recommendations above.")
		}

		return Recommendation{
			Summary:         truncate(summary, 200),
			Recommendations: recommendations[:Count],
		}
	}

	// unstructured response - first line is the summary, the rest are
	// candidate recommendations
	lines := strings.Split(result, "\n")

	summary := "Summary generated"
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		summary = truncate(strings.TrimSpace(lines[0]), 200)
	}

	recommendations := []string{}
	for _, line := range lines[1:] {
		if rec := strings.TrimSpace(line); len(rec) > 10 {
			recommendations = append(recommendations, rec)
		}
	}

	for len(recommendations) < Count {
		recommendations = append(recommendations, "Continue improving in this area.")
	}

	return Recommendation{
		Summary:         summary,
		Recommendations: recommendations[:Count],
	}
}

// Fallback is the content rendered when the provider call fails.
func Fallback(err error) Recommendation {
	return Recommendation{
		Summary: fmt.Sprintf("Error: %v", err),
		Recommendations: []string{
			"Review current processes",
			"Identify improvement areas",
			"Implement best practices",
			"Monitor progress",
		},
	}
}

func truncate(v string, n int) string {
	if len(v) <= n {
		return v
	}

	return v[:n]
}
