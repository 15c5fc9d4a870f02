package commands

import (
	"encoding/csv"
	"fmt"
	"io"

	"maturity-assessment/survey"
)

// responsesToTSV writes the parsed survey responses as tab-separated values
// with the Timestamp and Email Address columns first and the question
// columns in worksheet order.
func responsesToTSV(f io.Writer, s *survey.Survey) error {
	header := []string{"Timestamp", "Email Address"}
	for _, q := range s.Questions {
		header = append(header, q.Column)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write(header)
	for _, response := range s.Responses {
		record := []string{response.Timestamp, response.Email}
		for _, q := range s.Questions {
			record = append(record, response.Raw[q.Key])
		}

		w.Write(record)
	}

	w.Flush()

	return w.Error()
}

// scoresToTSV writes one record per respondent with the five category
// scores. Categories without a single valid answer are left blank.
func scoresToTSV(f io.Writer, s *survey.Survey) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	w.Write(scoresHeader())
	for _, response := range s.Responses {
		w.Write(scoresRecord(s, response))
	}

	w.Flush()

	return w.Error()
}

func scoresHeader() []string {
	header := []string{"Timestamp", "Email Address"}
	for _, c := range survey.Categories {
		header = append(header, string(c.Name))
	}

	return header
}

func scoresRecord(s *survey.Survey, response survey.Response) []string {
	scores := response.Scores(s.Questions)

	record := []string{response.Timestamp, response.Email}
	for _, c := range survey.Categories {
		if score, ok := scores[c.Name]; ok {
			record = append(record, fmt.Sprintf("%.2f", score))
		} else {
			record = append(record, "")
		}
	}

	return record
}
