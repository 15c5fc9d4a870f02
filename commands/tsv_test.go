package commands

import (
	"fmt"
	"strings"
	"testing"

	"google.golang.org/api/sheets/v4"

	"maturity-assessment/survey"
)

func parsed(t *testing.T, rows [][]any) *survey.Survey {
	t.Helper()

	s, err := survey.ParseSheet(&sheets.ValueRange{Values: rows})
	if err != nil {
		t.Fatalf("Unexpected error returned from ParseSheet (%v)", err)
	}

	return s
}

func worksheet(ratings ...string) [][]any {
	header := []any{"Timestamp", "Email Address"}
	for i := 1; i <= 24; i++ {
		header = append(header, fmt.Sprintf("Question %v", i))
	}

	rows := [][]any{header}
	for i, v := range ratings {
		record := []any{fmt.Sprintf("2024-03-0%v 10:00:00", i+1), fmt.Sprintf("client%v@example.com", i+1)}
		for j := 0; j < 24; j++ {
			record = append(record, v)
		}
		rows = append(rows, record)
	}

	return rows
}

func TestResponsesToTSV(t *testing.T) {
	expected := "Timestamp\tEmail Address\tQuestion 1"

	var f strings.Builder

	if err := responsesToTSV(&f, parsed(t, worksheet("3", "2"))); err != nil {
		t.Fatalf("Unexpected error returned from responsesToTSV (%v)", err)
	}

	lines := strings.Split(strings.TrimRight(f.String(), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("Incorrect line count - expected:%v, got:%v", 3, len(lines))
	}

	if !strings.HasPrefix(lines[0], expected) {
		t.Errorf("Incorrect header - expected prefix:%v, got:%v", expected, lines[0])
	}

	if !strings.HasPrefix(lines[1], "2024-03-01 10:00:00\tclient1@example.com\t3") {
		t.Errorf("Incorrect first record: %v", lines[1])
	}

	if !strings.HasPrefix(lines[2], "2024-03-02 10:00:00\tclient2@example.com\t2") {
		t.Errorf("Incorrect second record: %v", lines[2])
	}
}

func TestScoresToTSV(t *testing.T) {
	expected := `Timestamp	Email Address	Tech & Data	Campaigning & Assets	Segmentation & Personalisation	Reporting & Insights	People & Operations
2024-03-01 10:00:00	client1@example.com	3.00	3.00	3.00	3.00	3.00
`

	var f strings.Builder

	if err := scoresToTSV(&f, parsed(t, worksheet("3"))); err != nil {
		t.Fatalf("Unexpected error returned from scoresToTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestScoresToTSVWithUnansweredCategories(t *testing.T) {
	rows := worksheet("")

	// only the first question answered - Tech & Data scores, the rest blank
	rows[1][2] = "4"

	expected := "Timestamp\tEmail Address\tTech & Data\tCampaigning & Assets\tSegmentation & Personalisation\tReporting & Insights\tPeople & Operations\n" +
		"2024-03-01 10:00:00\tclient1@example.com\t4.00\t\t\t\t\n"

	var f strings.Builder

	if err := scoresToTSV(&f, parsed(t, rows)); err != nil {
		t.Fatalf("Unexpected error returned from scoresToTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestSpreadsheetID(t *testing.T) {
	id, err := spreadsheetID("https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0")
	if err != nil {
		t.Fatalf("Unexpected error returned from spreadsheetID (%v)", err)
	}

	if id != "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" {
		t.Errorf("Incorrect spreadsheet ID - expected:%v, got:%v", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", id)
	}

	if _, err := spreadsheetID("https://example.com/spreadsheets/xxx"); err == nil {
		t.Errorf("Expected error for invalid spreadsheet URL, got %v", err)
	}
}
