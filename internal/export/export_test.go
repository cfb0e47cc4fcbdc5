package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/report"
)

func sampleRows() []report.StudentReport {
	users := []model.UserSummary{
		{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org", Role: "student", Department: "CSE"},
		{ID: "u2", FirstName: "Grace", LastName: `"Amazing" Hopper`, Email: "grace@example.org", Role: "student", Department: "ECE"},
		{ID: "u3", FirstName: "Alan", LastName: "Turing, Jr", Email: "alan@example.org", Role: "team_member", Department: "CSE"},
	}
	projects := []model.Project{
		{ID: "p1", Title: "Rover", TeamLeaderID: "u1", TeamMembers: []model.Member{{UserID: "u1"}, {UserID: "u3"}}},
	}
	return report.Build(users, projects)
}

func TestCSVRoundTrip(t *testing.T) {
	rows := report.Filter(sampleRows(), report.Criteria{Role: "student"})
	header := report.Header(report.VariantFull)
	records := report.Records(rows, report.VariantFull)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, header, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	if len(lines) != len(rows)+1 {
		t.Fatalf("expected %d lines, got %d", len(rows)+1, len(lines))
	}
	for _, line := range lines {
		if !strings.HasPrefix(line, `"`) || !strings.HasSuffix(line, `"`) {
			t.Fatalf("expected every field quoted: %s", line)
		}
	}

	parsed, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(parsed) != len(rows)+1 {
		t.Fatalf("expected %d records, got %d", len(rows)+1, len(parsed))
	}
	for i, want := range append([][]string{header}, records...) {
		for j := range want {
			if parsed[i][j] != want[j] {
				t.Fatalf("record %d field %d: got %q want %q", i, j, parsed[i][j], want[j])
			}
		}
	}
}

func TestCSVRejectsRaggedRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []string{"a", "b"}, [][]string{{"only one"}}); err == nil {
		t.Fatalf("expected error for ragged row")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 7, 9, 23, 30, 0, 0, time.UTC)
	if got := Filename("student-report", "csv", now); got != "student-report-2024-07-09.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := Filename("student-report", ".pdf", now); got != "student-report-2024-07-09.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestWritePDFVariants(t *testing.T) {
	rows := sampleRows()
	for _, v := range []report.Variant{report.VariantBasic, report.VariantFull} {
		var buf bytes.Buffer
		err := WritePDF(&buf, "Student Report", report.Header(v), report.Records(rows, v), time.Now())
		if err != nil {
			t.Fatalf("%s: write pdf: %v", v, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Fatalf("%s: output is not a PDF", v)
		}
	}
}
