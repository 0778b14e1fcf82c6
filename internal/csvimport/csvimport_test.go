package csvimport

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseBasicRow(t *testing.T) {
	in := "studentId,name,grade,section\n10025,Ahmed,Grade1,A\n"
	rows, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := Row{StudentID: "S-10025", Name: "Ahmed", Grade: "Grade1", Section: "A"}
	if rows[0] != want {
		t.Fatalf("row = %+v, want %+v", rows[0], want)
	}
}

func TestParseHeaderSynonyms(t *testing.T) {
	in := "ID,Name\nS-7,Sara\n"
	rows, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].StudentID != "S-7" || rows[0].Name != "Sara" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if rows[0].Grade != DefaultGrade || rows[0].Section != DefaultSection {
		t.Fatalf("expected defaults, got grade=%q section=%q", rows[0].Grade, rows[0].Section)
	}
}

func TestParseDropsInvalidRows(t *testing.T) {
	in := strings.Join([]string{
		"studentId,name",
		"10025,",        // missing name
		",Ahmed",        // missing id
		"abc,Ali",       // id not normalizable
		"http://x,Omar", // QR-style payload guard
		"10030,Lina",
	}, "\n")
	rows, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 || rows[0].StudentID != "S-10030" {
		t.Fatalf("expected only S-10030, got %+v", rows)
	}
}

func TestParseQuotedFieldsAndCRLF(t *testing.T) {
	in := "studentId,name,grade,section\r\n\"10025\",\"Al, Ahmed\",\"Grade 1\",B\r\n"
	rows, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Name != "Al, Ahmed" || rows[0].Grade != "Grade 1" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
}

func TestParseCapsAtMaxRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("studentId,name\n")
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&b, "%d,Student %d\n", 1000+i, i)
	}
	rows, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != MaxRows {
		t.Fatalf("expected %d rows, got %d", MaxRows, len(rows))
	}
}

func TestParseEmptyFile(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
