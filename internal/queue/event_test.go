package queue

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func envelope(t *testing.T, kind string, payload any) Envelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return Envelope{Kind: kind, Payload: raw}
}

func TestFormatNoteCreated(t *testing.T) {
	env := envelope(t, KindNoteCreated, NoteCreatedEvent{
		NoteID:    7,
		StudentID: "S-10025",
		Type:      "positive",
		Category:  "participation",
		CreatedBy: "teacher@example.com",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	line, err := formatLine(env)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Note created", "student_id=S-10025", "type=positive", "by=teacher@example.com"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %s", want, line)
		}
	}
}

func TestFormatRosterImported(t *testing.T) {
	env := envelope(t, KindRosterImported, RosterImportedEvent{
		BatchID:  "b-1",
		SchoolID: "school-1",
		Imported: 150,
		Skipped:  3,
	})
	line, err := formatLine(env)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Roster imported", "imported=150", "skipped=3"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %s", want, line)
		}
	}
}

func TestFormatUnknownKind(t *testing.T) {
	if _, err := formatLine(Envelope{Kind: "bogus"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
