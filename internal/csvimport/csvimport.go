// Package csvimport parses uploaded student rosters. The format is plain
// comma-delimited CSV with a required header row; column names accept a few
// case-sensitive synonyms because rosters come from several export tools.
package csvimport

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/iliyamo/school-qr-register/internal/studentid"
)

// MaxRows caps how many valid rows a single upload may contribute. Rows
// beyond the cap are dropped silently.
const MaxRows = 200

// Defaults applied when the roster omits the grade or section column.
const (
	DefaultGrade   = "الصف الأول ابتدائي"
	DefaultSection = "أ"
)

// Row is one validated roster entry. StudentID is already canonical.
type Row struct {
	StudentID string
	Name      string
	Grade     string
	Section   string
}

// ErrEmpty is returned when the upload has no header row.
var ErrEmpty = errors.New("csv: empty file")

// Column synonyms, matched case-sensitively against header cells.
var (
	idColumns      = []string{"studentId", "StudentID", "id", "ID"}
	nameColumns    = []string{"name", "Name"}
	gradeColumns   = []string{"grade", "Grade"}
	sectionColumns = []string{"section", "Section"}
)

// Parse reads a roster and returns its valid rows, capped at MaxRows.
// Rows lacking a normalizable student identifier or a non-empty name are
// dropped. CR and CRLF line endings are normalized before parsing.
func Parse(r io.Reader) ([]Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, err
	}

	idIdx := columnIndex(header, idColumns)
	nameIdx := columnIndex(header, nameColumns)
	gradeIdx := columnIndex(header, gradeColumns)
	sectionIdx := columnIndex(header, sectionColumns)

	var rows []Row
	for len(rows) < MaxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed line: drop it and keep going, same as a row
			// failing validation.
			continue
		}

		id := studentid.Normalize(cell(record, idIdx))
		name := strings.TrimSpace(cell(record, nameIdx))
		if id == "" || name == "" {
			continue
		}

		grade := strings.TrimSpace(cell(record, gradeIdx))
		if grade == "" {
			grade = DefaultGrade
		}
		section := strings.TrimSpace(cell(record, sectionIdx))
		if section == "" {
			section = DefaultSection
		}

		rows = append(rows, Row{StudentID: id, Name: name, Grade: grade, Section: section})
	}
	return rows, nil
}

func columnIndex(header []string, names []string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
