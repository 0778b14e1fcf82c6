package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/csvimport"
	"github.com/iliyamo/school-qr-register/internal/middleware"
	"github.com/iliyamo/school-qr-register/internal/model"
	"github.com/iliyamo/school-qr-register/internal/queue"
	"github.com/iliyamo/school-qr-register/internal/repository"
	"github.com/iliyamo/school-qr-register/internal/service"
	"github.com/iliyamo/school-qr-register/internal/studentid"
)

// StudentHandler serves the student directory and the bulk importer.
type StudentHandler struct {
	Students *repository.StudentRepo
	Staff    *repository.StaffRepo
}

func NewStudentHandler(students *repository.StudentRepo, staff *repository.StaffRepo) *StudentHandler {
	return &StudentHandler{Students: students, Staff: staff}
}

type createStudentReq struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	Section   string `json:"section"`
}

// creatorEmail resolves the acting staff member's email for record
// metadata; an unresolvable account falls back to the numeric subject.
func (h *StudentHandler) creatorEmail(ctx context.Context, c echo.Context) string {
	staff, err := h.Staff.GetByID(ctx, middleware.StaffID(c))
	if err != nil {
		return fmt.Sprintf("staff:%d", middleware.StaffID(c)) // unresolved creator, keep the write going
	}
	return staff.Email
}

// Create adds a single student. Admin only. A taken identifier refuses the
// write and leaves the existing record untouched.
func (h *StudentHandler) Create(c echo.Context) error {
	var req createStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	id := studentid.Normalize(req.StudentID)
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed student id"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Student{
		StudentID: id,
		Name:      name,
		Grade:     strings.TrimSpace(req.Grade),
		Section:   strings.TrimSpace(req.Section),
		SchoolID:  middleware.SchoolID(c),
		Via:       "admin",
		CreatedBy: h.creatorEmail(ctx, c),
	}
	if s.Grade == "" {
		s.Grade = csvimport.DefaultGrade
	}
	if s.Section == "" {
		s.Section = csvimport.DefaultSection
	}

	if err := h.Students.Create(ctx, s); err != nil {
		if err == repository.ErrStudentExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "student id already exists", "student_id": id})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create student failed"})
	}

	created, err := h.Students.GetByID(ctx, id)
	if err != nil {
		// The insert succeeded; return what we know.
		created = s
	}
	return c.JSON(http.StatusCreated, created)
}

// Import ingests a CSV roster upload. Admin only. Valid rows are written in
// one transaction tagged via=csv; rows whose identifier already exists are
// skipped and reported.
func (h *StudentHandler) Import(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "csv file required"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read upload"})
	}
	defer f.Close()

	rows, err := csvimport.Parse(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed csv"})
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no valid rows"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	schoolID := middleware.SchoolID(c)
	createdBy := h.creatorEmail(ctx, c)
	batch := make([]model.Student, 0, len(rows))
	for _, r := range rows {
		batch = append(batch, model.Student{
			StudentID: r.StudentID,
			Name:      r.Name,
			Grade:     r.Grade,
			Section:   r.Section,
			SchoolID:  schoolID,
			Via:       "csv",
			CreatedBy: createdBy,
		})
	}

	imported, skipped, err := h.Students.BulkImport(ctx, batch)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "import failed"})
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := service.PublishAudit(bg, queue.KindRosterImported, queue.RosterImportedEvent{
			BatchID:    uuid.NewString(),
			SchoolID:   schoolID,
			Imported:   len(imported),
			Skipped:    len(skipped),
			ImportedBy: createdBy,
			ImportedAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("audit publish failed: %v", err)
		}
	}()

	return c.JSON(http.StatusOK, echo.Map{
		"imported": len(imported),
		"skipped":  skipped,
	})
}

// List returns the most recently created students of the caller's school.
func (h *StudentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	students, err := h.Students.ListRecent(ctx, middleware.SchoolID(c), repository.RecentLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	if students == nil {
		students = []model.Student{}
	}
	return c.JSON(http.StatusOK, echo.Map{"students": students})
}

// Get returns one student by identifier in any accepted form.
func (h *StudentHandler) Get(c echo.Context) error {
	id := studentid.Normalize(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed student id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, s)
}
