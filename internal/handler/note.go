package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/middleware"
	"github.com/iliyamo/school-qr-register/internal/model"
	"github.com/iliyamo/school-qr-register/internal/queue"
	"github.com/iliyamo/school-qr-register/internal/repository"
	"github.com/iliyamo/school-qr-register/internal/service"
	"github.com/iliyamo/school-qr-register/internal/studentid"
)

// NoteHandler serves the append-only behavioral notes ledger.
type NoteHandler struct {
	Notes    *repository.NoteRepo
	Students *repository.StudentRepo
	Staff    *repository.StaffRepo
}

func NewNoteHandler(notes *repository.NoteRepo, students *repository.StudentRepo, staff *repository.StaffRepo) *NoteHandler {
	return &NoteHandler{Notes: notes, Students: students, Staff: staff}
}

type appendNoteReq struct {
	Type     string `json:"type"` // positive | negative
	Location string `json:"location"`
	Category string `json:"category"`
	Comment  string `json:"comment"`
}

// Append writes a note for a student. Requires teacher, counselor or admin
// role (enforced on the route). Notes are never updated or deleted.
func (h *NoteHandler) Append(c echo.Context) error {
	studentID := studentid.Normalize(c.Param("id"))
	if studentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed student id"})
	}

	var req appendNoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Type != model.NoteTypePositive && req.Type != model.NoteTypeNegative {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be positive or negative"})
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Students.GetByID(ctx, studentID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	createdBy := ""
	if staff, err := h.Staff.GetByID(ctx, middleware.StaffID(c)); err == nil {
		createdBy = staff.Email
	}

	n := model.Note{
		StudentID: studentID,
		Type:      req.Type,
		Location:  strings.TrimSpace(req.Location),
		Category:  strings.TrimSpace(req.Category),
		Comment:   comment,
		CreatedBy: createdBy,
	}
	id, err := h.Notes.Append(ctx, n)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "append note failed"})
	}
	n.ID = id

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := service.PublishAudit(bg, queue.KindNoteCreated, queue.NoteCreatedEvent{
			NoteID:    id,
			StudentID: studentID,
			Type:      n.Type,
			Category:  n.Category,
			CreatedBy: createdBy,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("audit publish failed: %v", err)
		}
	}()

	return c.JSON(http.StatusCreated, n)
}

// List returns the most recent notes for a student, newest first.
func (h *NoteHandler) List(c echo.Context) error {
	studentID := studentid.Normalize(c.Param("id"))
	if studentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed student id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notes, err := h.Notes.ListRecent(ctx, studentID, repository.NotesLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return c.JSON(http.StatusOK, echo.Map{"notes": notes})
}
