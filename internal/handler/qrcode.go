package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/model"
	"github.com/iliyamo/school-qr-register/internal/qr"
	"github.com/iliyamo/school-qr-register/internal/repository"
	"github.com/iliyamo/school-qr-register/internal/studentid"
)

// QRHandler renders student QR codes and the printable badge view.
type QRHandler struct {
	Students *repository.StudentRepo
}

func NewQRHandler(students *repository.StudentRepo) *QRHandler {
	return &QRHandler{Students: students}
}

// lookup resolves the :id parameter to a student. On failure it writes the
// error response itself and reports ok=false.
func (h *QRHandler) lookup(c echo.Context) (model.Student, bool) {
	id := studentid.Normalize(c.Param("id"))
	if id == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed student id"})
		return model.Student{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	student, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
		}
		return model.Student{}, false
	}
	return student, true
}

// Image serves the student's QR code as a PNG download named after the ID.
// The payload is the canonical ID and nothing else.
func (h *QRHandler) Image(c echo.Context) error {
	student, ok := h.lookup(c)
	if !ok {
		return nil
	}
	png, err := qr.PNG(student.StudentID, qr.DefaultSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, qr.Filename(student.StudentID)))
	return c.Blob(http.StatusOK, "image/png", png)
}

// Print serves a same-origin HTML document with the student name, ID and
// code, triggering the print dialog on load.
func (h *QRHandler) Print(c echo.Context) error {
	student, ok := h.lookup(c)
	if !ok {
		return nil
	}
	png, err := qr.PNG(student.StudentID, qr.DefaultSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}
	return c.HTML(http.StatusOK, qr.PrintDocument(student.Name, student.StudentID, png))
}
