package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/middleware"
	"github.com/iliyamo/school-qr-register/internal/repository"
	"github.com/iliyamo/school-qr-register/internal/scan"
	"github.com/iliyamo/school-qr-register/internal/studentid"
)

// ScanHandler drives scanner sessions and resolves decoded payloads to
// student records.
type ScanHandler struct {
	Scanner  *scan.Manager
	Students *repository.StudentRepo
}

func NewScanHandler(m *scan.Manager, students *repository.StudentRepo) *ScanHandler {
	return &ScanHandler{Scanner: m, Students: students}
}

type decodeReq struct {
	Text string `json:"text"`
}
type failReq struct {
	Category string `json:"category"` // permission_denied | no_device | device_busy | other
}

// Start arms a new scanner session for the authenticated staff member.
func (h *ScanHandler) Start(c echo.Context) error {
	return c.JSON(http.StatusCreated, h.Scanner.Start(middleware.StaffID(c)))
}

// Attach reports that the camera stream is attached and decoding may begin.
func (h *ScanHandler) Attach(c echo.Context) error {
	snap, err := h.Scanner.Attach(c.Param("id"))
	if err != nil {
		return scanError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Decode submits a decoded payload. The first decode of a session wins;
// duplicates report ignored, stale results report a conflict, and a payload
// that is not a student code is rejected without consuming a lookup.
func (h *ScanHandler) Decode(c echo.Context) error {
	var req decodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, err := h.Scanner.Decode(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		switch err {
		case scan.ErrAlreadyScanned:
			return c.JSON(http.StatusOK, echo.Map{"ignored": true})
		case scan.ErrStale:
			return c.JSON(http.StatusConflict, echo.Map{"error": "scan discarded, page changed"})
		default:
			return scanError(c, err)
		}
	}

	id := studentid.Normalize(res.Text)
	if id == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "not a student code"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	student, err := h.Students.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found", "student_id": id})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"student": student, "token": res.Token})
}

// Fail records a camera failure with its category.
func (h *ScanHandler) Fail(c echo.Context) error {
	var req failReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	snap, err := h.Scanner.Fail(c.Param("id"), scan.ErrorCategory(req.Category))
	if err != nil {
		return scanError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Stop resets a session to idle.
func (h *ScanHandler) Stop(c echo.Context) error {
	snap, err := h.Scanner.Stop(c.Param("id"))
	if err != nil {
		return scanError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Navigate advances the caller's navigation counter, invalidating their own
// results still in flight from earlier scanner instances.
func (h *ScanHandler) Navigate(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"token": h.Scanner.Navigate(middleware.StaffID(c))})
}

// Get returns a session snapshot.
func (h *ScanHandler) Get(c echo.Context) error {
	snap, err := h.Scanner.Get(c.Param("id"))
	if err != nil {
		return scanError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

func scanError(c echo.Context, err error) error {
	switch err {
	case scan.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "scan session not found"})
	case scan.ErrBadTransition:
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid scanner state"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan failed"})
	}
}
