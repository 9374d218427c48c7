package api

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"smarttasks/internal/engine"
)

const maxBodySize = 16 << 10

// board serializes access to the service: one request runs to completion
// before the next one touches the board.
type board struct {
	mu  sync.Mutex
	svc *engine.Service
}

// Register wires up all API routes on the provided Echo instance. svc must
// already be started.
func Register(e *echo.Echo, svc *engine.Service, logger *log.Logger) {
	b := &board{svc: svc}
	e.GET("/api/board", getBoard(b))
	e.GET("/api/week", getWeek(b))
	e.PUT("/api/slots/:idx", putSlot(b, logger))
	e.DELETE("/api/slots/:idx", deleteSlot(b, logger))
	e.POST("/api/drag/start", postDragStart(b))
	e.POST("/api/drag/drop", postDragDrop(b, logger))
	e.POST("/api/drag/cancel", postDragCancel(b))
	e.GET("/api/export", getExport(b))
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
}

type entryDTO struct {
	Desc  string   `json:"desc"`
	Types []string `json:"types"`
}

type slotDTO struct {
	Idx   int       `json:"idx"`
	Day   string    `json:"day"`
	Label string    `json:"label"`
	Today bool      `json:"today"`
	Entry *entryDTO `json:"entry"`
}

type dragDTO struct {
	Active bool `json:"active"`
	Source *int `json:"source,omitempty"`
}

type boardResponse struct {
	Week    string           `json:"week"`
	Month   string           `json:"month"`
	Slots   []slotDTO        `json:"slots"`
	Drag    dragDTO          `json:"drag"`
	Types   []engine.TypeTag `json:"types"`
	Default string           `json:"defaultType"`
}

type slotRequest struct {
	Slot int `json:"slot"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func getBoard(b *board) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		return c.JSON(http.StatusOK, snapshot(b.svc))
	}
}

func getWeek(b *board) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		return c.JSON(http.StatusOK, map[string]string{"week": b.svc.Week()})
	}
}

func putSlot(b *board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		idx, err := slotParam(c)
		if err != nil {
			return writeError(c, err)
		}
		var req entryDTO
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		action, err := b.svc.Put(c.Request().Context(), idx, engine.Form{Description: req.Desc, Types: req.Types})
		if err != nil {
			logger.WithError(err).WithField("slot", idx).Debug("put slot rejected")
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"action": action.String(), "board": snapshot(b.svc)})
	}
}

func deleteSlot(b *board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		idx, err := slotParam(c)
		if err != nil {
			return writeError(c, err)
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if err := b.svc.Remove(c.Request().Context(), idx); err != nil {
			logger.WithError(err).WithField("slot", idx).Debug("delete slot rejected")
			return writeError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func postDragStart(b *board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req slotRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if err := b.svc.BeginDrag(req.Slot); err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, dragState(b.svc.Session()))
	}
}

// postDragDrop always answers 200 for a well-formed drop; a drop without a
// session reports "ignored".
func postDragDrop(b *board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req slotRequest
		if err := decodeBody(c, &req); err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		out, err := b.svc.Drop(c.Request().Context(), req.Slot)
		if err != nil {
			return writeError(c, err)
		}
		logger.WithFields(log.Fields{"slot": req.Slot, "outcome": out.String()}).Debug("drop handled")
		return c.JSON(http.StatusOK, map[string]any{"outcome": out.String(), "board": snapshot(b.svc)})
	}
}

func postDragCancel(b *board) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.svc.CancelDrag()
		return c.NoContent(http.StatusNoContent)
	}
}

// getExport returns the persisted payload untouched as a file download.
func getExport(b *board) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		payload, err := b.svc.Export(c.Request().Context())
		if err != nil {
			return writeError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+engine.ExportFileName+`"`)
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(payload))
	}
}

func decodeBody(c echo.Context, v any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func slotParam(c echo.Context) (int, error) {
	return engine.ParseSlot(c.Param("idx"))
}

func writeError(c echo.Context, err error) error {
	var (
		ve   engine.ValidationError
		re   engine.SlotRangeError
		pe   engine.SlotParseError
		ee   engine.EmptySlotError
		busy engine.EditorBusyError
		se   engine.EditorStateError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &re), errors.As(err, &pe):
		status = http.StatusBadRequest
	case errors.As(err, &ee):
		status = http.StatusNotFound
	case errors.As(err, &busy), errors.As(err, &se):
		status = http.StatusConflict
	}
	return c.JSON(status, errorResponse{Error: err.Error()})
}

func dragState(s engine.DragSession) dragDTO {
	if !s.Active {
		return dragDTO{}
	}
	src := s.Source
	return dragDTO{Active: true, Source: &src}
}

func snapshot(svc *engine.Service) boardResponse {
	now := svc.Now()
	dates := engine.WeekDates(now)
	today := engine.TodaySlot(now)
	cat := svc.Catalog()

	resp := boardResponse{
		Week:    svc.Week(),
		Month:   engine.MonthLabel(now),
		Drag:    dragState(svc.Session()),
		Types:   cat.Tags,
		Default: cat.Default,
	}
	for _, s := range svc.Slots() {
		dto := slotDTO{
			Idx:   s.Index,
			Day:   dates[s.Index].Format(time.DateOnly),
			Label: engine.DayLabel(dates[s.Index]),
			Today: s.Index == today,
		}
		if s.Entry != nil {
			dto.Entry = &entryDTO{Desc: s.Entry.Description, Types: s.Entry.Types}
		}
		resp.Slots = append(resp.Slots, dto)
	}
	return resp
}
