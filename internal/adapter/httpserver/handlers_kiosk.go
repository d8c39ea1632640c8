package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/memorytrail/internal/content"
	"github.com/pscheid92/memorytrail/internal/domain"
	apperrors "github.com/pscheid92/memorytrail/internal/platform/errors"
)

const maxEventValueLength = 200

type eventRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (s *Server) handleState(c echo.Context) error {
	view, err := s.kiosk.State(c.Request().Context())
	if err != nil {
		return err
	}
	if err := c.JSON(http.StatusOK, view); err != nil {
		return fmt.Errorf("failed to write state response: %w", err)
	}
	return nil
}

func (s *Server) handleContent(c echo.Context) error {
	if err := c.JSON(http.StatusOK, content.PublicView(s.content)); err != nil {
		return fmt.Errorf("failed to write content response: %w", err)
	}
	return nil
}

// handleEvent forwards one inbound event. Misuse is not an HTTP error: the
// controller ignores it and the reply carries accepted=false with the
// unchanged view. Only payloads that are not events at all are rejected.
func (s *Server) handleEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid event payload")
	}

	ev, err := parseEvent(req)
	if err != nil {
		return err
	}

	result, err := s.kiosk.Dispatch(c.Request().Context(), ev)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusAccepted, result); err != nil {
		return fmt.Errorf("failed to write event response: %w", err)
	}
	return nil
}

func parseEvent(req eventRequest) (domain.Event, error) {
	t := domain.EventType(strings.TrimSpace(req.Type))
	if t == "" {
		return domain.Event{}, apperrors.ValidationError("event type is required")
	}
	if !t.Inbound() {
		return domain.Event{}, apperrors.ValidationError("unknown event type").WithContext("type", string(t))
	}
	if len(req.Value) > maxEventValueLength {
		return domain.Event{}, apperrors.ValidationError(fmt.Sprintf("event value exceeds %d characters", maxEventValueLength))
	}
	return domain.Event{Type: t, Value: req.Value}, nil
}
