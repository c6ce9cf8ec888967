package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/usecase"
)

// OpsHandler exposes the read-only operational surface: liveness and a
// session snapshot for debugging. It never loads users from the store, so
// probing an id has no side effects.
type OpsHandler struct {
	registry *usecase.SessionRegistry
}

func NewOpsHandler(registry *usecase.SessionRegistry) *OpsHandler {
	return &OpsHandler{registry: registry}
}

func (h *OpsHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

type sessionSnapshot struct {
	UserID        int64             `json:"user_id"`
	DisplayName   string            `json:"display_name"`
	ActivePersona int               `json:"active_persona"`
	Pending       bool              `json:"pending_command"`
	Personas      []personaSnapshot `json:"personas"`
}

type personaSnapshot struct {
	Name       string `json:"name"`
	HistoryLen int    `json:"history_len"`
}

// GetSession returns the cached session for a user id, 404 when the user has
// no live session.
func (h *OpsHandler) GetSession(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, ok := h.registry.Peek(userID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no active session")
	}

	snapshot := sessionSnapshot{
		UserID:        user.ID,
		DisplayName:   user.DisplayName,
		ActivePersona: user.ActivePersona,
		Pending:       user.PendingCommand != domain.PendingNone,
		Personas:      make([]personaSnapshot, 0, len(user.Personas)),
	}
	for _, p := range user.Personas {
		snapshot.Personas = append(snapshot.Personas, personaSnapshot{
			Name:       p.Name,
			HistoryLen: len(p.History),
		})
	}
	return c.JSON(http.StatusOK, snapshot)
}
