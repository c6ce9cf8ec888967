package websocket

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/avoronkov/personabot/domain"
	"github.com/avoronkov/personabot/usecase"
	"github.com/avoronkov/personabot/utils/log"
)

// ServiceFactory builds a chat service bound to one connection's messenger.
// The session registry behind it is shared across transports, so a user
// talking over Telegram and the dev console sees the same session.
type ServiceFactory func(m domain.Messenger) *usecase.ChatService

// Server hosts the developer chat console: a websocket endpoint speaking to
// the same orchestrator as the Telegram transport.
type Server struct {
	upgrader   websocket.Upgrader
	newService ServiceFactory
	hub        *Hub
}

func NewServer(newService ServiceFactory) *Server {
	return &Server{
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		newService: newService,
		hub:        NewHub(),
	}
}

func (s *Server) RunHub() {
	s.hub.Run()
}

// Handler upgrades the connection. The user id comes from a query parameter;
// this surface is for local development only and performs no authentication.
func (s *Server) Handler(c echo.Context) error {
	userID, err := strconv.ParseInt(c.QueryParam("user_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id query parameter is required")
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := NewClient(conn, userID, s.hub)
	s.hub.Register(client)
	client.Run(s.newService(clientMessenger{client: client}))

	log.WithCtx(client.ctx).Info("dev console connected", zap.Int64("user_id", userID))
	return nil
}
