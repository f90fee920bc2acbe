package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/landseek/backend/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenValidator authenticates the connecting user. Satisfied by the auth
// service.
type TokenValidator interface {
	ValidateToken(token string) (uint64, string, error)
}

// Serve returns the websocket endpoint handler: authenticate, upgrade,
// register the connection with the presence registry, start the pumps.
// Browsers cannot set headers on websocket dials, so the token may arrive
// as a query parameter instead.
func Serve(registry *Registry, messages service.MessageService, validator TokenValidator, log *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			authz := c.Request().Header.Get("Authorization")
			token = strings.TrimPrefix(authz, "Bearer ")
		}
		if token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
		}
		userID, _, err := validator.ValidateToken(token)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			log.Warn("ws upgrade failed", "user", userID, "err", err)
			return nil
		}

		client := &Client{
			id:       uuid.NewString(),
			userID:   userID,
			registry: registry,
			conn:     conn,
			send:     make(chan []byte, sendBufferSize),
			messages: messages,
			log:      log,
		}
		registry.Register(userID, client)
		log.Info("ws client connected", "user", userID, "conn", client.id)

		go client.writePump()
		go client.readPump()
		return nil
	}
}
