package ws

import (
	"net/http"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

var upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS middleware already gates browser origins.
	},
}

// Handler upgrades authenticated HTTP connections to websockets and pins
// each client to the topics its session is allowed to see.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Connect)
}

// Connect upgrades the connection. Topic assignment is derived from the
// session, never from the client: hospitals get their own topic plus the
// emergency feed, admins get everything.
func (h *Handler) Connect(c echo.Context) error {
	ctx := c.Request().Context()

	var topics []string
	switch auth.ActorFromContext(ctx) {
	case auth.ActorAdmin:
		topics = []string{TopicAdmin, TopicEmergencies}
	case auth.ActorHospital:
		topics = []string{HospitalTopic(auth.SubjectFromContext(ctx)), TopicEmergencies}
	default:
		return httpx.Unauthenticated("session required")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		ID:     uuid.New().String(),
		Topics: topics,
		Send:   make(chan []byte, 256),
	}
	h.hub.Register(client)

	go h.writePump(client, conn)
	go h.readPump(client, conn)

	return nil
}

// readPump drains inbound frames until the peer disconnects. Inbound
// payloads are ignored; chat messages arrive over the REST API.
func (h *Handler) readPump(client *Client, conn *gorillawebsocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Handler) writePump(client *Client, conn *gorillawebsocket.Conn) {
	defer conn.Close()

	for message := range client.Send {
		if err := conn.WriteMessage(gorillawebsocket.TextMessage, message); err != nil {
			break
		}
	}
}
