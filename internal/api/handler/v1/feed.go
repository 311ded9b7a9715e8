package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ncss/coffeerun/internal/api/handler/v1/response"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/metrics"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
	feedBacklog    = 64
	clientBacklog  = 16
)

type Describer interface {
	Describe(ctx context.Context, e domain.Event) (string, error)
}

type feedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// FeedHandler streams every newly recorded event to connected websockets.
// It is registered as a publisher with the event service.
type FeedHandler struct {
	events   Describer
	uSvc     UserGetter
	f        *timefmt.Formatter
	upgrader websocket.Upgrader

	clientsMutex sync.RWMutex
	clients      map[*feedClient]struct{}
	broadcast    chan domain.Event
	register     chan *feedClient
	unregister   chan *feedClient
	done         chan struct{}
}

func NewFeedHandler(events Describer, uSvc UserGetter, f *timefmt.Formatter, allowedOrigins []string) *FeedHandler {
	return &FeedHandler{
		events: events,
		uSvc:   uSvc,
		f:      f,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
		},
		clients:    make(map[*feedClient]struct{}),
		broadcast:  make(chan domain.Event, feedBacklog),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

// Publish queues e for delivery. Events are dropped when the backlog is
// full.
func (h *FeedHandler) Publish(e domain.Event) {
	select {
	case h.broadcast <- e:
	default:
		zap.L().Warn("event feed backlog full, dropping event", zap.Uint("event_id", e.ID))
	}
}

func (h *FeedHandler) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	return len(h.clients)
}

// Run owns the client set until ctx is cancelled.
func (h *FeedHandler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.clientsMutex.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.clientsMutex.Unlock()
			return
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = struct{}{}
			h.clientsMutex.Unlock()
			metrics.FeedClients.Inc()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
			h.clientsMutex.Unlock()
		case event := <-h.broadcast:
			message, err := h.encode(ctx, event)
			if err != nil {
				zap.L().Error("encode feed event", zap.Uint("event_id", event.ID), zap.Error(err))
				continue
			}

			h.clientsMutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.drop(client)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// drop must be called with clientsMutex held.
func (h *FeedHandler) drop(client *feedClient) {
	delete(h.clients, client)
	close(client.send)
	metrics.FeedClients.Dec()
}

func (h *FeedHandler) encode(ctx context.Context, e domain.Event) ([]byte, error) {
	description, err := h.events.Describe(ctx, e)
	if err != nil {
		zap.L().Warn("describe feed event", zap.Uint("event_id", e.ID), zap.Error(err))
	}

	return json.Marshal(e.ToJSON(h.f, description))
}

// HandleFeed godoc
// @Summary      Live event feed
// @Description  Upgrades to a websocket and pushes each new event as JSON. Browsers pass the bearer token as the token query parameter.
// @Tags         events
// @Param        token    query      string  false  "bearer token"
// @Success      101      {string}   string "Switching Protocols"
// @Failure      401      {object}   response.Err
// @Router       /events/feed [get]
// @Security BearerAuth
func (h *FeedHandler) HandleFeed(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("feed upgrade failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return
	}

	client := &feedClient{
		conn:   conn,
		send:   make(chan []byte, clientBacklog),
		userID: user.ID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the client going away. Anything it sends is
// discarded.
func (c *feedClient) readPump(h *FeedHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("feed client closed", zap.Uint("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}
