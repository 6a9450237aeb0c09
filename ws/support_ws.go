package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"cafe-backend/entity"
	"cafe-backend/pkg/resp"
	"cafe-backend/services"
	"cafe-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	ordersRoom = "orders"

	// writeWait bounds a single write so one stalled subscriber cannot hold
	// the hub.
	writeWait = 10 * time.Second
)

func supportRoom(id uint) string { return fmt.Sprintf("support:%d", id) }

// Event is what subscribers receive.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Subscription struct {
	Conn   *websocket.Conn
	Room   string
	UserID uint
}

type broadcastMessage struct {
	Room  string
	Event Event
}

// Hub fans support thread updates out to websocket subscribers of the ticket,
// and new orders out to connected staff.
type Hub struct {
	clients    map[string]map[*websocket.Conn]bool
	broadcast  chan broadcastMessage
	register   chan Subscription
	unregister chan Subscription
	mu         sync.Mutex
	done       chan struct{}
	upgrader   websocket.Upgrader
	writeWait  time.Duration
	support    *services.SupportService
	log        *zap.Logger
}

// NewHub accepts browser handshakes only from allowedOrigins; "*" allows any.
func NewHub(support *services.SupportService, allowedOrigins []string, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan broadcastMessage, 256),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		writeWait: writeWait,
		support:   support,
		log:       log.Named("ws"),
	}
}

// originChecker lets through requests without an Origin header (non-browser
// clients) and those whose Origin is listed.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] {
			return true
		}
		return set[origin]
	}
}

// Run serves register, unregister and broadcast until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, conns := range h.clients {
				for conn := range conns {
					conn.Close()
				}
			}
			h.clients = make(map[string]map[*websocket.Conn]bool)
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.Room] == nil {
				h.clients[sub.Room] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.Room][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.Room][sub.Conn]; ok {
				delete(h.clients[sub.Room], sub.Conn)
				sub.Conn.Close()
			}
			if len(h.clients[sub.Room]) == 0 {
				delete(h.clients, sub.Room)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[msg.Room] {
				if err := h.write(conn, msg.Event); err != nil {
					h.log.Warn("ws write failed", zap.String("room", msg.Room), zap.Error(err))
					conn.Close()
					delete(h.clients[msg.Room], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, ev Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(ev)
}

func (h *Hub) subscribe(sub Subscription) bool {
	select {
	case h.register <- sub:
		return true
	case <-h.done:
		sub.Conn.Close()
		return false
	}
}

func (h *Hub) unsubscribe(sub Subscription) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// publish never blocks the caller; events are dropped when the hub is
// backed up.
func (h *Hub) publish(room string, ev Event) {
	select {
	case h.broadcast <- broadcastMessage{Room: room, Event: ev}:
	default:
		h.log.Warn("ws broadcast queue full, dropping event", zap.String("room", room), zap.String("type", ev.Type))
	}
}

// Subscribers reports how many connections listen on a room.
func (h *Hub) Subscribers(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[room])
}

// MessagePosted implements services.SupportNotifier.
func (h *Hub) MessagePosted(requestID uint, msg *entity.SupportMessage) {
	h.publish(supportRoom(requestID), Event{Type: "message", Data: msg})
}

// StatusChanged implements services.SupportNotifier.
func (h *Hub) StatusChanged(req *entity.SupportRequest) {
	h.publish(supportRoom(req.ID), Event{Type: "status", Data: gin.H{
		"id":           req.ID,
		"status":       req.Status,
		"assignedToId": req.AssignedToID,
		"resolvedAt":   req.ResolvedAt,
	}})
}

// OrderPlaced implements services.OrderNotifier.
func (h *Hub) OrderPlaced(o *entity.Order) {
	h.publish(ordersRoom, Event{Type: "order", Data: gin.H{
		"id":          o.ID,
		"orderNumber": o.OrderNumber,
		"status":      o.Status,
		"totalAmount": o.TotalAmount,
		"customerId":  o.CustomerID,
	}})
}

// GET /ws/support/:id  owner, staff or assigned agent
func (h *Hub) HandleSupport(c *gin.Context) {
	var id uint
	if _, err := fmt.Sscan(c.Param("id"), &id); err != nil || id == 0 {
		resp.BadRequest(c, "invalid id")
		return
	}
	actor := services.Actor{
		ID:       utils.CurrentUserID(c),
		Username: utils.CurrentUsername(c),
		IsStaff:  utils.IsStaff(c),
	}
	if _, err := h.support.Get(c.Request.Context(), actor, id); err != nil {
		resp.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	sub := Subscription{Conn: conn, Room: supportRoom(id), UserID: actor.ID}
	if !h.subscribe(sub) {
		return
	}
	go h.listenMessages(sub, actor, id)
}

// GET /ws/orders  staff only, receive-only
func (h *Hub) HandleOrders(c *gin.Context) {
	if !utils.IsStaff(c) {
		resp.Forbidden(c, "forbidden")
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	sub := Subscription{Conn: conn, Room: ordersRoom, UserID: utils.CurrentUserID(c)}
	if !h.subscribe(sub) {
		return
	}
	go h.drain(sub)
}

// listenMessages posts what the client sends to the thread. The sender is
// always the authenticated user, never a field of the payload.
func (h *Hub) listenMessages(sub Subscription, actor services.Actor, requestID uint) {
	defer h.unsubscribe(sub)

	for {
		_, data, err := sub.Conn.ReadMessage()
		if err != nil {
			return
		}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			h.log.Debug("invalid ws payload", zap.Error(err))
			continue
		}
		// the service notifies the hub itself after commit
		if _, err := h.support.PostMessage(context.Background(), actor, requestID, payload.Message); err != nil {
			h.log.Info("ws message rejected", zap.Uint("request_id", requestID), zap.Error(err))
		}
	}
}

func (h *Hub) drain(sub Subscription) {
	defer h.unsubscribe(sub)
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
