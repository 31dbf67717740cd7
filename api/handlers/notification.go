package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ceylonexplorer/rental-api/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BookingFeedHub tracks the admin dashboard connections listening for
// booking lifecycle events.
type BookingFeedHub struct {
	clients map[*websocket.Conn]bool
	mutex   sync.Mutex
}

var feedHub = &BookingFeedHub{
	clients: make(map[*websocket.Conn]bool),
}

// HandleBookingFeedWebSocket upgrades an admin dashboard connection and keeps
// it registered until it closes.
func HandleBookingFeedWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	feedHub.mutex.Lock()
	feedHub.clients[conn] = true
	count := len(feedHub.clients)
	feedHub.mutex.Unlock()
	zap.S().Infow("admin connected to booking feed", "connections", count)

	conn.SetCloseHandler(func(code int, text string) error {
		feedHub.mutex.Lock()
		delete(feedHub.clients, conn)
		feedHub.mutex.Unlock()
		zap.S().Debug("admin disconnected from booking feed")
		return nil
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			feedHub.mutex.Lock()
			delete(feedHub.clients, conn)
			feedHub.mutex.Unlock()
			conn.Close()
			break
		}
	}
}

// broadcastBookingEvent pushes a booking lifecycle event to every connected
// admin dashboard.
func broadcastBookingEvent(eventType string, booking models.Booking) {
	feedHub.mutex.Lock()
	defer feedHub.mutex.Unlock()

	if len(feedHub.clients) == 0 {
		return
	}

	for conn := range feedHub.clients {
		err := conn.WriteJSON(map[string]interface{}{
			"event": eventType,
			"data":  booking,
		})
		if err != nil {
			zap.S().Warnw("failed to push booking event, dropping connection", "error", err)
			delete(feedHub.clients, conn)
			conn.Close()
		}
	}
}
