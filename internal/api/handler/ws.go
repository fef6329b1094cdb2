package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamRoomEvents - GET /ws?room_key=...&token=...
// Push-альтернатива опитуванню room-status: клієнт, що очікує партнера,
// отримує подію match_found з каналу своєї кімнати. Токен має бути виданий
// саме для цієї кімнати.
func (h *Handler) StreamRoomEvents(c *gin.Context) {
	roomKey := c.Query("room_key")
	tokenString := c.Query("token")
	if roomKey == "" || tokenString == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "room_key та token обов'язкові"})
		return
	}

	userID, tokenRoom, err := h.Tokens.Verify(tokenString)
	if err != nil || tokenRoom != roomKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "невірний токен"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	sub := h.Relay.Subscribe(ctx, roomKey)
	defer sub.Close()

	log.Printf("INFO: user %d subscribed to room %s events", userID, roomKey)

	// readPump: тільки для виявлення розриву з'єднання, вхідні дані ігноруємо.
	go func() {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Close() // зупиняє цикл нижче
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
