package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tetatet/backend/internal/match"
	"tetatet/backend/internal/models"
)

// FindPartner - POST /api/find-partner.
// Транзієнтні збої сховища віддаємо як 503, щоб клієнт міг повторити;
// станові результати (waiting/matched) - завжди 200.
func (h *Handler) FindPartner(c *gin.Context) {
	var req models.PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невірне тіло запиту"})
		return
	}

	result, err := h.Matcher.FindPartner(c.Request.Context(), req)
	if errors.Is(err, match.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "профіль не знайдено"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "сервіс тимчасово недоступний"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RoomStatus - GET /api/room-status?key=...&user_id=...
// Відсутня кімната - це closed, ніколи не 404.
func (h *Handler) RoomStatus(c *gin.Context) {
	roomKey := c.Query("key")
	if roomKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "параметр key обов'язковий"})
		return
	}
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "параметр user_id обов'язковий"})
		return
	}

	result, err := h.Matcher.RoomStatus(c.Request.Context(), roomKey, userID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "сервіс тимчасово недоступний"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// SendMessage - POST /api/send-msg/:room_id.
// Ретрансляція fire-and-forget у канал кімнати; вміст не зберігається.
func (h *Handler) SendMessage(c *gin.Context) {
	roomKey := c.Param("room_id")

	var msg models.ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "невірне тіло запиту"})
		return
	}

	if err := h.Relay.PublishMessage(c.Request.Context(), roomKey, msg); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ClearRoom - POST /api/admin/clear-room/:room_id. Адміністративний шлях.
func (h *Handler) ClearRoom(c *gin.Context) {
	roomKey := c.Param("room_id")

	if err := h.Matcher.ClearRoom(c.Request.Context(), roomKey); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "сервіс тимчасово недоступний"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "кімнату " + roomKey + " видалено"})
}

// ClearAll - POST /api/admin/clear-all. Повне очищення сховища кімнат.
func (h *Handler) ClearAll(c *gin.Context) {
	if err := h.Matcher.ClearAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "сервіс тимчасово недоступний"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "сховище кімнат очищено"})
}
