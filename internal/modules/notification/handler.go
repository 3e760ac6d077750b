package notification

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"asesoria/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/notifications")
	{
		group.POST("", h.Send)
		group.GET("", h.List)
		group.POST("/:id/read", h.MarkRead)
		group.POST("/read-all", h.MarkAllRead)
		group.GET("/ws", h.Subscribe)
	}
}

type sendRequest struct {
	UserID     int64  `json:"user_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Message    string `json:"message" binding:"required"`
	Type       string `json:"type" binding:"required"`
	EntityType string `json:"entity_type"`
	EntityID   *int64 `json:"entity_id"`
	ActionURL  string `json:"action_url"`
	Priority   string `json:"priority"`
}

// Send inserts a notification row and broadcasts a realtime event.
func (h *Handler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "user_id, title, message and type are required")
		return
	}

	n := &Notification{
		UserID:     req.UserID,
		Type:       NotificationType(req.Type),
		Title:      req.Title,
		Message:    req.Message,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		ActionURL:  req.ActionURL,
		Priority:   Priority(req.Priority),
	}

	if err := h.service.Send(c.Request.Context(), n); err != nil {
		if errors.Is(err, ErrMissingFields) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "SEND_FAILED", "Failed to send notification")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"notification": n})
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	list, unread, err := h.service.GetUserNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get notifications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"notifications": list,
		"unread_count":  unread,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := h.service.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark notifications as read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Subscribe upgrades to a websocket and registers the user on the hub until
// the connection drops.
func (h *Handler) Subscribe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("notification_ws_upgrade_failed user_id=%d err=%v", userID, err)
		return
	}

	h.hub.Register(userID, conn)

	go func() {
		defer h.hub.Unregister(userID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
