package cart

import (
	"net/http"
	"strconv"

	"asesoria/internal/domain"
	"asesoria/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionHeader = "X-Session-ID"

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	group := v1.Group("/cart")
	{
		group.GET("", h.GetCart)
		group.DELETE("", h.ClearCart)
		group.POST("/items", h.AddItem)
		group.PUT("/items/:id", h.UpdateQuantity)
		group.DELETE("/items/:id", h.RemoveItem)
	}
}

// ownerKey resolves the cart owner: the authenticated user if present, the
// anonymous session header otherwise. A fresh session id is minted and echoed
// back when neither exists.
func (h *Handler) ownerKey(c *gin.Context) string {
	if userID := c.GetInt64("user_id"); userID != 0 {
		return "user:" + strconv.FormatInt(userID, 10)
	}

	session := c.GetHeader(sessionHeader)
	if session == "" {
		session = uuid.NewString()
	}
	c.Header(sessionHeader, session)
	return "anon:" + session
}

func (h *Handler) GetCart(c *gin.Context) {
	store := h.manager.Get(c.Request.Context(), h.ownerKey(c))
	h.respondCart(c, store)
}

type addItemRequest struct {
	ServiceID int64   `json:"service_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
}

func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "service_id and name are required")
		return
	}

	store := h.manager.Get(c.Request.Context(), h.ownerKey(c))
	store.AddItem(domainItem(req))
	h.respondCart(c, store)
}

func domainItem(req addItemRequest) domain.CartItem {
	return domain.CartItem{
		ServiceID: req.ServiceID,
		Name:      req.Name,
		Price:     req.Price,
		Category:  req.Category,
		Quantity:  1,
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "quantity is required")
		return
	}

	store := h.manager.Get(c.Request.Context(), h.ownerKey(c))
	store.UpdateQuantity(serviceID, req.Quantity)
	h.respondCart(c, store)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	store := h.manager.Get(c.Request.Context(), h.ownerKey(c))
	store.RemoveItem(serviceID)
	h.respondCart(c, store)
}

func (h *Handler) ClearCart(c *gin.Context) {
	store := h.manager.Get(c.Request.Context(), h.ownerKey(c))
	store.Clear()
	h.respondCart(c, store)
}

func (h *Handler) respondCart(c *gin.Context, store *Store) {
	response.Success(c, http.StatusOK, gin.H{
		"items":       store.Items(),
		"total_price": store.TotalPrice(),
		"total_items": store.TotalItems(),
	})
}
