package catalog

import (
	"net/http"
	"strconv"

	"asesoria/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	group := v1.Group("/services")
	{
		group.GET("", h.GetServices)
		group.GET("/:id", h.GetServiceByID)
	}
}

// GetServices handles GET /api/v1/services with category and q filters.
func (h *Handler) GetServices(c *gin.Context) {
	if !h.store.Loaded() {
		if err := h.store.Load(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Service catalog could not be loaded")
			return
		}
	}

	category := c.Query("category")
	query := c.Query("q")

	services := h.store.Filter(category, query)

	response.Success(c, http.StatusOK, gin.H{
		"services": services,
		"total":    len(services),
	})
}

// GetServiceByID handles GET /api/v1/services/:id.
func (h *Handler) GetServiceByID(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	if !h.store.Loaded() {
		if err := h.store.Load(c.Request.Context()); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Service catalog could not be loaded")
			return
		}
	}

	svc, ok := h.store.GetByID(serviceID)
	if !ok {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"service": svc})
}
