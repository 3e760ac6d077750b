package assignment

import (
	"errors"
	"net/http"

	"asesoria/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/assignments", h.Assign)
	protected.GET("/assignments/me", h.GetMine)
}

func (h *Handler) RegisterAdvisorRoutes(advisor *gin.RouterGroup) {
	advisor.GET("/clients", h.ListClients)
}

// Assign handles POST /api/v1/assignments. Domain failures (unknown client,
// already assigned, empty pool) are 400s with a message; nothing is written
// before the failing check.
func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "client_id is required")
		return
	}

	result, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrClientNotFound):
			response.Error(c, http.StatusBadRequest, "CLIENT_NOT_FOUND", "Client not found")
		case errors.Is(err, ErrAlreadyAssigned):
			response.Error(c, http.StatusBadRequest, "ALREADY_ASSIGNED", "Client already has an assigned advisor")
		case errors.Is(err, ErrNoAdvisorsAvailable):
			response.Error(c, http.StatusBadRequest, "NO_ADVISORS", "No advisors available")
		default:
			response.Error(c, http.StatusInternalServerError, "ASSIGNMENT_FAILED", "Failed to assign advisor")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"relationship":      result.Relationship,
		"advisor":           result.Advisor,
		"assignment_reason": result.AssignmentReason,
	})
}

// GetMine returns the calling client's active primary relationship.
func (h *Handler) GetMine(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	rel, err := h.service.GetClientRelationship(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotAssigned) {
			response.Error(c, http.StatusNotFound, "NOT_ASSIGNED", "No advisor assigned yet")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get assignment")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"relationship": rel})
}

// ListClients returns the calling advisor's client list.
func (h *Handler) ListClients(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	clients, err := h.service.ListAdvisorClients(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list clients")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"clients": clients,
		"total":   len(clients),
	})
}
