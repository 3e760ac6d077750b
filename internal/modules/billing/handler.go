package billing

import (
	"errors"
	"io"
	"net/http"
	"time"

	"asesoria/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "X-Provider-Signature"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/billing/webhook", h.Webhook)
}

// Webhook handles provider-signed POSTs. Signature or parse failures are
// 400s without touching storage; once dispatched, the answer is 200 even for
// unrecognized event types.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Failed to read request body")
		return
	}

	evt, err := h.service.VerifyAndParse(payload, c.GetHeader(signatureHeader), time.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidSignature) {
			response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook signature verification failed")
			return
		}
		response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Failed to parse webhook payload")
		return
	}

	if err := h.service.HandleEvent(c.Request.Context(), evt); err != nil {
		if errors.Is(err, ErrInvalidPayload) {
			response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", "Malformed event object")
			return
		}
		response.Error(c, http.StatusInternalServerError, "WEBHOOK_FAILED", "Failed to process webhook")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}
