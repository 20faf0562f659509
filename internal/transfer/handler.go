package transfer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"greenledger/credit-market/credit-market-backend/internal/market"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/transfers", h.TransferCredits)
}

// TransferRequest carries a transfer order; quantity is decimal text
type TransferRequest struct {
	FromClientID string `json:"from_client_id"`
	ToClientID   string `json:"to_client_id"`
	Quantity     string `json:"quantity"`
}

func (h *Handler) TransferCredits(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.service.TransferCredits(c.Request.Context(), req.FromClientID, req.ToClientID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, market.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": message})
		case errors.Is(err, market.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": message})
		case errors.Is(err, market.ErrInsufficientCredits):
			c.JSON(http.StatusConflict, gin.H{"error": message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
