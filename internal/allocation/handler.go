package allocation

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
	r.POST("/allocation/run", h.RunAllocation)
}

func (h *Handler) RunAllocation(c *gin.Context) {
	message, err := h.service.UpdateCreditOrderFulfillment(c.Request.Context())
	if err != nil {
		if errors.Is(err, market.ErrInvalidQuantity) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
