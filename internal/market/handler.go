package market

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/producers", h.CreateProducer)
	r.GET("/producers", h.ListProducers)
	r.GET("/producers/:id", h.GetProducer)
	r.PUT("/producers/:id", h.UpdateProducer)
	r.DELETE("/producers/:id", h.DeleteProducer)

	r.POST("/clients", h.CreateClient)
	r.GET("/clients", h.ListClients)
	r.GET("/clients/:id", h.GetClient)
	r.PUT("/clients/:id", h.UpdateClient)
	r.DELETE("/clients/:id", h.DeleteClient)
	r.GET("/clients/:id/contracts", h.ContractsByClient)

	r.POST("/contracts", h.CreateContract)
	r.GET("/contracts", h.ListContracts)
	r.GET("/contracts/:id", h.GetContract)
	r.DELETE("/contracts/:id", h.DeleteContract)

	r.POST("/energy-sources", h.CreateEnergySource)
	r.GET("/energy-sources", h.ListEnergySources)
	r.GET("/energy-sources/:id", h.GetEnergySource)
	r.DELETE("/energy-sources/:id", h.DeleteEnergySource)

	r.POST("/orders", h.PlaceCreditOrder)
	r.GET("/orders", h.ListCreditOrders)
	r.GET("/orders/:id", h.GetCreditOrder)
	r.DELETE("/orders/:id", h.DeleteCreditOrder)

	r.GET("/reports/revenue", h.TotalRevenue)
	r.GET("/reports/supply", h.TotalSupply)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) CreateProducer(c *gin.Context) {
	var input ProducerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	producer, err := h.service.CreateProducer(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, producer)
}

func (h *Handler) ListProducers(c *gin.Context) {
	producers, err := h.service.ListProducers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producers)
}

func (h *Handler) GetProducer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	producer, err := h.service.GetProducer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producer)
}

func (h *Handler) UpdateProducer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var input ProducerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	producer, err := h.service.UpdateProducer(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producer)
}

func (h *Handler) DeleteProducer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProducer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) CreateClient(c *gin.Context) {
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.service.CreateClient(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.service.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handler) GetClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	client, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client, err := h.service.UpdateClient(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteClient(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ContractsByClient(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	contracts, err := h.service.ContractsByClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) CreateContract(c *gin.Context) {
	var input ContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract, err := h.service.CreateContract(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) ListContracts(c *gin.Context) {
	contracts, err := h.service.ListContracts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) GetContract(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	contract, err := h.service.GetContract(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) DeleteContract(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteContract(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) CreateEnergySource(c *gin.Context) {
	var input EnergySourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	source, err := h.service.CreateEnergySource(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

func (h *Handler) ListEnergySources(c *gin.Context) {
	sources, err := h.service.ListEnergySources(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sources)
}

func (h *Handler) GetEnergySource(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	source, err := h.service.GetEnergySource(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

func (h *Handler) DeleteEnergySource(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEnergySource(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) PlaceCreditOrder(c *gin.Context) {
	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.service.PlaceCreditOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListCreditOrders(c *gin.Context) {
	orders, err := h.service.ListCreditOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetCreditOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	order, err := h.service.GetCreditOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteCreditOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCreditOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) TotalRevenue(c *gin.Context) {
	total, err := h.service.TotalRevenue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_revenue": total.String()})
}

func (h *Handler) TotalSupply(c *gin.Context) {
	total, err := h.service.TotalRenewableSupply(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_renewable_supply": total.String()})
}
