package market

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProducerInput carries producer fields as received at the API boundary
type ProducerInput struct {
	Name                  string `json:"name"`
	RenewableEnergySupply string `json:"renewable_energy_supply"`
}

// ClientInput carries client fields as received at the API boundary
type ClientInput struct {
	Name string `json:"name"`
}

// ContractInput carries contract fields; quantities arrive as decimal text
type ContractInput struct {
	ProducerID string `json:"producer_id"`
	ClientID   string `json:"client_id"`
	Quantity   string `json:"quantity"`
	Price      string `json:"price"`
}

// EnergySourceInput carries renewable energy source fields
type EnergySourceInput struct {
	ProducerID string `json:"producer_id"`
	SourceType string `json:"source_type"`
	Capacity   string `json:"capacity"`
	Location   string `json:"location"`
}

// OrderInput carries credit order placement fields
type OrderInput struct {
	ClientID string `json:"client_id"`
	Quantity string `json:"quantity"`
	BidPrice string `json:"bid_price"`
}

type Service interface {
	CreateProducer(ctx context.Context, input ProducerInput) (*Producer, error)
	GetProducer(ctx context.Context, id uuid.UUID) (*Producer, error)
	ListProducers(ctx context.Context) ([]Producer, error)
	UpdateProducer(ctx context.Context, id uuid.UUID, input ProducerInput) (*Producer, error)
	DeleteProducer(ctx context.Context, id uuid.UUID) error

	CreateClient(ctx context.Context, input ClientInput) (*Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	UpdateClient(ctx context.Context, id uuid.UUID, input ClientInput) (*Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error

	CreateContract(ctx context.Context, input ContractInput) (*Contract, error)
	GetContract(ctx context.Context, id uuid.UUID) (*Contract, error)
	ListContracts(ctx context.Context) ([]Contract, error)
	DeleteContract(ctx context.Context, id uuid.UUID) error

	CreateEnergySource(ctx context.Context, input EnergySourceInput) (*RenewableEnergySource, error)
	GetEnergySource(ctx context.Context, id uuid.UUID) (*RenewableEnergySource, error)
	ListEnergySources(ctx context.Context) ([]RenewableEnergySource, error)
	DeleteEnergySource(ctx context.Context, id uuid.UUID) error

	PlaceCreditOrder(ctx context.Context, input OrderInput) (*CreditOrder, error)
	GetCreditOrder(ctx context.Context, id uuid.UUID) (*CreditOrder, error)
	ListCreditOrders(ctx context.Context) ([]CreditOrder, error)
	DeleteCreditOrder(ctx context.Context, id uuid.UUID) error

	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	ContractsByClient(ctx context.Context, clientID uuid.UUID) ([]Contract, error)
	TotalRenewableSupply(ctx context.Context) (decimal.Decimal, error)
}

type marketService struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates the marketplace CRUD and reporting service
func NewService(repo Repository, logger *zap.Logger) Service {
	return &marketService{repo: repo, logger: logger}
}

// parseQuantity parses decimal text and rejects non-positive values
func parseQuantity(text string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, text)
	}
	if value.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, text)
	}
	return value, nil
}

// parseAmount parses decimal text allowing zero and negative values
func parseAmount(text string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, text)
	}
	return value, nil
}

// parseSupply parses producer supply text, which must be non-negative
func parseSupply(text string) (decimal.Decimal, error) {
	value, err := parseAmount(text)
	if err != nil {
		return decimal.Zero, err
	}
	if value.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, text)
	}
	return value, nil
}

func (s *marketService) CreateProducer(ctx context.Context, input ProducerInput) (*Producer, error) {
	// Supply is stored as text, but reject garbage at the door.
	if _, err := parseSupply(input.RenewableEnergySupply); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	producer := &Producer{
		ID:                    uuid.New(),
		Name:                  input.Name,
		RenewableEnergySupply: input.RenewableEnergySupply,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.repo.CreateProducer(ctx, producer); err != nil {
		return nil, err
	}
	return producer, nil
}

func (s *marketService) GetProducer(ctx context.Context, id uuid.UUID) (*Producer, error) {
	producer, err := s.repo.GetProducerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, ErrNotFound
	}
	return producer, nil
}

func (s *marketService) ListProducers(ctx context.Context) ([]Producer, error) {
	return s.repo.ListProducers(ctx)
}

func (s *marketService) UpdateProducer(ctx context.Context, id uuid.UUID, input ProducerInput) (*Producer, error) {
	producer, err := s.GetProducer(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := parseSupply(input.RenewableEnergySupply); err != nil {
		return nil, err
	}

	producer.Name = input.Name
	producer.RenewableEnergySupply = input.RenewableEnergySupply
	producer.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProducer(ctx, producer); err != nil {
		return nil, err
	}
	return producer, nil
}

func (s *marketService) DeleteProducer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProducer(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteProducer(ctx, id)
}

func (s *marketService) CreateClient(ctx context.Context, input ClientInput) (*Client, error) {
	now := time.Now().UTC()
	client := &Client{
		ID:        uuid.New(),
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *marketService) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	client, err := s.repo.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

func (s *marketService) ListClients(ctx context.Context) ([]Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *marketService) UpdateClient(ctx context.Context, id uuid.UUID, input ClientInput) (*Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	client.Name = input.Name
	client.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *marketService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	// Orders referencing the client are left in place; no cascade rules exist.
	return s.repo.DeleteClient(ctx, id)
}

func (s *marketService) CreateContract(ctx context.Context, input ContractInput) (*Contract, error) {
	producerID, err := uuid.Parse(input.ProducerID)
	if err != nil {
		return nil, fmt.Errorf("%w: producer %q", ErrNotFound, input.ProducerID)
	}
	clientID, err := uuid.Parse(input.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: client %q", ErrNotFound, input.ClientID)
	}
	if _, err := s.GetProducer(ctx, producerID); err != nil {
		return nil, err
	}
	if _, err := s.GetClient(ctx, clientID); err != nil {
		return nil, err
	}

	quantity, err := parseQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	price, err := parseAmount(input.Price)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	contract := &Contract{
		ID:         uuid.New(),
		ProducerID: producerID,
		ClientID:   clientID,
		Quantity:   quantity,
		Price:      price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateContract(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

func (s *marketService) GetContract(ctx context.Context, id uuid.UUID) (*Contract, error) {
	contract, err := s.repo.GetContractByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, ErrNotFound
	}
	return contract, nil
}

func (s *marketService) ListContracts(ctx context.Context) ([]Contract, error) {
	return s.repo.ListContracts(ctx)
}

func (s *marketService) DeleteContract(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetContract(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteContract(ctx, id)
}

func (s *marketService) CreateEnergySource(ctx context.Context, input EnergySourceInput) (*RenewableEnergySource, error) {
	producerID, err := uuid.Parse(input.ProducerID)
	if err != nil {
		return nil, fmt.Errorf("%w: producer %q", ErrNotFound, input.ProducerID)
	}
	if _, err := s.GetProducer(ctx, producerID); err != nil {
		return nil, err
	}
	capacity, err := parseQuantity(input.Capacity)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	source := &RenewableEnergySource{
		ID:         uuid.New(),
		ProducerID: producerID,
		SourceType: SourceType(input.SourceType),
		Capacity:   capacity,
		Location:   input.Location,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateEnergySource(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

func (s *marketService) GetEnergySource(ctx context.Context, id uuid.UUID) (*RenewableEnergySource, error) {
	source, err := s.repo.GetEnergySourceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrNotFound
	}
	return source, nil
}

func (s *marketService) ListEnergySources(ctx context.Context) ([]RenewableEnergySource, error) {
	return s.repo.ListEnergySources(ctx)
}

func (s *marketService) DeleteEnergySource(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEnergySource(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteEnergySource(ctx, id)
}

// PlaceCreditOrder creates an unfulfilled credit order for a client. The first
// producer in store order is treated as "the" producer for the supply hint in
// the log line; order placement itself is producer-agnostic.
func (s *marketService) PlaceCreditOrder(ctx context.Context, input OrderInput) (*CreditOrder, error) {
	clientID, err := uuid.Parse(input.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: client %q", ErrNotFound, input.ClientID)
	}
	if _, err := s.GetClient(ctx, clientID); err != nil {
		return nil, err
	}

	quantity, err := parseQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	bidPrice, err := parseAmount(input.BidPrice)
	if err != nil {
		return nil, err
	}
	if bidPrice.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQuantity, input.BidPrice)
	}

	producers, err := s.repo.ListProducers(ctx)
	if err != nil {
		return nil, err
	}
	if len(producers) > 0 {
		s.logger.Info("placing credit order against current supply",
			zap.String("producer_id", producers[0].ID.String()),
			zap.String("producer_supply", producers[0].RenewableEnergySupply),
			zap.String("requested", quantity.String()))
	}

	now := time.Now().UTC()
	order := &CreditOrder{
		ID:          uuid.New(),
		ClientID:    clientID,
		Quantity:    quantity,
		BidPrice:    bidPrice,
		IsFulfilled: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateCreditOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *marketService) GetCreditOrder(ctx context.Context, id uuid.UUID) (*CreditOrder, error) {
	order, err := s.repo.GetCreditOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *marketService) ListCreditOrders(ctx context.Context) ([]CreditOrder, error) {
	return s.repo.ListCreditOrders(ctx)
}

func (s *marketService) DeleteCreditOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCreditOrder(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteCreditOrder(ctx, id)
}

// TotalRevenue sums contract prices across all contracts
func (s *marketService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	contracts, err := s.repo.ListContracts(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, contract := range contracts {
		total = total.Add(contract.Price)
	}
	return total, nil
}

func (s *marketService) ContractsByClient(ctx context.Context, clientID uuid.UUID) ([]Contract, error) {
	if _, err := s.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repo.ListContractsByClient(ctx, clientID)
}

// TotalRenewableSupply sums parsed producer supplies. A non-numeric stored
// supply fails the query instead of being skipped, so data corruption is
// never masked by a plausible total.
func (s *marketService) TotalRenewableSupply(ctx context.Context) (decimal.Decimal, error) {
	producers, err := s.repo.ListProducers(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, producer := range producers {
		supply, err := producer.Supply()
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: producer %s supply %q", ErrInvalidQuantity, producer.ID, producer.RenewableEnergySupply)
		}
		total = total.Add(supply)
	}
	return total, nil
}
