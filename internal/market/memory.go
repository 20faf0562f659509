package market

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository keeping the same ordered-store
// contract as the postgres implementation: listings iterate records in
// ascending id order. Used by tests and local development.
type MemoryRepository struct {
	mu        sync.RWMutex
	producers map[uuid.UUID]Producer
	clients   map[uuid.UUID]Client
	contracts map[uuid.UUID]Contract
	sources   map[uuid.UUID]RenewableEnergySource
	orders    map[uuid.UUID]CreditOrder
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		producers: make(map[uuid.UUID]Producer),
		clients:   make(map[uuid.UUID]Client),
		contracts: make(map[uuid.UUID]Contract),
		sources:   make(map[uuid.UUID]RenewableEnergySource),
		orders:    make(map[uuid.UUID]CreditOrder),
	}
}

func sortedIDs[T any](records map[uuid.UUID]T) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func (r *MemoryRepository) CreateProducer(_ context.Context, producer *Producer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.producers[producer.ID] = *producer
	return nil
}

func (r *MemoryRepository) GetProducerByID(_ context.Context, id uuid.UUID) (*Producer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	producer, ok := r.producers[id]
	if !ok {
		return nil, nil
	}
	return &producer, nil
}

func (r *MemoryRepository) ListProducers(_ context.Context) ([]Producer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	producers := make([]Producer, 0, len(r.producers))
	for _, id := range sortedIDs(r.producers) {
		producers = append(producers, r.producers[id])
	}
	return producers, nil
}

func (r *MemoryRepository) UpdateProducer(_ context.Context, producer *Producer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.producers[producer.ID] = *producer
	return nil
}

func (r *MemoryRepository) DeleteProducer(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.producers, id)
	return nil
}

func (r *MemoryRepository) CreateClient(_ context.Context, client *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.ID] = *client
	return nil
}

func (r *MemoryRepository) GetClientByID(_ context.Context, id uuid.UUID) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	return &client, nil
}

func (r *MemoryRepository) ListClients(_ context.Context) ([]Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]Client, 0, len(r.clients))
	for _, id := range sortedIDs(r.clients) {
		clients = append(clients, r.clients[id])
	}
	return clients, nil
}

func (r *MemoryRepository) UpdateClient(_ context.Context, client *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.ID] = *client
	return nil
}

func (r *MemoryRepository) DeleteClient(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
	return nil
}

func (r *MemoryRepository) CreateContract(_ context.Context, contract *Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[contract.ID] = *contract
	return nil
}

func (r *MemoryRepository) GetContractByID(_ context.Context, id uuid.UUID) (*Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contract, ok := r.contracts[id]
	if !ok {
		return nil, nil
	}
	return &contract, nil
}

func (r *MemoryRepository) ListContracts(_ context.Context) ([]Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contracts := make([]Contract, 0, len(r.contracts))
	for _, id := range sortedIDs(r.contracts) {
		contracts = append(contracts, r.contracts[id])
	}
	return contracts, nil
}

func (r *MemoryRepository) ListContractsByClient(_ context.Context, clientID uuid.UUID) ([]Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var contracts []Contract
	for _, id := range sortedIDs(r.contracts) {
		if r.contracts[id].ClientID == clientID {
			contracts = append(contracts, r.contracts[id])
		}
	}
	return contracts, nil
}

func (r *MemoryRepository) UpdateContract(_ context.Context, contract *Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[contract.ID] = *contract
	return nil
}

func (r *MemoryRepository) DeleteContract(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.contracts, id)
	return nil
}

func (r *MemoryRepository) CreateEnergySource(_ context.Context, source *RenewableEnergySource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.ID] = *source
	return nil
}

func (r *MemoryRepository) GetEnergySourceByID(_ context.Context, id uuid.UUID) (*RenewableEnergySource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	source, ok := r.sources[id]
	if !ok {
		return nil, nil
	}
	return &source, nil
}

func (r *MemoryRepository) ListEnergySources(_ context.Context) ([]RenewableEnergySource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sources := make([]RenewableEnergySource, 0, len(r.sources))
	for _, id := range sortedIDs(r.sources) {
		sources = append(sources, r.sources[id])
	}
	return sources, nil
}

func (r *MemoryRepository) UpdateEnergySource(_ context.Context, source *RenewableEnergySource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.ID] = *source
	return nil
}

func (r *MemoryRepository) DeleteEnergySource(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, id)
	return nil
}

func (r *MemoryRepository) CreateCreditOrder(_ context.Context, order *CreditOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = *order
	return nil
}

func (r *MemoryRepository) GetCreditOrderByID(_ context.Context, id uuid.UUID) (*CreditOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (r *MemoryRepository) ListCreditOrders(_ context.Context) ([]CreditOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	orders := make([]CreditOrder, 0, len(r.orders))
	for _, id := range sortedIDs(r.orders) {
		orders = append(orders, r.orders[id])
	}
	return orders, nil
}

func (r *MemoryRepository) ListUnfulfilledOrders(_ context.Context) ([]CreditOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var orders []CreditOrder
	for _, id := range sortedIDs(r.orders) {
		if !r.orders[id].IsFulfilled {
			orders = append(orders, r.orders[id])
		}
	}
	return orders, nil
}

func (r *MemoryRepository) ListFulfilledOrdersByClient(_ context.Context, clientID uuid.UUID) ([]CreditOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var orders []CreditOrder
	for _, id := range sortedIDs(r.orders) {
		order := r.orders[id]
		if order.ClientID == clientID && order.IsFulfilled {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (r *MemoryRepository) UpdateCreditOrder(_ context.Context, order *CreditOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = *order
	return nil
}

func (r *MemoryRepository) DeleteCreditOrder(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}
