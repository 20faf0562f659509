package market

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository is the persistence boundary for all marketplace records.
// Listing methods return records in ascending id order; the allocation and
// transfer engines depend on that ordering.
type Repository interface {
	CreateProducer(ctx context.Context, producer *Producer) error
	GetProducerByID(ctx context.Context, id uuid.UUID) (*Producer, error)
	ListProducers(ctx context.Context) ([]Producer, error)
	UpdateProducer(ctx context.Context, producer *Producer) error
	DeleteProducer(ctx context.Context, id uuid.UUID) error

	CreateClient(ctx context.Context, client *Client) error
	GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	UpdateClient(ctx context.Context, client *Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error

	CreateContract(ctx context.Context, contract *Contract) error
	GetContractByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	ListContracts(ctx context.Context) ([]Contract, error)
	ListContractsByClient(ctx context.Context, clientID uuid.UUID) ([]Contract, error)
	UpdateContract(ctx context.Context, contract *Contract) error
	DeleteContract(ctx context.Context, id uuid.UUID) error

	CreateEnergySource(ctx context.Context, source *RenewableEnergySource) error
	GetEnergySourceByID(ctx context.Context, id uuid.UUID) (*RenewableEnergySource, error)
	ListEnergySources(ctx context.Context) ([]RenewableEnergySource, error)
	UpdateEnergySource(ctx context.Context, source *RenewableEnergySource) error
	DeleteEnergySource(ctx context.Context, id uuid.UUID) error

	CreateCreditOrder(ctx context.Context, order *CreditOrder) error
	GetCreditOrderByID(ctx context.Context, id uuid.UUID) (*CreditOrder, error)
	ListCreditOrders(ctx context.Context) ([]CreditOrder, error)
	ListUnfulfilledOrders(ctx context.Context) ([]CreditOrder, error)
	ListFulfilledOrdersByClient(ctx context.Context, clientID uuid.UUID) ([]CreditOrder, error)
	UpdateCreditOrder(ctx context.Context, order *CreditOrder) error
	DeleteCreditOrder(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a postgres-backed Repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateProducer(ctx context.Context, producer *Producer) error {
	query := `
		INSERT INTO producers (
			id, name, renewable_energy_supply, created_at, updated_at
		) VALUES (
			:id, :name, :renewable_energy_supply, :created_at, :updated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, producer)
	return err
}

func (r *postgresRepository) GetProducerByID(ctx context.Context, id uuid.UUID) (*Producer, error) {
	var producer Producer
	err := r.db.GetContext(ctx, &producer, "SELECT * FROM producers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &producer, err
}

func (r *postgresRepository) ListProducers(ctx context.Context) ([]Producer, error) {
	var producers []Producer
	err := r.db.SelectContext(ctx, &producers, "SELECT * FROM producers ORDER BY id ASC")
	return producers, err
}

func (r *postgresRepository) UpdateProducer(ctx context.Context, producer *Producer) error {
	query := `
		UPDATE producers SET
			name = :name,
			renewable_energy_supply = :renewable_energy_supply,
			updated_at = :updated_at
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, producer)
	return err
}

func (r *postgresRepository) DeleteProducer(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM producers WHERE id = $1", id)
	return err
}

func (r *postgresRepository) CreateClient(ctx context.Context, client *Client) error {
	query := `
		INSERT INTO clients (
			id, name, created_at, updated_at
		) VALUES (
			:id, :name, :created_at, :updated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, client)
	return err
}

func (r *postgresRepository) GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	var client Client
	err := r.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &client, err
}

func (r *postgresRepository) ListClients(ctx context.Context) ([]Client, error) {
	var clients []Client
	err := r.db.SelectContext(ctx, &clients, "SELECT * FROM clients ORDER BY id ASC")
	return clients, err
}

func (r *postgresRepository) UpdateClient(ctx context.Context, client *Client) error {
	query := `
		UPDATE clients SET
			name = :name,
			updated_at = :updated_at
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, client)
	return err
}

func (r *postgresRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = $1", id)
	return err
}

func (r *postgresRepository) CreateContract(ctx context.Context, contract *Contract) error {
	query := `
		INSERT INTO contracts (
			id, producer_id, client_id, quantity, price, created_at, updated_at
		) VALUES (
			:id, :producer_id, :client_id, :quantity, :price, :created_at, :updated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, contract)
	return err
}

func (r *postgresRepository) GetContractByID(ctx context.Context, id uuid.UUID) (*Contract, error) {
	var contract Contract
	err := r.db.GetContext(ctx, &contract, "SELECT * FROM contracts WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &contract, err
}

func (r *postgresRepository) ListContracts(ctx context.Context) ([]Contract, error) {
	var contracts []Contract
	err := r.db.SelectContext(ctx, &contracts, "SELECT * FROM contracts ORDER BY id ASC")
	return contracts, err
}

func (r *postgresRepository) ListContractsByClient(ctx context.Context, clientID uuid.UUID) ([]Contract, error) {
	var contracts []Contract
	err := r.db.SelectContext(ctx, &contracts, "SELECT * FROM contracts WHERE client_id = $1 ORDER BY id ASC", clientID)
	return contracts, err
}

func (r *postgresRepository) UpdateContract(ctx context.Context, contract *Contract) error {
	query := `
		UPDATE contracts SET
			producer_id = :producer_id,
			client_id = :client_id,
			quantity = :quantity,
			price = :price,
			updated_at = :updated_at
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, contract)
	return err
}

func (r *postgresRepository) DeleteContract(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM contracts WHERE id = $1", id)
	return err
}

func (r *postgresRepository) CreateEnergySource(ctx context.Context, source *RenewableEnergySource) error {
	query := `
		INSERT INTO renewable_energy_sources (
			id, producer_id, source_type, capacity, location, created_at, updated_at
		) VALUES (
			:id, :producer_id, :source_type, :capacity, :location, :created_at, :updated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, source)
	return err
}

func (r *postgresRepository) GetEnergySourceByID(ctx context.Context, id uuid.UUID) (*RenewableEnergySource, error) {
	var source RenewableEnergySource
	err := r.db.GetContext(ctx, &source, "SELECT * FROM renewable_energy_sources WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &source, err
}

func (r *postgresRepository) ListEnergySources(ctx context.Context) ([]RenewableEnergySource, error) {
	var sources []RenewableEnergySource
	err := r.db.SelectContext(ctx, &sources, "SELECT * FROM renewable_energy_sources ORDER BY id ASC")
	return sources, err
}

func (r *postgresRepository) UpdateEnergySource(ctx context.Context, source *RenewableEnergySource) error {
	query := `
		UPDATE renewable_energy_sources SET
			producer_id = :producer_id,
			source_type = :source_type,
			capacity = :capacity,
			location = :location,
			updated_at = :updated_at
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, source)
	return err
}

func (r *postgresRepository) DeleteEnergySource(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM renewable_energy_sources WHERE id = $1", id)
	return err
}

func (r *postgresRepository) CreateCreditOrder(ctx context.Context, order *CreditOrder) error {
	query := `
		INSERT INTO credit_orders (
			id, client_id, quantity, bid_price, is_fulfilled, created_at, updated_at
		) VALUES (
			:id, :client_id, :quantity, :bid_price, :is_fulfilled, :created_at, :updated_at
		)`
	_, err := r.db.NamedExecContext(ctx, query, order)
	return err
}

func (r *postgresRepository) GetCreditOrderByID(ctx context.Context, id uuid.UUID) (*CreditOrder, error) {
	var order CreditOrder
	err := r.db.GetContext(ctx, &order, "SELECT * FROM credit_orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &order, err
}

func (r *postgresRepository) ListCreditOrders(ctx context.Context) ([]CreditOrder, error) {
	var orders []CreditOrder
	err := r.db.SelectContext(ctx, &orders, "SELECT * FROM credit_orders ORDER BY id ASC")
	return orders, err
}

func (r *postgresRepository) ListUnfulfilledOrders(ctx context.Context) ([]CreditOrder, error) {
	var orders []CreditOrder
	err := r.db.SelectContext(ctx, &orders, "SELECT * FROM credit_orders WHERE is_fulfilled = false ORDER BY id ASC")
	return orders, err
}

func (r *postgresRepository) ListFulfilledOrdersByClient(ctx context.Context, clientID uuid.UUID) ([]CreditOrder, error) {
	var orders []CreditOrder
	err := r.db.SelectContext(ctx, &orders, "SELECT * FROM credit_orders WHERE client_id = $1 AND is_fulfilled = true ORDER BY id ASC", clientID)
	return orders, err
}

func (r *postgresRepository) UpdateCreditOrder(ctx context.Context, order *CreditOrder) error {
	query := `
		UPDATE credit_orders SET
			client_id = :client_id,
			quantity = :quantity,
			bid_price = :bid_price,
			is_fulfilled = :is_fulfilled,
			updated_at = :updated_at
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, order)
	return err
}

func (r *postgresRepository) DeleteCreditOrder(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM credit_orders WHERE id = $1", id)
	return err
}
