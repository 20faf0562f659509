package market

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producer represents a renewable energy producer whose supply backs credit orders
type Producer struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`

	// RenewableEnergySupply is kept as decimal text for interchange and
	// parsed on demand via Supply(). Non-numeric values are surfaced as
	// errors, never coerced to zero.
	RenewableEnergySupply string `db:"renewable_energy_supply" json:"renewable_energy_supply"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Supply parses the producer's stored supply text into a decimal quantity.
func (p *Producer) Supply() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(p.RenewableEnergySupply))
}

// Client represents a buyer account holding credit orders
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Contract represents a supply agreement between a producer and a client
type Contract struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ProducerID uuid.UUID       `db:"producer_id" json:"producer_id"`
	ClientID   uuid.UUID       `db:"client_id" json:"client_id"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	Price      decimal.Decimal `db:"price" json:"price"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// SourceType classifies a renewable energy source
type SourceType string

const (
	SourceTypeSolar      SourceType = "solar"
	SourceTypeWind       SourceType = "wind"
	SourceTypeHydro      SourceType = "hydro"
	SourceTypeGeothermal SourceType = "geothermal"
)

// RenewableEnergySource represents a generation asset registered by a producer
type RenewableEnergySource struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ProducerID uuid.UUID       `db:"producer_id" json:"producer_id"`
	SourceType SourceType      `db:"source_type" json:"source_type"`
	Capacity   decimal.Decimal `db:"capacity" json:"capacity"`
	Location   string          `db:"location" json:"location"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// CreditOrder represents a request for renewable energy credits.
// While unfulfilled, Quantity is the amount still requested; once fulfilled,
// Quantity is the amount of credits held by ClientID.
type CreditOrder struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	ClientID    uuid.UUID       `db:"client_id" json:"client_id"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	BidPrice    decimal.Decimal `db:"bid_price" json:"bid_price"`
	IsFulfilled bool            `db:"is_fulfilled" json:"is_fulfilled"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
