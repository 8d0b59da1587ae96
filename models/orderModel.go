package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fulfilment status vocabulary. This is a separate axis from payment
// settlement: an order only exists once payment has settled.
const (
	StatusNotProcessed = "Not Processed"
	StatusProcessing   = "Processing"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

var OrderStatuses = []string{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// GatewayTransaction mirrors the transaction sub-object of a gateway sale
// response. Status is the authoritative settlement signal.
type GatewayTransaction struct {
	ID     string `bson:"id" json:"id"`
	Status string `bson:"status" json:"status"`
	Amount string `bson:"amount" json:"amount"`
	Type   string `bson:"type,omitempty" json:"type,omitempty"`
}

// PaymentResult is the gateway sale response stored verbatim on the order
// for audit purposes.
type PaymentResult struct {
	Success     bool               `bson:"success" json:"success"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	Transaction GatewayTransaction `bson:"transaction" json:"transaction"`
}

// OrderLine snapshots name, price and quantity at checkout time so the
// order total stays auditable after later product edits.
type OrderLine struct {
	ProductID primitive.ObjectID `bson:"product" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order is immutable after creation except for Status.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Buyer     primitive.ObjectID `bson:"buyer" json:"buyer"`
	Products  []OrderLine        `bson:"products" json:"products"`
	Payment   PaymentResult      `bson:"payment" json:"payment"`
	Status    string             `bson:"status" json:"status"`
	RequestID string             `bson:"requestId,omitempty" json:"requestId,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

func (o Order) Total() float64 {
	total := 0.0
	for _, line := range o.Products {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
