package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductPhoto struct {
	Data        []byte `bson:"data" json:"-"`
	ContentType string `bson:"contentType" json:"-"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Category    primitive.ObjectID `bson:"category,omitempty" json:"category"`
	Shipping    bool               `bson:"shipping" json:"shipping"`
	Photo       ProductPhoto       `bson:"photo,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
