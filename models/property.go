package models

import (
	"time"
)

const (
	PropertyStatusActive  = "active"
	PropertyStatusPending = "pending"
	PropertyStatusSold    = "sold"
	PropertyStatusDraft   = "draft"
)

type Property struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Price       string    `bson:"price" json:"price"`
	Location    string    `bson:"location" json:"location"`
	Type        string    `bson:"type" json:"type"`
	Bedrooms    int       `bson:"bedrooms" json:"bedrooms"`
	Bathrooms   int       `bson:"bathrooms" json:"bathrooms"`
	Area        string    `bson:"area" json:"area"`
	YearBuilt   int       `bson:"yearBuilt" json:"year_built"`
	Description string    `bson:"description" json:"description"`
	Images      []string  `bson:"images" json:"images"`
	Amenities   []string  `bson:"amenities" json:"amenities"`
	Featured    bool      `bson:"featured" json:"featured"`
	Status      string    `bson:"status" json:"status"`
	Slug        string    `bson:"slug" json:"slug"`
	Views       int64     `bson:"views" json:"views"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}

func IsValidPropertyStatus(status string) bool {
	switch status {
	case PropertyStatusActive, PropertyStatusPending, PropertyStatusSold, PropertyStatusDraft:
		return true
	}
	return false
}
