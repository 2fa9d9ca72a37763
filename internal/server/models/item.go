package models

import "time"

// Item is a product listed in the store. Price is in cents.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"largeImage,omitempty"`
	Price       int       `json:"price"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemUpdate carries the fields of a partial item update; nil fields are left
// unchanged.
type ItemUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	LargeImage  *string `json:"largeImage"`
	Price       *int    `json:"price"`
}
