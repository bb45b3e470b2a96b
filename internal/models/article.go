package models

import "time"

// Article carries the ids of its stored images plus the public URLs built
// from them; the two slices stay parallel. ImageURL is the legacy
// single-image field kept for older clients and is independent of the
// slices.
type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	Category  string    `gorm:"index;not null" json:"category"`
	ImageIDs  []string  `gorm:"serializer:json" json:"imageIds"`
	ImageURLs []string  `gorm:"serializer:json" json:"imageUrls"`
	ImageURL  string    `json:"imageUrl"`
}
