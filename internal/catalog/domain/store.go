package domain

import "time"

type Store struct {
	ID          string
	Name        string
	Description string
	Location    string
	BannerImage string
	LogoImage   string
	// ActiveItems is a denormalized listing count, adjusted atomically on
	// product create/delete.
	ActiveItems int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Vendor is a whitelist entry. StoreID stays empty until first merchant
// login provisions the store.
type Vendor struct {
	Email      string
	IsApproved bool
	StoreID    string
	UserID     string
	AddedAt    time.Time
}
