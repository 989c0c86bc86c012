package domain

import "time"

// Product is the authoritative catalog record. Price and Quantity are
// server-only facts; checkout never trusts either from client input.
type Product struct {
	ID          string
	StoreID     string
	StoreName   string
	Name        string
	Description string
	Price       float64
	Size        string
	Condition   string
	Category    string
	Gender      string
	Brand       string
	Images      []string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var Conditions = []string{"New with tags", "Like new", "Good", "Fair"}

var Categories = []string{"Tops", "Bottoms", "Dresses", "Outerwear", "Accessories", "Shoes"}

var Genders = []string{"Men", "Women", "Unisex"}
