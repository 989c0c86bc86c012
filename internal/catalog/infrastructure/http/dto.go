package http

import (
	"time"

	"github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
)

type storeDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	BannerImage string    `json:"bannerImage"`
	LogoImage   string    `json:"logoImage"`
	ActiveItems int       `json:"activeItems"`
	CreatedAt   time.Time `json:"createdAt"`
}

type productDTO struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"storeId"`
	StoreName   string    `json:"storeName,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Size        string    `json:"size"`
	Condition   string    `json:"condition"`
	Category    string    `json:"category"`
	Gender      string    `json:"gender"`
	Brand       string    `json:"brand"`
	Images      []string  `json:"images"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"createdAt"`
}

type merchantStatusDTO struct {
	IsApproved bool         `json:"isApproved"`
	Store      *storeDTO    `json:"store,omitempty"`
	Products   []productDTO `json:"products,omitempty"`
}

type storeUpdateDTO struct {
	StoreID     string  `json:"storeId"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	BannerImage *string `json:"bannerImage"`
	LogoImage   *string `json:"logoImage"`
}

type productCreateDTO struct {
	StoreID     string   `json:"storeId"`
	StoreName   string   `json:"storeName"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Size        string   `json:"size"`
	Condition   string   `json:"condition"`
	Category    string   `json:"category"`
	Gender      string   `json:"gender"`
	Brand       string   `json:"brand"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Quantity    int      `json:"quantity"`
}

type productUpdateDTO struct {
	ProductID   string   `json:"productId"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Size        *string  `json:"size"`
	Condition   *string  `json:"condition"`
	Category    *string  `json:"category"`
	Gender      *string  `json:"gender"`
	Brand       *string  `json:"brand"`
	Images      []string `json:"images"`
	Quantity    *int     `json:"quantity"`
}

func mapStore(s domain.Store) storeDTO {
	return storeDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Location:    s.Location,
		BannerImage: s.BannerImage,
		LogoImage:   s.LogoImage,
		ActiveItems: s.ActiveItems,
		CreatedAt:   s.CreatedAt,
	}
}

func mapProduct(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		StoreID:     p.StoreID,
		StoreName:   p.StoreName,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Size:        p.Size,
		Condition:   p.Condition,
		Category:    p.Category,
		Gender:      p.Gender,
		Brand:       p.Brand,
		Images:      p.Images,
		Quantity:    p.Quantity,
		CreatedAt:   p.CreatedAt,
	}
}
