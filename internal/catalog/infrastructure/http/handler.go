package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanchitg17/Thrift-Marketplace/internal/catalog/application"
	"github.com/sanchitg17/Thrift-Marketplace/internal/catalog/domain"
)

const (
	userIDHeader    = "X-User-Id"
	userEmailHeader = "X-User-Email"
	userNameHeader  = "X-User-Name"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/stores", h.listStores)
	r.Get("/stores/{storeId}", h.getStore)
	r.Get("/products", h.listProducts)
	r.Get("/products/{productId}", h.getProduct)

	r.Get("/merchant/status", h.merchantStatus)
	r.Patch("/merchant/store", h.updateStore)
	r.Post("/merchant/products", h.createProduct)
	r.Patch("/merchant/products", h.updateProduct)
	r.Delete("/merchant/products", h.deleteProduct)
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.Stores(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch stores")
		return
	}
	out := make([]storeDTO, len(stores))
	for i, s := range stores {
		out[i] = mapStore(s)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	store, err := h.service.Store(r.Context(), chi.URLParam(r, "storeId"))
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			writeError(w, http.StatusNotFound, "store not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch store")
		return
	}
	writeJSON(w, http.StatusOK, mapStore(store))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Products(r.Context(), r.URL.Query().Get("storeId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}
	out := make([]productDTO, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.ProductByID(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(product))
}

func (h *Handler) merchantStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	email := r.Header.Get(userEmailHeader)
	if userID == "" || email == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := h.service.MerchantStatus(r.Context(), userID, email, r.Header.Get(userNameHeader))
	if err != nil {
		h.log.Error("merchant status lookup failed", "email", email, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve merchant status")
		return
	}
	if !status.IsApproved {
		writeJSON(w, http.StatusOK, merchantStatusDTO{IsApproved: false})
		return
	}

	products := make([]productDTO, len(status.Products))
	for i, p := range status.Products {
		products[i] = mapProduct(p)
	}
	store := mapStore(status.Store)
	writeJSON(w, http.StatusOK, merchantStatusDTO{IsApproved: true, Store: &store, Products: products})
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(userIDHeader) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req storeUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.StoreID == "" {
		writeError(w, http.StatusBadRequest, "store id is required")
		return
	}

	store, err := h.service.UpdateStore(r.Context(), req.StoreID, application.StoreUpdates{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		BannerImage: req.BannerImage,
		LogoImage:   req.LogoImage,
	})
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			writeError(w, http.StatusNotFound, "store not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update store")
		return
	}
	writeJSON(w, http.StatusOK, mapStore(store))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(userIDHeader) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req productCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	images := req.Images
	if req.Image != "" {
		images = append([]string{req.Image}, images...)
	}
	product, err := h.service.CreateProduct(r.Context(), domain.Product{
		StoreID:     req.StoreID,
		StoreName:   req.StoreName,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Size:        req.Size,
		Condition:   req.Condition,
		Category:    req.Category,
		Gender:      req.Gender,
		Brand:       req.Brand,
		Images:      images,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(product))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(userIDHeader) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req productUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product id is required")
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), req.ProductID, application.ProductUpdates{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Size:        req.Size,
		Condition:   req.Condition,
		Category:    req.Category,
		Gender:      req.Gender,
		Brand:       req.Brand,
		Images:      req.Images,
		Quantity:    req.Quantity,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(product))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get(userIDHeader) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	productID := r.URL.Query().Get("id")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "product id required")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
