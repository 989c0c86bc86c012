package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/application"
	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway/phonepe"
)

const userIDHeader = "X-User-Id"

// Handler exposes the checkout core over HTTP. Identity arrives as headers
// from the upstream identity provider; the webhook route instead carries the
// gateway's computed credential.
type Handler struct {
	log     *slog.Logger
	service *application.Service
	engine  *application.Engine
	webhook *WebhookAuthenticator
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service, engine *application.Engine, webhook *WebhookAuthenticator) *Handler {
	return &Handler{
		log:     log,
		service: service,
		engine:  engine,
		webhook: webhook,
		tracer:  otel.Tracer("checkout-http"),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/checkout", h.initiate)
	r.Get("/checkout/confirm", h.confirmSession)
	r.Get("/payment/status", h.paymentStatus)
	r.Post("/payment/webhook", h.paymentWebhook)
	r.Get("/orders", h.listOrders)
	r.Get("/cart", h.getCart)
	r.Post("/cart", h.saveCart)
}

func (h *Handler) initiate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CheckoutInitiate")
	defer span.End()

	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	snapshot := domain.CartSnapshot{StoreID: req.StoreID, StoreName: req.StoreName}
	for _, item := range req.Items {
		snapshot.Items = append(snapshot.Items, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	result, err := h.service.Initiate(ctx, userID, snapshot, domain.Customer{
		Name:            req.Customer.Name,
		Email:           req.Customer.Email,
		Phone:           req.Customer.Phone,
		ShippingAddress: req.Customer.ShippingAddress,
	})
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{
		MerchantOrderID: result.MerchantOrderRef,
		SessionToken:    result.SessionToken,
		RedirectURL:     result.RedirectURL,
	})
}

func (h *Handler) confirmSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CheckoutConfirm")
	defer span.End()

	order, err := h.service.ConfirmSession(ctx, r.URL.Query().Get("session_id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrPaymentNotVerified):
			writeError(w, http.StatusBadRequest, "payment not verified")
		case errors.Is(err, domain.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "could not verify order")
		case errors.Is(err, domain.ErrGatewayUnavailable):
			writeError(w, http.StatusBadGateway, "verification failed, try again")
		default:
			writeError(w, http.StatusInternalServerError, "verification failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (h *Handler) paymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentStatus")
	defer span.End()

	merchantRef := r.URL.Query().Get("merchantOrderId")
	if merchantRef == "" {
		writeError(w, http.StatusBadRequest, "missing merchantOrderId")
		return
	}

	view, err := h.service.Status(ctx, merchantRef)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "could not verify order")
			return
		}
		writeError(w, http.StatusInternalServerError, "status lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		MerchantOrderID: view.MerchantOrderRef,
		State:           string(view.GatewayState),
		Status:          string(view.Status),
		TotalAmount:     view.TotalAmount,
		Items:           mapLineItems(view.Items),
		CustomerName:    view.CustomerName,
	})
}

// paymentWebhook applies the gateway's push signal. Authentication failures
// are the only non-2xx outcome; everything after a valid credential is
// acknowledged so the gateway's retry policy is never provoked by our own
// internals.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PaymentWebhook")
	defer span.End()

	if !h.webhook.Authorize(r.Header.Get("Authorization")) {
		h.log.Warn("webhook credential mismatch", "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	h.engine.ApplyWebhook(ctx, req.Payload.MerchantOrderID, phonepe.MapState(req.Payload.State), req.Payload.TransactionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	orders, err := h.service.Orders(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrder(o)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	cart, err := h.service.Cart(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch cart")
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (h *Handler) saveCart(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	var req cartDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	cart := domain.Cart{UserID: userID, StoreID: req.StoreID, StoreName: req.StoreName}
	for _, item := range req.Items {
		cart.Items = append(cart.Items, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	saved, err := h.service.SaveCart(r.Context(), cart)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}
	writeJSON(w, http.StatusOK, mapCart(saved))
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable):
		writeError(w, http.StatusBadGateway, "payment gateway unavailable, try again")
	default:
		h.log.Error("checkout failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to initialize checkout")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
