package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway"
)

// Service drives the checkout core: cart verification, pending-order
// creation, gateway hand-off, and the read paths reconciled by the Engine.
//
// Sequencing: orders are created in pending at initiation for both provider
// styles, after verification and a successful gateway session creation.
// Session confirmation then only promotes the already-persisted order.
type Service struct {
	log      *slog.Logger
	repo     OrderRepository
	carts    CartRepository
	verifier *Verifier
	gw       gateway.PaymentGateway
	engine   *Engine
	// returnURL is where the gateway sends the customer back after payment.
	returnURL string
}

func NewService(log *slog.Logger, repo OrderRepository, carts CartRepository, verifier *Verifier, gw gateway.PaymentGateway, engine *Engine, returnURL string) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		carts:     carts,
		verifier:  verifier,
		gw:        gw,
		engine:    engine,
		returnURL: returnURL,
	}
}

// InitiateResult is the opaque payment-session handle returned to the
// client. Which field is set depends on the configured provider style.
type InitiateResult struct {
	MerchantOrderRef string
	SessionToken     string
	RedirectURL      string
}

// Initiate converts a client cart into a server-verified pending order and a
// gateway payment session. All-or-nothing: verification or gateway failure
// leaves no order behind.
func (s *Service) Initiate(ctx context.Context, userID string, snapshot domain.CartSnapshot, customer domain.Customer) (InitiateResult, error) {
	if err := validateCustomer(customer); err != nil {
		return InitiateResult{}, err
	}

	items, total, err := s.verifier.Verify(ctx, snapshot)
	if err != nil {
		return InitiateResult{}, err
	}

	// Generated before the gateway call; the idempotency key for
	// initiation, polling, and webhook correlation.
	merchantRef := uuid.NewString()
	order := domain.NewOrder(uuid.NewString(), merchantRef, userID, snapshot, items, customer)

	sessionItems := make([]gateway.SessionLineItem, 0, len(items))
	for _, item := range items {
		sessionItems = append(sessionItems, gateway.SessionLineItem{
			Name:        item.Name,
			AmountMinor: domain.MinorUnits(item.Price),
			Quantity:    item.Quantity,
		})
	}

	session, err := s.gw.CreatePayment(ctx, gateway.CreatePaymentRequest{
		MerchantOrderRef: merchantRef,
		AmountMinor:      domain.MinorUnits(total),
		ReturnURL:        fmt.Sprintf("%s?orderId=%s", s.returnURL, merchantRef),
		Items:            sessionItems,
		Metadata: map[string]string{
			"merchant_order_ref": merchantRef,
			"store_id":           snapshot.StoreID,
			"user_id":            userID,
		},
	})
	if err != nil {
		if errors.Is(err, gateway.ErrUnavailable) {
			s.log.Error("gateway session creation failed", "merchant_order_ref", merchantRef, "err", err)
			return InitiateResult{}, domain.ErrGatewayUnavailable
		}
		return InitiateResult{}, err
	}

	payload, err := json.Marshal(domain.OrderCreated{
		OrderID:          order.ID,
		MerchantOrderRef: merchantRef,
		UserID:           userID,
		StoreID:          order.StoreID,
		TotalAmount:      order.TotalAmount,
		Items:            order.Items,
	})
	if err != nil {
		return InitiateResult{}, err
	}
	if err := s.repo.CreateWithOutbox(ctx, order, "OrderCreated", payload); err != nil {
		return InitiateResult{}, err
	}

	s.log.Info("checkout initiated",
		"merchant_order_ref", merchantRef, "store_id", order.StoreID, "total", order.TotalAmount)
	return InitiateResult{
		MerchantOrderRef: merchantRef,
		SessionToken:     session.SessionToken,
		RedirectURL:      session.RedirectURL,
	}, nil
}

// StatusView merges a live gateway poll with the stored order for the
// confirmation screen.
type StatusView struct {
	MerchantOrderRef string
	GatewayState     gateway.PollState
	Status           domain.OrderStatus
	TotalAmount      float64
	Items            []domain.LineItem
	CustomerName     string
}

// Status polls the gateway, lets the engine fix any staleness, and returns
// the merged view. A failed poll degrades to the stored status instead of a
// hard error so a webhook-lagged order shows "processing" rather than a
// dead end.
func (s *Service) Status(ctx context.Context, merchantOrderRef string) (StatusView, error) {
	order, err := s.repo.GetByMerchantRef(ctx, merchantOrderRef)
	if err != nil {
		return StatusView{}, err
	}

	view := StatusView{
		MerchantOrderRef: merchantOrderRef,
		GatewayState:     gateway.PollPending,
		Status:           order.Status,
		TotalAmount:      order.TotalAmount,
		Items:            order.Items,
		CustomerName:     order.CustomerName,
	}

	poll, err := s.gw.PollStatus(ctx, merchantOrderRef)
	if err != nil {
		s.log.Error("status poll failed", "merchant_order_ref", merchantOrderRef, "err", err)
		return view, nil
	}
	view.GatewayState = poll.State

	status, _, err := s.engine.Apply(ctx, merchantOrderRef, poll.State, poll.TxnRef)
	if err != nil {
		s.log.Error("poll reconciliation failed", "merchant_order_ref", merchantOrderRef, "err", err)
		return view, nil
	}
	view.Status = status
	return view, nil
}

// ConfirmSession re-verifies an embedded session directly against the
// gateway and promotes the matching pending order. The client's word that it
// paid counts for nothing here.
func (s *Service) ConfirmSession(ctx context.Context, sessionID string) (domain.Order, error) {
	if sessionID == "" {
		return domain.Order{}, fmt.Errorf("%w: missing session id", domain.ErrValidation)
	}

	result, err := s.gw.VerifySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gateway.ErrUnavailable) {
			return domain.Order{}, domain.ErrGatewayUnavailable
		}
		return domain.Order{}, err
	}
	if !result.Paid {
		return domain.Order{}, domain.ErrPaymentNotVerified
	}

	merchantRef := result.Metadata["merchant_order_ref"]
	if merchantRef == "" {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	if _, _, err := s.engine.Apply(ctx, merchantRef, gateway.PollCompleted, result.TxnRef); err != nil {
		return domain.Order{}, err
	}
	return s.repo.GetByMerchantRef(ctx, merchantRef)
}

// Orders lists a user's order history, newest first.
func (s *Service) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Cart returns the user's persisted cart. The repository yields an empty
// cart for users who have none yet.
func (s *Service) Cart(ctx context.Context, userID string) (domain.Cart, error) {
	return s.carts.Get(ctx, userID)
}

// SaveCart replaces the user's cart wholesale.
func (s *Service) SaveCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.UserID == "" {
		return domain.Cart{}, fmt.Errorf("%w: missing user id", domain.ErrValidation)
	}
	if err := s.carts.Upsert(ctx, cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

func validateCustomer(c domain.Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if strings.TrimSpace(c.ShippingAddress) == "" {
		return fmt.Errorf("%w: shipping address is required", domain.ErrValidation)
	}
	return nil
}
