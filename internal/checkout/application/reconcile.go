package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/sanchitg17/Thrift-Marketplace/internal/checkout/domain"
	"github.com/sanchitg17/Thrift-Marketplace/internal/gateway"
)

// Engine reconciles asynchronous payment outcomes into one consistent order
// status. Redirect confirmations, client polls, and provider webhooks all
// funnel through Apply; each is idempotent and safe out of order because the
// only mutation is a conditional pending-guarded update in the ledger.
type Engine struct {
	log  *slog.Logger
	repo OrderRepository
}

func NewEngine(log *slog.Logger, repo OrderRepository) *Engine {
	return &Engine{log: log, repo: repo}
}

// Apply maps a gateway state onto the order's lifecycle and advances the
// ledger if, and only if, the order is still pending. Returns the status
// after the call and whether this signal performed the transition. An
// unknown merchant reference returns ErrOrderNotFound; webhook callers log
// and acknowledge it rather than failing.
func (e *Engine) Apply(ctx context.Context, merchantOrderRef string, state gateway.PollState, gatewayTxnRef string) (domain.OrderStatus, bool, error) {
	target, ok := targetStatus(state)
	if !ok {
		// PENDING fixes nothing; read-only.
		order, err := e.repo.GetByMerchantRef(ctx, merchantOrderRef)
		if err != nil {
			return "", false, err
		}
		return order.Status, false, nil
	}

	order, err := e.repo.GetByMerchantRef(ctx, merchantOrderRef)
	if err != nil {
		return "", false, err
	}
	if order.Status.Terminal() {
		if order.Status != target {
			// A COMPLETED signal arriving after failed/cancelled (or the
			// reverse) is surfaced to the operator but never applied.
			e.log.Warn("stale gateway signal for settled order",
				"merchant_order_ref", merchantOrderRef,
				"order_status", order.Status, "signal_state", state)
		}
		return order.Status, false, nil
	}

	payload, err := json.Marshal(domain.OrderStatusChanged{
		OrderID:          order.ID,
		MerchantOrderRef: merchantOrderRef,
		Status:           target,
		GatewayTxnRef:    gatewayTxnRef,
	})
	if err != nil {
		return order.Status, false, err
	}

	transitioned, err := e.repo.UpdateStatusWithOutbox(ctx, merchantOrderRef,
		domain.StatusPending, target, gatewayTxnRef, "OrderStatusChanged", payload)
	if err != nil {
		return order.Status, false, err
	}
	if !transitioned {
		// Lost the race to another signal; reread for the truth.
		current, err := e.repo.GetByMerchantRef(ctx, merchantOrderRef)
		if err != nil {
			return order.Status, false, err
		}
		return current.Status, false, nil
	}

	e.log.Info("order status reconciled",
		"merchant_order_ref", merchantOrderRef, "status", target, "gateway_txn_ref", gatewayTxnRef)
	return target, true, nil
}

// ApplyWebhook handles the gateway's server-to-server push. The caller has
// already authenticated the request; here an unknown reference is logged and
// swallowed so the gateway's retry policy is not provoked.
func (e *Engine) ApplyWebhook(ctx context.Context, merchantOrderRef string, state gateway.PollState, gatewayTxnRef string) {
	_, _, err := e.Apply(ctx, merchantOrderRef, state, gatewayTxnRef)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			e.log.Warn("webhook for unknown merchant order reference", "merchant_order_ref", merchantOrderRef)
			return
		}
		e.log.Error("webhook reconciliation failed", "merchant_order_ref", merchantOrderRef, "err", err)
	}
}

func targetStatus(state gateway.PollState) (domain.OrderStatus, bool) {
	switch state {
	case gateway.PollCompleted:
		return domain.StatusPaid, true
	case gateway.PollFailed:
		return domain.StatusFailed, true
	case gateway.PollCancelled:
		return domain.StatusCancelled, true
	}
	return "", false
}
