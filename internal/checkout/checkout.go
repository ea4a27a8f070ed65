package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/CongoMusahAdama/rrate/internal/cart"
	"github.com/CongoMusahAdama/rrate/internal/domain"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

const (
	StatusPaid    = "paid"
	StatusPending = "pending"
)

type Request struct {
	Reference string              `json:"reference"`
	Email     string              `json:"email"`
	Snapshot  domain.CartSnapshot `json:"snapshot"`
}

type Receipt struct {
	Reference string       `json:"reference"`
	Status    string       `json:"status"`
	Amount    domain.Money `json:"amount"`
}

// Gateway takes payment for a cart snapshot.
type Gateway interface {
	Charge(ctx context.Context, req Request) (Receipt, error)
}

// AcceptAll reports every charge as paid. It stands in for a hosted payment
// widget during development.
type AcceptAll struct{}

func (AcceptAll) Charge(_ context.Context, req Request) (Receipt, error) {
	return Receipt{Reference: req.Reference, Status: StatusPaid, Amount: req.Snapshot.Total}, nil
}

type Service struct {
	gateway Gateway
	logger  *slog.Logger
}

func NewService(gateway Gateway, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{gateway: gateway, logger: logger.With("component", "checkout")}
}

// Checkout charges the cart's current contents. The cart is held for the
// duration of the charge, so a concurrent Checkout on the same cart fails
// with ErrCheckoutInProgress. On success the charged listings leave the cart;
// anything added while the charge was in flight stays. On failure the cart is
// untouched.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, email string) (Receipt, error) {
	snap, ok := c.Hold()
	if !ok {
		return Receipt{}, ErrCheckoutInProgress
	}
	if len(snap.Items) == 0 {
		c.Release()
		return Receipt{}, ErrEmptyCart
	}

	req := Request{
		Reference: "ref_" + uuid.NewString(),
		Email:     strings.TrimSpace(email),
		Snapshot:  snap,
	}
	log := s.logger.With("reference", req.Reference, "items", len(snap.Items), "amount", snap.Total.Amount)
	log.Info("checkout started")

	receipt, err := s.gateway.Charge(ctx, req)
	if err != nil {
		c.Release()
		log.Error("checkout failed", "error", err)
		return Receipt{}, fmt.Errorf("charge %s: %w", req.Reference, err)
	}

	ids := make([]int64, 0, len(snap.Items))
	for _, l := range snap.Items {
		ids = append(ids, l.ID)
	}
	c.Release(ids...)

	log.Info("checkout finished", "status", receipt.Status)
	return receipt, nil
}
