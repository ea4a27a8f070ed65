package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CongoMusahAdama/rrate/internal/cart"
	"github.com/CongoMusahAdama/rrate/internal/domain"
)

type gatewayFunc func(ctx context.Context, req Request) (Receipt, error)

func (f gatewayFunc) Charge(ctx context.Context, req Request) (Receipt, error) { return f(ctx, req) }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func filledCart() *cart.Cart {
	c := cart.New("GHS")
	c.Add(domain.Listing{ID: 1, Price: domain.ParseMoney("₵2,500,000")})
	c.Add(domain.Listing{ID: 2, Price: domain.ParseMoney("₵950,000")})
	return c
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := NewService(AcceptAll{}, quietLogger())
	_, err := svc.Checkout(context.Background(), cart.New(""), "a@b.c")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutSuccessClearsCharged(t *testing.T) {
	c := filledCart()
	svc := NewService(AcceptAll{}, quietLogger())

	receipt, err := svc.Checkout(context.Background(), c, " buyer@example.com ")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, receipt.Status)
	assert.Equal(t, int64(345000000), receipt.Amount.Amount)
	assert.True(t, strings.HasPrefix(receipt.Reference, "ref_"))
	assert.Equal(t, 0, c.Count())
}

func TestCheckoutKeepsItemsAddedDuringCharge(t *testing.T) {
	c := filledCart()
	gw := gatewayFunc(func(_ context.Context, req Request) (Receipt, error) {
		assert.Equal(t, "buyer@example.com", req.Email)
		c.Add(domain.Listing{ID: 3, Price: domain.ParseMoney("₵10")})
		return Receipt{Reference: req.Reference, Status: StatusPending, Amount: req.Snapshot.Total}, nil
	})

	_, err := NewService(gw, quietLogger()).Checkout(context.Background(), c, "buyer@example.com")
	require.NoError(t, err)
	require.Equal(t, 1, c.Count())
	assert.True(t, c.Contains(3))
}

func TestCheckoutFailureLeavesCart(t *testing.T) {
	c := filledCart()
	boom := errors.New("card declined")
	gw := gatewayFunc(func(context.Context, Request) (Receipt, error) { return Receipt{}, boom })

	_, err := NewService(gw, quietLogger()).Checkout(context.Background(), c, "")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, c.Count())
}

func TestCheckoutConcurrentSameCartChargesOnce(t *testing.T) {
	c := cart.New("GHS")
	c.Add(domain.Listing{ID: 1, Price: domain.ParseMoney("₵2,500,000")})

	var charges atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	gw := gatewayFunc(func(_ context.Context, req Request) (Receipt, error) {
		charges.Add(1)
		close(entered)
		<-release
		return Receipt{Reference: req.Reference, Status: StatusPaid, Amount: req.Snapshot.Total}, nil
	})
	svc := NewService(gw, quietLogger())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = svc.Checkout(context.Background(), c, "a@b.c")
	}()

	<-entered
	_, err := svc.Checkout(context.Background(), c, "a@b.c")
	assert.ErrorIs(t, err, ErrCheckoutInProgress)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, int32(1), charges.Load())
	assert.Equal(t, 0, c.Count())

	// the hold is gone once the first checkout returns
	_, err = svc.Checkout(context.Background(), c, "a@b.c")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutFailureReleasesHold(t *testing.T) {
	c := filledCart()
	fail := true
	gw := gatewayFunc(func(_ context.Context, req Request) (Receipt, error) {
		if fail {
			return Receipt{}, errors.New("timeout")
		}
		return Receipt{Reference: req.Reference, Status: StatusPaid, Amount: req.Snapshot.Total}, nil
	})
	svc := NewService(gw, quietLogger())

	_, err := svc.Checkout(context.Background(), c, "")
	require.Error(t, err)

	fail = false
	receipt, err := svc.Checkout(context.Background(), c, "")
	require.NoError(t, err)
	assert.Equal(t, int64(345000000), receipt.Amount.Amount)
	assert.Equal(t, 0, c.Count())
}

func TestNewEvent(t *testing.T) {
	snap := filledCart().Snapshot()
	ev := NewEvent(Request{Reference: "ref_1", Email: "x@y.z", Snapshot: snap})
	assert.Equal(t, []int64{1, 2}, ev.ListingIDs)
	assert.Equal(t, int64(345000000), ev.Amount)
	assert.Equal(t, "GHS", ev.Currency)

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"listing_ids":[1,2]`)
}

func TestDialAMQPValidatesConfig(t *testing.T) {
	_, err := DialAMQP(AMQPConfig{}, quietLogger())
	assert.Error(t, err)
	_, err = DialAMQP(AMQPConfig{URL: "amqp://localhost"}, quietLogger())
	assert.Error(t, err)
}

func TestAMQPGatewayNotConnected(t *testing.T) {
	_, err := (&AMQPGateway{}).Charge(context.Background(), Request{})
	assert.Error(t, err)
	err = (&AMQPGateway{}).Notify(context.Background(), "booking.requested", "bk_1", map[string]int{"n": 1})
	assert.Error(t, err)
}
