package checkout

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/kv"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakePublisher struct {
	placed []order.Order
	err    error
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, o order.Order) error {
	f.placed = append(f.placed, o)
	return f.err
}

type fakeForwarder struct {
	forwarded []order.Order
}

func (f *fakeForwarder) Forward(ctx context.Context, o order.Order) {
	f.forwarded = append(f.forwarded, o)
}

type fixture struct {
	store  *kv.MemoryStore
	carts  *cart.Service
	svc    *Service
	orders *order.MemoryRepository
	clock  *fakeClock
	pub    *fakePublisher
	fwd    *fakeForwarder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemoryStore()
	locks := kv.NewLocks()
	f := &fixture{
		store:  store,
		carts:  cart.NewService(store, locks, zap.NewNop()),
		orders: order.NewMemoryRepository(),
		clock:  &fakeClock{now: at(9, 15)},
		pub:    &fakePublisher{},
		fwd:    &fakeForwarder{},
	}
	f.svc = NewService(store, locks, f.orders, zap.NewNop(), Options{
		Publisher: f.pub,
		Forwarder: f.fwd,
		Now:       f.clock.Now,
		Rand:      rand.New(rand.NewPCG(3, 4)),
	})
	return f
}

func (f *fixture) add(t *testing.T, session, itemID string, qty int) {
	t.Helper()
	_, err := f.carts.Add(context.Background(), session, itemID, qty)
	require.NoError(t, err)
}

// toSlotStep fills a cart over the minimum and walks the wizard to the slot step.
func (f *fixture) toSlotStep(t *testing.T, session string) {
	t.Helper()
	ctx := context.Background()
	f.add(t, session, "men-suit-3-piece", 1)
	f.add(t, session, "men-shirt", 2)

	_, err := f.svc.Begin(ctx, session)
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, session)
	require.NoError(t, err)
	_, err = f.svc.SaveDetails(ctx, session, validDetails())
	require.NoError(t, err)
	v, err := f.svc.Next(ctx, session)
	require.NoError(t, err)
	require.Equal(t, StepSlot, v.Step)
}

func TestBegin(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Begin(ctx, "s1")
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("below minimum", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, "s1", "men-shirt", 2)

		_, err := f.svc.Begin(ctx, "s1")
		var minErr *MinimumOrderError
		require.True(t, errors.As(err, &minErr))
		assert.True(t, minErr.Remaining.Equal(decimal.NewFromInt(191)))
		assert.Equal(t, "minimum order value is ₹349, add ₹191.00 more", err.Error())

		_, err = f.svc.Get(ctx, "s1")
		assert.ErrorIs(t, err, ErrNotStarted)
	})

	t.Run("opens at cart step", func(t *testing.T) {
		f := newFixture(t)
		f.add(t, "s1", "women-saree-heavy", 1)

		v, err := f.svc.Begin(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, StepCart, v.Step)
		assert.Equal(t, "cart", v.StepName)
		assert.True(t, v.Summary.MinOrderMet)

		var st State
		ok, err := kv.GetJSON(ctx, f.store, "s1", kv.KeyCheckout, &st)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Len(t, st.Items, 1)
		assert.True(t, st.MinOrderMet)
		assert.True(t, st.Subtotal.Equal(decimal.NewFromInt(349)))
	})
}

func TestNextFromCartRequiresMinimum(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "s1", "women-saree-heavy", 1)
	_, err := f.svc.Begin(ctx, "s1")
	require.NoError(t, err)

	// the cart drops below the minimum after checkout started
	_, err = f.carts.Remove(ctx, "s1", "women-saree-heavy")
	require.NoError(t, err)
	f.add(t, "s1", "men-tie", 1)

	_, err = f.svc.Next(ctx, "s1")
	var minErr *MinimumOrderError
	require.True(t, errors.As(err, &minErr))

	v, err := f.svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepCart, v.Step)
}

func TestNextFromDetailsValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "s1", "women-lehanga-bridal", 1)
	_, err := f.svc.Begin(ctx, "s1")
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, "s1")
	require.NoError(t, err)

	bad := validDetails()
	bad.Phone = "12345 67890"
	_, err = f.svc.SaveDetails(ctx, "s1", bad)
	require.NoError(t, err)

	_, err = f.svc.Next(ctx, "s1")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "phone", verr.Fields[0].Field)

	v, err := f.svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepDetails, v.Step)
	assert.Equal(t, "12345 67890", v.Details.Phone)

	_, err = f.svc.SaveDetails(ctx, "s1", validDetails())
	require.NoError(t, err)
	v, err = f.svc.Next(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepSlot, v.Step)
}

func TestBackPreservesData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.toSlotStep(t, "s1")

	slots := f.svc.AvailableSlots()
	_, err := f.svc.SelectSlot(ctx, "s1", slots[0].ID)
	require.NoError(t, err)

	v, err := f.svc.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepDetails, v.Step)
	assert.Equal(t, validDetails(), v.Details)
	require.NotNil(t, v.PickupSlot)
	assert.Equal(t, slots[0].ID, v.PickupSlot.ID)

	v, err = f.svc.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepCart, v.Step)

	v, err = f.svc.Back(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepCart, v.Step)

	_, err = f.svc.Next(ctx, "s1")
	require.NoError(t, err)
	v, err = f.svc.Next(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepSlot, v.Step)
	assert.Equal(t, slots[0].ID, v.PickupSlot.ID)
}

func TestSelectSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "s1", "women-gown", 1)
	_, err := f.svc.Begin(ctx, "s1")
	require.NoError(t, err)

	_, err = f.svc.SelectSlot(ctx, "s1", "morning-20240501")
	assert.ErrorIs(t, err, ErrWrongStep)

	f2 := newFixture(t)
	f2.toSlotStep(t, "s1")
	_, err = f2.svc.SelectSlot(ctx, "s1", "midnight-20240501")
	assert.ErrorIs(t, err, ErrUnknownSlot)

	v, err := f2.svc.SelectSlot(ctx, "s1", "express-20240501")
	require.NoError(t, err)
	assert.True(t, v.Pricing.Express.Equal(v.Pricing.Subtotal.Div(decimal.NewFromInt(2))))
}

func TestPlaceOrderWithoutSlot(t *testing.T) {
	f := newFixture(t)
	f.toSlotStep(t, "s1")

	_, err := f.svc.PlaceOrder(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNoSlot)
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.toSlotStep(t, "s1")

	_, err := f.svc.SelectSlot(ctx, "s1", "express-20240502")
	require.NoError(t, err)

	v, err := f.svc.Next(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StepConfirmation, v.Step)
	require.NotNil(t, v.Order)

	o := *v.Order
	assert.Regexp(t, `^DDC20240501\d{5}$`, o.ID)
	assert.Equal(t, "6:00 PM - 8:00 PM - Tomorrow (Express)", o.Pickup.Slot)
	assert.True(t, o.Pickup.Express)
	assert.Equal(t, "Asha Rao", o.Customer.FullName)
	assert.Equal(t, "9876543210", o.Customer.Phone)
	require.Len(t, o.Items, 2)

	subtotal := decimal.NewFromInt(349 + 2*79)
	assert.True(t, o.Pricing.Subtotal.Equal(subtotal))
	assert.True(t, o.Pricing.Express.Equal(subtotal.Mul(decimal.RequireFromString("0.5"))))
	assert.True(t, o.Pricing.Total.Equal(decimal.RequireFromString("760.5")))

	stored, err := f.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", stored.SessionID)

	last, err := f.svc.LastOrder(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, last.ID)

	for _, k := range []kv.Key{kv.KeyCart, kv.KeyCheckout, kv.KeyOrderForm} {
		_, err := f.store.Get(ctx, "s1", k)
		assert.ErrorIs(t, err, kv.ErrNotFound, "key %s", k)
	}

	c, err := f.carts.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	_, err = f.svc.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotStarted)

	require.Len(t, f.pub.placed, 1)
	assert.Equal(t, o.ID, f.pub.placed[0].ID)
	require.Len(t, f.fwd.forwarded, 1)
}

func TestPlaceOrderPublishFailureStillPlaces(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.pub.err = errors.New("broker down")
	f.toSlotStep(t, "s1")

	_, err := f.svc.SelectSlot(ctx, "s1", "afternoon-20240503")
	require.NoError(t, err)

	v, err := f.svc.PlaceOrder(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, v.Pricing.Express.IsZero())
}

func TestPlaceOrderExpiredSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.toSlotStep(t, "s1")

	_, err := f.svc.SelectSlot(ctx, "s1", "morning-20240501")
	require.NoError(t, err)

	f.clock.Set(at(11, 30))
	_, err = f.svc.PlaceOrder(ctx, "s1")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	v, err := f.svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, v.PickupSlot)
	assert.Equal(t, StepSlot, v.Step)
}

func TestPlaceOrderRelabelsSlotAfterMidnight(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.toSlotStep(t, "s1")

	f.clock.Set(at(23, 50))
	_, err := f.svc.SelectSlot(ctx, "s1", "morning-20240502")
	require.NoError(t, err)

	f.clock.Set(time.Date(2024, 5, 2, 0, 10, 0, 0, time.UTC))
	v, err := f.svc.PlaceOrder(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, v.Order)

	assert.Equal(t, "9:00 AM - 12:00 PM - Today", v.Order.Pickup.Slot)
	assert.Equal(t, "2024-05-02", v.Order.Pickup.Date)
	assert.Regexp(t, `^DDC20240502\d{5}$`, v.Order.ID)

	require.Len(t, f.pub.placed, 1)
	assert.Equal(t, "9:00 AM - 12:00 PM - Today", f.pub.placed[0].Pickup.Slot)
}

func TestSlotsFollowShopTimeZone(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	svc := NewService(kv.NewMemoryStore(), kv.NewLocks(), order.NewMemoryRepository(), zap.NewNop(), Options{
		// 19:00 UTC is 00:30 the next day in Kolkata
		Now:      func() time.Time { return time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC) },
		Location: kolkata,
	})

	slots := svc.AvailableSlots()
	require.NotEmpty(t, slots)
	assert.Equal(t, "morning-20240502", slots[0].ID)
	assert.Equal(t, "Today", slots[0].Date)
}

func TestPlaceOrderWrongStep(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "s1", "women-gown", 1)
	_, err := f.svc.Begin(ctx, "s1")
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(ctx, "s1")
	assert.ErrorIs(t, err, ErrWrongStep)
}

type flakyRepo struct {
	order.Repository
	dupes int
	ids   []string
}

func (r *flakyRepo) Create(ctx context.Context, o order.Order) error {
	r.ids = append(r.ids, o.ID)
	if r.dupes > 0 {
		r.dupes--
		return order.ErrDuplicateID
	}
	return r.Repository.Create(ctx, o)
}

func TestPlaceOrderRetriesDuplicateIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := &flakyRepo{Repository: f.orders, dupes: 2}
	f.svc.orders = repo
	f.toSlotStep(t, "s1")
	_, err := f.svc.SelectSlot(ctx, "s1", "afternoon-20240501")
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, repo.ids, 3)

	g := newFixture(t)
	g.svc.orders = &flakyRepo{Repository: g.orders, dupes: 5}
	g.toSlotStep(t, "s1")
	_, err = g.svc.SelectSlot(ctx, "s1", "afternoon-20240501")
	require.NoError(t, err)
	_, err = g.svc.PlaceOrder(ctx, "s1")
	assert.ErrorIs(t, err, order.ErrDuplicateID)
}

func TestWizardFallsBackToCheckoutSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.add(t, "s1", "women-gown", 1)
	_, err := f.svc.Begin(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, f.store.Delete(ctx, "s1", kv.KeyCart))

	v, err := f.svc.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "women-gown", v.Items[0].ID)
}

func TestLastOrderMissing(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.LastOrder(context.Background(), "nobody")
	assert.ErrorIs(t, err, order.ErrNotFound)
}
