package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/kv"
	"github.com/andreasstove999/ecommerce-system/laundry-service-go/internal/order"
)

type Step int

const (
	StepCart Step = iota + 1
	StepDetails
	StepSlot
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepCart:
		return "cart"
	case StepDetails:
		return "details"
	case StepSlot:
		return "slot"
	case StepConfirmation:
		return "confirmation"
	default:
		return "unknown"
	}
}

// State is the wizard record kept under the checkoutData key.
type State struct {
	Items       []cart.Line     `json:"items"`
	Timestamp   time.Time       `json:"timestamp"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
	MinOrderMet bool            `json:"minOrderMet"`
	Step        Step            `json:"step"`
	PickupSlot  *Slot           `json:"pickupSlot,omitempty"`
}

// View is what a client renders for the current wizard step.
type View struct {
	Step       Step          `json:"step"`
	StepName   string        `json:"stepName"`
	Items      []cart.Line   `json:"items"`
	Summary    cart.Summary  `json:"summary"`
	Details    Details       `json:"details"`
	PickupSlot *Slot         `json:"pickupSlot,omitempty"`
	Pricing    order.Pricing `json:"pricing"`
	Order      *order.Order  `json:"order,omitempty"`
}

// OrderPublisher announces placed orders to the rest of the system.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, o order.Order) error
}

// OrderForwarder hands placed orders to an external backend. It must not block.
type OrderForwarder interface {
	Forward(ctx context.Context, o order.Order)
}

type Options struct {
	Publisher OrderPublisher
	Forwarder OrderForwarder
	Now       func() time.Time
	// Location is the shop's time zone. Slot cut-offs, day labels and order
	// numbers follow its calendar. Defaults to UTC.
	Location *time.Location
	// Rand seeds order numbers. Leave nil outside tests; a *rand.Rand is not safe for concurrent use.
	Rand *rand.Rand
}

type Service struct {
	store     kv.Store
	locks     *kv.Locks
	orders    order.Repository
	publisher OrderPublisher
	forwarder OrderForwarder
	now       func() time.Time
	rand      *rand.Rand
	logger    *zap.Logger
}

func NewService(store kv.Store, locks *kv.Locks, orders order.Repository, logger *zap.Logger, opts Options) *Service {
	clock := opts.Now
	if clock == nil {
		clock = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := func() time.Time { return clock().In(loc) }
	return &Service{
		store:     store,
		locks:     locks,
		orders:    orders,
		publisher: opts.Publisher,
		forwarder: opts.Forwarder,
		now:       now,
		rand:      opts.Rand,
		logger:    logger,
	}
}

// Begin checks the cart against the minimum order and opens the wizard at the cart step.
func (s *Service) Begin(ctx context.Context, session string) (View, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	c, err := cart.Load(ctx, s.store, s.logger, session)
	if err != nil {
		return View{}, fmt.Errorf("load cart: %w", err)
	}
	if err := checkCart(c); err != nil {
		return View{}, err
	}

	st := State{Step: StepCart}
	s.snapshot(&st, c)
	if err := s.saveState(ctx, session, st); err != nil {
		return View{}, err
	}
	s.logger.Info("checkout started", zap.String("session", session), zap.Int("lines", len(c.Items)))
	return s.view(ctx, session, st, c)
}

func (s *Service) Get(ctx context.Context, session string) (View, error) {
	st, err := s.loadState(ctx, session)
	if err != nil {
		return View{}, err
	}
	c, err := s.items(ctx, session, st)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, session, st, c)
}

// SaveDetails stores the delivery form without validating it.
func (s *Service) SaveDetails(ctx context.Context, session string, d Details) (View, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	st, err := s.loadState(ctx, session)
	if err != nil {
		return View{}, err
	}
	if err := kv.PutJSON(ctx, s.store, session, kv.KeyOrderForm, d); err != nil {
		return View{}, err
	}
	c, err := s.items(ctx, session, st)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, session, st, c)
}

// Next advances one step when the current step validates.
// From the slot step it places the order.
func (s *Service) Next(ctx context.Context, session string) (View, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	st, err := s.loadState(ctx, session)
	if err != nil {
		return View{}, err
	}
	c, err := s.items(ctx, session, st)
	if err != nil {
		return View{}, err
	}

	switch st.Step {
	case StepCart:
		if err := checkCart(c); err != nil {
			return View{}, err
		}
		s.snapshot(&st, c)
		st.Step = StepDetails
	case StepDetails:
		d, err := s.details(ctx, session)
		if err != nil {
			return View{}, err
		}
		if err := d.Validate(); err != nil {
			return View{}, err
		}
		if err := kv.PutJSON(ctx, s.store, session, kv.KeyOrderForm, d); err != nil {
			return View{}, err
		}
		st.Step = StepSlot
	case StepSlot:
		return s.place(ctx, session, st, c)
	default:
		return View{}, ErrWrongStep
	}

	if err := s.saveState(ctx, session, st); err != nil {
		return View{}, err
	}
	return s.view(ctx, session, st, c)
}

// Back returns to the previous step. Entered details and the chosen slot are kept.
func (s *Service) Back(ctx context.Context, session string) (View, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	st, err := s.loadState(ctx, session)
	if err != nil {
		return View{}, err
	}
	if st.Step > StepCart {
		st.Step--
		if err := s.saveState(ctx, session, st); err != nil {
			return View{}, err
		}
	}
	c, err := s.items(ctx, session, st)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, session, st, c)
}

// AvailableSlots lists the pickup windows offered right now.
func (s *Service) AvailableSlots() []Slot {
	return Slots(s.now())
}

func (s *Service) SelectSlot(ctx context.Context, session, slotID string) (View, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	st, err := s.loadState(ctx, session)
	if err != nil {
		return View{}, err
	}
	if st.Step != StepSlot {
		return View{}, ErrWrongStep
	}
	slot, ok := findSlot(s.now(), slotID)
	if !ok {
		return View{}, ErrUnknownSlot
	}
	st.PickupSlot = &slot
	if err := s.saveState(ctx, session, st); err != nil {
		return View{}, err
	}
	c, err := s.items(ctx, session, st)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, session, st, c)
}

// PlaceOrder turns the wizard into an order, records it as the session's last order
// and clears the cart, the wizard and the saved form.
func (s *Service) PlaceOrder(ctx context.Context, session string) (View, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	st, err := s.loadState(ctx, session)
	if err != nil {
		return View{}, err
	}
	c, err := s.items(ctx, session, st)
	if err != nil {
		return View{}, err
	}
	return s.place(ctx, session, st, c)
}

// LastOrder returns the order most recently placed in this session.
func (s *Service) LastOrder(ctx context.Context, session string) (order.Order, error) {
	var o order.Order
	ok, err := kv.GetJSON(ctx, s.store, session, kv.KeyLastOrder, &o)
	if err != nil {
		return order.Order{}, err
	}
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

const maxIDAttempts = 3

func (s *Service) place(ctx context.Context, session string, st State, c cart.Cart) (View, error) {
	if st.Step != StepSlot {
		return View{}, ErrWrongStep
	}
	if st.PickupSlot == nil {
		return View{}, ErrNoSlot
	}
	now := s.now()
	fresh, ok := findSlot(now, st.PickupSlot.ID)
	if !ok {
		st.PickupSlot = nil
		if err := s.saveState(ctx, session, st); err != nil {
			return View{}, err
		}
		return View{}, ErrSlotUnavailable
	}
	// labels are relative to the day the order is placed
	st.PickupSlot = &fresh
	if err := checkCart(c); err != nil {
		return View{}, err
	}
	d, err := s.details(ctx, session)
	if err != nil {
		return View{}, err
	}
	if err := d.Validate(); err != nil {
		return View{}, err
	}

	o := order.Order{
		SessionID: session,
		Customer:  d.customer(),
		Pickup: order.Pickup{
			Slot:                st.PickupSlot.Value(),
			SlotID:              st.PickupSlot.ID,
			Date:                st.PickupSlot.Day,
			Express:             st.PickupSlot.Express,
			SpecialInstructions: d.SpecialInstructions,
		},
		Pricing:   Price(c.Subtotal(), st.PickupSlot),
		Timestamp: now.UTC(),
	}
	for _, l := range c.Items {
		o.Items = append(o.Items, order.Item{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Unit:     l.Unit,
			Category: l.Category,
			Quantity: l.Quantity,
		})
	}

	for attempt := 1; ; attempt++ {
		o.ID = order.NewID(now, s.rand)
		err := s.orders.Create(ctx, o)
		if err == nil {
			break
		}
		if !errors.Is(err, order.ErrDuplicateID) || attempt == maxIDAttempts {
			return View{}, fmt.Errorf("save order: %w", err)
		}
	}

	if err := kv.PutJSON(ctx, s.store, session, kv.KeyLastOrder, o); err != nil {
		return View{}, err
	}
	if err := s.store.Delete(ctx, session, kv.KeyCart, kv.KeyCheckout, kv.KeyOrderForm); err != nil {
		return View{}, fmt.Errorf("clear session: %w", err)
	}

	s.logger.Info("order placed",
		zap.String("session", session),
		zap.String("order_id", o.ID),
		zap.String("total", o.Pricing.Total.StringFixed(2)),
		zap.Bool("express", o.Pickup.Express),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
			s.logger.Error("publish order placed", zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	if s.forwarder != nil {
		s.forwarder.Forward(context.WithoutCancel(ctx), o)
	}

	slot := *st.PickupSlot
	return View{
		Step:       StepConfirmation,
		StepName:   StepConfirmation.String(),
		Items:      c.Items,
		Summary:    c.Summary(),
		Details:    d,
		PickupSlot: &slot,
		Pricing:    o.Pricing,
		Order:      &o,
	}, nil
}

func checkCart(c cart.Cart) error {
	if c.Empty() {
		return ErrEmptyCart
	}
	if sub := c.Subtotal(); sub.LessThan(catalog.MinOrderValue) {
		return newMinimumOrderError(sub)
	}
	return nil
}

func (s *Service) snapshot(st *State, c cart.Cart) {
	sum := c.Summary()
	st.Items = c.Items
	st.Timestamp = s.now().UTC()
	st.Subtotal = sum.Subtotal
	st.Total = sum.Total
	st.MinOrderMet = sum.MinOrderMet
}

func (s *Service) loadState(ctx context.Context, session string) (State, error) {
	var st State
	ok, err := kv.GetJSON(ctx, s.store, session, kv.KeyCheckout, &st)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return State{}, ErrNotStarted
	}
	if st.Step < StepCart || st.Step > StepSlot {
		st.Step = StepCart
	}
	return st, nil
}

func (s *Service) saveState(ctx context.Context, session string, st State) error {
	return kv.PutJSON(ctx, s.store, session, kv.KeyCheckout, st)
}

// items reads the live cart and falls back to the checkout snapshot when no cart is stored.
func (s *Service) items(ctx context.Context, session string, st State) (cart.Cart, error) {
	var lines []cart.Line
	ok, err := kv.GetJSON(ctx, s.store, session, kv.KeyCart, &lines)
	switch {
	case errors.Is(err, kv.ErrCorrupt):
		s.logger.Warn("unreadable cart, using checkout snapshot", zap.String("session", session), zap.Error(err))
		return cart.Cart{Items: st.Items}, nil
	case err != nil:
		return cart.Cart{}, err
	case !ok:
		return cart.Cart{Items: st.Items}, nil
	}
	return cart.Cart{Items: lines}, nil
}

func (s *Service) details(ctx context.Context, session string) (Details, error) {
	var d Details
	if _, err := kv.GetJSON(ctx, s.store, session, kv.KeyOrderForm, &d); err != nil && !errors.Is(err, kv.ErrCorrupt) {
		return Details{}, err
	}
	return d, nil
}

func (s *Service) view(ctx context.Context, session string, st State, c cart.Cart) (View, error) {
	d, err := s.details(ctx, session)
	if err != nil {
		return View{}, err
	}
	return View{
		Step:       st.Step,
		StepName:   st.Step.String(),
		Items:      c.Items,
		Summary:    c.Summary(),
		Details:    d,
		PickupSlot: st.PickupSlot,
		Pricing:    Price(c.Subtotal(), st.PickupSlot),
	}, nil
}
