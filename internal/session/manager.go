package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_cart/storefront-service/internal/cart"
	"github.com/fjod/go_cart/storefront-service/internal/domain"
	"github.com/fjod/go_cart/storefront-service/pkg/logger"
)

const lockStripes = 64

// OrderPublisher announces completed checkouts.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, sessionID string, user *domain.User, receipt cart.Receipt) error
}

// CartView is a read-only rendering of a session cart.
type CartView struct {
	Lines     []domain.CartLine
	ItemCount int
	Total     decimal.Decimal
}

// Manager runs cart and login operations against stored session state.
// Mutations of one session are serialised in-process.
type Manager struct {
	store     Store
	catalog   cart.Catalog
	accounts  *Accounts
	publisher OrderPublisher
	logger    *zap.Logger

	locks [lockStripes]sync.Mutex
	sfg   singleflight.Group // collapses concurrent reads of one session
}

func NewManager(store Store, catalog cart.Catalog, accounts *Accounts, publisher OrderPublisher, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if accounts == nil {
		accounts = NewAccounts()
	}
	return &Manager{
		store:     store,
		catalog:   catalog,
		accounts:  accounts,
		publisher: publisher,
		logger:    logger,
	}
}

// Cart returns the current cart of a session. Unknown sessions have an empty cart.
// Concurrent reads of one session share a load that no single caller can
// cancel; each caller still stops waiting when its own ctx ends.
func (m *Manager) Cart(ctx context.Context, sessionID string) (CartView, error) {
	ch := m.sfg.DoChan(sessionID, func() (interface{}, error) {
		return m.load(context.WithoutCancel(ctx), sessionID)
	})

	select {
	case <-ctx.Done():
		return CartView{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return CartView{}, res.Err
		}
		st := res.Val.(*State)
		return viewOf(cart.NewStore(m.catalog, cart.WithLines(st.Lines))), nil
	}
}

// AddItem adds one unit of productID. The bool is false when the product is
// not in the catalog, in which case nothing changes.
func (m *Manager) AddItem(ctx context.Context, sessionID string, productID domain.ProductID) (CartView, bool, error) {
	var added bool
	view, err := m.update(ctx, sessionID, func(_ *State, c *cart.Store) error {
		added = c.Add(productID)
		return nil
	})
	return view, added, err
}

// RemoveItem drops the line for productID. The bool is false when there was none.
func (m *Manager) RemoveItem(ctx context.Context, sessionID string, productID domain.ProductID) (CartView, bool, error) {
	var removed bool
	view, err := m.update(ctx, sessionID, func(_ *State, c *cart.Store) error {
		removed = c.Remove(productID)
		return nil
	})
	return view, removed, err
}

// Checkout empties the cart and publishes the order. An empty cart returns
// cart.ErrEmptyCart and leaves the session untouched. A failed publish is
// logged; the checkout itself still succeeds.
func (m *Manager) Checkout(ctx context.Context, sessionID string) (cart.Receipt, error) {
	var (
		receipt cart.Receipt
		user    *domain.User
	)
	_, err := m.update(ctx, sessionID, func(st *State, c *cart.Store) error {
		var err error
		receipt, err = c.Checkout()
		user = st.User
		return err
	})
	if err != nil {
		return cart.Receipt{}, err
	}

	log := logger.FromContext(ctx, m.logger)
	log.Info("checkout completed",
		zap.String("order_id", receipt.ID),
		zap.Int("item_count", receipt.ItemCount),
		zap.String("total", receipt.Total.StringFixed(2)))

	if m.publisher != nil {
		if err := m.publisher.PublishOrderPlaced(ctx, sessionID, user, receipt); err != nil {
			log.Warn("publish order placed failed", zap.String("order_id", receipt.ID), zap.Error(err))
		}
	}
	return receipt, nil
}

func (m *Manager) Register(r Registration) (domain.User, error) {
	return m.accounts.Register(r)
}

// Login marks the session as belonging to the user with these credentials.
func (m *Manager) Login(ctx context.Context, sessionID, email, password string) (domain.User, error) {
	user, err := m.accounts.Authenticate(email, password)
	if err != nil {
		return domain.User{}, err
	}
	_, err = m.update(ctx, sessionID, func(st *State, _ *cart.Store) error {
		st.User = &user
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Logout clears the current user; the cart is kept.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	_, err := m.update(ctx, sessionID, func(st *State, _ *cart.Store) error {
		st.User = nil
		return nil
	})
	return err
}

// CurrentUser returns the logged-in user of a session, or nil.
func (m *Manager) CurrentUser(ctx context.Context, sessionID string) (*domain.User, error) {
	st, err := m.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return st.User, nil
}

func (m *Manager) load(ctx context.Context, sessionID string) (*State, error) {
	st, err := m.store.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return st, nil
}

// update loads the session, applies fn and saves the result unless fn fails.
func (m *Manager) update(ctx context.Context, sessionID string, fn func(*State, *cart.Store) error) (CartView, error) {
	mu := m.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	st, err := m.load(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}

	c := cart.NewStore(m.catalog, cart.WithLines(st.Lines))
	log := logger.FromContext(ctx, m.logger)
	c.Subscribe(func(e cart.Event) {
		log.Debug("cart changed",
			zap.String("event", string(e.Kind)),
			zap.String("product_id", e.ProductID.String()),
			zap.Int("item_count", e.ItemCount))
	})

	if err := fn(st, c); err != nil {
		return CartView{}, err
	}

	st.Lines = c.Lines()
	if err := m.store.Set(ctx, sessionID, st); err != nil {
		return CartView{}, fmt.Errorf("save session: %w", err)
	}
	return viewOf(c), nil
}

func (m *Manager) lockFor(sessionID string) *sync.Mutex {
	return &m.locks[xxhash.Sum64String(sessionID)%lockStripes]
}

func viewOf(c *cart.Store) CartView {
	return CartView{
		Lines:     c.Lines(),
		ItemCount: c.ItemCount(),
		Total:     c.TotalPrice(),
	}
}
