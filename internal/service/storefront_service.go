package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/session"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSessionBusy     = errors.New("session is busy")
)

// SessionStore keeps session state between requests
type SessionStore interface {
	SaveSession(ctx context.Context, s *models.Session, ttl time.Duration) error
	LoadSession(ctx context.Context, id string) (*models.Session, error)
	AcquireLock(ctx context.Context, lockKey, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey, token string) error
}

// CartEventPublisher publishes cart activity
type CartEventPublisher interface {
	PublishCartItemAdded(ctx context.Context, event *models.CartItemAddedEvent) error
	PublishCartQuantityUpdated(ctx context.Context, event *models.CartQuantityUpdatedEvent) error
	PublishCartItemRemoved(ctx context.Context, event *models.CartItemRemovedEvent) error
}

// Options tune the storefront behaviour
type Options struct {
	Shipping      cart.ShippingPolicy
	RelatedLimit  int
	FeaturedLimit int
	SessionTTL    time.Duration
	LockTTL       time.Duration
}

// StorefrontService applies shopper events to session state. Mutations on
// one session are serialized through a Redis lock so none are lost.
type StorefrontService struct {
	sessions       SessionStore
	catalog        *CatalogService
	eventPublisher CartEventPublisher
	opts           Options
	logger         *zap.Logger
	now            func() time.Time
}

// NewStorefrontService creates a new storefront service
func NewStorefrontService(
	sessions SessionStore,
	catalog *CatalogService,
	eventPublisher CartEventPublisher,
	opts Options,
) *StorefrontService {
	return &StorefrontService{
		sessions:       sessions,
		catalog:        catalog,
		eventPublisher: eventPublisher,
		opts:           opts,
		logger:         util.GetLogger(),
		now:            time.Now,
	}
}

// CartView is the cart page: lines plus derived totals
type CartView struct {
	Lines  []models.CartLine `json:"lines"`
	Totals models.Totals     `json:"totals"`
}

// ProductDetails is the details page for the selected product
type ProductDetails struct {
	Product models.Product   `json:"product"`
	Related []models.Product `json:"related"`
}

// AddToCartResult reports what an add did
type AddToCartResult struct {
	Outcome cart.AddOutcome
	Cart    CartView
}

// CreateSession starts a new shopper session
func (s *StorefrontService) CreateSession(ctx context.Context) (*models.Session, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.CreateSession", "")
	defer span.End()

	sess := session.New(uuid.New().String(), s.now())
	if err := s.sessions.SaveSession(ctx, &sess, s.opts.SessionTTL); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	util.SessionsCreatedTotal.Inc()
	s.logger.Info("Session created", zap.String("session_id", sess.ID))
	return &sess, nil
}

// GetSession returns the session state
func (s *StorefrontService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.sessions.LoadSession(ctx, sessionID)
}

// Navigate moves the session to page
func (s *StorefrontService) Navigate(ctx context.Context, sessionID, page string) (*models.Session, error) {
	return s.mutate(ctx, sessionID, "StorefrontService.Navigate", func(sess models.Session) (models.Session, error) {
		return session.Navigate(sess, page)
	})
}

// SetFilter changes the session's category filter and sort key. Empty
// values leave the current setting alone.
func (s *StorefrontService) SetFilter(ctx context.Context, sessionID, category, sortKey string) (*models.Session, error) {
	return s.mutate(ctx, sessionID, "StorefrontService.SetFilter", func(sess models.Session) (models.Session, error) {
		if category != "" {
			sess = session.SetCategoryFilter(sess, category)
		}
		if sortKey != "" {
			sess = session.SetSortKey(sess, sortKey)
		}
		return sess, nil
	})
}

// ViewProducts returns the catalog as the session's filter shows it
func (s *StorefrontService) ViewProducts(ctx context.Context, sessionID string) ([]models.Product, models.FilterState, error) {
	sess, err := s.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, models.FilterState{}, err
	}
	return s.catalog.View(sess.Filter), sess.Filter, nil
}

// Featured returns the home page products
func (s *StorefrontService) Featured() []models.Product {
	return s.catalog.Featured(s.opts.FeaturedLimit)
}

// Categories returns the category filter options, "all" first
func (s *StorefrontService) Categories() []string {
	return append([]string{models.CategoryAll}, s.catalog.Categories()...)
}

// SelectProduct opens a product's details page
func (s *StorefrontService) SelectProduct(ctx context.Context, sessionID string, productID int64) (*ProductDetails, error) {
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	_, err = s.mutate(ctx, sessionID, "StorefrontService.SelectProduct", func(sess models.Session) (models.Session, error) {
		return session.SelectProduct(sess, product), nil
	})
	if err != nil {
		return nil, err
	}

	return &ProductDetails{
		Product: product,
		Related: s.catalog.Related(product, s.opts.RelatedLimit),
	}, nil
}

// GetCart returns the cart with freshly computed totals
func (s *StorefrontService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	sess, err := s.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	view := s.cartView(sess.Cart)
	return &view, nil
}

// AddToCart adds quantity of a catalog product to the session cart
func (s *StorefrontService) AddToCart(ctx context.Context, sessionID string, productID int64, quantity int) (*AddToCartResult, error) {
	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var outcome cart.AddOutcome
	sess, err := s.mutate(ctx, sessionID, "StorefrontService.AddToCart", func(sess models.Session) (models.Session, error) {
		var c models.Cart
		c, outcome = cart.AddToCart(sess.Cart, product, quantity)
		return session.WithCart(sess, c), nil
	})
	if err != nil {
		return nil, err
	}

	util.CartEventsTotal.WithLabelValues("add", outcome.String()).Inc()
	view := s.cartView(sess.Cart)
	s.observe(view.Totals)

	event := &models.CartItemAddedEvent{
		BaseEvent: newBaseEvent(models.EventTypeCartItemAdded),
		SessionID: sessionID,
		ProductID: product.ID,
		Quantity:  quantity,
		Merged:    outcome == cart.Merged,
		UnitPrice: product.Price,
		ItemCount: view.Totals.ItemCount,
	}
	if err := s.eventPublisher.PublishCartItemAdded(ctx, event); err != nil {
		s.logger.Error("Failed to publish CartItemAdded event", zap.Error(err))
	}

	return &AddToCartResult{Outcome: outcome, Cart: view}, nil
}

// UpdateQuantity sets a line's quantity; below 1 removes the line
func (s *StorefrontService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*CartView, error) {
	var old models.CartLine
	var present bool
	sess, err := s.mutate(ctx, sessionID, "StorefrontService.UpdateQuantity", func(sess models.Session) (models.Session, error) {
		old, present = cart.Line(sess.Cart, productID)
		return session.WithCart(sess, cart.UpdateQuantity(sess.Cart, productID, quantity)), nil
	})
	if err != nil {
		return nil, err
	}

	view := s.cartView(sess.Cart)
	if !present {
		util.CartEventsTotal.WithLabelValues("update", "noop").Inc()
		return &view, nil
	}

	s.observe(view.Totals)
	if quantity < 1 {
		util.CartEventsTotal.WithLabelValues("update", "removed").Inc()
		s.publishRemoved(ctx, sessionID, old, view.Totals.ItemCount)
		return &view, nil
	}

	util.CartEventsTotal.WithLabelValues("update", "set").Inc()
	event := &models.CartQuantityUpdatedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeCartQuantityUpdated),
		SessionID:   sessionID,
		ProductID:   productID,
		OldQuantity: old.Quantity,
		NewQuantity: quantity,
		ItemCount:   view.Totals.ItemCount,
	}
	if err := s.eventPublisher.PublishCartQuantityUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish CartQuantityUpdated event", zap.Error(err))
	}

	return &view, nil
}

// RemoveItem drops a line from the cart
func (s *StorefrontService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*CartView, error) {
	var old models.CartLine
	var present bool
	sess, err := s.mutate(ctx, sessionID, "StorefrontService.RemoveItem", func(sess models.Session) (models.Session, error) {
		old, present = cart.Line(sess.Cart, productID)
		return session.WithCart(sess, cart.RemoveItem(sess.Cart, productID)), nil
	})
	if err != nil {
		return nil, err
	}

	view := s.cartView(sess.Cart)
	if !present {
		util.CartEventsTotal.WithLabelValues("remove", "noop").Inc()
		return &view, nil
	}

	util.CartEventsTotal.WithLabelValues("remove", "removed").Inc()
	s.observe(view.Totals)
	s.publishRemoved(ctx, sessionID, old, view.Totals.ItemCount)
	return &view, nil
}

func (s *StorefrontService) publishRemoved(ctx context.Context, sessionID string, line models.CartLine, itemCount int) {
	event := &models.CartItemRemovedEvent{
		BaseEvent: newBaseEvent(models.EventTypeCartItemRemoved),
		SessionID: sessionID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		ItemCount: itemCount,
	}
	if err := s.eventPublisher.PublishCartItemRemoved(ctx, event); err != nil {
		s.logger.Error("Failed to publish CartItemRemoved event", zap.Error(err))
	}
}

func (s *StorefrontService) cartView(c models.Cart) CartView {
	lines := c.Lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	return CartView{Lines: lines, Totals: cart.ComputeTotals(c, s.opts.Shipping)}
}

func (s *StorefrontService) observe(totals models.Totals) {
	util.CartItemCount.Observe(float64(totals.ItemCount))
	util.CartSubtotal.Observe(float64(totals.Subtotal))
}

// mutate loads, changes and saves a session while holding its lock
func (s *StorefrontService) mutate(
	ctx context.Context,
	sessionID, spanName string,
	apply func(models.Session) (models.Session, error),
) (*models.Session, error) {
	ctx, span := util.StartSpan(ctx, spanName, sessionID)
	defer span.End()

	lockKey := "session:" + sessionID
	token := uuid.New().String()
	if err := s.acquire(ctx, lockKey, token); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.sessions.ReleaseLock(context.Background(), lockKey, token); err != nil {
			s.logger.Error("Failed to release session lock",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}()

	current, err := s.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := apply(*current)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now()

	if err := s.sessions.SaveSession(ctx, &next, s.opts.SessionTTL); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &next, nil
}

func (s *StorefrontService) lookupProduct(ctx context.Context, productID int64) (models.Product, error) {
	product, ok, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	return product, nil
}

// acquire retries the lock until it is free or the lock TTL has passed
func (s *StorefrontService) acquire(ctx context.Context, lockKey, token string) error {
	start := time.Now()
	defer func() {
		util.SessionLockWaitLatency.Observe(time.Since(start).Seconds())
	}()

	deadline := start.Add(s.opts.LockTTL)
	backoff := 10 * time.Millisecond

	for {
		ok, err := s.sessions.AcquireLock(ctx, lockKey, token, s.opts.LockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			return nil
		}
		if time.Now().Add(backoff).After(deadline) {
			util.SessionLockContendedTotal.Inc()
			return ErrSessionBusy
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 100*time.Millisecond {
			backoff *= 2
		}
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
