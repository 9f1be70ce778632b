package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc       *StorefrontService
	catalog   *CatalogService
	sessions  *memorySessions
	products  *memoryProducts
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	util.SetLogger(zap.NewNop())

	products := newMemoryProducts()
	catalogService := NewCatalogService(products, &catalog.Viewer{})
	require.NoError(t, catalogService.Load(context.Background(), store.DemoCatalog()))

	sessions := newMemorySessions()
	publisher := &recordingPublisher{}
	svc := NewStorefrontService(sessions, catalogService, publisher, Options{
		Shipping:      cart.DefaultShippingPolicy(),
		RelatedLimit:  catalog.DefaultRelatedLimit,
		FeaturedLimit: 4,
		SessionTTL:    time.Hour,
		LockTTL:       200 * time.Millisecond,
	})

	return &fixture{svc: svc, catalog: catalogService, sessions: sessions, products: products, publisher: publisher}
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, models.PageHome, sess.Page)

	loaded, err := f.svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	res, err := f.svc.AddToCart(ctx, sess.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.Added, res.Outcome)

	res, err = f.svc.AddToCart(ctx, sess.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, cart.Added, res.Outcome)

	res, err = f.svc.AddToCart(ctx, sess.ID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.Merged, res.Outcome)
	assert.Equal(t, 4, res.Cart.Totals.ItemCount)

	view, err := f.svc.UpdateQuantity(ctx, sess.ID, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 8, view.Totals.ItemCount)

	view, err = f.svc.RemoveItem(ctx, sess.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int64(1), view.Lines[0].ProductID)
	assert.Equal(t, 5, view.Lines[0].Quantity)
	assert.Equal(t, int64(5*2499), view.Totals.Subtotal)
	assert.Equal(t, int64(0), view.Totals.ShippingFee)

	stored, err := f.svc.GetCart(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, view, stored)

	assert.Len(t, f.publisher.added, 3)
	assert.True(t, f.publisher.added[2].Merged)
	require.Len(t, f.publisher.updated, 1)
	assert.Equal(t, 1, f.publisher.updated[0].OldQuantity)
	assert.Equal(t, 5, f.publisher.updated[0].NewQuantity)
	require.Len(t, f.publisher.removed, 1)
	assert.Equal(t, 3, f.publisher.removed[0].Quantity)
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	_, err := f.svc.AddToCart(ctx, sess.ID, 11, 1)
	require.NoError(t, err)

	view, err := f.svc.UpdateQuantity(ctx, sess.ID, 11, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Equal(t, int64(99), view.Totals.Total)
	assert.Len(t, f.publisher.removed, 1)
	assert.Empty(t, f.publisher.updated)
}

func TestMissingLineIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	view, err := f.svc.UpdateQuantity(ctx, sess.ID, 3, 4)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	view, err = f.svc.RemoveItem(ctx, sess.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	assert.Empty(t, f.publisher.updated)
	assert.Empty(t, f.publisher.removed)
}

func TestAddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	_, err := f.svc.AddToCart(ctx, sess.ID, 999, 1)
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddToCart(context.Background(), "nope", 1, 1)
	assert.True(t, errors.Is(err, redisclient.ErrSessionNotFound))
}

func TestCartKeepsAddTimePrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	_, err := f.svc.AddToCart(ctx, sess.ID, 5, 1)
	require.NoError(t, err)

	err = f.catalog.HandleProductUpserted(ctx, &models.ProductUpsertedEvent{
		BaseEvent: models.BaseEvent{EventID: "evt-price", EventType: models.EventTypeProductUpserted},
		Product:   models.Product{ID: 5, Name: "Bluetooth Speaker", Price: 999, Category: "Electronics"},
	})
	require.NoError(t, err)

	view, err := f.svc.GetCart(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1799), view.Lines[0].Price)

	res, err := f.svc.AddToCart(ctx, sess.ID, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1799), res.Cart.Lines[0].Price)
	assert.Equal(t, int64(999), f.publisher.added[1].UnitPrice)
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	f := newFixture(t)
	f.svc.opts.LockTTL = 5 * time.Second
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.AddToCart(ctx, sess.ID, 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := f.svc.GetCart(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 10, view.Lines[0].Quantity)
}

func TestSessionBusy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	ok, _ := f.sessions.AcquireLock(ctx, "session:"+sess.ID, "someone-else", time.Minute)
	require.True(t, ok)

	_, err := f.svc.AddToCart(ctx, sess.ID, 1, 1)
	assert.True(t, errors.Is(err, ErrSessionBusy))
}

func TestAddFindsProductMissingFromSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	require.NoError(t, f.products.UpsertProduct(ctx, &models.Product{ID: 40, Name: "Tote Bag", Price: 650, Category: "Accessories"}))

	res, err := f.svc.AddToCart(ctx, sess.ID, 40, 1)
	require.NoError(t, err)
	assert.Equal(t, cart.Added, res.Outcome)
	assert.Equal(t, int64(650), res.Cart.Lines[0].Price)

	_, ok := f.catalog.Product(40)
	assert.True(t, ok)
}

func TestSelectionSurvivesSessionStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	require.NoError(t, f.products.UpsertProduct(ctx, &models.Product{ID: 0, Name: "Gift Card", Price: 500, Category: "Gifts"}))
	_, err := f.svc.SelectProduct(ctx, sess.ID, 0)
	require.NoError(t, err)

	_, err = f.svc.Navigate(ctx, sess.ID, models.PageCart)
	require.NoError(t, err)

	updated, err := f.svc.Navigate(ctx, sess.ID, models.PageProductDetails)
	require.NoError(t, err)
	require.NotNil(t, updated.SelectedProductID)
	assert.Equal(t, int64(0), *updated.SelectedProductID)
}

func TestNavigationAndSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	details, err := f.svc.SelectProduct(ctx, sess.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), details.Product.ID)
	assert.LessOrEqual(t, len(details.Related), 4)
	for _, p := range details.Related {
		assert.NotEqual(t, int64(1), p.ID)
		assert.Equal(t, "Electronics", p.Category)
	}

	loaded, _ := f.svc.GetSession(ctx, sess.ID)
	assert.Equal(t, models.PageProductDetails, loaded.Page)
	require.NotNil(t, loaded.SelectedProductID)
	assert.Equal(t, int64(1), *loaded.SelectedProductID)

	updated, err := f.svc.Navigate(ctx, sess.ID, models.PageCart)
	require.NoError(t, err)
	assert.Equal(t, models.PageCart, updated.Page)

	_, err = f.svc.SelectProduct(ctx, sess.ID, 404)
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestFilteredView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.svc.CreateSession(ctx)

	_, err := f.svc.SetFilter(ctx, sess.ID, "Footwear", models.SortPriceHigh)
	require.NoError(t, err)

	products, filter, err := f.svc.ViewProducts(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FilterState{Category: "Footwear", SortKey: models.SortPriceHigh}, filter)

	var prices []int64
	for _, p := range products {
		assert.Equal(t, "Footwear", p.Category)
		prices = append(prices, p.Price)
	}
	assert.Equal(t, []int64{4499, 2999, 1599}, prices)

	assert.Equal(t, []string{"all", "Electronics", "Accessories", "Footwear", "Home"}, f.svc.Categories())
	assert.Len(t, f.svc.Featured(), 4)
}
