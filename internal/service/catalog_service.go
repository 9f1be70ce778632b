package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// ProductStore is the catalog persistence the services need
type ProductStore interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CountProducts(ctx context.Context) (int, error)
	SeedProducts(ctx context.Context, products []models.Product) error
	UpsertProduct(ctx context.Context, product *models.Product) error
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// CatalogService serves the product catalog from an in-memory snapshot
// that is replaced whenever the catalog changes.
type CatalogService struct {
	store  ProductStore
	viewer *catalog.Viewer
	logger *zap.Logger

	mu       sync.RWMutex
	products []models.Product
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store ProductStore, viewer *catalog.Viewer) *CatalogService {
	return &CatalogService{
		store:  store,
		viewer: viewer,
		logger: util.GetLogger(),
	}
}

// Load reads the catalog, seeding it first when it is empty and seed is set
func (cs *CatalogService) Load(ctx context.Context, seed []models.Product) error {
	if len(seed) > 0 {
		count, err := cs.store.CountProducts(ctx)
		if err != nil {
			return fmt.Errorf("failed to count products: %w", err)
		}
		if count == 0 {
			if err := cs.store.SeedProducts(ctx, seed); err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}
			cs.logger.Info("Catalog seeded", zap.Int("count", len(seed)))
		}
	}

	return cs.Refresh(ctx)
}

// Refresh replaces the snapshot with the current catalog
func (cs *CatalogService) Refresh(ctx context.Context) error {
	products, err := cs.store.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to get products: %w", err)
	}

	cs.mu.Lock()
	cs.products = products
	cs.mu.Unlock()

	cs.logger.Info("Catalog loaded", zap.Int("count", len(products)))
	return nil
}

// Products returns the current snapshot. Callers must not modify it.
func (cs *CatalogService) Products() []models.Product {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.products
}

// View returns the visible catalog for filter
func (cs *CatalogService) View(filter models.FilterState) []models.Product {
	util.CatalogViewsTotal.WithLabelValues(filter.SortKey).Inc()
	return cs.viewer.View(cs.Products(), filter)
}

// Categories returns the distinct catalog categories
func (cs *CatalogService) Categories() []string {
	return catalog.AvailableCategories(cs.Products())
}

// Product looks up a product in the snapshot
func (cs *CatalogService) Product(id int64) (models.Product, bool) {
	return catalog.Find(cs.Products(), id)
}

// Lookup finds a product in the snapshot and falls back to the store when the
// snapshot has not caught up yet. A store hit also refreshes the snapshot.
func (cs *CatalogService) Lookup(ctx context.Context, id int64) (models.Product, bool, error) {
	if product, ok := cs.Product(id); ok {
		return product, true, nil
	}

	product, err := cs.store.GetProductByID(ctx, id)
	if errors.Is(err, store.ErrProductNotFound) {
		return models.Product{}, false, nil
	}
	if err != nil {
		return models.Product{}, false, fmt.Errorf("failed to get product: %w", err)
	}

	cs.logger.Info("Product missing from snapshot", zap.Int64("product_id", id))
	if err := cs.Refresh(ctx); err != nil {
		cs.logger.Error("Failed to refresh catalog", zap.Error(err))
	}
	return *product, true, nil
}

// Related returns products related to subject
func (cs *CatalogService) Related(subject models.Product, limit int) []models.Product {
	return catalog.RelatedProducts(cs.Products(), subject, limit)
}

// Featured returns the home page selection
func (cs *CatalogService) Featured(limit int) []models.Product {
	return catalog.Featured(cs.Products(), limit)
}

// HandleProductUpserted applies a catalog change event once
func (cs *CatalogService) HandleProductUpserted(ctx context.Context, event *models.ProductUpsertedEvent) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.HandleProductUpserted", "")
	defer span.End()

	processed, err := cs.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		cs.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		util.CatalogUpdatesTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	if event.Product.Price < 0 {
		util.CatalogUpdatesTotal.WithLabelValues("rejected").Inc()
		cs.logger.Warn("Rejecting product with negative price",
			zap.Int64("product_id", event.Product.ID),
			zap.Int64("price", event.Product.Price))
		return cs.store.MarkEventProcessed(ctx, event.EventID, event.EventType)
	}

	if err := cs.store.UpsertProduct(ctx, &event.Product); err != nil {
		util.CatalogUpdatesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	// the event stays unprocessed until the snapshot holds it, so a redelivery retries
	if err := cs.Refresh(ctx); err != nil {
		util.CatalogUpdatesTotal.WithLabelValues("error").Inc()
		return err
	}

	if err := cs.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		cs.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	util.CatalogUpdatesTotal.WithLabelValues("applied").Inc()
	cs.logger.Info("Product upserted",
		zap.Int64("product_id", event.Product.ID),
		zap.Int64("price", event.Product.Price))

	return nil
}
