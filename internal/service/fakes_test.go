package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
)

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string][]byte
	locks    map[string]string
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string][]byte{}, locks: map[string]string{}}
}

func (m *memorySessions) SaveSession(_ context.Context, s *models.Session, _ time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = data
	return nil
}

func (m *memorySessions) LoadSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	data, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", redisclient.ErrSessionNotFound, id)
	}
	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *memorySessions) AcquireLock(_ context.Context, key, token string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[key]; held {
		return false, nil
	}
	m.locks[key] = token
	return true, nil
}

func (m *memorySessions) ReleaseLock(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[key] == token {
		delete(m.locks, key)
	}
	return nil
}

type memoryProducts struct {
	mu        sync.Mutex
	products  []models.Product
	processed map[string]bool
	seeded    int
	failGets  int
	lookups   int
}

func newMemoryProducts(products ...models.Product) *memoryProducts {
	return &memoryProducts{products: products, processed: map[string]bool{}}
}

func (m *memoryProducts) GetProducts(context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGets > 0 {
		m.failGets--
		return nil, errors.New("connection reset")
	}
	out := make([]models.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *memoryProducts) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", store.ErrProductNotFound, id)
}

func (m *memoryProducts) CountProducts(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products), nil
}

func (m *memoryProducts) SeedProducts(_ context.Context, products []models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, products...)
	m.seeded++
	return nil
}

func (m *memoryProducts) UpsertProduct(_ context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.products {
		if m.products[i].ID == product.ID {
			m.products[i] = *product
			return nil
		}
	}
	m.products = append(m.products, *product)
	return nil
}

func (m *memoryProducts) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processed[eventID], nil
}

func (m *memoryProducts) MarkEventProcessed(_ context.Context, eventID, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed[eventID] = true
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	added   []*models.CartItemAddedEvent
	updated []*models.CartQuantityUpdatedEvent
	removed []*models.CartItemRemovedEvent
}

func (r *recordingPublisher) PublishCartItemAdded(_ context.Context, e *models.CartItemAddedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, e)
	return nil
}

func (r *recordingPublisher) PublishCartQuantityUpdated(_ context.Context, e *models.CartQuantityUpdatedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, e)
	return nil
}

func (r *recordingPublisher) PublishCartItemRemoved(_ context.Context, e *models.CartItemRemovedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, e)
	return nil
}

type brokenProducts struct {
	*memoryProducts
}

func (b *brokenProducts) GetProductByID(context.Context, int64) (*models.Product, error) {
	return nil, errors.New("connection refused")
}
