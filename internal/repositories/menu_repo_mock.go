package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"foodorder/internal/models"
)

// MockMenuRepository is an in-memory implementation of MenuRepository.
type MockMenuRepository struct {
	items  map[uint]models.MenuItem
	nextID uint
	mu     sync.RWMutex
}

// NewMockMenuRepository creates a new instance of MockMenuRepository.
func NewMockMenuRepository() *MockMenuRepository {
	return &MockMenuRepository{
		items: make(map[uint]models.MenuItem),
	}
}

// GetAll returns all menu items ordered by ID.
func (r *MockMenuRepository) GetAll(_ context.Context) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		itemList = append(itemList, item)
	}
	sort.Slice(itemList, func(i, j int) bool { return itemList[i].ID < itemList[j].ID })
	return itemList, nil
}

// GetByID returns a menu item by its ID.
func (r *MockMenuRepository) GetByID(_ context.Context, id uint) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrMenuItemNotFound, id)
	}
	return &item, nil
}

// Create adds a new menu item. An explicit ID is kept, which lets callers
// seed well-known items.
func (r *MockMenuRepository) Create(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		r.nextID++
		item.ID = r.nextID
	} else if item.ID > r.nextID {
		r.nextID = item.ID
	}
	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("menu item with ID %d already exists", item.ID)
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = *item
	return nil
}

// Update modifies an existing menu item.
func (r *MockMenuRepository) Update(_ context.Context, item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrMenuItemNotFound, item.ID)
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

// Delete removes a menu item by its ID.
func (r *MockMenuRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrMenuItemNotFound, id)
	}
	delete(r.items, id)
	return nil
}
