package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/tuanvumaihuynh/warehouse/internal/model"
	"github.com/tuanvumaihuynh/warehouse/internal/repository"
	"github.com/tuanvumaihuynh/warehouse/internal/storage/db"
)

type fakeDB struct {
	db.DB
}

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type store struct {
	mu         sync.Mutex
	items      map[int64]*itemRow
	categories map[int64]model.Category
	alerts     []model.StockAlert
	nextID     int64
	writes     int
}

type itemRow struct {
	item    model.Item
	deleted bool
}

func newStore() *store {
	return &store{
		items:      map[int64]*itemRow{},
		categories: map[int64]model.Category{},
	}
}

func (s *store) addCategory(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.categories[s.nextID] = model.Category{ID: s.nextID, Name: name}
	return s.nextID
}

type fakeItemRepo struct {
	s *store
	// applyErr overrides ApplyQuantityDelta when set.
	applyErr error
}

func (r *fakeItemRepo) WithDB(db.DB) repository.ItemRepository { return r }

func (r *fakeItemRepo) FindItemByID(_ context.Context, id int64) (model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.items[id]
	if !ok || row.deleted {
		return model.Item{}, repository.ErrNotFound
	}
	return row.item, nil
}

func (r *fakeItemRepo) ExistsItemByName(_ context.Context, name string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.activeNameTaken(name, excludeID), nil
}

func (r *fakeItemRepo) activeNameTaken(name string, excludeID int64) bool {
	for id, row := range r.s.items {
		if !row.deleted && id != excludeID && row.item.Name == name {
			return true
		}
	}
	return false
}

func (r *fakeItemRepo) CreateItem(_ context.Context, p repository.CreateItemParams) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, row := range r.s.items {
		if row.item.Sku == p.Sku {
			return 0, repository.ErrItemSkuTaken
		}
	}
	if r.activeNameTaken(p.Name, 0) {
		return 0, repository.ErrItemNameTaken
	}
	category, ok := r.s.categories[p.CategoryID]
	if !ok {
		return 0, repository.ErrCategoryInUse
	}

	r.s.nextID++
	r.s.writes++
	r.s.items[r.s.nextID] = &itemRow{item: model.Item{
		ID:                r.s.nextID,
		Sku:               p.Sku,
		Name:              p.Name,
		Description:       p.Description,
		Quantity:          p.Quantity,
		LowStockThreshold: p.LowStockThreshold,
		Dimensions:        p.Dimensions,
		Category:          category.Ref(),
		CreatedBy:         p.ActorID,
		UpdatedBy:         p.ActorID,
	}}
	return r.s.nextID, nil
}

func (r *fakeItemRepo) UpdateItem(_ context.Context, p repository.UpdateItemParams) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.items[p.ID]
	if !ok || row.deleted {
		return repository.ErrNotFound
	}
	if r.activeNameTaken(p.Name, p.ID) {
		return repository.ErrItemNameTaken
	}

	r.s.writes++
	row.item.Name = p.Name
	row.item.Description = p.Description
	row.item.Quantity = p.Quantity
	row.item.LowStockThreshold = p.LowStockThreshold
	row.item.Dimensions = p.Dimensions
	row.item.Category = r.s.categories[p.CategoryID].Ref()
	row.item.UpdatedBy = p.ActorID
	return nil
}

func (r *fakeItemRepo) ApplyQuantityDelta(_ context.Context, id int64, delta int, actorID int64) (int, error) {
	if r.applyErr != nil {
		return 0, r.applyErr
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.items[id]
	if !ok || row.deleted {
		return 0, repository.ErrNotFound
	}
	if row.item.Quantity+delta < 0 {
		return 0, repository.ErrInsufficientQuantity
	}
	if row.item.Quantity+delta > model.MaxQuantity {
		return 0, repository.ErrQuantityLimitExceeded
	}

	r.s.writes++
	row.item.Quantity += delta
	row.item.UpdatedBy = actorID
	return row.item.Quantity, nil
}

func (r *fakeItemRepo) SoftDeleteItem(_ context.Context, id int64, _ int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.items[id]
	if !ok || row.deleted {
		return repository.ErrNotFound
	}
	r.s.writes++
	row.deleted = true
	return nil
}

func (r *fakeItemRepo) ListItems(_ context.Context, req model.PageRequest) ([]model.Item, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []model.Item
	for _, row := range r.s.items {
		if !row.deleted {
			items = append(items, row.item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	total := int64(len(items))
	start := min(req.Offset(), len(items))
	end := min(start+req.Size, len(items))
	return items[start:end], total, nil
}

func (r *fakeItemRepo) ListLowStockItems(context.Context) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []model.Item
	for _, row := range r.s.items {
		if !row.deleted && row.item.IsLowStock(row.item.Quantity) {
			items = append(items, row.item)
		}
	}
	return items, nil
}

type fakeCategoryRepo struct {
	s *store
}

func (r *fakeCategoryRepo) WithDB(db.DB) repository.CategoryRepository { return r }

func (r *fakeCategoryRepo) FindCategoryByID(_ context.Context, id int64) (model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) ExistsCategoryByName(_ context.Context, name string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.categories {
		if id != excludeID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) CreateCategory(_ context.Context, name string, actorID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	r.s.writes++
	r.s.categories[r.s.nextID] = model.Category{ID: r.s.nextID, Name: name, CreatedBy: actorID, UpdatedBy: actorID}
	return r.s.nextID, nil
}

func (r *fakeCategoryRepo) UpdateCategory(_ context.Context, id int64, name string, actorID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.s.writes++
	c.Name = name
	c.UpdatedBy = actorID
	r.s.categories[id] = c
	return nil
}

func (r *fakeCategoryRepo) DeleteCategory(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	for _, row := range r.s.items {
		if row.item.Category.ID == id {
			return repository.ErrCategoryInUse
		}
	}
	r.s.writes++
	delete(r.s.categories, id)
	return nil
}

func (r *fakeCategoryRepo) ListCategories(_ context.Context, req model.PageRequest) ([]model.Category, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var categories []model.Category
	for _, c := range r.s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, int64(len(categories)), nil
}

type fakeStockAlertRepo struct {
	s   *store
	err error
}

func (r *fakeStockAlertRepo) WithDB(db.DB) repository.StockAlertRepository { return r }

func (r *fakeStockAlertRepo) CreateStockAlert(_ context.Context, itemID int64, notified bool) (model.StockAlert, error) {
	if r.err != nil {
		return model.StockAlert{}, r.err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a := model.StockAlert{ID: int64(len(r.s.alerts) + 1), ItemID: itemID, Notified: notified}
	r.s.alerts = append(r.s.alerts, a)
	return a, nil
}

func (r *fakeStockAlertRepo) ListStockAlertsByItem(_ context.Context, itemID int64) ([]model.StockAlert, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var alerts []model.StockAlert
	for _, a := range r.s.alerts {
		if a.ItemID == itemID {
			alerts = append(alerts, a)
		}
	}
	return alerts, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.AuditEvent
}

func (p *fakePublisher) PublishAudit(_ context.Context, ev model.AuditEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

type fakeDirectory struct {
	emails []string
}

func (d fakeDirectory) FindEmailsByRole(context.Context, model.Role) ([]string, error) {
	return d.emails, nil
}

type fakeGateway struct {
	mu    sync.Mutex
	sends int
}

func (g *fakeGateway) Send(context.Context, []string, string, string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sends++
	return nil
}
