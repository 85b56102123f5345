package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hanifwid/go-shop-api/internal/apperr"
	"github.com/hanifwid/go-shop-api/internal/catalog"
)

type ProductStore struct{ db *DB }

var _ catalog.Store = (*ProductStore)(nil)

func (s *ProductStore) all(keep func(catalog.Product) bool) []catalog.Product {
	out := []catalog.Product{}
	for _, p := range s.db.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *ProductStore) Products(ctx context.Context) ([]catalog.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.all(func(catalog.Product) bool { return true }), nil
}

func (s *ProductStore) ProductByID(ctx context.Context, id int64) (catalog.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return catalog.Product{}, apperr.NotFound("product", id)
	}
	return p, nil
}

func (s *ProductStore) SearchByName(ctx context.Context, name string) ([]catalog.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	needle := strings.ToLower(name)
	return s.all(func(p catalog.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

func (s *ProductStore) ByMaxCost(ctx context.Context, maxCost decimal.Decimal) ([]catalog.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.all(func(p catalog.Product) bool {
		return p.Cost.LessThanOrEqual(maxCost)
	}), nil
}

func (s *ProductStore) Available(ctx context.Context) ([]catalog.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.all(func(p catalog.Product) bool { return p.Quantity > 0 }), nil
}

func (s *ProductStore) Insert(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p.ID = s.db.nextProduct
	s.db.nextProduct++
	s.db.products[p.ID] = p
	return p, nil
}

func (s *ProductStore) Update(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.products[p.ID]; !ok {
		return catalog.Product{}, apperr.NotFound("product", p.ID)
	}
	s.db.products[p.ID] = p
	return p, nil
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.products[id]; !ok {
		return apperr.NotFound("product", id)
	}
	delete(s.db.products, id)
	return nil
}
