// Package catalog manages the product catalog: plain CRUD plus a few read
// filters. Stock movements driven by orders live in the orders package;
// SetQuantity here is the manual correction path and knows nothing about
// reservations.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

type Store interface {
	Products(ctx context.Context) ([]Product, error)
	ProductByID(ctx context.Context, id int64) (Product, error)
	SearchByName(ctx context.Context, name string) ([]Product, error)
	ByMaxCost(ctx context.Context, maxCost decimal.Decimal) ([]Product, error)
	Available(ctx context.Context) ([]Product, error)
	Insert(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.store.Products(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.store.ProductByID(ctx, id)
}

// Search matches case-insensitively on a name substring.
func (s *Service) Search(ctx context.Context, name string) ([]Product, error) {
	return s.store.SearchByName(ctx, name)
}

// ByMaxCost returns products costing at most maxCost (inclusive).
func (s *Service) ByMaxCost(ctx context.Context, maxCost decimal.Decimal) ([]Product, error) {
	return s.store.ByMaxCost(ctx, maxCost)
}

// Available returns products with quantity strictly greater than zero.
func (s *Service) Available(ctx context.Context) ([]Product, error) {
	return s.store.Available(ctx)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	return s.store.Insert(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int64, in Product) (Product, error) {
	existing, err := s.store.ProductByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	existing.Name = in.Name
	existing.Quantity = in.Quantity
	existing.Cost = in.Cost
	existing.Description = in.Description
	existing.URL = in.URL
	return s.store.Update(ctx, existing)
}

// SetQuantity overwrites the stock level directly, with no relationship to
// any order reservation.
func (s *Service) SetQuantity(ctx context.Context, id int64, quantity int) (Product, error) {
	existing, err := s.store.ProductByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	existing.Quantity = quantity
	return s.store.Update(ctx, existing)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.ProductByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
