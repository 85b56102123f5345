package users

import (
	"context"

	"github.com/hanifwid/go-shop-api/internal/apperr"
)

// Store is the persistence surface the service needs. Implemented by Repo
// (PostgreSQL) and by memstore.Users in tests.
type Store interface {
	Users(ctx context.Context) ([]User, error)
	UserByID(ctx context.Context, id int64) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.Users(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.store.UserByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.store.UserByEmail(ctx, email)
}

func (s *Service) Create(ctx context.Context, u User) (User, error) {
	taken, err := s.store.EmailTaken(ctx, u.Email)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, &apperr.DuplicateError{Resource: "user", Field: "email", Value: u.Email}
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return s.store.Insert(ctx, u)
}

// Login checks credentials by direct equality. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return User{}, apperr.ErrInvalidCredentials
		}
		return User{}, err
	}
	if u.Password != password {
		return User{}, apperr.ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, id int64, in User) (User, error) {
	existing, err := s.store.UserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if existing.Email != in.Email {
		taken, err := s.store.EmailTaken(ctx, in.Email)
		if err != nil {
			return User{}, err
		}
		if taken {
			return User{}, &apperr.DuplicateError{Resource: "user", Field: "email", Value: in.Email}
		}
	}
	existing.Name = in.Name
	existing.Email = in.Email
	existing.Address = in.Address
	if in.Password != "" {
		existing.Password = in.Password
	}
	if in.Role != "" {
		existing.Role = in.Role
	}
	return s.store.Update(ctx, existing)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.UserByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
