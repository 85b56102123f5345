package memstore

import (
	"context"
	"sort"

	"github.com/hanifwid/go-shop-api/internal/apperr"
	"github.com/hanifwid/go-shop-api/internal/users"
)

type UserStore struct{ db *DB }

var _ users.Store = (*UserStore)(nil)

func (s *UserStore) Users(ctx context.Context) ([]users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []users.User{}
	for _, u := range s.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *UserStore) UserByID(ctx context.Context, id int64) (users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return users.User{}, apperr.NotFound("user", id)
	}
	return u, nil
}

func (s *UserStore) UserByEmail(ctx context.Context, email string) (users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, apperr.NotFoundBy("user", "email", email)
}

func (s *UserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) Insert(ctx context.Context, u users.User) (users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u.ID = s.db.nextUser
	s.db.nextUser++
	s.db.users[u.ID] = u
	return u, nil
}

func (s *UserStore) Update(ctx context.Context, u users.User) (users.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[u.ID]; !ok {
		return users.User{}, apperr.NotFound("user", u.ID)
	}
	s.db.users[u.ID] = u
	return u, nil
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[id]; !ok {
		return apperr.NotFound("user", id)
	}
	delete(s.db.users, id)
	return nil
}
