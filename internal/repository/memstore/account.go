package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

type accounts struct {
	mu   sync.Mutex
	rows []domain.Account
}

func newAccounts() *accounts {
	return &accounts{}
}

func (a *accounts) Insert(_ context.Context, account domain.Account) (domain.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.rows {
		if r.Email == account.Email {
			return domain.Account{}, repository.ErrEmailExists
		}
	}
	a.rows = append(a.rows, account)

	return account, nil
}

func (a *accounts) find(match func(domain.Account) bool) (domain.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, r := range a.rows {
		if match(r) {
			return r, nil
		}
	}

	return domain.Account{}, repository.ErrAccountNotFound
}

func (a *accounts) FindByID(_ context.Context, id string) (domain.Account, error) {
	return a.find(func(r domain.Account) bool { return r.ID == id })
}

func (a *accounts) FindByEmail(_ context.Context, email string) (domain.Account, error) {
	return a.find(func(r domain.Account) bool { return r.Email == email })
}

func (a *accounts) FindByIDAndEmail(_ context.Context, id, email string) (domain.Account, error) {
	return a.find(func(r domain.Account) bool { return r.ID == id && r.Email == email })
}

func (a *accounts) List(_ context.Context) ([]domain.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Clone(a.rows), nil
}

func (a *accounts) DeleteByIDAndEmail(_ context.Context, id, email string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	before := len(a.rows)
	a.rows = slices.DeleteFunc(a.rows, func(r domain.Account) bool { return r.ID == id && r.Email == email })

	return int64(before - len(a.rows)), nil
}
