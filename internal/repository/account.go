package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository/dao"
)

type AccountDAO interface {
	Insert(ctx context.Context, account dao.Account) (dao.Account, error)
	FindByID(ctx context.Context, id string) (dao.Account, error)
	FindByEmail(ctx context.Context, email string) (dao.Account, error)
	FindByIDAndEmail(ctx context.Context, id, email string) (dao.Account, error)
	List(ctx context.Context) ([]dao.Account, error)
	DeleteByIDAndEmail(ctx context.Context, id, email string) (int64, error)
}

type AccountRepository struct {
	dao AccountDAO
}

func NewAccountRepository(dao AccountDAO) *AccountRepository {
	return &AccountRepository{
		dao: dao,
	}
}

func (r *AccountRepository) Insert(ctx context.Context, account domain.Account) (domain.Account, error) {
	row, err := r.domainToDao(account)
	if err != nil {
		return domain.Account{}, err
	}

	created, err := r.dao.Insert(ctx, row)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (domain.Account, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AccountRepository) FindByIDAndEmail(ctx context.Context, id, email string) (domain.Account, error) {
	found, err := r.dao.FindByIDAndEmail(ctx, id, email)
	if err != nil {
		return domain.Account{}, fmt.Errorf("r.dao.FindByIDAndEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	accounts := make([]domain.Account, 0, len(found))
	for _, row := range found {
		accounts = append(accounts, r.daoToDomain(row))
	}

	return accounts, nil
}

func (r *AccountRepository) DeleteByIDAndEmail(ctx context.Context, id, email string) (int64, error) {
	n, err := r.dao.DeleteByIDAndEmail(ctx, id, email)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteByIDAndEmail -> %w", err)
	}

	return n, nil
}

func (r *AccountRepository) domainToDao(a domain.Account) (dao.Account, error) {
	row := dao.Account{
		ID:                  a.ID,
		Email:               a.Email,
		Name:                a.Name,
		Team:                a.Team,
		Role:                a.Role,
		PhoneNumber:         a.PhoneNumber,
		CollegeOrUniversity: a.CollegeOrUniversity,
		Course:              a.Course,
		Year:                a.Year,
		Gender:              string(a.Gender),
		GithubProfile:       nonEmpty(a.GithubProfile),
		LinkedinProfile:     nonEmpty(a.LinkedinProfile),
		CreatedOn:           a.CreatedOn,
	}
	if a.CreatedBy != nil {
		raw, err := json.Marshal(a.CreatedBy)
		if err != nil {
			return dao.Account{}, fmt.Errorf("json.Marshal -> %w", err)
		}
		row.CreatedBy = raw
	}

	return row, nil
}

func (r *AccountRepository) daoToDomain(a dao.Account) domain.Account {
	account := domain.Account{
		ID:                  a.ID,
		Email:               a.Email,
		Name:                a.Name,
		Team:                a.Team,
		Role:                a.Role,
		PhoneNumber:         a.PhoneNumber,
		CollegeOrUniversity: a.CollegeOrUniversity,
		Course:              a.Course,
		Year:                a.Year,
		Gender:              domain.Gender(a.Gender),
		GithubProfile:       deref(a.GithubProfile),
		LinkedinProfile:     deref(a.LinkedinProfile),
		CreatedOn:           a.CreatedOn,
	}

	var issuer *domain.Issuer
	if len(a.CreatedBy) > 0 && json.Unmarshal(a.CreatedBy, &issuer) == nil {
		account.CreatedBy = issuer
	}

	return account
}
