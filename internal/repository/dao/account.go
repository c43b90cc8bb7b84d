package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account is a row of credentials.superadmin or credentials.admin_YYYY_YYYY.
type Account struct {
	ID                  string `gorm:"primaryKey"`
	Email               string `gorm:"unique;not null"`
	Name                string `gorm:"not null"`
	Team                string
	Role                string
	PhoneNumber         string
	CollegeOrUniversity string
	Course              string
	Year                int
	Gender              string
	GithubProfile       *string
	LinkedinProfile     *string
	CreatedOn           time.Time `gorm:"not null"`
	// CreatedBy is absent on superadmin rows.
	CreatedBy datatypes.JSON `gorm:"type:jsonb"`
}

type AccountDAO struct {
	db    *gorm.DB
	table string
}

func NewSuperadminDAO(db *gorm.DB) *AccountDAO {
	return &AccountDAO{
		db:    db,
		table: dotted(CredentialsSchema, SuperadminTable),
	}
}

func NewAdminDAO(db *gorm.DB, session string) *AccountDAO {
	return &AccountDAO{
		db:    db,
		table: dotted(CredentialsSchema, AdminTable(session)),
	}
}

func (d *AccountDAO) tx(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Table(d.table)
}

func (d *AccountDAO) Insert(ctx context.Context, account Account) (Account, error) {
	result := d.tx(ctx).Create(&account)
	if result.Error != nil {
		if uniqueViolation(result.Error) != "" {
			return Account{}, ErrEmailExists
		}

		return Account{}, result.Error
	}

	return account, nil
}

func (d *AccountDAO) first(ctx context.Context, query string, args ...any) (Account, error) {
	var account Account

	result := d.tx(ctx).Where(query, args...).Take(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) || isUndefinedTable(result.Error) {
			return Account{}, ErrAccountNotFound
		}

		return Account{}, result.Error
	}

	return account, nil
}

func (d *AccountDAO) FindByID(ctx context.Context, id string) (Account, error) {
	return d.first(ctx, "id = ?", id)
}

func (d *AccountDAO) FindByEmail(ctx context.Context, email string) (Account, error) {
	return d.first(ctx, "email = ?", email)
}

func (d *AccountDAO) FindByIDAndEmail(ctx context.Context, id, email string) (Account, error) {
	return d.first(ctx, "id = ? AND email = ?", id, email)
}

func (d *AccountDAO) List(ctx context.Context) ([]Account, error) {
	var accounts []Account

	result := d.tx(ctx).Order("created_on").Find(&accounts)
	if result.Error != nil {
		return nil, result.Error
	}

	return accounts, nil
}

func (d *AccountDAO) DeleteByIDAndEmail(ctx context.Context, id, email string) (int64, error) {
	result := d.tx(ctx).Where("id = ? AND email = ?", id, email).Delete(&Account{})

	return result.RowsAffected, result.Error
}
