package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository/dao"
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id string) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByIDAndEmail(ctx context.Context, id, email string) (dao.User, error)
	FindMany(ctx context.Context, ids []string) ([]dao.User, error)
	List(ctx context.Context) ([]dao.User, error)
	ListRegisteredFor(ctx context.Context, eventID string) ([]dao.User, error)
	UpdateProfile(ctx context.Context, id string, profile datatypes.JSON) error
	PushRegistration(ctx context.Context, id string, reg datatypes.JSON, eventID string) error
	PullRegistration(ctx context.Context, id, eventID string) error
	PullRegistrationFromAll(ctx context.Context, eventID string) (int64, error)
	SetRegistrationTeam(ctx context.Context, id, eventID string, teamID *string) error
	ClearTeamForEvent(ctx context.Context, eventID string) (int64, error)
	SetRegistrationRemark(ctx context.Context, id, eventID string, remark *string) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Insert(ctx context.Context, user domain.User) (domain.User, error) {
	row, err := r.domainToDao(user)
	if err != nil {
		return domain.User{}, err
	}

	created, err := r.dao.Insert(ctx, row)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByIDAndEmail(ctx context.Context, id, email string) (domain.User, error) {
	found, err := r.dao.FindByIDAndEmail(ctx, id, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByIDAndEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindMany(ctx context.Context, ids []string) ([]domain.User, error) {
	found, err := r.dao.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMany -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) ListRegisteredFor(ctx context.Context, eventID string) ([]domain.User, error) {
	found, err := r.dao.ListRegisteredFor(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListRegisteredFor -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, profile domain.Profile) error {
	raw, err := json.Marshal(profileToDao(profile))
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = r.dao.UpdateProfile(ctx, id, raw); err != nil {
		return fmt.Errorf("r.dao.UpdateProfile -> %w", err)
	}

	return nil
}

func (r *UserRepository) PushRegistration(ctx context.Context, id string, reg domain.Registration) error {
	raw, err := json.Marshal(registrationToDao(reg))
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	if err = r.dao.PushRegistration(ctx, id, raw, reg.EventID); err != nil {
		return fmt.Errorf("r.dao.PushRegistration -> %w", err)
	}

	return nil
}

func (r *UserRepository) PullRegistration(ctx context.Context, id, eventID string) error {
	if err := r.dao.PullRegistration(ctx, id, eventID); err != nil {
		return fmt.Errorf("r.dao.PullRegistration -> %w", err)
	}

	return nil
}

func (r *UserRepository) PullRegistrationFromAll(ctx context.Context, eventID string) (int64, error) {
	n, err := r.dao.PullRegistrationFromAll(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.PullRegistrationFromAll -> %w", err)
	}

	return n, nil
}

func (r *UserRepository) SetRegistrationTeam(ctx context.Context, id, eventID, teamID string) error {
	var team *string
	if teamID != "" {
		team = &teamID
	}

	if err := r.dao.SetRegistrationTeam(ctx, id, eventID, team); err != nil {
		return fmt.Errorf("r.dao.SetRegistrationTeam -> %w", err)
	}

	return nil
}

func (r *UserRepository) ClearTeamForEvent(ctx context.Context, eventID string) (int64, error) {
	n, err := r.dao.ClearTeamForEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.ClearTeamForEvent -> %w", err)
	}

	return n, nil
}

func (r *UserRepository) SetRegistrationRemark(ctx context.Context, id, eventID string, remark *string) error {
	if err := r.dao.SetRegistrationRemark(ctx, id, eventID, remark); err != nil {
		return fmt.Errorf("r.dao.SetRegistrationRemark -> %w", err)
	}

	return nil
}

func (r *UserRepository) domainToDao(u domain.User) (dao.User, error) {
	row := dao.User{
		ID:              u.ID,
		Email:           u.Email,
		CreatedOn:       u.CreatedOn,
		RegisteredEvent: datatypes.JSONSlice[dao.Registration]{},
	}
	if u.Profile != nil {
		raw, err := json.Marshal(profileToDao(*u.Profile))
		if err != nil {
			return dao.User{}, fmt.Errorf("json.Marshal -> %w", err)
		}
		row.Profile = raw
	}
	for _, reg := range u.RegisteredEvents {
		row.RegisteredEvent = append(row.RegisteredEvent, registrationToDao(reg))
	}

	return row, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	user := domain.User{
		ID:               u.ID,
		Email:            u.Email,
		CreatedOn:        u.CreatedOn,
		RegisteredEvents: make([]domain.Registration, 0, len(u.RegisteredEvent)),
	}

	var p *dao.Profile
	if len(u.Profile) > 0 && json.Unmarshal(u.Profile, &p) == nil && p != nil {
		user.Profile = &domain.Profile{
			Name:                p.Name,
			Email:               p.Email,
			PhoneNumber:         p.PhoneNumber,
			CollegeOrUniversity: p.CollegeOrUniversity,
			Course:              p.Course,
			Year:                p.Year,
			Gender:              domain.Gender(p.Gender),
			GithubProfile:       deref(p.GithubProfile),
			LinkedinProfile:     deref(p.LinkedinProfile),
		}
	}

	for _, reg := range u.RegisteredEvent {
		user.RegisteredEvents = append(user.RegisteredEvents, domain.Registration{
			EventID:      reg.EventID,
			RegisteredOn: reg.RegisteredOn,
			TeamID:       deref(reg.TeamID),
			Remark:       reg.Remark,
		})
	}

	return user
}

func (r *UserRepository) daosToDomain(rows []dao.User) []domain.User {
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, r.daoToDomain(row))
	}

	return users
}

func profileToDao(p domain.Profile) dao.Profile {
	return dao.Profile{
		Name:                p.Name,
		Email:               p.Email,
		PhoneNumber:         p.PhoneNumber,
		CollegeOrUniversity: p.CollegeOrUniversity,
		Course:              p.Course,
		Year:                p.Year,
		Gender:              string(p.Gender),
		GithubProfile:       nonEmpty(p.GithubProfile),
		LinkedinProfile:     nonEmpty(p.LinkedinProfile),
	}
}

func registrationToDao(reg domain.Registration) dao.Registration {
	return dao.Registration{
		EventID:      reg.EventID,
		RegisteredOn: reg.RegisteredOn,
		TeamID:       nonEmpty(reg.TeamID),
		Remark:       reg.Remark,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
