package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository/dao"
)

type TeamDAO interface {
	Insert(ctx context.Context, team dao.Team) (dao.Team, error)
	FindByID(ctx context.Context, id string) (dao.Team, error)
	FindByCode(ctx context.Context, eventID, code string) (dao.Team, error)
	FindByName(ctx context.Context, eventID, name string) (dao.Team, error)
	CodeExists(ctx context.Context, eventID, code string) (bool, error)
	FindMany(ctx context.Context, ids []string) ([]dao.Team, error)
	ListByEvent(ctx context.Context, eventID string) ([]dao.Team, error)
	List(ctx context.Context) ([]dao.Team, error)
	AddMember(ctx context.Context, id, userID string, maxMembers int) error
	RemoveMember(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
	SetRemark(ctx context.Context, id string, remark *string) error
}

type TeamRepository struct {
	dao TeamDAO
}

func NewTeamRepository(dao TeamDAO) *TeamRepository {
	return &TeamRepository{
		dao: dao,
	}
}

func (r *TeamRepository) Insert(ctx context.Context, team domain.Team) (domain.Team, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(team))
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TeamRepository) FindByID(ctx context.Context, id string) (domain.Team, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TeamRepository) FindByCode(ctx context.Context, eventID, code string) (domain.Team, error) {
	found, err := r.dao.FindByCode(ctx, eventID, code)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TeamRepository) FindByName(ctx context.Context, eventID, name string) (domain.Team, error) {
	found, err := r.dao.FindByName(ctx, eventID, name)
	if err != nil {
		return domain.Team{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TeamRepository) CodeExists(ctx context.Context, eventID, code string) (bool, error) {
	ok, err := r.dao.CodeExists(ctx, eventID, code)
	if err != nil {
		return false, fmt.Errorf("r.dao.CodeExists -> %w", err)
	}

	return ok, nil
}

func (r *TeamRepository) FindMany(ctx context.Context, ids []string) ([]domain.Team, error) {
	found, err := r.dao.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMany -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TeamRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Team, error) {
	found, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TeamRepository) AddMember(ctx context.Context, id, userID string, maxMembers int) error {
	if err := r.dao.AddMember(ctx, id, userID, maxMembers); err != nil {
		return fmt.Errorf("r.dao.AddMember -> %w", err)
	}

	return nil
}

func (r *TeamRepository) RemoveMember(ctx context.Context, id, userID string) error {
	if err := r.dao.RemoveMember(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.RemoveMember -> %w", err)
	}

	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *TeamRepository) DeleteByEvent(ctx context.Context, eventID string) (int64, error) {
	n, err := r.dao.DeleteByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteByEvent -> %w", err)
	}

	return n, nil
}

func (r *TeamRepository) SetRemark(ctx context.Context, id string, remark *string) error {
	if err := r.dao.SetRemark(ctx, id, remark); err != nil {
		return fmt.Errorf("r.dao.SetRemark -> %w", err)
	}

	return nil
}

func (r *TeamRepository) domainToDao(t domain.Team) dao.Team {
	details := make(datatypes.JSONSlice[dao.MemberDetail], 0, len(t.MemberDetails))
	for _, m := range t.MemberDetails {
		details = append(details, dao.MemberDetail(m))
	}

	return dao.Team{
		ID:            t.ID,
		EventID:       t.EventID,
		TeamName:      t.Name,
		TeamCode:      t.Code,
		LeaderID:      t.LeaderID,
		Members:       pq.StringArray(nonNil(t.Members)),
		MemberDetails: details,
		RegisteredOn:  t.RegisteredOn,
		Remark:        t.Remark,
	}
}

func (r *TeamRepository) daoToDomain(t dao.Team) domain.Team {
	details := make([]domain.MemberDetail, 0, len(t.MemberDetails))
	for _, m := range t.MemberDetails {
		details = append(details, domain.MemberDetail(m))
	}

	return domain.Team{
		ID:            t.ID,
		EventID:       t.EventID,
		Name:          t.TeamName,
		Code:          t.TeamCode,
		LeaderID:      t.LeaderID,
		Members:       nonNil(t.Members),
		MemberDetails: details,
		RegisteredOn:  t.RegisteredOn,
		Remark:        t.Remark,
	}
}

func (r *TeamRepository) daosToDomain(rows []dao.Team) []domain.Team {
	teams := make([]domain.Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, r.daoToDomain(row))
	}

	return teams
}
