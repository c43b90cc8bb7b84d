package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository/dao"
	"github.com/ieee-synapse/synapse-api/internal/session"
)

type PostgresStore struct {
	db      *gorm.DB
	schemas *dao.SchemaManager
	blobs   BlobBackend
}

func NewPostgresStore(db *gorm.DB, blobs BlobBackend) *PostgresStore {
	if blobs == nil {
		blobs = NoBlobs
	}

	return &PostgresStore{
		db:      db,
		schemas: dao.NewSchemaManager(db),
		blobs:   blobs,
	}
}

type postgresPartition struct {
	id     domain.SessionID
	users  *UserRepository
	events *EventRepository
	teams  *TeamRepository
	blobs  BlobStore
}

func (p *postgresPartition) Session() domain.SessionID { return p.id }
func (p *postgresPartition) Users() UserStore          { return p.users }
func (p *postgresPartition) Events() EventStore        { return p.events }
func (p *postgresPartition) Teams() TeamStore          { return p.teams }
func (p *postgresPartition) Blobs() BlobStore          { return p.blobs }

func (s *PostgresStore) Partition(ctx context.Context, id domain.SessionID) (Partition, error) {
	if !session.Matches(id.String()) {
		return nil, session.ErrInvalidFormat
	}
	if err := s.schemas.EnsurePartition(ctx, id.String()); err != nil {
		return nil, fmt.Errorf("s.schemas.EnsurePartition -> %w", err)
	}

	return &postgresPartition{
		id:     id,
		users:  NewUserRepository(dao.NewUserDAO(s.db, id.String())),
		events: NewEventRepository(dao.NewEventDAO(s.db, id.String())),
		teams:  NewTeamRepository(dao.NewTeamDAO(s.db, id.String())),
		blobs:  s.blobs.ForSession(id),
	}, nil
}

func (s *PostgresStore) Partitions(ctx context.Context) ([]domain.SessionID, error) {
	names, err := s.schemas.ListSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.schemas.ListSchemas -> %w", err)
	}

	return conforming(names), nil
}

func (s *PostgresStore) PartitionExists(ctx context.Context, id domain.SessionID) (bool, error) {
	if !session.Matches(id.String()) {
		return false, nil
	}

	return s.schemas.SchemaExists(ctx, id.String())
}

func (s *PostgresStore) Admins(ctx context.Context, id domain.SessionID) (AccountStore, error) {
	if !session.Matches(id.String()) {
		return nil, session.ErrInvalidFormat
	}
	if err := s.schemas.EnsureAdminTable(ctx, id.String()); err != nil {
		return nil, fmt.Errorf("s.schemas.EnsureAdminTable -> %w", err)
	}

	return NewAccountRepository(dao.NewAdminDAO(s.db, id.String())), nil
}

func (s *PostgresStore) AdminSessions(ctx context.Context) ([]domain.SessionID, error) {
	names, err := s.schemas.ListAdminTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.schemas.ListAdminTables -> %w", err)
	}

	return conforming(names), nil
}

func (s *PostgresStore) AdminSessionExists(ctx context.Context, id domain.SessionID) (bool, error) {
	if !session.Matches(id.String()) {
		return false, nil
	}

	return s.schemas.AdminTableExists(ctx, id.String())
}

func (s *PostgresStore) Superadmins() AccountStore {
	return NewAccountRepository(dao.NewSuperadminDAO(s.db))
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("s.db.DB -> %w", err)
	}

	return sqlDB.Close()
}

func conforming(names []string) []domain.SessionID {
	ids := make([]domain.SessionID, 0, len(names))
	for _, n := range names {
		if session.Matches(n) {
			ids = append(ids, domain.SessionID(n))
		}
	}

	return ids
}
