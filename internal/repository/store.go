package repository

import (
	"context"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/repository/dao"
)

var (
	ErrUserNotFound      = dao.ErrUserNotFound
	ErrEmailExists       = dao.ErrEmailExists
	ErrAlreadyRegistered = dao.ErrAlreadyRegistered
	ErrEventNotFound     = dao.ErrEventNotFound
	ErrTeamNotFound      = dao.ErrTeamNotFound
	ErrTeamNameTaken     = dao.ErrTeamNameTaken
	ErrTeamCodeTaken     = dao.ErrTeamCodeTaken
	ErrTeamFull          = dao.ErrTeamFull
	ErrAlreadyMember     = dao.ErrAlreadyMember
	ErrAccountNotFound   = dao.ErrAccountNotFound
	ErrBlobNotFound      = errBlobNotFound
)

// UserStore is the detail collection of registrations.
type UserStore interface {
	Insert(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByIDAndEmail(ctx context.Context, id, email string) (domain.User, error)
	FindMany(ctx context.Context, ids []string) ([]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListRegisteredFor(ctx context.Context, eventID string) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id string, profile domain.Profile) error
	PushRegistration(ctx context.Context, id string, reg domain.Registration) error
	PullRegistration(ctx context.Context, id, eventID string) error
	PullRegistrationFromAll(ctx context.Context, eventID string) (int64, error)
	// SetRegistrationTeam sets team_id on the entry for eventID; "" clears it.
	SetRegistrationTeam(ctx context.Context, id, eventID, teamID string) error
	ClearTeamForEvent(ctx context.Context, eventID string) (int64, error)
	// SetRegistrationRemark sets the remark on the entry for eventID; nil clears it.
	SetRegistrationRemark(ctx context.Context, id, eventID string, remark *string) error
}

// EventStore is the index collection. Its set operations have add-to-set and pull semantics.
type EventStore interface {
	Insert(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id string) (domain.Event, error)
	FindMany(ctx context.Context, ids []string) ([]domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) error
	Delete(ctx context.Context, id string) error
	AddRegisteredUser(ctx context.Context, id, userID string) error
	RemoveRegisteredUser(ctx context.Context, id, userID string) error
	AddRegisteredTeam(ctx context.Context, id, teamID string) error
	RemoveRegisteredTeam(ctx context.Context, id, teamID string) error
	AddRemarkedUser(ctx context.Context, id, userID string) error
	RemoveRemarkedUser(ctx context.Context, id, userID string) error
	AddRemarkedTeam(ctx context.Context, id, teamID string) error
	RemoveRemarkedTeam(ctx context.Context, id, teamID string) error
	SetRemark(ctx context.Context, id string, remark *string) error
	// ReplaceIndex overwrites registered_user and registered_team. A nil teams slice stores NULL.
	ReplaceIndex(ctx context.Context, id string, users, teams []string) error
}

type TeamStore interface {
	Insert(ctx context.Context, team domain.Team) (domain.Team, error)
	FindByID(ctx context.Context, id string) (domain.Team, error)
	FindByCode(ctx context.Context, eventID, code string) (domain.Team, error)
	FindByName(ctx context.Context, eventID, name string) (domain.Team, error)
	CodeExists(ctx context.Context, eventID, code string) (bool, error)
	FindMany(ctx context.Context, ids []string) ([]domain.Team, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	// AddMember fails with ErrTeamFull once maxMembers joiners are listed.
	AddMember(ctx context.Context, id, userID string, maxMembers int) error
	RemoveMember(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteByEvent(ctx context.Context, eventID string) (int64, error)
	SetRemark(ctx context.Context, id string, remark *string) error
}

type BlobStore interface {
	Put(ctx context.Context, data []byte, filename, contentType string) (string, error)
	Get(ctx context.Context, id string) (domain.Blob, error)
	Delete(ctx context.Context, id string) error
}

// BlobBackend scopes blob storage to a session.
type BlobBackend interface {
	ForSession(id domain.SessionID) BlobStore
}

type AccountStore interface {
	Insert(ctx context.Context, account domain.Account) (domain.Account, error)
	FindByID(ctx context.Context, id string) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	FindByIDAndEmail(ctx context.Context, id, email string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	DeleteByIDAndEmail(ctx context.Context, id, email string) (int64, error)
}

// Partition is the per-session view of the store.
type Partition interface {
	Session() domain.SessionID
	Users() UserStore
	Events() EventStore
	Teams() TeamStore
	Blobs() BlobStore
}

// Store is the process-wide storage handle. It is opened once at startup and
// closed at shutdown.
type Store interface {
	Partition(ctx context.Context, id domain.SessionID) (Partition, error)
	// Partitions lists sessions present in storage; names outside the convention are skipped.
	Partitions(ctx context.Context) ([]domain.SessionID, error)
	PartitionExists(ctx context.Context, id domain.SessionID) (bool, error)
	Admins(ctx context.Context, id domain.SessionID) (AccountStore, error)
	AdminSessions(ctx context.Context) ([]domain.SessionID, error)
	AdminSessionExists(ctx context.Context, id domain.SessionID) (bool, error)
	Superadmins() AccountStore
	Close() error
}
