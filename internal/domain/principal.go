package domain

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// Claims are the decoded fields of a bearer token.
type Claims struct {
	Role      Role
	SubjectID string
	Email     string
	ExpiresAt time.Time
}

// Principal is an authenticated caller. The set of implementations is closed:
// UserPrincipal, AdminPrincipal and SuperadminPrincipal.
type Principal interface {
	Role() Role
	SubjectID() string
	Email() string
	isPrincipal()
}

type UserPrincipal struct {
	User User
}

func (p UserPrincipal) Role() Role        { return RoleUser }
func (p UserPrincipal) SubjectID() string { return p.User.ID }
func (p UserPrincipal) Email() string     { return p.User.Email }
func (UserPrincipal) isPrincipal()        {}

type AdminPrincipal struct {
	Account Account
	Session SessionID
}

func (p AdminPrincipal) Role() Role        { return RoleAdmin }
func (p AdminPrincipal) SubjectID() string { return p.Account.ID }
func (p AdminPrincipal) Email() string     { return p.Account.Email }
func (AdminPrincipal) isPrincipal()        {}

type SuperadminPrincipal struct {
	Account Account
}

func (p SuperadminPrincipal) Role() Role        { return RoleSuperadmin }
func (p SuperadminPrincipal) SubjectID() string { return p.Account.ID }
func (p SuperadminPrincipal) Email() string     { return p.Account.Email }
func (SuperadminPrincipal) isPrincipal()        {}
