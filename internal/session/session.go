// Package session maps wall-clock time and caller input to academic-year partitions.
package session

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

// A session runs July 1 to June 30; CutoverMonth is the first month of the next one.
const CutoverMonth = time.July

var pattern = regexp.MustCompile(`^(\d{4})_(\d{4})$`)

var ErrInvalidFormat = domain.InvalidInput("Invalid year format. Use YYYY_YYYY")

// Current returns the session containing now.
func Current(now time.Time) domain.SessionID {
	end := now.Year()
	if now.Month() >= CutoverMonth {
		end++
	}

	return domain.SessionForEndYear(end)
}

// Parse checks that candidate names two consecutive years joined by an underscore.
func Parse(candidate string) (domain.SessionID, error) {
	m := pattern.FindStringSubmatch(strings.TrimSpace(candidate))
	if m == nil {
		return "", ErrInvalidFormat
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	if end != start+1 {
		return "", ErrInvalidFormat
	}

	return domain.SessionID(m[0]), nil
}

// Matches reports whether name follows the partition naming convention.
func Matches(name string) bool {
	_, err := Parse(name)
	return err == nil
}

// ExpiresAt is the instant tokens issued during s stop being valid.
func ExpiresAt(s domain.SessionID) time.Time {
	return time.Date(s.EndYear(), time.June, 30, domain.RegistrationCutoffHour, domain.RegistrationCutoffMinute, 0, 0, time.UTC)
}

type Lister interface {
	PartitionExists(ctx context.Context, id domain.SessionID) (bool, error)
	AdminSessionExists(ctx context.Context, id domain.SessionID) (bool, error)
}

type Option func(*Resolver)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

type Resolver struct {
	lister Lister
	now    func() time.Time
}

func NewResolver(lister Lister, opts ...Option) *Resolver {
	r := &Resolver{
		lister: lister,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Resolver) Current() domain.SessionID {
	return Current(r.now())
}

func (r *Resolver) Now() time.Time {
	return r.now()
}

// Validate resolves a caller-supplied historical session.
func (r *Resolver) Validate(ctx context.Context, candidate string) (domain.SessionID, error) {
	id, err := Parse(candidate)
	if err != nil {
		return "", err
	}

	ok, err := r.lister.PartitionExists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("r.lister.PartitionExists -> %w", err)
	}
	if !ok {
		return "", domain.NotFound("Session %s not found", id)
	}

	return id, nil
}

// ValidateAdmins resolves a session that must have an admin credential table.
func (r *Resolver) ValidateAdmins(ctx context.Context, candidate string) (domain.SessionID, error) {
	id, err := Parse(candidate)
	if err != nil {
		return "", err
	}

	ok, err := r.lister.AdminSessionExists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("r.lister.AdminSessionExists -> %w", err)
	}
	if !ok {
		return "", domain.NotFound("No admins registered for session %s", id)
	}

	return id, nil
}
