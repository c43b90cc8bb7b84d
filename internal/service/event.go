package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/metrics"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

// DefaultMaxImageBytes bounds event thumbnails.
const DefaultMaxImageBytes = 50 * 1024

// Upload is an image received from the transport boundary.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type EventService struct {
	store         repository.Store
	sessions      Sessions
	maxImageBytes int
}

func NewEventService(store repository.Store, sessions Sessions, maxImageBytes int) *EventService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}

	return &EventService{
		store:         store,
		sessions:      sessions,
		maxImageBytes: maxImageBytes,
	}
}

func (s *EventService) checkImage(image *Upload) error {
	if image == nil {
		return nil
	}
	if len(image.Data) > s.maxImageBytes {
		return domain.InvalidInput("Image size exceeds %dKB", s.maxImageBytes/1024)
	}
	if !strings.HasPrefix(image.ContentType, "image/") {
		return domain.InvalidInput("Thumbnail must be an image")
	}

	return nil
}

// Create stores a new event in the current session.
func (s *EventService) Create(ctx context.Context, in domain.Event, image *Upload) (event domain.Event, err error) {
	defer func() { metrics.ObserveOperation("event.create", err) }()

	if strings.TrimSpace(in.Name) == "" {
		return domain.Event{}, domain.InvalidInput("event_name is required")
	}
	if err = s.checkImage(image); err != nil {
		return domain.Event{}, err
	}

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return domain.Event{}, err
	}

	event = in
	event.ID = objectid.New()
	event.CreatedOn = s.sessions.Now().UTC()
	event.RegisteredUsers = []string{}
	event.RemarkedUsers = []string{}
	event.RemarkedTeams = nil
	event.Remark = nil
	event.ThumbnailID = nil
	if event.TeamAllowed {
		event.RegisteredTeams = []string{}
		event.TeamSize = max(event.TeamSize, 1)
	} else {
		event.RegisteredTeams = nil
		event.TeamSize = 0
	}

	if image != nil {
		id, err := part.Blobs().Put(ctx, image.Data, image.Filename, image.ContentType)
		if err != nil {
			return domain.Event{}, fmt.Errorf("Blobs.Put -> %w", err)
		}
		event.ThumbnailID = &id
	}

	created, err := part.Events().Insert(ctx, event)
	if err != nil {
		if event.ThumbnailID != nil {
			if derr := part.Blobs().Delete(ctx, *event.ThumbnailID); derr != nil {
				zap.L().Warn("failed to delete thumbnail of unsaved event",
					zap.String("session", part.Session().String()),
					zap.String("blob_id", *event.ThumbnailID),
					zap.Error(derr),
				)
			}
		}
		return domain.Event{}, fmt.Errorf("Events.Insert -> %w", err)
	}

	return created, nil
}

// Update applies patch. Turning teams off deletes the event's teams and strips
// team references from registrations before the event itself is rewritten.
func (s *EventService) Update(ctx context.Context, eventID string, patch domain.EventPatch, image *Upload) (err error) {
	defer func() { metrics.ObserveOperation("event.update", err) }()

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.InvalidInput("event_name cannot be empty")
	}
	if err = s.checkImage(image); err != nil {
		return err
	}

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return err
	}

	patch.ThumbnailID = nil
	if image != nil {
		id, err := part.Blobs().Put(ctx, image.Data, image.Filename, image.ContentType)
		if err != nil {
			return fmt.Errorf("Blobs.Put -> %w", err)
		}
		patch.ThumbnailID = &id
	}

	switch {
	case patch.TeamAllowed != nil && !*patch.TeamAllowed:
		if err = s.dropTeams(ctx, part, event.ID); err != nil {
			return err
		}
		zero := 0
		patch.TeamSize = &zero
		patch.DropTeams = true

	case patch.TeamAllowed != nil || event.TeamAllowed:
		if !event.TeamAllowed {
			patch.ResetTeams = true
		}
		size := event.TeamSize
		if patch.TeamSize != nil {
			size = *patch.TeamSize
		}
		if size < 1 {
			one := 1
			patch.TeamSize = &one
		}

	default:
		patch.TeamSize = nil
	}

	if err = part.Events().Update(ctx, event.ID, patch); err != nil {
		return translate(err, "Events.Update", repository.ErrEventNotFound, domain.NotFound("Event not found"))
	}

	if patch.ThumbnailID != nil && event.ThumbnailID != nil {
		if err = part.Blobs().Delete(ctx, *event.ThumbnailID); err != nil {
			zap.L().Warn("failed to delete replaced thumbnail",
				zap.String("session", part.Session().String()),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

func (s *EventService) dropTeams(ctx context.Context, part repository.Partition, eventID string) error {
	teams, err := part.Teams().DeleteByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("Teams.DeleteByEvent -> %w", err)
	}
	users, err := part.Users().ClearTeamForEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("Users.ClearTeamForEvent -> %w", err)
	}

	zap.L().Info("dropped event teams",
		zap.String("session", part.Session().String()),
		zap.String("event_id", eventID),
		zap.Int64("teams", teams),
		zap.Int64("users", users),
	)

	return nil
}

// Delete removes the event with its thumbnail, teams and every registration entry.
func (s *EventService) Delete(ctx context.Context, eventID string) (err error) {
	defer func() { metrics.ObserveOperation("event.delete", err) }()

	part, err := currentPartition(ctx, s.store, s.sessions)
	if err != nil {
		return err
	}
	event, err := findEvent(ctx, part, eventID)
	if err != nil {
		return err
	}

	if event.ThumbnailID != nil {
		if err = part.Blobs().Delete(ctx, *event.ThumbnailID); err != nil {
			return fmt.Errorf("Blobs.Delete -> %w", err)
		}
	}
	teams, err := part.Teams().DeleteByEvent(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("Teams.DeleteByEvent -> %w", err)
	}
	users, err := part.Users().PullRegistrationFromAll(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("Users.PullRegistrationFromAll -> %w", err)
	}
	if err = part.Events().Delete(ctx, event.ID); err != nil {
		return translate(err, "Events.Delete", repository.ErrEventNotFound, domain.NotFound("Event not found"))
	}

	zap.L().Info("deleted event",
		zap.String("session", part.Session().String()),
		zap.String("event_id", event.ID),
		zap.Int64("teams", teams),
		zap.Int64("users", users),
	)

	return nil
}
