package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/contacts-backend/internal/data/repos"
	types "github.com/yungbote/contacts-backend/internal/domain"
	"github.com/yungbote/contacts-backend/internal/observability"
	"github.com/yungbote/contacts-backend/internal/platform/ctxutil"
	"github.com/yungbote/contacts-backend/internal/platform/dbctx"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

// AvatarResolver builds an avatar URL for an email and checks that it resolves.
type AvatarResolver interface {
	AvatarURL(email string) string
	Exists(ctx context.Context, avatarURL string) bool
}

// EventPublisher receives contact change events after commit.
type EventPublisher interface {
	Publish(ctx context.Context, ev types.ContactEvent) error
}

type ContactService interface {
	Create(ctx context.Context, c *types.Contact) (*types.Contact, error)
	Get(ctx context.Context, id uint) (*types.Contact, error)
	List(ctx context.Context, filter types.ContactListFilter) ([]*types.Contact, error)
	Update(ctx context.Context, id uint, p types.ContactPatch) (*types.Contact, error)
	Delete(ctx context.Context, id uint) error
}

type ContactServiceOptions struct {
	// EnrichAvatars turns the avatar probe on for create and email changes.
	EnrichAvatars bool
	Metrics       *observability.Metrics
	Now           func() time.Time
}

type contactService struct {
	db          *gorm.DB
	log         *logger.Logger
	contactRepo repos.ContactRepo
	avatars     AvatarResolver
	events      EventPublisher
	enrich      bool
	metrics     *observability.Metrics
	now         func() time.Time
}

func NewContactService(
	db *gorm.DB,
	log *logger.Logger,
	contactRepo repos.ContactRepo,
	avatars AvatarResolver,
	events EventPublisher,
	opts ContactServiceOptions,
) ContactService {
	serviceLog := log.With("service", "ContactService")
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &contactService{
		db:          db,
		log:         serviceLog,
		contactRepo: contactRepo,
		avatars:     avatars,
		events:      events,
		enrich:      opts.EnrichAvatars && avatars != nil,
		metrics:     opts.Metrics,
		now:         now,
	}
}

func (s *contactService) Create(ctx context.Context, c *types.Contact) (*types.Contact, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil contact", types.ErrInvalidContact)
	}

	var created *types.Contact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.contactRepo.GetByEmail(inner, c.Email)
		if err != nil {
			return fmt.Errorf("lookup email: %w", err)
		}
		if existing != nil {
			return types.ErrEmailConflict
		}
		created, err = s.contactRepo.Create(inner, c)
		return err
	})
	if err != nil {
		s.metrics.IncContactOp("create", resultOf(err))
		if !errors.Is(err, types.ErrEmailConflict) {
			s.log.Error("Create contact transaction failed", "email", c.Email, "error", err)
		}
		return nil, err
	}

	created = s.enrichAvatar(ctx, created)
	s.metrics.IncContactOp("create", "ok")
	s.publish(ctx, types.ContactCreated, created)
	return created, nil
}

func (s *contactService) Get(ctx context.Context, id uint) (*types.Contact, error) {
	c, err := s.contactRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		s.log.Error("Get contact failed", "contact_id", id, "error", err)
		return nil, err
	}
	if c == nil {
		return nil, types.ErrContactNotFound
	}
	return c, nil
}

func (s *contactService) List(ctx context.Context, filter types.ContactListFilter) ([]*types.Contact, error) {
	out, err := s.contactRepo.List(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		s.log.Error("List contacts failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (s *contactService) Update(ctx context.Context, id uint, p types.ContactPatch) (*types.Contact, error) {
	var (
		updated      *types.Contact
		emailChanged bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.contactRepo.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load contact: %w", err)
		}
		if existing == nil {
			return types.ErrContactNotFound
		}
		emailChanged = p.ChangesEmail(existing)
		updated, err = s.contactRepo.Update(inner, existing, p)
		return err
	})
	if err != nil {
		s.metrics.IncContactOp("update", resultOf(err))
		if !errors.Is(err, types.ErrEmailConflict) && !errors.Is(err, types.ErrContactNotFound) {
			s.log.Error("Update contact transaction failed", "contact_id", id, "error", err)
		}
		return nil, err
	}

	if emailChanged {
		updated = s.enrichAvatar(ctx, updated)
	}
	s.metrics.IncContactOp("update", "ok")
	if !p.Empty() {
		s.publish(ctx, types.ContactUpdated, updated)
	}
	return updated, nil
}

func (s *contactService) Delete(ctx context.Context, id uint) error {
	var deleted *types.Contact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.contactRepo.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load contact: %w", err)
		}
		if existing == nil {
			return types.ErrContactNotFound
		}
		deleted = existing
		return s.contactRepo.Delete(inner, existing)
	})
	if err != nil {
		s.metrics.IncContactOp("delete", resultOf(err))
		if !errors.Is(err, types.ErrContactNotFound) {
			s.log.Error("Delete contact transaction failed", "contact_id", id, "error", err)
		}
		return err
	}
	s.metrics.IncContactOp("delete", "ok")
	s.publish(ctx, types.ContactDeleted, deleted)
	return nil
}

// enrichAvatar probes the avatar for c's email and stores it on a hit.
// It runs after the write transaction commits; failures leave c unchanged.
func (s *contactService) enrichAvatar(ctx context.Context, c *types.Contact) *types.Contact {
	if !s.enrich || c == nil {
		return c
	}
	avatarURL := s.avatars.AvatarURL(c.Email)
	s.log.Debug("Probing avatar", "contact_id", c.ID, "url", avatarURL)
	if !s.avatars.Exists(ctx, avatarURL) {
		return c
	}
	withAvatar, err := s.contactRepo.SetAvatarURL(dbctx.Context{Ctx: ctx}, c.ID, avatarURL)
	if err != nil {
		s.log.Warn("Failed to store avatar url", append(ctxutil.LogFields(ctx), "contact_id", c.ID, "error", err)...)
		return c
	}
	return withAvatar
}

func (s *contactService) publish(ctx context.Context, eventType string, c *types.Contact) {
	if s.events == nil || c == nil {
		return
	}
	err := s.events.Publish(ctx, types.NewContactEvent(eventType, c, s.now()))
	s.metrics.IncEventPublished(eventType, err)
	if err != nil {
		s.log.Warn("Failed to publish contact event", append(ctxutil.LogFields(ctx), "type", eventType, "contact_id", c.ID, "error", err)...)
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrEmailConflict):
		return "conflict"
	case errors.Is(err, types.ErrContactNotFound):
		return "not_found"
	default:
		return "error"
	}
}
