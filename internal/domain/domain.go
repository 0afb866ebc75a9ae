package domain

import (
	"github.com/yungbote/contacts-backend/internal/domain/contact"
)

type Contact = contact.Contact
type ContactPatch = contact.Patch
type ContactListFilter = contact.ListFilter
type ContactEvent = contact.Event

const (
	DefaultContactListLimit = contact.DefaultListLimit
	MaxContactListLimit     = contact.MaxListLimit

	ContactCreated = contact.EventCreated
	ContactUpdated = contact.EventUpdated
	ContactDeleted = contact.EventDeleted
)

var (
	ErrContactNotFound = contact.ErrNotFound
	ErrEmailConflict   = contact.ErrConflict
	ErrInvalidContact  = contact.ErrValidation

	NewContactEvent = contact.NewEvent
)
