package contact

import (
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/contacts-backend/internal/platform/patch"
)

type Contact struct {
	ID        uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName  string                      `gorm:"size:120;not null;column:full_name" json:"full_name"`
	Email     string                      `gorm:"size:255;not null;uniqueIndex;column:email" json:"email"`
	Phone     *string                     `gorm:"size:32;column:phone" json:"phone"`
	Tags      datatypes.JSONSlice[string] `gorm:"column:tags;not null" json:"tags"`
	AvatarURL *string                     `gorm:"size:512;column:avatar_url" json:"avatar_url"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string { return "contacts" }

// TagList returns the tags as a non-nil slice.
func (c *Contact) TagList() []string {
	if c == nil || c.Tags == nil {
		return []string{}
	}
	return []string(c.Tags)
}

// Patch is a partial update. Only fields that are set are applied.
// avatar_url is written only by enrichment.
type Patch struct {
	FullName patch.Field[string]
	Email    patch.Field[string]
	Phone    patch.Field[string]
	Tags     patch.Field[[]string]
}

// Empty reports whether the patch carries no changes.
func (p Patch) Empty() bool {
	return !p.FullName.IsSet() && !p.Email.IsSet() && !p.Phone.IsSet() && !p.Tags.IsSet()
}

// ChangesEmail reports whether applying p to c would change its email.
func (p Patch) ChangesEmail(c *Contact) bool {
	email, ok := p.Email.Get()
	if !ok || c == nil {
		return false
	}
	return email != c.Email
}

// ListFilter drives contact listing.
type ListFilter struct {
	Query  string
	Tag    string
	Limit  int
	Offset int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Normalize applies the default and the cap to Limit and floors Offset at zero.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
