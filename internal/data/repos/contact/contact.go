package contact

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/contacts-backend/internal/domain"
	"github.com/yungbote/contacts-backend/internal/platform/dbctx"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

type ContactRepo interface {
	Create(dbc dbctx.Context, c *types.Contact) (*types.Contact, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Contact, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Contact, error)
	List(dbc dbctx.Context, filter types.ContactListFilter) ([]*types.Contact, error)
	Update(dbc dbctx.Context, c *types.Contact, p types.ContactPatch) (*types.Contact, error)
	SetAvatarURL(dbc dbctx.Context, id uint, avatarURL string) (*types.Contact, error)
	Delete(dbc dbctx.Context, c *types.Contact) error
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	repoLog := baseLog.With("repo", "ContactRepo")
	return &contactRepo{db: db, log: repoLog}
}

// inTx runs fn inside the caller's transaction, or opens one when the caller has none.
// Returning an error from fn rolls back everything fn wrote.
func (r *contactRepo) inTx(dbc dbctx.Context, fn func(tx *gorm.DB) error) error {
	if dbc.Tx != nil {
		return fn(dbc.DB(r.db))
	}
	return dbc.DB(r.db).Transaction(fn)
}

func (r *contactRepo) Create(dbc dbctx.Context, c *types.Contact) (*types.Contact, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil contact", types.ErrInvalidContact)
	}
	if c.Tags == nil {
		c.Tags = datatypes.JSONSlice[string]{}
	}
	err := r.inTx(dbc, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&types.Contact{}).Where("email = ?", c.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.ErrEmailConflict
		}
		return tx.Create(c).Error
	})
	if err != nil {
		err = translate(err)
		if !errors.Is(err, types.ErrEmailConflict) {
			r.log.Error("Failed to create contact", "email", c.Email, "error", err)
		}
		return nil, err
	}
	return c, nil
}

func (r *contactRepo) GetByID(dbc dbctx.Context, id uint) (*types.Contact, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Contact
	res := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *contactRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Contact, error) {
	if email == "" {
		return nil, nil
	}
	var row types.Contact
	res := dbc.DB(r.db).Where("email = ?", email).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *contactRepo) Update(dbc dbctx.Context, c *types.Contact, p types.ContactPatch) (*types.Contact, error) {
	if c == nil || c.ID == 0 {
		return nil, types.ErrContactNotFound
	}
	updates := patchColumns(p)
	if len(updates) == 0 {
		return c, nil
	}

	var out types.Contact
	err := r.inTx(dbc, func(tx *gorm.DB) error {
		if email, ok := p.Email.Get(); ok && email != c.Email {
			var count int64
			if err := tx.Model(&types.Contact{}).Where("email = ? AND id <> ?", email, c.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return types.ErrEmailConflict
			}
		}
		res := tx.Model(&types.Contact{}).Where("id = ?", c.ID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrContactNotFound
		}
		return tx.Where("id = ?", c.ID).First(&out).Error
	})
	if err != nil {
		err = translate(err)
		if !errors.Is(err, types.ErrEmailConflict) && !errors.Is(err, types.ErrContactNotFound) {
			r.log.Error("Failed to update contact", "contact_id", c.ID, "error", err)
		}
		return nil, err
	}
	return &out, nil
}

func (r *contactRepo) SetAvatarURL(dbc dbctx.Context, id uint, avatarURL string) (*types.Contact, error) {
	var out types.Contact
	err := r.inTx(dbc, func(tx *gorm.DB) error {
		res := tx.Model(&types.Contact{}).Where("id = ?", id).Update("avatar_url", avatarURL)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrContactNotFound
		}
		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *contactRepo) Delete(dbc dbctx.Context, c *types.Contact) error {
	if c == nil || c.ID == 0 {
		return types.ErrContactNotFound
	}
	err := r.inTx(dbc, func(tx *gorm.DB) error {
		res := tx.Where("id = ?", c.ID).Delete(&types.Contact{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrContactNotFound
		}
		return nil
	})
	if err != nil {
		err = translate(err)
		if !errors.Is(err, types.ErrContactNotFound) {
			r.log.Error("Failed to delete contact", "contact_id", c.ID, "error", err)
		}
		return err
	}
	return nil
}

// patchColumns maps the set fields of p onto column updates.
func patchColumns(p types.ContactPatch) map[string]any {
	updates := map[string]any{}
	if v, ok := p.FullName.Get(); ok {
		updates["full_name"] = v
	}
	if v, ok := p.Email.Get(); ok {
		updates["email"] = v
	}
	if p.Phone.IsSet() {
		if v, ok := p.Phone.Get(); ok {
			updates["phone"] = v
		} else {
			updates["phone"] = nil
		}
	}
	if p.Tags.IsSet() {
		v, _ := p.Tags.Get()
		if v == nil {
			v = []string{}
		}
		updates["tags"] = datatypes.NewJSONSlice(v)
	}
	return updates
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return types.ErrEmailConflict
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrContactNotFound
	}
	return err
}
