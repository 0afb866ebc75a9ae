package contact

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/contacts-backend/internal/domain"
	"github.com/yungbote/contacts-backend/internal/platform/dbctx"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns contacts matching filter ordered by id. The filter is normalized
// first, so Limit never exceeds types.MaxContactListLimit.
func (r *contactRepo) List(dbc dbctx.Context, filter types.ContactListFilter) ([]*types.Contact, error) {
	filter = filter.Normalize()

	q := applyFilter(dbc.DB(r.db).Model(&types.Contact{}), filter)

	var results []*types.Contact
	if err := q.
		Order("id ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&results).Error; err != nil {
		r.log.Error("Failed to list contacts", "query", filter.Query, "tag", filter.Tag, "error", err)
		return nil, err
	}
	if results == nil {
		results = []*types.Contact{}
	}
	return results, nil
}

func applyFilter(q *gorm.DB, filter types.ContactListFilter) *gorm.DB {
	if text := strings.TrimSpace(filter.Query); text != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
		q = q.Where(
			`(LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`,
			like, like,
		)
	}
	if filter.Tag != "" {
		q = q.Where(datatypes.JSONArrayQuery("tags").Contains(filter.Tag))
	}
	return q
}
