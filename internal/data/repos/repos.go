package repos

import (
	"github.com/yungbote/contacts-backend/internal/data/repos/contact"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ContactRepo = contact.ContactRepo

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return contact.NewContactRepo(db, baseLog)
}
