package testutil

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/contacts-backend/internal/domain"
)

func SeedContact(tb testing.TB, ctx context.Context, tx *gorm.DB, fullName, email string, tags ...string) *types.Contact {
	tb.Helper()
	if tags == nil {
		tags = []string{}
	}
	c := &types.Contact{
		FullName: fullName,
		Email:    email,
		Tags:     datatypes.NewJSONSlice(tags),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contact: %v", err)
	}
	return c
}

func PtrString(v string) *string { return &v }
