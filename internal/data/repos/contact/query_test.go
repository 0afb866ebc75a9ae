package contact

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/contacts-backend/internal/data/repos/testutil"
	types "github.com/yungbote/contacts-backend/internal/domain"
	"github.com/yungbote/contacts-backend/internal/platform/dbctx"
)

func emails(rows []*types.Contact) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Email)
	}
	return out
}

func TestContactRepoListQuery(t *testing.T) {
	db := testutil.DB(t)
	repo := NewContactRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	testutil.SeedContact(t, ctx, db, "Anna Rossi", "anna@example.com")
	testutil.SeedContact(t, ctx, db, "Bob Bianchi", "bob@ANNEX.io")
	testutil.SeedContact(t, ctx, db, "Carla", "carla@example.com")
	testutil.SeedContact(t, ctx, db, "Under_score", "u@example.com")

	rows, err := repo.List(dbc, types.ContactListFilter{Query: "ANN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"anna@example.com", "bob@ANNEX.io"}, emails(rows))

	rows, err = repo.List(dbc, types.ContactListFilter{Query: "rossi"})
	require.NoError(t, err)
	assert.Equal(t, []string{"anna@example.com"}, emails(rows))

	// LIKE wildcards in the search text are literal
	rows, err = repo.List(dbc, types.ContactListFilter{Query: "_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u@example.com"}, emails(rows))

	rows, err = repo.List(dbc, types.ContactListFilter{Query: "%"})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.List(dbc, types.ContactListFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestContactRepoListTagIsExactMembership(t *testing.T) {
	db := testutil.DB(t)
	repo := NewContactRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	testutil.SeedContact(t, ctx, db, "Anna", "anna@example.com", "friend")
	testutil.SeedContact(t, ctx, db, "Bob", "bob@example.com", "friendly", "work")
	testutil.SeedContact(t, ctx, db, "Carla", "carla@example.com", "work", "friend")
	testutil.SeedContact(t, ctx, db, "Dario", "dario@example.com")

	rows, err := repo.List(dbc, types.ContactListFilter{Tag: "friend"})
	require.NoError(t, err)
	assert.Equal(t, []string{"anna@example.com", "carla@example.com"}, emails(rows))

	rows, err = repo.List(dbc, types.ContactListFilter{Tag: "friend", Query: "carla"})
	require.NoError(t, err)
	assert.Equal(t, []string{"carla@example.com"}, emails(rows))

	rows, err = repo.List(dbc, types.ContactListFilter{Tag: "Friend"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestContactRepoListPagination(t *testing.T) {
	db := testutil.DB(t)
	repo := NewContactRepo(db, testutil.Logger(t))
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	for i := 0; i < 205; i++ {
		testutil.SeedContact(t, ctx, db, fmt.Sprintf("Person %03d", i), fmt.Sprintf("p%03d@example.com", i))
	}

	rows, err := repo.List(dbc, types.ContactListFilter{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, rows, types.MaxContactListLimit)

	rows, err = repo.List(dbc, types.ContactListFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, types.DefaultContactListLimit)
	assert.Equal(t, "p000@example.com", rows[0].Email)

	rows, err = repo.List(dbc, types.ContactListFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"p010@example.com", "p011@example.com"}, emails(rows))

	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].ID, rows[i].ID)
	}

	rows, err = repo.List(dbc, types.ContactListFilter{Offset: 1000})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
