package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/yungbote/contacts-backend/internal/domain"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

func TestNewEventBusWithoutAddrIsNop(t *testing.T) {
	bus, err := NewEventBus(logger.NewNop(), Config{})
	require.NoError(t, err)
	assert.IsType(t, NopBus{}, bus)
	assert.NoError(t, bus.Publish(context.Background(), types.ContactEvent{Type: types.ContactCreated}))
	assert.NoError(t, bus.Close())
}

func TestNewEventBusUnreachable(t *testing.T) {
	_, err := NewEventBus(logger.NewNop(), Config{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestNewEventBusRequiresLogger(t *testing.T) {
	_, err := NewEventBus(nil, Config{})
	require.Error(t, err)
}

func TestEncodeEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &types.Contact{ID: 7, FullName: "Anna", Email: "anna@example.com", Tags: datatypes.NewJSONSlice([]string{"friend"})}

	raw, err := EncodeEvent(types.NewContactEvent(types.ContactCreated, c, at))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "contact.created", got["type"])
	assert.Equal(t, float64(7), got["contact_id"])
	assert.Equal(t, "2026-03-01T12:00:00Z", got["at"])
	contact, ok := got["contact"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "anna@example.com", contact["email"])
	assert.Equal(t, []any{"friend"}, contact["tags"])
}

func TestEncodeDeleteEventOmitsContact(t *testing.T) {
	raw, err := EncodeEvent(types.NewContactEvent(types.ContactDeleted, &types.Contact{ID: 3}, time.Now()))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, float64(3), got["contact_id"])
	_, present := got["contact"]
	assert.False(t, present)
}

func TestEncodeEventRequiresType(t *testing.T) {
	_, err := EncodeEvent(types.ContactEvent{ContactID: 1})
	require.Error(t, err)
}
