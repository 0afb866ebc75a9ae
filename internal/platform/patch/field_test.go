package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  Field[string]   `json:"name"`
	Phone Field[string]   `json:"phone"`
	Tags  Field[[]string] `json:"tags"`
}

func TestFieldDistinguishesAbsentNullAndValue(t *testing.T) {
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"phone":null,"tags":["a","b"]}`), &p))

	assert.False(t, p.Name.IsSet())
	_, ok := p.Name.Get()
	assert.False(t, ok)

	assert.True(t, p.Phone.IsSet())
	assert.True(t, p.Phone.IsNull())
	_, ok = p.Phone.Get()
	assert.False(t, ok)

	tags, ok := p.Tags.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tags)
}

func TestFieldRejectsWrongType(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"name":12}`), &p)
	require.Error(t, err)
}

func TestFieldConstructors(t *testing.T) {
	v, ok := Of("x").Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	n := Null[string]()
	assert.True(t, n.IsSet())
	assert.True(t, n.IsNull())

	raw, err := json.Marshal(payload{Name: Of("Anna")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Anna","phone":null,"tags":null}`, string(raw))
}
