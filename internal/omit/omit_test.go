package omit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Enabled Omit[bool]   `json:"enabled,omitzero"`
	Timing  Omit[string] `json:"timing,omitzero"`
}

func TestUnmarshalMarksPresentFields(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"enabled":false}`), &p))

	assert.True(t, p.Enabled.OK)
	assert.False(t, p.Enabled.Value)
	assert.False(t, p.Timing.OK)
	assert.Equal(t, "1_day", p.Timing.Or("1_day"))
}

func TestMarshalSkipsAbsentFields(t *testing.T) {
	data, err := json.Marshal(patch{Timing: New("1_hour")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"timing":"1_hour"}`, string(data))
}
