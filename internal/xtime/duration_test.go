package xtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestDurationOr(t *testing.T) {
	assert.Equal(t, 5*time.Second, Duration(0).Or(5*time.Second))
	assert.Equal(t, 5*time.Second, Duration(-time.Second).Or(5*time.Second))
	assert.Equal(t, time.Minute, Duration(time.Minute).Or(5*time.Second))
}
