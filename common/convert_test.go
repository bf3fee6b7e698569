package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBool(t *testing.T) {
	t.Parallel()

	for _, v := range []any{true, "True", "yes", "ON", "1", 1, 2.5} {
		b, err := ToBool(v)
		require.NoError(t, err, v)
		assert.True(t, b, v)
	}
	for _, v := range []any{false, "false", "No", "off", "0", "", "None", 0} {
		b, err := ToBool(v)
		require.NoError(t, err, v)
		assert.False(t, b, v)
	}
	_, err := ToBool("maybe")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ToBool([]any{true})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestToNumbers(t *testing.T) {
	t.Parallel()

	f, err := ToFloat("2.5")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, f, 0)

	f, err = ToFloat(int64(3))
	require.NoError(t, err)
	assert.InDelta(t, 3, f, 0)

	_, err = ToFloat("fast")
	assert.ErrorIs(t, err, ErrInvalidValue)

	i, err := ToInt("720")
	require.NoError(t, err)
	assert.Equal(t, int64(720), i)

	i, err = ToInt(2.0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), i)

	_, err = ToInt(2.5)
	assert.ErrorIs(t, err, ErrInvalidValue)

	for _, v := range []any{1e19, -1e19, "1e30", float64(math.MaxInt64)} {
		_, err = ToInt(v)
		assert.ErrorIsf(t, err, ErrInvalidValue, "ToInt(%v)", v)
	}
	i, err = ToInt(float64(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i)

	_, err = toEngineInt(int64(math.MaxInt32) + 1)
	assert.ErrorContains(t, err, "int32 range")
	i, err = toEngineInt(math.MaxInt32)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt32), i)
}

func TestToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{"css=#id", "css=#id"},
		{42, "42"},
		{1.5, "1.5"},
		{true, "true"},
	}
	for _, tt := range tests {
		s, err := ToString(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
	}

	_, err := ToString(map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestToStringSlice(t *testing.T) {
	t.Parallel()

	ss, err := ToStringSlice(nil)
	require.NoError(t, err)
	assert.Nil(t, ss)

	ss, err = ToStringSlice("https://example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com"}, ss)

	ss, err = ToStringSlice([]any{"--mute-audio", 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"--mute-audio", "1"}, ss)

	_, err = ToStringSlice([]any{map[string]any{}})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestToMap(t *testing.T) {
	t.Parallel()

	m, err := ToMap(map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "b"}, m)

	_, err = ToMap("a=b")
	assert.ErrorIs(t, err, ErrInvalidValue)

	sm, err := ToStringMap(map[string]any{"X-Retries": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"X-Retries": "3"}, sm)

	_, err = ToStringMap(map[string]any{"X-List": []any{}})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestOptionsEachSorted(t *testing.T) {
	t.Parallel()

	var keys []string
	err := Options{"c": 1, "a": 2, "b": 3}.each(func(k string, _ any) error {
		keys = append(keys, k)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}
