package headers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap_AddAndGet(t *testing.T) {
	m := New().Add("Content-Type", "text/plain")
	v, ok := m.Get("content-type")
	require.True(t, ok)
	require.Equal(t, "text/plain", v)
}

func TestMap_SetReplacesAllPriorValues(t *testing.T) {
	m := New().Add("X-Tag", "a").Add("X-Tag", "b")
	require.Equal(t, []string{"a", "b"}, m.Values("X-Tag"))

	m.Set("x-tag", "c")
	require.Equal(t, []string{"c"}, m.Values("X-Tag"))
}

func TestMap_InsertUnlessPresent(t *testing.T) {
	m := New().Add("Allow", "GET")
	m.InsertUnlessPresent(New().Add("Allow", "POST").Add("X-New", "1"))

	require.Equal(t, "GET", m.Value("Allow"))
	require.Equal(t, "1", m.Value("X-New"))
}

func TestMap_Reset(t *testing.T) {
	m := New().Add("Host", "example.com")
	m.Reset()
	require.Equal(t, 0, m.Len())
	require.False(t, m.Has("Host"))
}

func TestMap_String(t *testing.T) {
	m := New().Add("Host", "example.com").Add("Connection", "close")
	require.Equal(t, "Host: example.com\r\nConnection: close\r\n", m.String())
}

func TestMap_Absorb(t *testing.T) {
	t.Run("ValidLineAddsPair", func(t *testing.T) {
		m := New()
		complete, ok := m.Absorb("Host: example.com")
		require.True(t, ok)
		require.False(t, complete)
		require.Equal(t, "example.com", m.Value("Host"))
	})

	t.Run("EmptyLineCompletes", func(t *testing.T) {
		m := New()
		complete, ok := m.Absorb("")
		require.True(t, ok)
		require.True(t, complete)
	})

	t.Run("MissingColonFails", func(t *testing.T) {
		m := New()
		_, ok := m.Absorb("not a header")
		require.False(t, ok)
	})

	t.Run("TrimsNameAndValue", func(t *testing.T) {
		m := New()
		m.Absorb("  Host  :   example.com  ")
		require.Equal(t, "example.com", m.Value("Host"))
	})
}
