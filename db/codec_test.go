package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	for _, list := range []StringList{
		{},
		{"https://example.com/a.png"},
		{"a.pdf", "b.pdf", "c.pdf"},
		{"проект.dwg", "смета.xlsx"},
	} {
		v, err := list.Value()
		require.NoError(t, err)

		var out StringList
		require.NoError(t, out.Scan(v))
		require.Equal(t, list, out)
	}
}

func TestStringListValueNil(t *testing.T) {
	var list StringList
	v, err := list.Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)
}

func TestStringListScanNull(t *testing.T) {
	var out StringList
	require.NoError(t, out.Scan(nil))
	require.Equal(t, StringList{}, out)
}

func TestStringListScanLegacyBareURL(t *testing.T) {
	var out StringList
	require.NoError(t, out.Scan("https://example.com/a.png"))
	require.Equal(t, StringList{"https://example.com/a.png"}, out)

	require.NoError(t, out.Scan([]byte("www.example.com/b.jpg")))
	require.Equal(t, StringList{"www.example.com/b.jpg"}, out)
}

func TestStringListScanQuotedURL(t *testing.T) {
	var out StringList
	require.NoError(t, out.Scan(`"https://example.com/a.png"`))
	require.Equal(t, StringList{"https://example.com/a.png"}, out)
}

func TestStringListScanMalformed(t *testing.T) {
	for _, raw := range []string{"not json", "{broken", "[broken", "42"} {
		var out StringList
		require.NoError(t, out.Scan(raw))
		require.Equal(t, StringList{}, out, "input %q", raw)
	}
}

func TestStringListScanJSONNull(t *testing.T) {
	var out StringList
	require.NoError(t, out.Scan("null"))
	require.Equal(t, StringList{}, out)
}

func TestStringListContains(t *testing.T) {
	list := StringList{"электрик", "сантехник"}
	require.True(t, list.Contains("электрик"))
	// Substrings of an element are not membership.
	require.False(t, list.Contains("электр"))
	require.False(t, StringList{}.Contains("электрик"))
}
