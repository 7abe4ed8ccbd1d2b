package release

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseVersionLine covers matching, prefix and pattern failures.
func TestParseVersionLine(t *testing.T) {
	t.Parallel()

	v, ok := ParseVersionLine(`version = "1.2.3"`)
	require.True(t, ok)
	require.Equal(t, "1.2.3", v.String())

	v, ok = ParseVersionLine(`version = "10.20.30" # trailing comment`)
	require.True(t, ok)
	require.Equal(t, "10.20.30", v.String())

	// Leading zeros are accepted; only digits are checked.
	v, ok = ParseVersionLine(`version = "01.002.3"`)
	require.True(t, ok)
	require.Equal(t, "01.002.3", v.String())

	for _, line := range []string{
		`  version = "1.2.3"`,
		`rust-version = "1.80.0"`,
		`version = "1.2"`,
		`version = "1.2.3-beta"`,
		`version.workspace = true`,
		``,
	} {
		v, ok = ParseVersionLine(line)
		require.False(t, ok, line)
		require.True(t, v.IsZero(), line)
		require.Empty(t, v.String(), line)
	}
}

// TestScanVersion_FirstMatchingLineWins skips version lines without a triple and ignores later matches.
func TestScanVersion_FirstMatchingLineWins(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"[package]",
		`name = "lua-framework"`,
		"versioned-build = true",
		"version.workspace = true",
		`version = "1.2.3"`,
		`edition = "2021"`,
		"",
		"[dependencies.other]",
		`version = "9.9.9"`,
	}, "\n")

	v, ok, err := ScanVersion(strings.NewReader(text))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1.2.3", v.String())
}

// TestScanVersion_LongLines accepts lines beyond the default scanner token size.
func TestScanVersion_LongLines(t *testing.T) {
	t.Parallel()

	long := "description = \"" + strings.Repeat("x", 256*1024) + "\""

	v, ok, err := ScanVersion(strings.NewReader(long + "\nversion = \"2.0.1\"\r\n"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2.0.1", v.String())

	v, ok, err = ScanVersion(strings.NewReader(long))
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v.String())
}

// TestScanVersion_NoMatch verifies the not-found outcome yields an empty string.
func TestScanVersion_NoMatch(t *testing.T) {
	t.Parallel()

	v, ok, err := ScanVersion(strings.NewReader("[package]\nname = \"x\"\n"))
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v.String())

	// A malformed version line is skipped in favour of a later valid one.
	v, ok, err = ScanVersion(strings.NewReader("version = \"1.2\"\nversion = \"1.2.3\"\n"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1.2.3", v.String())
}
