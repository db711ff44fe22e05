package tzmap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIanaToWindows(t *testing.T) {
	c := Default()

	got, err := c.IanaToWindows("America/Los_Angeles")
	require.NoError(t, err)
	assert.Equal(t, "Pacific Standard Time", got)

	got, err = c.IanaToWindows("Asia/Shanghai")
	require.NoError(t, err)
	assert.Equal(t, "China Standard Time", got)
}

func TestWindowsToIana(t *testing.T) {
	c := Default()

	got, err := c.WindowsToIana("Eastern Standard Time")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", got)

	got, err = c.WindowsToIana("UTC")
	require.NoError(t, err)
	assert.Equal(t, "Etc/UTC", got)
}

func TestLookupsAreCaseInsensitive(t *testing.T) {
	c := Default()

	got, err := c.IanaToWindows("america/los_angeles")
	require.NoError(t, err)
	assert.Equal(t, "Pacific Standard Time", got)

	got, err = c.WindowsToIana("PACIFIC STANDARD TIME")
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", got)
}

func TestUnknownIdIsHardFailure(t *testing.T) {
	c := Default()

	_, err := c.IanaToWindows("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrUnknownTimeZone)

	_, err = c.WindowsToIana("Olympus Mons Standard Time")
	assert.ErrorIs(t, err, ErrUnknownTimeZone)

	_, err = c.IanaToWindows("")
	assert.ErrorIs(t, err, ErrUnknownTimeZone)
}

func TestTerritoryLookupFallsBackToWorld(t *testing.T) {
	c := Default()

	// Canada has its own Pacific entry.
	got, err := c.WindowsToIanaForTerritory("Pacific Standard Time", "CA")
	require.NoError(t, err)
	assert.Equal(t, "America/Vancouver", got)

	// France has none; the world row answers.
	got, err = c.WindowsToIanaForTerritory("Romance Standard Time", "FR")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", got)
}

func TestFirstSeenIanaMappingWins(t *testing.T) {
	table := strings.Join([]string{
		"First Standard Time,001,Test/Zone",
		"Second Standard Time,001,Test/Zone Test/Other",
	}, "\n")

	c, err := Load(strings.NewReader(table))
	require.NoError(t, err)

	got, err := c.IanaToWindows("Test/Zone")
	require.NoError(t, err)
	assert.Equal(t, "First Standard Time", got)

	got, err = c.IanaToWindows("Test/Other")
	require.NoError(t, err)
	assert.Equal(t, "Second Standard Time", got)
}

func TestLoadRejectsMalformedRows(t *testing.T) {
	_, err := Load(strings.NewReader("Eastern Standard Time,001,\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("only-two-fields,001\n"))
	assert.Error(t, err)
}

// Every canonical (world-row) mapping must survive a round trip through the
// opposite direction.
func TestBundledTableRoundTrip(t *testing.T) {
	c, err := Load(bytes.NewReader(windowsZonesCSV))
	require.NoError(t, err)

	for key, canonical := range c.windowsToIana {
		territory, windowsID, ok := strings.Cut(key, "|")
		require.True(t, ok)
		if territory != strings.ToLower(WorldTerritory) {
			continue
		}

		gotWindows, err := c.IanaToWindows(canonical)
		require.NoError(t, err, "canonical iana %q of %q must map back", canonical, windowsID)

		gotIana, err := c.WindowsToIana(gotWindows)
		require.NoError(t, err)
		assert.Equal(t, canonical, gotIana, "round trip for windows id %q", windowsID)
	}
}
