// Package tzmap translates between Windows and IANA time zone identifiers.
// Calendar providers and the OS layer do not agree on a vocabulary, and a
// wrong guess here silently corrupts a scheduled time, so an unknown id is a
// hard failure rather than a default zone.
package tzmap

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// windowsZonesCSV is the bundled CLDR windowsZones mapping:
// windowsId,territory,space-separated ianaIds.
//
//go:embed windows_zones.csv
var windowsZonesCSV []byte

// ErrUnknownTimeZone is returned for any identifier absent from the mapping.
var ErrUnknownTimeZone = errors.New("unknown or invalid time zone")

// WorldTerritory is the CLDR "world" territory, whose row carries the
// canonical IANA id for each Windows id.
const WorldTerritory = "001"

// Converter holds the immutable lookup tables built from one mapping load.
type Converter struct {
	ianaToWindows map[string]string // lower(ianaId) -> windowsId
	windowsToIana map[string]string // lower(territory|windowsId) -> first ianaId of that row
}

// Load builds a Converter from mapping rows. First-seen wins for the
// IANA-to-Windows direction; duplicate rows never overwrite.
func Load(r io.Reader) (*Converter, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 3

	c := &Converter{
		ianaToWindows: make(map[string]string),
		windowsToIana: make(map[string]string),
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading windows zones table: %w", err)
		}

		windowsID := strings.TrimSpace(row[0])
		territory := strings.TrimSpace(row[1])
		ianaIDs := strings.Fields(row[2])
		if windowsID == "" || territory == "" || len(ianaIDs) == 0 {
			return nil, fmt.Errorf("malformed windows zones row %q", strings.Join(row, ","))
		}

		key := strings.ToLower(territory + "|" + windowsID)
		if _, exists := c.windowsToIana[key]; !exists {
			c.windowsToIana[key] = ianaIDs[0]
		}

		for _, iana := range ianaIDs {
			lowered := strings.ToLower(iana)
			if _, exists := c.ianaToWindows[lowered]; !exists {
				c.ianaToWindows[lowered] = windowsID
			}
		}
	}

	return c, nil
}

var (
	defaultConverter *Converter
	defaultOnce      sync.Once
)

// Default returns the converter for the bundled table, built once per
// process. The table is compiled in, so a parse failure is a build defect.
func Default() *Converter {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(windowsZonesCSV))
		if err != nil {
			panic(fmt.Sprintf("tzmap: bundled windows zones table: %v", err))
		}
		defaultConverter = c
	})
	return defaultConverter
}

// IanaToWindows maps an IANA identifier to its Windows identifier.
// Lookup is case-insensitive.
func (c *Converter) IanaToWindows(ianaID string) (string, error) {
	if windowsID, ok := c.ianaToWindows[strings.ToLower(ianaID)]; ok {
		return windowsID, nil
	}
	return "", fmt.Errorf("iana id %q: %w", ianaID, ErrUnknownTimeZone)
}

// WindowsToIana maps a Windows identifier to its canonical IANA identifier,
// the first id of the world (001) row. Lookup is case-insensitive.
func (c *Converter) WindowsToIana(windowsID string) (string, error) {
	return c.WindowsToIanaForTerritory(windowsID, WorldTerritory)
}

// WindowsToIanaForTerritory maps a Windows identifier within a territory,
// falling back to the world row when the territory has no entry of its own.
func (c *Converter) WindowsToIanaForTerritory(windowsID, territory string) (string, error) {
	if iana, ok := c.windowsToIana[strings.ToLower(territory+"|"+windowsID)]; ok {
		return iana, nil
	}
	if territory != WorldTerritory {
		if iana, ok := c.windowsToIana[strings.ToLower(WorldTerritory+"|"+windowsID)]; ok {
			return iana, nil
		}
	}
	return "", fmt.Errorf("windows id %q (territory %s): %w", windowsID, territory, ErrUnknownTimeZone)
}
