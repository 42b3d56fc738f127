package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date format constants shared across the application.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// commonFormats is the table of layouts tried by flexible parsing, most
// common statement formats first.
var commonFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutFull,
	"2006-01-02T15:04:05Z",
	"02/01/2006",
	DateLayoutUS,
	"02-01-2006",
	"2006/01/02",
	"2.1.2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var spaceRe = regexp.MustCompile(`\s+`)

// cleanDateString trims and collapses whitespace.
func cleanDateString(raw string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(raw), " ")
}

// Date parses a raw date cell. Flexible parsing over the common format
// table is tried first; on failure the profile's explicit layout is used.
// A date that parses with neither is an error, and the caller skips the row.
func Date(raw, fallbackLayout string) (time.Time, error) {
	cleaned := cleanDateString(raw)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	for _, layout := range commonFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	if fallbackLayout != "" {
		if t, err := time.Parse(fallbackLayout, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}
