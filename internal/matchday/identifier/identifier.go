// internal/matchday/identifier/identifier.go

// Package identifier extracts the tournament key and season label from
// the composite identifiers carried by scraped match rows, e.g.
//
//	bundesliga@/football/germany/bundesliga-2015-2016/ -> (bundesliga, 2015-2016)
//	serie-a-betano@/football/brazil/serie-a-betano-2020/ -> (serie-a-betano, 2020)
package identifier

import (
	"regexp"
	"strings"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
)

// seasonPattern matches the trailing season token: a single year or a
// hyphenated two-year span, with an optional trailing slash.
var seasonPattern = regexp.MustCompile(`-(\d{4}(?:-\d{4})?)/?$`)

// ParsedID is the decomposed form of a composite identifier.
type ParsedID struct {
	Tournament string
	Season     string
}

// Parse splits a composite identifier into tournament key and season
// label. It returns a MALFORMED_IDENTIFIER error when the string lacks
// the "@/" delimiter, has an empty competition slug, or carries no
// recognizable season token.
func Parse(raw string) (ParsedID, error) {
	at := strings.Index(raw, "@/")
	if at <= 0 {
		return ParsedID{}, errors.NewMalformedIdentifierError(raw)
	}

	slug := raw[:at]
	path := raw[at+1:]

	m := seasonPattern.FindStringSubmatch(path)
	if m == nil {
		return ParsedID{}, errors.NewMalformedIdentifierError(raw)
	}

	return ParsedID{Tournament: slug, Season: m[1]}, nil
}
