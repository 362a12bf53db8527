// internal/dataset/csv.go

// Package dataset is the CSV collaborator surface around the engine. It
// reads the scraped match files (id, date, date number, home, away,
// result) and writes the same rows back with tournament, season and
// round columns added.
package dataset

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

// dateLayouts are the two formats the scraped files carry.
var dateLayouts = []string{"02.01.2006", "2006-01-02"}

// ParseDate parses a match date in either supported layout.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Load reads the input CSV. Rows with a missing id, an unparseable date
// or an empty team name become defects instead of aborting the load; a
// dataset with no usable rows at all is a catastrophic failure.
func Load(path string) ([]models.Match, []models.Defect, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewDatasetReadFailedError(path, err)
	}
	defer file.Close()

	matches, defects, err := parse(file)
	if err != nil {
		return nil, nil, errors.NewDatasetReadFailedError(path, err)
	}
	if len(matches) == 0 {
		return nil, defects, errors.NewEmptyDatasetError(path)
	}
	return matches, defects, nil
}

func parse(r io.Reader) ([]models.Match, []models.Defect, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read header: %w", err)
	}
	index := mapHeaders(header)

	required := []string{"id", "date", "home", "away"}
	missing := missingHeaders(required, index)
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required headers: %s", strings.Join(missing, ", "))
	}

	var matches []models.Match
	var defects []models.Defect
	line := 1
	for {
		line++
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			defects = append(defects, models.Defect{
				Code:   string(errors.ErrCodeInvalidMatch),
				Line:   line,
				Detail: err.Error(),
			})
			continue
		}
		m, defect := parseRecord(record, index, line)
		if defect != nil {
			defects = append(defects, *defect)
			continue
		}
		matches = append(matches, m)
	}

	return matches, defects, nil
}

func parseRecord(record []string, index map[string]int, line int) (models.Match, *models.Defect) {
	get := func(key string) string {
		pos, ok := index[key]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	id := get("id")
	if id == "" {
		return models.Match{}, &models.Defect{
			Code:   string(errors.ErrCodeInvalidMatch),
			Line:   line,
			Detail: "missing id",
		}
	}

	rawDate := get("date")
	date, err := ParseDate(rawDate)
	if err != nil {
		return models.Match{}, &models.Defect{
			Code:    string(errors.ErrCodeInvalidMatch),
			MatchID: id,
			Line:    line,
			Detail:  err.Error(),
		}
	}

	home, away := get("home"), get("away")
	if home == "" || away == "" {
		return models.Match{}, &models.Defect{
			Code:    string(errors.ErrCodeInvalidMatch),
			MatchID: id,
			Line:    line,
			Detail:  "missing team name",
		}
	}

	m := models.Match{
		ID:      id,
		Date:    date,
		RawDate: rawDate,
		Home:    home,
		Away:    away,
		Result:  get("result"),
	}
	if seq := get("date number"); seq != "" {
		if n, err := strconv.Atoi(seq); err == nil {
			m.DateNumber = n
			m.HasDateNumber = true
		}
	}
	return m, nil
}

func mapHeaders(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		index[key] = i
	}
	return index
}

func missingHeaders(required []string, index map[string]int) []string {
	var missing []string
	for _, key := range required {
		if _, ok := index[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Write emits the annotated dataset: the source columns plus tournament,
// season and round.
func Write(path string, matches []models.Match) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewDatasetWriteFailedError(path, err)
	}
	defer file.Close()

	if err := write(file, matches); err != nil {
		return errors.NewDatasetWriteFailedError(path, err)
	}
	return nil
}

func write(w io.Writer, matches []models.Match) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "tournament", "season", "date", "date number", "home", "away", "result", "round"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, m := range matches {
		seq := ""
		if m.HasDateNumber {
			seq = strconv.Itoa(m.DateNumber)
		}
		row := []string{
			m.ID,
			m.Tournament,
			m.Season,
			m.RawDate,
			seq,
			m.Home,
			m.Away,
			m.Result,
			strconv.Itoa(m.Round),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
