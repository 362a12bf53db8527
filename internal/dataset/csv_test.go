// internal/dataset/csv_test.go

package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joaomdsc1/scrape-tournament-matches/internal/common/errors"
	"github.com/Joaomdsc1/scrape-tournament-matches/internal/models"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidDataset(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"id,date,date number,home,away,result",
		"m1@/soccer/spain/laliga-2020/,15.08.2020,1,Real,Barca,2:1",
		"m2@/soccer/spain/laliga-2020/,2020-08-16,,Sevilla,Betis,0:0",
	}, "\n"))

	matches, defects, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, defects)
	require.Len(t, matches, 2)

	assert.Equal(t, "m1@/soccer/spain/laliga-2020/", matches[0].ID)
	assert.Equal(t, "15.08.2020", matches[0].RawDate)
	assert.Equal(t, 2020, matches[0].Date.Year())
	assert.True(t, matches[0].HasDateNumber)
	assert.Equal(t, 1, matches[0].DateNumber)
	assert.Equal(t, "Real", matches[0].Home)
	assert.Equal(t, "2:1", matches[0].Result)

	// ISO layout and absent sequence number.
	assert.Equal(t, "2020-08-16", matches[1].RawDate)
	assert.False(t, matches[1].HasDateNumber)
}

func TestLoad_HeaderCaseInsensitive(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"ID,Date,Date Number,Home,Away,Result",
		"m1,15.08.2020,1,A,B,1:0",
	}, "\n"))

	matches, defects, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, defects)
	require.Len(t, matches, 1)
	assert.Equal(t, "m1", matches[0].ID)
}

func TestLoad_BadRowsBecomeDefects(t *testing.T) {
	path := writeTempCSV(t, strings.Join([]string{
		"id,date,home,away",
		"m1,15.08.2020,A,B",
		",16.08.2020,C,D",
		"m3,not-a-date,E,F",
		"m4,17.08.2020,,G",
	}, "\n"))

	matches, defects, err := Load(path)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Len(t, defects, 3)

	for _, d := range defects {
		assert.Equal(t, string(errors.ErrCodeInvalidMatch), d.Code)
	}
	assert.Equal(t, 3, defects[0].Line)
	assert.Equal(t, "m3", defects[1].MatchID)
	assert.Equal(t, "m4", defects[2].MatchID)
}

func TestLoad_MissingRequiredHeader(t *testing.T) {
	path := writeTempCSV(t, "id,date,home\nm1,15.08.2020,A\n")

	_, _, err := Load(path)
	require.Error(t, err)

	// The code and message are fixed; the missing column is carried in
	// the structured details.
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeDatasetReadFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "away")
}

func TestLoad_EmptyDataset(t *testing.T) {
	path := writeTempCSV(t, "id,date,home,away\n,bad,,\n")

	_, _, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyDataset))
}

func TestLoad_FileNotFound(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetReadFailed))
}

func TestWrite_RoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	matches := []models.Match{
		{
			ID: "m1", Tournament: "laliga", Season: "2020",
			RawDate: "15.08.2020", DateNumber: 1, HasDateNumber: true,
			Home: "Real", Away: "Barca", Result: "2:1", Round: 1,
		},
		{
			ID: "m2", Tournament: "laliga", Season: "2020",
			RawDate: "16.08.2020",
			Home: "Sevilla", Away: "Betis", Round: models.UnassignedRound,
		},
	}

	require.NoError(t, Write(out, matches))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, "id,tournament,season,date,date number,home,away,result,round", lines[0])
	assert.Equal(t, "m1,laliga,2020,15.08.2020,1,Real,Barca,2:1,1", lines[1])
	assert.Equal(t, "m2,laliga,2020,16.08.2020,,Sevilla,Betis,,-1", lines[2])
}

func TestWrite_BadPath(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetWriteFailed))
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"15.08.2020", "2020-08-15"} {
		d, err := ParseDate(raw)
		require.NoError(t, err)
		assert.Equal(t, 15, d.Day())
		assert.Equal(t, 2020, d.Year())
	}

	_, err := ParseDate("08/15/2020")
	assert.Error(t, err)
}
