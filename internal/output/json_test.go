package output

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shadowgap.org/internal/models"
)

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "roots_data.json")

	rows := []models.ProjectionRecord{
		{Country: "Sudan", Reported: 2, AdjustedReported: 10, Level: models.IndexExtreme, Multiplier: 1703, Projected: 17030, Continent: "Africa"},
	}
	require.NoError(t, WriteJSON(path, rows))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"Country":"Sudan","Reported":2,"Index Level":"Extreme","Multiplier":1703,"Projected":17030,"Continent":"Africa"}]`,
		string(b))
	assert.Equal(t, byte('\n'), b[len(b)-1])

	t.Run("no temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "roots_data.json", entries[0].Name())
	})

	t.Run("failed encode keeps previous file", func(t *testing.T) {
		err := WriteJSON(path, map[string]float64{"bad": math.Inf(1)})
		require.Error(t, err)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, b, after)
	})

	t.Run("identical input gives identical bytes", func(t *testing.T) {
		other := filepath.Join(dir, "again.json")
		require.NoError(t, WriteJSON(other, rows))
		again, err := os.ReadFile(other)
		require.NoError(t, err)
		assert.Equal(t, b, again)
	})
}

func TestBatch(t *testing.T) {
	previous := []byte("{}\n")

	setup := func(t *testing.T) (string, string, string) {
		dir := t.TempDir()
		geo := filepath.Join(dir, "geo.json")
		story := filepath.Join(dir, "narrative.json")
		require.NoError(t, os.WriteFile(geo, previous, 0o644))
		require.NoError(t, os.WriteFile(story, previous, 0o644))
		return dir, geo, story
	}

	tests := []struct {
		name      string
		second    any
		commit    bool
		wantErr   bool
		wantFresh bool
	}{
		{name: "commit replaces every file", second: []string{"Chad"}, commit: true, wantFresh: true},
		{name: "staged files are invisible until commit", second: []string{"Chad"}},
		{name: "failed add leaves both files", second: math.Inf(1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, geo, story := setup(t)

			var b Batch
			require.NoError(t, b.Add(geo, map[string]int{"Countries": 1}))
			err := b.Add(story, tt.second)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if tt.commit {
				require.NoError(t, b.Commit())
			}
			require.NoError(t, b.Cleanup())

			for _, path := range []string{geo, story} {
				got, err := os.ReadFile(path)
				require.NoError(t, err)
				if tt.wantFresh {
					assert.NotEqual(t, previous, got, path)
				} else {
					assert.Equal(t, previous, got, path)
				}
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 2)
		})
	}
}

func TestReadProjection(t *testing.T) {
	dir := t.TempDir()

	t.Run("round trip drops adjusted count", func(t *testing.T) {
		path := filepath.Join(dir, "roots.json")
		require.NoError(t, WriteJSON(path, []models.ProjectionRecord{
			{Country: "Nigeria", Reported: 1, AdjustedReported: 10, Level: models.IndexHigh, Multiplier: 273, Projected: 2730, Continent: "Africa"},
		}))

		rows, err := ReadProjection(path)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 0, rows[0].AdjustedReported)
		assert.Equal(t, 2730, rows[0].Projected)
		assert.Equal(t, models.IndexHigh, rows[0].Level)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadProjection(filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := ReadProjection(path)
		assert.Error(t, err)
	})

	t.Run("zero multiplier rejected", func(t *testing.T) {
		path := filepath.Join(dir, "zero.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"Country":"Chad","Multiplier":0}]`), 0o644))
		_, err := ReadProjection(path)
		assert.ErrorContains(t, err, "Chad")
	})
}
