package input

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAML(t *testing.T) {
	treatments, err := Load("testdata/trial.yaml", 25)
	require.NoError(t, err)
	require.Len(t, treatments, 2)

	control := treatments[0]
	assert.Equal(t, "Control", control.Name)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, control.Observation.Days)
	assert.Equal(t, []int{20, 20, 20}, control.Observation.SeedTotals, "document seed_total overrides the default")

	primed := treatments[1]
	assert.Equal(t, []int{25, 25, 24}, primed.Observation.SeedTotals)
	assert.Nil(t, primed.Observation.Counts[1][2])

	series := primed.Observation.Series(primed.Name)
	require.Len(t, series, 3)
	assert.Equal(t, []int{1, 3, 5}, series[2].Days, "null cell is dropped, not zero-filled")
	assert.Equal(t, []int{12, 5, 1}, series[2].Counts)
}

func TestLoad_JSON(t *testing.T) {
	treatments, err := Load("testdata/trial.json", 25)
	require.NoError(t, err)
	require.Len(t, treatments, 1)
	assert.Equal(t, []int{25, 25}, treatments[0].Observation.SeedTotals, "falls back to the configured default")
	assert.Equal(t, []string{"A", "B"}, treatments[0].Observation.Replicates)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml", 25)
	assert.Error(t, err)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty", doc: "   \n", wantErr: "no treatments"},
		{name: "no treatments", doc: "treatments: []", wantErr: "no treatments"},
		{name: "unknown field", doc: "treatmentz: []", wantErr: "decode"},
		{name: "unnamed treatment", doc: "treatments:\n  - replicates: [R1]\n", wantErr: "has no name"},
		{
			name:    "duplicate treatment",
			doc:     "treatments:\n  - name: A\n    replicates: [R1]\n  - name: A\n    replicates: [R1]\n",
			wantErr: "duplicate treatment",
		},
		{name: "no replicates", doc: "treatments:\n  - name: A\n", wantErr: "no replicates"},
		{name: "duplicate replicate", doc: "treatments:\n  - name: A\n    replicates: [R1, R1]\n", wantErr: "duplicate replicate"},
		{
			name:    "seed total mismatch",
			doc:     "treatments:\n  - name: A\n    replicates: [R1, R2]\n    seed_totals: [10]\n",
			wantErr: "1 seed totals for 2 replicates",
		},
		{
			name:    "too many counts",
			doc:     "treatments:\n  - name: A\n    replicates: [R1]\n    observations:\n      - day: 1\n        counts: [1, 2]\n",
			wantErr: "2 counts for 1 replicates",
		},
		{name: "not a number", doc: "treatments:\n  - name: A\n    replicates: [R1]\n    observations:\n      - day: x\n", wantErr: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), 25)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecode_EmptyIsSentinel(t *testing.T) {
	_, err := Decode(strings.NewReader(""), 25)
	assert.True(t, errors.Is(err, ErrEmptyDocument))
}

func TestDecode_UnsortedDaysPassThrough(t *testing.T) {
	doc := "treatments:\n  - name: A\n    replicates: [R1]\n    observations:\n      - day: 3\n        counts: [1]\n      - day: 1\n        counts: [1]\n"
	treatments, err := Decode(strings.NewReader(doc), 10)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, treatments[0].Observation.Days, "ordering is checked per replicate by the engine")
}

func TestFilter(t *testing.T) {
	treatments, err := Load("testdata/trial.yaml", 25)
	require.NoError(t, err)

	kept := Filter(treatments, func(name string) bool { return name == "Primed" })
	require.Len(t, kept, 1)
	assert.Equal(t, "Primed", kept[0].Name)
	assert.Len(t, Filter(treatments, func(string) bool { return true }), 2)
}
