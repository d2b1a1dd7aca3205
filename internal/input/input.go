// Package input decodes germination trial documents into treatment inputs.
//
// A document is YAML (or JSON, which is a YAML subset) shaped like:
//
//	seed_total: 25
//	treatments:
//	  - name: Control
//	    replicates: [R1, R2]
//	    seed_totals: [20, 20]
//	    observations:
//	      - day: 1
//	        counts: [5, 4]
//	      - day: 2
//	        counts: [3, null]
//
// A null count means the day was not recorded for that replicate.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/germtrack/schema"
	"go.yaml.in/yaml/v3"
)

// ErrEmptyDocument is returned when a document holds no treatments.
var ErrEmptyDocument = errors.New("document has no treatments")

// Document is the decoded form of a trial document.
type Document struct {
	SeedTotal  *int                `yaml:"seed_total"`
	Treatments []TreatmentDocument `yaml:"treatments"`
}

// TreatmentDocument is one treatment block of a trial document.
type TreatmentDocument struct {
	Name         string           `yaml:"name"`
	Replicates   []string         `yaml:"replicates"`
	SeedTotals   []int            `yaml:"seed_totals"`
	Observations []ObservationRow `yaml:"observations"`
}

// ObservationRow is one observation day across all replicates.
type ObservationRow struct {
	Day    int    `yaml:"day"`
	Counts []*int `yaml:"counts"`
}

// Load reads a document from path, or from stdin when path is "-".
func Load(path string, defaultSeedTotal int) ([]schema.TreatmentInput, error) {
	if path == "-" {
		return Decode(os.Stdin, defaultSeedTotal)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input document: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f, defaultSeedTotal)
}

// Decode parses a document and converts it into treatment inputs.
// Replicates without an explicit seed total use the document's seed_total,
// falling back to defaultSeedTotal.
func Decode(r io.Reader, defaultSeedTotal int) ([]schema.TreatmentInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode input document: %w", err)
	}
	return doc.Inputs(defaultSeedTotal)
}

// Inputs validates the document structure and builds the engine inputs.
func (d Document) Inputs(defaultSeedTotal int) ([]schema.TreatmentInput, error) {
	if len(d.Treatments) == 0 {
		return nil, ErrEmptyDocument
	}

	seedTotal := defaultSeedTotal
	if d.SeedTotal != nil {
		seedTotal = *d.SeedTotal
	}

	seen := make(map[string]struct{}, len(d.Treatments))
	out := make([]schema.TreatmentInput, 0, len(d.Treatments))
	for i, t := range d.Treatments {
		if t.Name == "" {
			return nil, fmt.Errorf("treatment %d has no name", i+1)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("duplicate treatment name %q", t.Name)
		}
		seen[t.Name] = struct{}{}

		obs, err := t.observation(seedTotal)
		if err != nil {
			return nil, fmt.Errorf("treatment %q: %w", t.Name, err)
		}
		out = append(out, schema.TreatmentInput{Name: t.Name, Observation: obs})
	}
	return out, nil
}

// observation converts a treatment block into its day-by-replicate matrix.
func (t TreatmentDocument) observation(seedTotal int) (schema.RawObservation, error) {
	if len(t.Replicates) == 0 {
		return schema.RawObservation{}, errors.New("no replicates listed")
	}
	ids := make(map[string]struct{}, len(t.Replicates))
	for _, id := range t.Replicates {
		if id == "" {
			return schema.RawObservation{}, errors.New("empty replicate identifier")
		}
		if _, dup := ids[id]; dup {
			return schema.RawObservation{}, fmt.Errorf("duplicate replicate identifier %q", id)
		}
		ids[id] = struct{}{}
	}

	seedTotals := make([]int, len(t.Replicates))
	switch len(t.SeedTotals) {
	case 0:
		for i := range seedTotals {
			seedTotals[i] = seedTotal
		}
	case len(t.Replicates):
		copy(seedTotals, t.SeedTotals)
	default:
		return schema.RawObservation{}, fmt.Errorf("%d seed totals for %d replicates", len(t.SeedTotals), len(t.Replicates))
	}

	days := make([]int, len(t.Observations))
	counts := make([][]*int, len(t.Observations))
	for i, row := range t.Observations {
		if len(row.Counts) > len(t.Replicates) {
			return schema.RawObservation{}, fmt.Errorf("day %d has %d counts for %d replicates", row.Day, len(row.Counts), len(t.Replicates))
		}
		days[i] = row.Day
		counts[i] = row.Counts
	}

	return schema.RawObservation{
		Days:       days,
		Replicates: append([]string(nil), t.Replicates...),
		SeedTotals: seedTotals,
		Counts:     counts,
	}, nil
}

// Filter keeps the treatments admitted by keep, preserving order.
func Filter(treatments []schema.TreatmentInput, keep func(string) bool) []schema.TreatmentInput {
	out := make([]schema.TreatmentInput, 0, len(treatments))
	for _, t := range treatments {
		if keep(t.Name) {
			out = append(out, t)
		}
	}
	return out
}
