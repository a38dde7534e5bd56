// Package export writes run output under the configured results
// folder: timeseries CSVs on the save cadence, an overwritten
// checkpoint on the checkpoint cadence, and plots of probe traces.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/oseen-project/oseen/internal/field"
	"github.com/oseen-project/oseen/internal/params"
)

const (
	timeseriesDir = "Timeseries"
	checkpointDir = "Checkpoint"

	paramsFile = "params.yaml"
	fieldsFile = "fields.yaml"
)

// Store manages the on-disk layout of one run folder.
type Store struct {
	base string
}

func New(folder string) *Store {
	return &Store{base: folder}
}

func (s *Store) Base() string { return s.base }

func (s *Store) Init() error {
	for _, dir := range []string{s.base, filepath.Join(s.base, timeseriesDir), filepath.Join(s.base, checkpointDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// AppendTimeseries appends one row per field to Timeseries/<name>.csv:
// timestep, time, then the coefficient values.
func (s *Store) AppendTimeseries(tstep int, t float64, fields map[string]*field.Function) error {
	for name, f := range fields {
		path := filepath.Join(s.base, timeseriesDir, name+".csv")
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}

		row := make([]string, 0, 2+len(f.Values()))
		row = append(row, strconv.Itoa(tstep), strconv.FormatFloat(t, 'g', -1, 64))
		for _, v := range f.Values() {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}

		w := csv.NewWriter(file)
		if err := w.Write(row); err != nil {
			file.Close()
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

// SaveCheckpoint overwrites the checkpoint with the current parameter
// set and field coefficients, enough to resume a run.
func (s *Store) SaveCheckpoint(p params.Set, fields map[string]*field.Function) error {
	dir := filepath.Join(s.base, checkpointDir)
	if err := params.Save(filepath.Join(dir, paramsFile), p); err != nil {
		return err
	}

	values := make(map[string][]float64, len(fields))
	for name, f := range fields {
		values[name] = f.Values()
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, fieldsFile), data, 0644)
}

// LoadCheckpoint reads a prior run's checkpoint from its results
// folder, for restart_folder resumption.
func LoadCheckpoint(folder string) (params.Set, map[string][]float64, error) {
	dir := filepath.Join(folder, checkpointDir)

	p, err := params.Load(filepath.Join(dir, paramsFile), params.Set{})
	if err != nil {
		return nil, nil, fmt.Errorf("restart from %s: %w", folder, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, fieldsFile))
	if err != nil {
		return nil, nil, fmt.Errorf("restart from %s: %w", folder, err)
	}
	values := make(map[string][]float64)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, nil, fmt.Errorf("restart from %s: %w", folder, err)
	}
	return p, values, nil
}
