package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/mctrans/internal/physics"
	"github.com/san-kum/mctrans/internal/transport"
)

const (
	metadataFile    = "metadata.json"
	stepsFile       = "steps.csv"
	secondariesFile = "secondaries.bin.zst"
)

var ErrCorrupt = errors.New("corrupt run data")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes a run: the caller fills the setup fields and Save
// fills the rest from the result.
type RunMetadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
	Backend     string    `json:"backend"`
	Models      []string  `json:"models"`
	Particles   []string  `json:"particles"`
	Primary     string    `json:"primary"`
	Energy      float64   `json:"energy"`
	Count       int       `json:"count"`
	Policy      string    `json:"policy"`
	Capacity    int       `json:"capacity"`
	MaxCapacity int       `json:"max_capacity"`
	Cutoff      float64   `json:"cutoff"`

	StepsTaken    int                `json:"steps_taken"`
	Secondaries   int                `json:"secondaries"`
	Alive         int                `json:"alive"`
	Dropped       int                `json:"dropped"`
	Deposited     float64            `json:"deposited"`
	DroppedEnergy float64            `json:"dropped_energy"`
	FinalCapacity int                `json:"final_capacity"`
	Metrics       map[string]float64 `json:"metrics"`
}

func (m *RunMetadata) fill(result *transport.Result) {
	m.StepsTaken = result.StepsTaken
	m.Secondaries = len(result.Secondaries)
	m.Alive = result.Alive
	m.Dropped = result.Dropped
	m.Deposited = result.Deposited.Value()
	m.DroppedEnergy = result.DroppedEnergy.Value()
	m.FinalCapacity = result.FinalCapacity
	m.Metrics = result.Metrics
}

// Save writes a run directory and returns its ID.
func (s *Store) Save(meta RunMetadata, result *transport.Result) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	meta.Timestamp = now
	meta.fill(result)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSteps(filepath.Join(runDir, stepsFile), result.Steps); err != nil {
		return "", err
	}
	if err := writeSecondaries(filepath.Join(runDir, secondariesFile), result.Secondaries); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var stepsHeader = []string{
	"step", "tracks", "secondaries", "alive", "capacity", "claimed",
	"exhausted", "retries", "dropped", "deposited", "dropped_energy",
	"first_claimed",
}

func writeSteps(path string, steps []transport.StepStats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(stepsHeader); err != nil {
		return err
	}
	for _, s := range steps {
		row := []string{
			strconv.Itoa(s.Step),
			strconv.Itoa(s.Tracks),
			strconv.Itoa(s.Secondaries),
			strconv.Itoa(s.Alive),
			strconv.Itoa(s.Capacity),
			strconv.FormatUint(s.Claimed, 10),
			strconv.FormatBool(s.Exhausted),
			strconv.Itoa(s.Retries),
			strconv.Itoa(s.Dropped),
			strconv.FormatFloat(s.Deposited, 'g', -1, 64),
			strconv.FormatFloat(s.DroppedEnergy, 'g', -1, 64),
			strconv.FormatUint(s.FirstClaimed, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the metadata of every run, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSteps(runID string) ([]transport.StepStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, stepsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(stepsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(records) < 2 {
		return []transport.StepStats{}, nil
	}

	steps := make([]transport.StepStats, 0, len(records)-1)
	for i, rec := range records[1:] {
		s, err := parseStep(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrCorrupt, stepsFile, i+2, err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func parseStep(rec []string) (transport.StepStats, error) {
	var s transport.StepStats
	ints := []*int{&s.Step, &s.Tracks, &s.Secondaries, &s.Alive, &s.Capacity}
	for i, p := range ints {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return s, err
		}
		*p = v
	}

	var err error
	if s.Claimed, err = strconv.ParseUint(rec[5], 10, 64); err != nil {
		return s, err
	}
	if s.Exhausted, err = strconv.ParseBool(rec[6]); err != nil {
		return s, err
	}
	if s.Retries, err = strconv.Atoi(rec[7]); err != nil {
		return s, err
	}
	if s.Dropped, err = strconv.Atoi(rec[8]); err != nil {
		return s, err
	}
	if s.Deposited, err = strconv.ParseFloat(rec[9], 64); err != nil {
		return s, err
	}
	if s.DroppedEnergy, err = strconv.ParseFloat(rec[10], 64); err != nil {
		return s, err
	}
	if s.FirstClaimed, err = strconv.ParseUint(rec[11], 10, 64); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Store) LoadSecondaries(runID string) ([]physics.Secondary, error) {
	return readSecondaries(filepath.Join(s.baseDir, runID, secondariesFile))
}
