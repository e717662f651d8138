package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pclview/internal/cloud"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"step", "index", "x", "y", "z", "r", "g", "b", "a"}

var ErrCorruptFrames = errors.New("store: malformed frames file")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string    `json:"id"`
	Preset    string    `json:"preset,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Points    int       `json:"points"`
	Seed      int64     `json:"seed"`
	Dt        float32   `json:"dt"`
	Gravity   float32   `json:"gravity"`
	Smooth    float32   `json:"smooth"`
	Backend   string    `json:"backend"`
	Every     int       `json:"every"`
	Frames    int       `json:"frames"`
	Steps     int       `json:"steps"`
}

// Frame is one recorded snapshot of the point cloud.
type Frame struct {
	Step   int
	Points []cloud.Vertex
}

// Recorder streams frames of one run to disk. Metadata is written on Close.
type Recorder struct {
	dir  string
	meta RunMetadata
	file *os.File
	w    *csv.Writer
}

// Create starts a new run directory. ID and Timestamp are filled in when
// empty.
func (s *Store) Create(meta RunMetadata) (*Recorder, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = "run_" + meta.Timestamp.Format("20060102T150405.000000000")
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}

	file, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return nil, err
	}

	r := &Recorder{dir: runDir, meta: meta, file: file, w: csv.NewWriter(file)}
	if err := r.w.Write(frameHeader); err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Recorder) ID() string { return r.meta.ID }

// WriteFrame appends one snapshot. An empty snapshot has no rows to carry
// it, so it is not counted as a frame.
func (r *Recorder) WriteFrame(step int, vs []cloud.Vertex) error {
	if step > r.meta.Steps {
		r.meta.Steps = step
	}
	if len(vs) == 0 {
		return nil
	}
	stepStr := strconv.Itoa(step)
	for i, v := range vs {
		row := []string{
			stepStr,
			strconv.Itoa(i),
			strconv.FormatFloat(float64(v.X), 'g', -1, 32),
			strconv.FormatFloat(float64(v.Y), 'g', -1, 32),
			strconv.FormatFloat(float64(v.Z), 'g', -1, 32),
			strconv.Itoa(int(v.R)),
			strconv.Itoa(int(v.G)),
			strconv.Itoa(int(v.B)),
			strconv.Itoa(int(v.A)),
		}
		if err := r.w.Write(row); err != nil {
			return err
		}
	}
	r.meta.Frames++
	return r.w.Error()
}

// Close flushes frames and writes metadata.json.
func (r *Recorder) Close() error {
	if r.file == nil {
		return nil
	}
	r.w.Flush()
	flushErr := r.w.Error()
	closeErr := r.file.Close()
	r.file = nil
	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return closeErr
	}

	metaFile, err := os.Create(filepath.Join(r.dir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}

// List returns every complete run, oldest first. Directories without
// readable metadata are skipped.
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

// LoadFrames reads every frame of a run in recorded order.
func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(frameHeader)
	r.ReuseRecord = true

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return []Frame{}, nil
		}
		return nil, err
	}

	frames := make([]Frame, 0)
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		step, v, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptFrames, line, err)
		}
		if len(frames) == 0 || frames[len(frames)-1].Step != step {
			frames = append(frames, Frame{Step: step})
		}
		f := &frames[len(frames)-1]
		f.Points = append(f.Points, v)
	}

	return frames, nil
}

func parseRow(rec []string) (int, cloud.Vertex, error) {
	var v cloud.Vertex
	step, err := strconv.Atoi(rec[0])
	if err != nil {
		return 0, v, err
	}

	var xyz [3]float32
	for i := range xyz {
		f, err := strconv.ParseFloat(rec[2+i], 32)
		if err != nil {
			return 0, v, err
		}
		xyz[i] = float32(f)
	}

	var rgba [4]uint8
	for i := range rgba {
		c, err := strconv.ParseUint(rec[5+i], 10, 8)
		if err != nil {
			return 0, v, err
		}
		rgba[i] = uint8(c)
	}

	v = cloud.Vertex{X: xyz[0], Y: xyz[1], Z: xyz[2], R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return step, v, nil
}
