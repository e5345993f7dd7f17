// Package instance reads allocation problems from YAML (or JSON) files and
// turns their settings into egalitarian search options.
//
// A file looks like:
//
//	name: siblings
//	players: [ana, ben]
//	valuations:
//	  - [4, 5, 6, 7, 8]
//	  - [8, 7, 6, 5, 4]
//	settings:
//	  branching: full          # or weakest-first
//	  duplicate_pruning: true
//	  bound_pruning: true
//	  heuristic: false         # true enables the unsound heuristic bound
//	  heuristic_margin: 0.1    # used only when the heuristic is on
//	  time_limit: 5s
//	  max_seen_states: 0
//
// Every settings key is optional. A heuristic_margin without a heuristic key
// turns the heuristic on; heuristic: false always keeps the search exact.
// Valuations whose entries are all integers are solved with int64 scores,
// read exactly across the int64 range; anything else uses float64.
package instance

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fairdiv/egalitarian"
)

// Sentinel errors for instance files.
var (
	// ErrEmptyFile indicates a document without valuations.
	ErrEmptyFile = errors.New("instance: no valuations")

	// ErrPlayerLabels indicates that the players list does not match the valuation rows.
	ErrPlayerLabels = errors.New("instance: player labels do not match valuation rows")

	// ErrSettings indicates an unparsable settings block.
	ErrSettings = errors.New("instance: invalid settings")

	// ErrValueRange indicates an integer valuation that does not fit int64.
	ErrValueRange = errors.New("instance: integer valuation outside int64 range")
)

// maxExactInt is the largest magnitude at which every integer is exactly
// representable as float64 (2^53).
const maxExactInt = 1 << 53

// File is one allocation problem.
type File struct {
	Name       string      `json:"name" yaml:"name"`
	Players    []string    `json:"players,omitempty" yaml:"players,omitempty"`
	Valuations [][]Value   `json:"valuations" yaml:"valuations"`
	Settings   Settings    `json:"settings" yaml:"settings"`
}

// Settings mirrors egalitarian.Options for files. Nil pointers keep the
// library defaults.
type Settings struct {
	Branching        string        `json:"branching,omitempty" yaml:"branching,omitempty"`
	DuplicatePruning *bool         `json:"duplicate_pruning,omitempty" yaml:"duplicate_pruning,omitempty"`
	BoundPruning     *bool         `json:"bound_pruning,omitempty" yaml:"bound_pruning,omitempty"`
	Heuristic        *bool         `json:"heuristic,omitempty" yaml:"heuristic,omitempty"`
	HeuristicMargin  *float64      `json:"heuristic_margin,omitempty" yaml:"heuristic_margin,omitempty"`
	TimeLimit        time.Duration `json:"time_limit,omitempty" yaml:"time_limit,omitempty"`
	MaxSeenStates    int           `json:"max_seen_states,omitempty" yaml:"max_seen_states,omitempty"`
}

// Decode reads a single instance document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("instance: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Load reads and validates the instance at path. A missing name defaults
// to the file's base name without extension.
func Load(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: open: %w", err)
	}
	defer fh.Close()

	f, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return f, nil
}

// Validate checks file-level structure. The valuation matrix itself (shape,
// finiteness, overflow) is validated by egalitarian.Search.
func (f *File) Validate() error {
	if len(f.Valuations) == 0 {
		return ErrEmptyFile
	}
	if f.Players != nil && len(f.Players) != len(f.Valuations) {
		return fmt.Errorf("%w: %d labels for %d rows", ErrPlayerLabels, len(f.Players), len(f.Valuations))
	}
	if _, err := f.Settings.Options(); err != nil {
		return err
	}

	return nil
}

// Integral reports whether every valuation is an integer literal, or a
// whole-number float small enough to be carried exactly by int64 and float64.
func (f *File) Integral() bool {
	for _, row := range f.Valuations {
		for _, x := range row {
			if !x.IsInt() && !x.wholeFloat() {
				return false
			}
		}
	}

	return true
}

// Int64 returns the valuations as int64. Only meaningful when Integral().
func (f *File) Int64() egalitarian.Valuations[int64] {
	v := make(egalitarian.Valuations[int64], len(f.Valuations))
	for p, row := range f.Valuations {
		v[p] = make([]int64, len(row))
		for j, x := range row {
			v[p][j] = x.Int64()
		}
	}

	return v
}

// Float64 returns the valuations as float64.
func (f *File) Float64() egalitarian.Valuations[float64] {
	v := make(egalitarian.Valuations[float64], len(f.Valuations))
	for p, row := range f.Valuations {
		v[p] = make([]float64, len(row))
		for j, x := range row {
			v[p][j] = x.Float64()
		}
	}

	return v
}

// PlayerName returns the label of player p, or "player-<p>".
func (f *File) PlayerName(p int) string {
	if p < len(f.Players) && f.Players[p] != "" {
		return f.Players[p]
	}

	return fmt.Sprintf("player-%d", p)
}

// Options converts the settings block into search options.
func (s Settings) Options() ([]egalitarian.Option, error) {
	mode, err := egalitarian.ParseBranchingMode(s.Branching)
	if err != nil {
		return nil, fmt.Errorf("%w: branching %q", ErrSettings, s.Branching)
	}
	if s.TimeLimit < 0 {
		return nil, fmt.Errorf("%w: negative time_limit", ErrSettings)
	}
	if s.MaxSeenStates < 0 {
		return nil, fmt.Errorf("%w: negative max_seen_states", ErrSettings)
	}

	opts := []egalitarian.Option{egalitarian.WithBranching(mode)}
	if s.DuplicatePruning != nil {
		opts = append(opts, egalitarian.WithDuplicatePruning(*s.DuplicatePruning))
	}
	if s.BoundPruning != nil {
		opts = append(opts, egalitarian.WithBoundPruning(*s.BoundPruning))
	}
	margin := egalitarian.DefaultHeuristicMargin
	if s.HeuristicMargin != nil {
		margin = *s.HeuristicMargin
		if math.IsNaN(margin) || margin < 0 || margin >= 1 {
			return nil, fmt.Errorf("%w: heuristic_margin %v outside [0,1)", ErrSettings, margin)
		}
	}
	if s.heuristicOn() {
		opts = append(opts, egalitarian.WithHeuristicBound(margin))
	}
	if s.TimeLimit > 0 {
		opts = append(opts, egalitarian.WithTimeLimit(s.TimeLimit))
	}
	if s.MaxSeenStates > 0 {
		opts = append(opts, egalitarian.WithMaxSeenStates(s.MaxSeenStates))
	}

	return opts, nil
}


// heuristicOn reports whether the file asks for the heuristic bound: an
// explicit heuristic: true, or a margin with the heuristic key unset.
func (s Settings) heuristicOn() bool {
	if s.Heuristic != nil {
		return *s.Heuristic
	}

	return s.HeuristicMargin != nil
}
