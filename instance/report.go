package instance

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fairdiv/egalitarian"
)

// Share is one player's bundle in a Report.
type Share struct {
	Player string `json:"player" yaml:"player"`
	Items  []int  `json:"items" yaml:"items,flow"`
	Value  any    `json:"value" yaml:"value"`
}

// ReportStats is the serialised form of egalitarian.Stats.
type ReportStats struct {
	Nodes           int64  `json:"nodes" yaml:"nodes"`
	Leaves          int64  `json:"leaves" yaml:"leaves"`
	DuplicatePrunes int64  `json:"duplicate_prunes" yaml:"duplicate_prunes"`
	BoundPrunes     int64  `json:"bound_prunes" yaml:"bound_prunes"`
	HeuristicPrunes int64  `json:"heuristic_prunes" yaml:"heuristic_prunes"`
	Improvements    int64  `json:"improvements" yaml:"improvements"`
	SeenStates      int    `json:"seen_states" yaml:"seen_states"`
	Elapsed         string `json:"elapsed" yaml:"elapsed"`
}

// Report is the outcome of solving one File.
type Report struct {
	Name          string      `json:"name" yaml:"name"`
	Kind          string      `json:"kind" yaml:"kind"`
	Exact         bool        `json:"exact" yaml:"exact"`
	MinValue      any         `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	WeakestPlayer string      `json:"weakest_player,omitempty" yaml:"weakest_player,omitempty"`
	Shares        []Share     `json:"shares,omitempty" yaml:"shares,omitempty"`
	Stats         ReportStats `json:"stats" yaml:"stats"`
	Error         string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Kind names the score type a File is solved with.
func (f *File) Kind() string {
	if f.Integral() {
		return "int64"
	}

	return "float64"
}

// Solve runs the search for f with its settings followed by extra, so
// extra options override the file. A failed search still yields a Report
// carrying the error text and the partial statistics.
func Solve(ctx context.Context, f *File, extra ...egalitarian.Option) (*Report, error) {
	opts, err := f.Settings.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	if f.Integral() {
		res, err := egalitarian.Search(ctx, f.Int64(), opts...)
		return buildReport(f, opts, res, err), err
	}
	res, err := egalitarian.Search(ctx, f.Float64(), opts...)

	return buildReport(f, opts, res, err), err
}

func buildReport[T egalitarian.Number](f *File, opts []egalitarian.Option, res egalitarian.Result[T], err error) *Report {
	o := egalitarian.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Report{
		Name:  f.Name,
		Kind:  f.Kind(),
		Exact: o.Branching == egalitarian.BranchFull && !o.Heuristic,
		Stats: ReportStats{
			Nodes:           res.Stats.Nodes,
			Leaves:          res.Stats.Leaves,
			DuplicatePrunes: res.Stats.DuplicatePrunes,
			BoundPrunes:     res.Stats.BoundPrunes,
			HeuristicPrunes: res.Stats.HeuristicPrunes,
			Improvements:    res.Stats.Improvements,
			SeenStates:      res.Stats.SeenStates,
			Elapsed:         res.Stats.Elapsed.String(),
		},
	}
	if err != nil {
		r.Error = err.Error()
		return r
	}

	r.MinValue = res.MinValue
	r.WeakestPlayer = f.PlayerName(res.MinPlayer)
	r.Shares = make([]Share, len(res.Allocation))
	for p, items := range res.Allocation {
		r.Shares[p] = Share{Player: f.PlayerName(p), Items: items, Value: res.Scores[p]}
	}

	return r
}

// Encode writes reports to w as a YAML stream, one document per report.
func Encode(w io.Writer, reports ...*Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("instance: encode %s: %w", r.Name, err)
		}
	}

	return enc.Close()
}
