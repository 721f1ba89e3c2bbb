package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sortnet/pkg/config"
	"github.com/matzehuels/sortnet/pkg/errors"
	"github.com/matzehuels/sortnet/pkg/network"
)

func TestParseValues(t *testing.T) {
	tests := []struct {
		in      string
		want    []int64
		wantErr bool
	}{
		{"5,3,8", []int64{5, 3, 8}, false},
		{"5 3  8", []int64{5, 3, 8}, false},
		{" -1, 0,\t9 ", []int64{-1, 0, 9}, false},
		{"9223372036854775807", []int64{9223372036854775807}, false},
		{"", nil, true},
		{" , ", nil, true},
		{"1,two", nil, true},
		{"1.5", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseValues(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseValues(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %s", errors.GetCode(err))
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseValues(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRunFlagsResolve(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config, strategy string, size int, values []int64, seed uint64)
	}{
		{
			name: "config defaults",
			args: nil,
			check: func(t *testing.T, cfg *config.Config, strategy string, size int, values []int64, seed uint64) {
				if strategy != cfg.Run.Strategy || size != cfg.Run.Size || seed != cfg.Run.Seed || values != nil {
					t.Errorf("got %s/%d/%d/%v", strategy, size, seed, values)
				}
			},
		},
		{
			name: "flags win",
			args: []string{"-s", "sasaki", "-n", "4", "--seed", "9", "--workers", "3", "--pool"},
			check: func(t *testing.T, cfg *config.Config, strategy string, size int, values []int64, seed uint64) {
				if strategy != "sasaki" || size != 4 || seed != 9 {
					t.Errorf("got %s/%d/%d", strategy, size, seed)
				}
				if cfg.Run.Workers != 3 || !cfg.Run.Pool {
					t.Errorf("run config = %+v", cfg.Run)
				}
			},
		},
		{
			name: "values ignore configured size",
			args: []string{"--values", "3,1,2"},
			check: func(t *testing.T, cfg *config.Config, strategy string, size int, values []int64, seed uint64) {
				if size != 0 || !slices.Equal(values, []int64{3, 1, 2}) {
					t.Errorf("size = %d, values = %v", size, values)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f runFlags
			cmd := &cobra.Command{Use: "x"}
			f.bind(cmd, true)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			cfg := config.Default()
			opts, err := f.resolve(cmd, cfg)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			tt.check(t, cfg, opts.Strategy, opts.Size, opts.Values, opts.Seed)
		})
	}
}

func TestCheckOutcome(t *testing.T) {
	tests := []struct {
		sorted, converged bool
		wantErr           bool
	}{
		{true, true, false},
		{false, false, false},
		{false, true, true},
	}
	for _, tt := range tests {
		err := checkOutcome("alternate", tt.sorted, tt.converged, 5)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkOutcome(sorted=%v, converged=%v) = %v", tt.sorted, tt.converged, err)
		}
		if err != nil && !errors.IsFatal(err) {
			t.Errorf("unsorted fixed schedule should be fatal, got %v", err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"":            "svg",
		"run.svg":     "svg",
		"run.PNG":     "png",
		"out/run.pdf": "pdf",
		"run.dot":     "dot",
		"run.gv":      "dot",
		"run.txt":     "svg",
	}
	for path, want := range tests {
		if got := formatFromPath(path); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestFormatElement(t *testing.T) {
	tests := []struct {
		e    network.Element
		want string
	}{
		{network.Element{Bound: network.NegInf}, "-inf"},
		{network.Element{Bound: network.PosInf}, "+inf"},
		{network.Element{Value: 4, Marked: true}, "4*"},
		{network.Element{Value: -2}, "-2"},
	}
	for _, tt := range tests {
		if got := formatElement(tt.e); got != tt.want {
			t.Errorf("formatElement(%+v) = %q, want %q", tt.e, got, tt.want)
		}
	}
}
