// Package sampling draws reproducible, proportionally stratified samples.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

const (
	DefaultFraction = 0.10
	DefaultSeed     = 42
)

// ErrInvalidFraction is returned when the fraction is outside (0, 1].
var ErrInvalidFraction = errors.New("sampling fraction must be in (0, 1]")

// Config controls a stratified draw. It is passed explicitly on every call;
// the package holds no random state.
type Config struct {
	Fraction float64
	Seed     int64
	By       sales.Field
}

// DefaultConfig samples 10% of each shoe type with seed 42.
func DefaultConfig() Config {
	return Config{Fraction: DefaultFraction, Seed: DefaultSeed, By: sales.FieldShoeType}
}

// Allocation reports how many rows one stratum contributed.
type Allocation struct {
	Stratum    string `json:"stratum" yaml:"stratum"`
	Population int    `json:"population" yaml:"population"`
	Drawn      int    `json:"drawn" yaml:"drawn"`
}

// Allocate returns the number of rows drawn from a stratum of n rows:
// round(f*n), halves to even.
func Allocate(n int, f float64) int {
	return int(math.RoundToEven(f * float64(n)))
}

// Stratified draws round(f*N) rows uniformly without replacement from every
// stratum of cfg.By. Each stratum uses its own generator seeded with cfg.Seed,
// so one stratum's draw never depends on another's size. Strata are emitted in
// vocabulary order and rows within a stratum keep their dataset order.
func Stratified(d *sales.Dataset, cfg Config) (*sales.Sample, []Allocation, error) {
	if !(cfg.Fraction > 0 && cfg.Fraction <= 1) {
		return nil, nil, fmt.Errorf("%w: got %v", ErrInvalidFraction, cfg.Fraction)
	}
	if cfg.By == "" {
		cfg.By = sales.FieldShoeType
	}
	vocab, err := d.Vocabulary(cfg.By)
	if err != nil {
		return nil, nil, fmt.Errorf("stratify: %w", err)
	}

	strata := make([][]int, vocab.Len())
	for i := 0; i < d.Len(); i++ {
		r := d.Record(i)
		c := r.ShoeType
		if cfg.By == sales.FieldCountry {
			c = r.Country
		}
		strata[c] = append(strata[c], i)
	}

	var picked []sales.Record
	allocs := make([]Allocation, 0, len(strata))
	for code, rows := range strata {
		k := Allocate(len(rows), cfg.Fraction)
		allocs = append(allocs, Allocation{Stratum: vocab.Label(sales.Category(code)), Population: len(rows), Drawn: k})
		if k == 0 {
			continue
		}
		rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0))
		perm := rng.Perm(len(rows))[:k]
		sort.Ints(perm)
		for _, p := range perm {
			picked = append(picked, d.Record(rows[p]))
		}
	}
	return sales.NewSample(d, picked), allocs, nil
}
