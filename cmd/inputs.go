package main

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"

	"github.com/sells-group/redist-cli/internal/blockstore"
	"github.com/sells-group/redist-cli/internal/estimate"
	"github.com/sells-group/redist-cli/internal/ingest"
	"github.com/sells-group/redist-cli/internal/model"
	"github.com/sells-group/redist-cli/internal/resolve"
)

// inputFlags holds the source-table flags shared by the analysis commands.
type inputFlags struct {
	baselinePath string
	permitPaths  []string // "year=path"
	sourcePaths  []string // "name=path"
	overrides    string   // optional yaml
	censusYear   int
	asOfYear     int
}

func (f *inputFlags) register(set *pflag.FlagSet) {
	set.StringVar(&f.baselinePath, "baseline", "", "baseline block metrics table (csv or xlsx)")
	set.StringArrayVar(&f.permitPaths, "permits", nil, "permit table as year=path (repeatable)")
	set.StringArrayVar(&f.sourcePaths, "source", nil, "attribution source as name=path (repeatable)")
	set.StringVar(&f.overrides, "overrides", "", "manual ward overrides yaml")
	set.IntVar(&f.censusYear, "census-year", 0, "decennial census year (default from config)")
	set.IntVar(&f.asOfYear, "year", 0, "as-of year (default: most recent permit year)")
}

// analysisInputs is the loaded engine state every analysis command starts
// from.
type analysisInputs struct {
	store    *blockstore.Store
	est      *estimate.Estimator
	resolver *resolve.Resolver
	asOfYear int
}

// loadInputs ingests the flagged tables and builds store, estimator, and
// resolver. The as-of year defaults to the most recent permit year, the
// same convention the planning office's workbooks used.
func loadInputs(f inputFlags) (*analysisInputs, error) {
	if f.baselinePath == "" {
		return nil, eris.New("--baseline is required")
	}
	censusYear := f.censusYear
	if censusYear == 0 {
		censusYear = cfg.Analysis.CensusYear
	}

	baseline, err := ingest.ReadBaseline(f.baselinePath)
	if err != nil {
		return nil, err
	}

	var permits []blockstore.PermitTable
	for _, spec := range f.permitPaths {
		year, path, err := splitPair(spec)
		if err != nil {
			return nil, eris.Wrapf(err, "--permits %q", spec)
		}
		yr, err := strconv.Atoi(year)
		if err != nil {
			return nil, eris.Errorf("--permits %q: year %q is not a number", spec, year)
		}
		tbl, err := ingest.ReadPermits(path, yr)
		if err != nil {
			return nil, err
		}
		permits = append(permits, tbl)
	}

	st, err := blockstore.Load(censusYear, baseline, permits)
	if err != nil {
		return nil, err
	}

	var sources []model.AttributionSource
	for _, spec := range f.sourcePaths {
		name, path, err := splitPair(spec)
		if err != nil {
			return nil, eris.Wrapf(err, "--source %q", spec)
		}
		src, err := ingest.ReadAttributionSource(path, name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	for _, src := range sources {
		st.AddSource(src)
	}

	asOf := f.asOfYear
	if asOf == 0 {
		asOf = cfg.Analysis.AsOfYear
	}
	if asOf == 0 {
		asOf = censusYear
		for _, tbl := range permits {
			if tbl.Year > asOf {
				asOf = tbl.Year
			}
		}
	}

	est := estimate.NewEstimator(censusYear)
	r := resolve.New(st, est)

	if f.overrides != "" {
		overrides, err := ingest.ReadOverrides(f.overrides)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(overrides))
		for id := range overrides {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if err := r.Override(id, overrides[id]); err != nil {
				return nil, err
			}
		}
	}

	return &analysisInputs{store: st, est: est, resolver: r, asOfYear: asOf}, nil
}

// splitPair splits a "key=value" flag into its halves.
func splitPair(spec string) (string, string, error) {
	key, value, ok := strings.Cut(spec, "=")
	if !ok || key == "" || value == "" {
		return "", "", eris.New("expected key=path")
	}
	return key, value, nil
}
