package ingest

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/redist-cli/internal/blockstore"
	"github.com/sells-group/redist-cli/internal/model"
)

// ReadBaseline reads the decennial baseline table. Required columns:
// block_id, census_population, occupancy_rate, avg_household_size. Blank
// numerics are nulls; the blockstore normalizes them to zero.
func ReadBaseline(path string) ([]blockstore.BaselineRow, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	cols, err := headerColumns(rows)
	if err != nil {
		return nil, err
	}
	if err := cols.require(path, "block_id", "census_population", "occupancy_rate", "avg_household_size"); err != nil {
		return nil, err
	}

	out := make([]blockstore.BaselineRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		r := blockstore.BaselineRow{BlockID: cols.get(row, "block_id")}
		if r.CensusPopulation, err = intPtr(cols.get(row, "census_population")); err != nil {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "%s row %d: census_population: %v", path, i+2, err)
		}
		if r.OccupancyRate, err = floatPtr(cols.get(row, "occupancy_rate")); err != nil {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "%s row %d: occupancy_rate: %v", path, i+2, err)
		}
		if r.AvgHouseholdSize, err = floatPtr(cols.get(row, "avg_household_size")); err != nil {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "%s row %d: avg_household_size: %v", path, i+2, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// ReadPermits reads one year's building-permit table. Required columns:
// block_id, new_dwelling_units.
func ReadPermits(path string, year int) (blockstore.PermitTable, error) {
	tbl := blockstore.PermitTable{Year: year}

	rows, err := readTable(path)
	if err != nil {
		return tbl, err
	}
	cols, err := headerColumns(rows)
	if err != nil {
		return tbl, err
	}
	if err := cols.require(path, "block_id", "new_dwelling_units"); err != nil {
		return tbl, err
	}

	for i, row := range rows[1:] {
		r := blockstore.PermitRow{BlockID: cols.get(row, "block_id")}
		if r.NewUnits, err = intPtr(cols.get(row, "new_dwelling_units")); err != nil {
			return tbl, eris.Wrapf(model.ErrDataIntegrity, "%s row %d: new_dwelling_units: %v", path, i+2, err)
		}
		tbl.Rows = append(tbl.Rows, r)
	}
	return tbl, nil
}

// ReadAttributionSource reads one spatial-join output table as a named
// attribution source. Required columns: block_id, ward; nhood is optional.
// A blank ward cell means the source left the block unassigned.
func ReadAttributionSource(path, name string) (model.AttributionSource, error) {
	src := model.AttributionSource{
		Name:   name,
		Wards:  make(map[string]string),
		Nhoods: make(map[string]string),
	}

	rows, err := readTable(path)
	if err != nil {
		return src, err
	}
	cols, err := headerColumns(rows)
	if err != nil {
		return src, err
	}
	if err := cols.require(path, "block_id", "ward"); err != nil {
		return src, err
	}

	for _, row := range rows[1:] {
		id := cols.get(row, "block_id")
		if id == "" {
			continue
		}
		src.Wards[id] = cols.get(row, "ward")
		if nhood := cols.get(row, "nhood"); nhood != "" {
			src.Nhoods[id] = nhood
		}
	}
	return src, nil
}
