// Package export writes the biennial summary workbook: ward and
// neighborhood rollups, flagged attribution issues, the metrics block, and
// one sheet per evaluated scenario.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/redist-cli/internal/balance"
	"github.com/sells-group/redist-cli/internal/model"
)

// Summary is everything the workbook renders. Scenario results are
// optional; Totals and Balance are required.
type Summary struct {
	Totals    *model.WardTotals
	Balance   *model.BalanceReport
	Issues    []model.AttributionIssue
	Scenarios []model.ScenarioResult
}

// WriteSummary writes the workbook to path. Population figures are rounded
// for presentation here; the engine itself never rounds.
func WriteSummary(path string, s Summary) error {
	if s.Totals == nil || s.Balance == nil {
		return eris.New("export: summary requires totals and balance")
	}

	f := xlsx.NewFile()

	if err := writeByWard(f, s.Balance, s.Totals); err != nil {
		return err
	}
	if err := writeByNhood(f, s.Totals); err != nil {
		return err
	}
	if err := writeIssues(f, s.Issues); err != nil {
		return err
	}
	if err := writeMetrics(f, s.Balance); err != nil {
		return err
	}
	for _, sc := range s.Scenarios {
		if err := writeScenario(f, sc); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func writeByWard(f *xlsx.File, report *model.BalanceReport, totals *model.WardTotals) error {
	sheet, err := f.AddSheet("by_ward")
	if err != nil {
		return eris.Wrap(err, "export: add by_ward sheet")
	}
	header(sheet, "ward", "population", "deviation_pct", "within_tolerance")
	for _, e := range report.Entries {
		row := sheet.AddRow()
		row.AddCell().SetString(e.Ward)
		row.AddCell().SetInt(int(math.Round(e.Population)))
		row.AddCell().SetFloat(round2(e.DeviationPct))
		row.AddCell().SetBool(e.WithinTolerance)
	}
	if totals.Unattributed > 0 {
		row := sheet.AddRow()
		row.AddCell().SetString("(unattributed)")
		row.AddCell().SetInt(int(math.Round(totals.Unattributed)))
	}
	return nil
}

func writeByNhood(f *xlsx.File, totals *model.WardTotals) error {
	sheet, err := f.AddSheet("by_nc")
	if err != nil {
		return eris.Wrap(err, "export: add by_nc sheet")
	}
	header(sheet, "neighborhood", "population")
	names := make([]string, 0, len(totals.Nhoods))
	for name := range totals.Nhoods {
		names = append(names, name)
	}
	balance.SortWards(names)
	for _, name := range names {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetInt(int(math.Round(totals.Nhoods[name])))
	}
	return nil
}

func writeIssues(f *xlsx.File, issues []model.AttributionIssue) error {
	sheet, err := f.AddSheet("issues")
	if err != nil {
		return eris.Wrap(err, "export: add issues sheet")
	}
	header(sheet, "block_id", "status", "candidates", "population")
	for _, is := range issues {
		row := sheet.AddRow()
		row.AddCell().SetString(is.BlockID)
		row.AddCell().SetString(string(is.Status))
		row.AddCell().SetString(strings.Join(is.Candidates, "; "))
		row.AddCell().SetFloat(round2(is.EstimatedPopulation))
	}
	return nil
}

func writeMetrics(f *xlsx.File, report *model.BalanceReport) error {
	sheet, err := f.AddSheet("metrics")
	if err != nil {
		return eris.Wrap(err, "export: add metrics sheet")
	}
	m := balance.Summarize(report)
	header(sheet, "total_population", "ward_avg",
		fmt.Sprintf("+/- %g%%", report.TolerancePct), "min", "max")
	row := sheet.AddRow()
	row.AddCell().SetInt(m.TotalPopulation)
	row.AddCell().SetInt(m.WardAverage)
	row.AddCell().SetInt(m.Band)
	row.AddCell().SetInt(m.Min)
	row.AddCell().SetInt(m.Max)
	return nil
}

func writeScenario(f *xlsx.File, sc model.ScenarioResult) error {
	sheet, err := f.AddSheet(sheetName("scenario_" + sc.Name))
	if err != nil {
		return eris.Wrapf(err, "export: add sheet for scenario %s", sc.Name)
	}
	header(sheet, "ward", "current_est", "scenario_pop", "change", "from_avg", "pct_avg")
	for _, ch := range sc.Changes {
		row := sheet.AddRow()
		row.AddCell().SetString(ch.Ward)
		row.AddCell().SetInt(int(math.Round(ch.CurrentPopulation)))
		row.AddCell().SetInt(int(math.Round(ch.ScenarioPopulation)))
		row.AddCell().SetInt(int(math.Round(ch.Change)))
		row.AddCell().SetInt(int(math.Round(ch.FromAverage)))
		row.AddCell().SetString(fmt.Sprintf("%.2f%%", ch.PctFromAverage))
	}
	return nil
}

func header(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, name := range names {
		row.AddCell().SetString(name)
	}
}

// sheetName clamps to the xlsx 31-character sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
