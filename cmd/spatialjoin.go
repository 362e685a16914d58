package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/redist-cli/internal/spatial"
)

var (
	sjBlocks string
	sjWards  string
	sjNhoods string
	sjName   string
	sjOut    string
)

var spatialJoinCmd = &cobra.Command{
	Use:   "spatialjoin",
	Short: "Build an attribution source from boundary shapefiles",
	Long:  "Assigns each census block's internal point to the containing ward (and optionally neighborhood) polygon and writes the result as an attribution source table for analyze/resolve. This replaces the GIS spatial-join pass; the analysis engine itself never touches geometry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := spatial.BuildSource(sjName, sjBlocks, sjWards, sjNhoods, spatial.JoinOptions{
			BlockIDField: cfg.Spatial.BlockIDField,
			LatField:     cfg.Spatial.LatField,
			LonField:     cfg.Spatial.LonField,
			WardField:    cfg.Spatial.WardField,
			NhoodField:   cfg.Spatial.NhoodField,
		})
		if err != nil {
			return err
		}

		f, err := os.Create(sjOut)
		if err != nil {
			return eris.Wrapf(err, "create %s", sjOut)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		if err := w.Write([]string{"block_id", "ward", "nhood"}); err != nil {
			return eris.Wrap(err, "write header")
		}
		ids := make([]string, 0, len(src.Wards))
		for id := range src.Wards {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if err := w.Write([]string{id, src.Wards[id], src.Nhoods[id]}); err != nil {
				return eris.Wrapf(err, "write row for block %s", id)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return eris.Wrap(err, "flush csv")
		}

		fmt.Printf("attribution source %q written to %s (%d blocks)\n", sjName, sjOut, len(ids))
		return nil
	},
}

func init() {
	spatialJoinCmd.Flags().StringVar(&sjBlocks, "blocks", "", "census block shapefile")
	spatialJoinCmd.Flags().StringVar(&sjWards, "wards", "", "ward boundary shapefile")
	spatialJoinCmd.Flags().StringVar(&sjNhoods, "nhoods", "", "neighborhood boundary shapefile (optional)")
	spatialJoinCmd.Flags().StringVar(&sjName, "name", "centroid_join", "attribution source name")
	spatialJoinCmd.Flags().StringVar(&sjOut, "out", "attribution.csv", "output csv path")
	_ = spatialJoinCmd.MarkFlagRequired("blocks")
	_ = spatialJoinCmd.MarkFlagRequired("wards")
	rootCmd.AddCommand(spatialJoinCmd)
}
