package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hybridtest/internal/testdata"
)

var (
	tdInput  string
	tdOut    string
	tdCount  int
	tdCSV    string
	tdMap    string
	tdVary   bool
	tdSeed   int64
)

var testdataCmd = &cobra.Command{
	Use:   "testdata",
	Short: "Generate randomized XML test-data variants with a CSV manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		tagMap, err := parseTagMap(tdMap)
		if err != nil {
			return err
		}

		variants, err := testdata.Generate(testdata.GeneratorConfig{
			Input:       tdInput,
			OutDir:      tdOut,
			Count:       tdCount,
			ManifestCSV: tdCSV,
			TagMap:      tagMap,
			VaryFormats: tdVary,
			Seed:        tdSeed,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✅ Generated %d variants in %s\n", len(variants), tdOut)
		return nil
	},
}

// parseTagMap parses "name=Name,address=Address" style mappings.
func parseTagMap(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("map entry %q must be key=tag", pair)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

func init() {
	testdataCmd.Flags().StringVarP(&tdInput, "input", "i", "", "Template XML file (required)")
	testdataCmd.Flags().StringVarP(&tdOut, "out", "o", "testdata-out", "Output directory")
	testdataCmd.Flags().IntVarP(&tdCount, "count", "n", 10, "Number of variants")
	testdataCmd.Flags().StringVar(&tdCSV, "csv", "", "Manifest path (default <out>/manifest.csv)")
	testdataCmd.Flags().StringVar(&tdMap, "map", "", "Tag mapping, e.g. name=Name,address=Address")
	testdataCmd.Flags().BoolVar(&tdVary, "vary-formats", false, "Randomize date/time formats per variant")
	testdataCmd.Flags().Int64Var(&tdSeed, "seed", 0, "Random seed (0 = time-based)")
	testdataCmd.MarkFlagRequired("input")
}
