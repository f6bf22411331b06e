package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hybridtest/internal/report"
)

var mergeReportsPath string

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge load-test and UI-test results into one report",
	RunE: func(cmd *cobra.Command, args []string) error {
		base := mergeReportsPath

		m, err := report.Merge(report.Inputs{
			ResultsFile: filepath.Join(base, "jmeter-report", "results.jtl"),
			UIReportDir: filepath.Join(base, "selenium-report"),
			HTMLOut:     filepath.Join(base, "merged-report.html"),
			JSONOut:     filepath.Join(base, "merged-report.json"),
			JUnitOut:    filepath.Join(base, "merged-report.xml"),
		})
		if err != nil {
			return err
		}

		fmt.Printf("✅ Merged report generated: %s\n", filepath.Join(base, "merged-report.html"))
		fmt.Printf("   Total: %d | Success rate: %.1f%% | Avg response: %.0fms\n",
			m.TotalTests(), m.OverallSuccessRate(), m.CombinedAvgResponseTime())
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeReportsPath, "reports-path", "reports", "Path to reports directory")
}
