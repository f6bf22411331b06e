package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hybridtest/internal/loadgen"
)

var (
	lgPlan    string
	lgResults string
	lgHTMLDir string
	lgBaseURL string
	lgTimeout int
)

var loadgenCmd = &cobra.Command{
	Use:   "loadgen",
	Short: "Run the built-in load engine against a JMeter test plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		plan, err := loadgen.ParsePlan(lgPlan, lgBaseURL)
		if err != nil {
			return err
		}

		return loadgen.Start(ctx, plan, plan.EngineConfig(lgTimeout), loadgen.Outputs{
			ResultsFile:   lgResults,
			HTMLReportDir: lgHTMLDir,
		})
	},
}

func init() {
	loadgenCmd.Flags().StringVar(&lgPlan, "plan", "jmeter/test-plan.jmx", "JMeter test plan (.jmx)")
	loadgenCmd.Flags().StringVar(&lgResults, "results", "reports/jmeter-report/results.jtl", "Results output (JTL)")
	loadgenCmd.Flags().StringVar(&lgHTMLDir, "html-dir", "reports/jmeter-report/html", "HTML report output dir")
	loadgenCmd.Flags().StringVar(&lgBaseURL, "base-url", "http://localhost:8080", "Fallback target for plans without samplers")
	loadgenCmd.Flags().IntVar(&lgTimeout, "timeout", 30, "Request timeout in seconds")
}
