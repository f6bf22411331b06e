package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hybridtest/internal/uitest"
)

var (
	utBaseURL    string
	utReportDir  string
	utHeadless   bool
	utChromePath string
)

var uitestCmd = &cobra.Command{
	Use:   "uitest",
	Short: "Run the browser UI test suite",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		res, err := uitest.Run(ctx, uitest.Options{
			BaseURL:    utBaseURL,
			ReportDir:  utReportDir,
			Headless:   utHeadless,
			ChromePath: utChromePath,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nUI tests complete: %d passed, %d failed. Reports in: %s\n",
			res.Passed, res.Failed, utReportDir)
		if res.Failed > 0 {
			return fmt.Errorf("%d UI test(s) failed", res.Failed)
		}
		return nil
	},
}

func init() {
	uitestCmd.Flags().StringVar(&utBaseURL, "base-url", "http://localhost:8080", "Target application URL")
	uitestCmd.Flags().StringVar(&utReportDir, "report-dir", "reports/selenium-report", "Performance sink directory")
	uitestCmd.Flags().BoolVar(&utHeadless, "headless", false, "Run the browser headless")
	uitestCmd.Flags().StringVar(&utChromePath, "chrome-path", "", "Chrome/Chromium binary path")
}
