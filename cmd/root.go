package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hybridtest/internal/banner"
	"hybridtest/internal/config"
	"hybridtest/internal/orchestrator"
	"hybridtest/internal/storage"
)

var (
	cfgFile string

	// CLI Flags
	jmeterOnly   bool
	seleniumOnly bool
	headless     bool
	builtinLoad  bool
)

var rootCmd = &cobra.Command{
	Use:   "hybridtest",
	Short: "hybridtest - Hybrid Load + UI Test Orchestrator",
	Long: `
hybridtest coordinates a load-test engine and a browser-driven UI test suite
against one target application, then merges both outputs into a unified report.

By default both executors run concurrently: the load test in the background,
the UI suite after a ramp-up delay. Use the mode flags to run just one side.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := config.ModeCombined
		if jmeterOnly {
			mode = config.ModeLoadOnly
		}
		if seleniumOnly {
			mode = config.ModeUIOnly
		}

		cfg := config.New(viper.GetViper(), mode, headless, builtinLoad)
		return runOrchestrator(cfg)
	},
}

func runOrchestrator(cfg config.RunConfiguration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// History is best-effort: an unopenable store never blocks a run.
	store, err := storage.Open()
	if err != nil {
		fmt.Printf("⚠️  Run history unavailable: %v\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	o := orchestrator.New(cfg, store)
	return o.Run(ctx)
}

func Execute() {
	// Custom Help with Banner
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(banner.GetString())
		cmd.Usage()
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(loadgenCmd)
	rootCmd.AddCommand(uitestCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(testdataCmd)
	rootCmd.AddCommand(dummyCmd)
	rootCmd.AddCommand(historyCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hybridtest.yaml)")

	rootCmd.Flags().BoolVar(&jmeterOnly, "jmeter-only", false, "Run only the load test")
	rootCmd.Flags().BoolVar(&seleniumOnly, "selenium-only", false, "Run only the UI tests")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run the browser headless")
	rootCmd.Flags().BoolVar(&builtinLoad, "builtin-load", false, "Use the built-in load engine instead of an external jmeter binary")
	rootCmd.MarkFlagsMutuallyExclusive("jmeter-only", "selenium-only")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".hybridtest")
		}
	}
	config.Defaults(viper.GetViper())
	viper.SetEnvPrefix("HYBRIDTEST")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}
