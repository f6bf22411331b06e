package cmd

import (
	"github.com/spf13/cobra"

	"hybridtest/internal/dummy"
)

var dummyCmd = &cobra.Command{
	Use:   "dummy",
	Short: "Run the internal dummy target application",
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")
		dummy.Start(dummy.ServerConfig{Port: port})
		select {}
	},
}

func init() {
	dummyCmd.Flags().IntP("port", "p", 8080, "Port to run the dummy target on")
}
