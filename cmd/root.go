package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"wipeforge/logx"
)

var rootCmd = &cobra.Command{
	Use:   "wipeforge",
	Short: "WipeForge tamper-evident wipe-audit node CLI",
	Long:  "Command line interface for running and managing a WipeForge node: simulated device wipes recorded on a tamper-evident hash chain.",
}

var (
	configPath    string
	engineCfgPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/wipeforge.yml", "Path to the node config file")
	rootCmd.PersistentFlags().StringVar(&engineCfgPath, "engine-config", "config/config.ini", "Path to the wipe engine config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
