package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"wipeforge/certificate"
	"wipeforge/config"
	"wipeforge/db"
	"wipeforge/service"
	"wipeforge/store"
	"wipeforge/wipeengine"
)

var (
	wipeDeviceID   string
	wipeDeviceName string
	wipeMethod     string
)

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Run a one-shot wipe and record it on the chain",
	Run: func(cmd *cobra.Command, args []string) {
		runWipe()
	},
}

func init() {
	rootCmd.AddCommand(wipeCmd)
	wipeCmd.Flags().StringVarP(&wipeDeviceID, "device", "d", "", "Device identifier (required)")
	wipeCmd.Flags().StringVar(&wipeDeviceName, "name", "", "Human-readable device name")
	wipeCmd.Flags().StringVarP(&wipeMethod, "method", "m", "", "Wipe method (defaults to the engine config)")
	wipeCmd.MarkFlagRequired("device")
}

func runWipe() {
	cfg, err := config.LoadNodeConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	engineCfg, err := config.LoadEngineConfig(engineCfgPath)
	if err != nil {
		log.Fatalf("Failed to load engine config: %v", err)
	}
	if wipeMethod == "" {
		wipeMethod = engineCfg.DefaultMethod
	}
	if wipeDeviceName == "" {
		wipeDeviceName = wipeDeviceID + " Device"
	}

	provider, err := db.NewLevelDBProvider(cfg.Storage.DataDir)
	if err != nil {
		log.Fatalf("Failed to open record database: %v", err)
	}
	recordStore, err := store.NewGenericRecordStore(provider)
	if err != nil {
		log.Fatalf("Failed to create record store: %v", err)
	}
	defer recordStore.MustClose()

	chain, err := loadOrCreateChain(recordStore)
	if err != nil {
		log.Fatalf("Failed to initialize chain: %v", err)
	}

	engine := wipeengine.New(cfg.Storage.LogDir, time.Duration(engineCfg.PassDelayMs)*time.Millisecond)
	wipeSvc := service.NewWipeService(engine, chain, recordStore, certificate.NewWriter(cfg.Storage.CertDir))

	receipt, err := wipeSvc.StartWipe(wipeDeviceID, wipeDeviceName, wipeMethod)
	if err != nil {
		log.Fatalf("Wipe failed: %v", err)
	}

	fmt.Printf("Wipe recorded\n")
	fmt.Printf("  Device:      %s (%s)\n", wipeDeviceName, wipeDeviceID)
	fmt.Printf("  Method:      %s\n", wipeMethod)
	fmt.Printf("  Status:      %s\n", receipt.Log.Status)
	fmt.Printf("  Position:    %d\n", receipt.Position)
	fmt.Printf("  Digest:      %s\n", receipt.Digest)
	fmt.Printf("  Prev digest: %s\n", receipt.PrevDigest)
	if receipt.CertificatePath != "" {
		fmt.Printf("  Certificate: %s\n", receipt.CertificatePath)
	}
	if receipt.LogPath != "" {
		fmt.Printf("  Wipe log:    %s\n", receipt.LogPath)
	}
}
