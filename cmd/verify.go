package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"wipeforge/config"
	"wipeforge/db"
	"wipeforge/ledger"
	"wipeforge/store"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate the stored chain and print a report",
	Run: func(cmd *cobra.Command, args []string) {
		runVerify()
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify() {
	cfg, err := config.LoadNodeConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
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

	records, err := recordStore.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load records: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No records stored yet; nothing to verify.")
		return
	}

	chain, err := ledger.FromRecords(records)
	if err != nil {
		log.Fatalf("Failed to rebuild chain: %v", err)
	}
	report, err := chain.Validate()
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	fmt.Printf("Checked %d records\n", report.Checked)
	if report.Valid() {
		fmt.Println("Chain is valid.")
		return
	}

	fmt.Printf("Chain is INVALID: %d failures\n", len(report.Failures))
	for _, failure := range report.Failures {
		fmt.Printf("  %s\n", failure)
	}
	os.Exit(1)
}
