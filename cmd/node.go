package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wipeforge/api"
	"wipeforge/certificate"
	"wipeforge/config"
	"wipeforge/db"
	"wipeforge/jsonrpc"
	"wipeforge/ledger"
	"wipeforge/logx"
	"wipeforge/monitoring"
	"wipeforge/service"
	"wipeforge/store"
	"wipeforge/wipeengine"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the wipe-audit node",
	Run: func(cmd *cobra.Command, args []string) {
		runNode()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runNode() {
	cfg, err := config.LoadNodeConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	engineCfg, err := config.LoadEngineConfig(engineCfgPath)
	if err != nil {
		log.Fatalf("Failed to load engine config: %v", err)
	}

	monitoring.InitMetrics()

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
	latest, err := chain.Latest()
	if err != nil {
		log.Fatalf("Failed to read chain tail: %v", err)
	}
	monitoring.SetChainHeight(latest.Position)
	logx.Info("NODE", "Chain ready at position ", latest.Position)

	engine := wipeengine.New(cfg.Storage.LogDir, time.Duration(engineCfg.PassDelayMs)*time.Millisecond)
	wipeSvc := service.NewWipeService(engine, chain, recordStore, certificate.NewWriter(cfg.Storage.CertDir))

	rpcServer := jsonrpc.NewServer(cfg.Listen.JSONRPCAddr, wipeSvc)
	rpcServer.SetCORSConfig(jsonrpc.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	rpcServer.Start()

	apiServer := api.NewAPIServer(wipeSvc, cfg.Listen.APIAddr)
	apiServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logx.Info("NODE", "Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rpcServer.Stop(ctx); err != nil {
		logx.Error("NODE", "JSON-RPC shutdown failed: ", err)
	}
	if err := apiServer.Stop(ctx); err != nil {
		logx.Error("NODE", "API shutdown failed: ", err)
	}
}

// loadOrCreateChain rebuilds the chain from the record store when previous
// runs left records behind, otherwise starts a fresh chain and persists its
// genesis record.
func loadOrCreateChain(recordStore store.RecordStore) (*ledger.Chain, error) {
	records, err := recordStore.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		chain, err := ledger.FromRecords(records)
		if err != nil {
			return nil, err
		}
		report, err := chain.Validate()
		if err != nil {
			return nil, err
		}
		if !report.Valid() {
			logx.Warn("NODE", "Reloaded chain has ", len(report.Failures), " validation failures")
			monitoring.IncreaseTamperDetections()
		}
		logx.Info("NODE", "Reloaded ", len(records), " records from store")
		return chain, nil
	}

	chain := ledger.NewChain()
	genesis, err := chain.Latest()
	if err != nil {
		return nil, err
	}
	if err := recordStore.Store(genesis); err != nil {
		return nil, err
	}
	logx.Info("NODE", "Created new chain, genesis digest ", genesis.Digest)
	return chain, nil
}
