package main

import (
	"flag"
	"os"

	"github.com/quantumpark/ledgercore"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg ledgercore.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}
	cfgfl.Close()

	store, err := ledgercore.NewFileStore(cfg.Store.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening record store")
	}
	collector := ledgercore.Account{
		ID:         cfg.System.FeeCollectorID,
		Name:       cfg.System.FeeCollectorName,
		Credential: cfg.System.FeeCollectorCredential,
	}
	if err = store.Bootstrap(collector); err != nil {
		logger.Fatal().Err(err).Msg("error seeding fee collector account")
	}

	ledger, err := ledgercore.NewLedgerLog(cfg.Store.LedgerPath, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening ledger log")
	}
	if err = ledger.Init(); err != nil {
		logger.Fatal().Err(err).Msg("error writing ledger header")
	}

	logger.Info().
		Str("store", cfg.Store.Path).
		Str("ledger", cfg.Store.LedgerPath).
		Int64("fee_collector", cfg.System.FeeCollectorID).
		Msg("system initialized")
}
