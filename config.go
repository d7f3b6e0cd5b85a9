package ledgercore

type Config struct {
	Store struct {
		Path       string `yaml:"path"`
		LedgerPath string `yaml:"ledger_path"`
	} `yaml:"store"`
	System struct {
		FeeCollectorID         int64  `yaml:"fee_collector_id"`
		FeeCollectorName       string `yaml:"fee_collector_name"`
		FeeCollectorCredential string `yaml:"fee_collector_credential"`
	} `yaml:"system"`
}
