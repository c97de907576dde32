package configs

// HTTP defines configuration for the admin HTTP server, which carries
// spend ingestion, manual job triggers and ledger inspection.
type HTTP struct {
	// Port is the TCP port the HTTP server will listen on.
	Port uint16 `env:"PORT" envDefault:"8080"`
}
