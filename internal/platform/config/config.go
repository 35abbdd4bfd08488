package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// JWTSigningKey signs session tokens. The default is a well-known demo
	// value and must be overridden outside of demos.
	JWTSigningKey string

	// DatabaseURL selects PostgreSQL persistence when set. Empty means
	// in-memory stores.
	DatabaseURL string

	// StorageDir is the root directory for rendered pay-stub PDFs.
	StorageDir string

	// WorkerConcurrency bounds the dispatch worker pool.
	WorkerConcurrency int

	// ProcessingDelay simulates per-employee work during a payroll run.
	// It carries no semantic meaning.
	ProcessingDelay time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PAYROLL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SECRET_KEY")
	if jwtSigningKey == "" {
		// Demo default, matches the seeded environment.
		jwtSigningKey = "demo-secret-key-for-interview"
	}

	storageDir := os.Getenv("PAYROLL_STORAGE_DIR")
	if storageDir == "" {
		storageDir = "storage"
	}

	concurrency := 4
	if v := os.Getenv("PAYROLL_WORKER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			concurrency = n
		}
	}

	delay := 2 * time.Second
	if v := os.Getenv("PAYROLL_PROCESSING_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			delay = d
		}
	}

	return Server{
		Addr:              addr,
		JWTSigningKey:     jwtSigningKey,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		StorageDir:        storageDir,
		WorkerConcurrency: concurrency,
		ProcessingDelay:   delay,
	}
}
