package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// Applies the schema file in one shot. The file is written to be idempotent
// (CREATE ... IF NOT EXISTS) so rerunning against a live database is safe.
func main() {
	path := flag.String("file", "migrations/migrations.sql", "path to the schema file")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	schema, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("error reading %s: %v", *path, err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	start := time.Now()
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		log.Fatalf("error applying %s: %v", *path, err)
	}
	log.Printf("applied %s in %s", *path, time.Since(start).Round(time.Millisecond))
}
