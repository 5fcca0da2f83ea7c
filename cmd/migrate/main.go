// Command migrate copies a flat-file data set into PostgreSQL.  Rows
// already present are updated in place, so the tool can be re-run safely.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/msadki/applytrack/internal/database"
	"github.com/msadki/applytrack/internal/store"
	"github.com/msadki/applytrack/internal/store/jsonfile"
	"github.com/msadki/applytrack/internal/store/postgres"
)

func env(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func main() {
	_ = godotenv.Load()

	dataDir := env("DATA_DIR", "./data")
	src, err := jsonfile.Open(dataDir)
	if err != nil {
		log.Fatalf("open %s: %v", dataDir, err)
	}

	db, err := database.Open(
		env("DB_USER", "postgres"),
		os.Getenv("DB_PASS"),
		env("DB_HOST", "localhost"),
		env("DB_PORT", "5432"),
		env("DB_NAME", "recruitment_app"),
	)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = db.Close() }()

	dst := postgres.New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := dst.Migrate(ctx); err != nil {
		log.Fatalf("create schema: %v", err)
	}
	if err := copyAll(ctx, src, dst); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("migration completed")
}

// copyAll moves the collections in foreign-key order so jobs and
// sessions never land before the accounts they reference.
func copyAll(ctx context.Context, src, dst store.Store) error {
	recruiters, err := src.ListRecruiters(ctx)
	if err != nil {
		return err
	}
	if err := dst.UpsertRecruiters(ctx, recruiters); err != nil {
		return err
	}
	log.Printf("migrated %d recruiters", len(recruiters))

	clients, err := src.ListClients(ctx)
	if err != nil {
		return err
	}
	if err := dst.UpsertClients(ctx, clients); err != nil {
		return err
	}
	log.Printf("migrated %d clients", len(clients))

	jobs, err := src.ListJobs(ctx, store.JobFilter{})
	if err != nil {
		return err
	}
	if err := dst.UpsertJobs(ctx, jobs); err != nil {
		return err
	}
	log.Printf("migrated %d jobs", len(jobs))

	sessions, err := src.ListSessions(ctx, store.SessionFilter{})
	if err != nil {
		return err
	}
	if err := dst.UpsertSessions(ctx, sessions); err != nil {
		return err
	}
	log.Printf("migrated %d sessions", len(sessions))

	notifications, err := src.ListNotifications(ctx, store.NotificationFilter{})
	if err != nil {
		return err
	}
	if err := dst.UpsertNotifications(ctx, notifications); err != nil {
		return err
	}
	log.Printf("migrated %d notifications", len(notifications))

	return nil
}
