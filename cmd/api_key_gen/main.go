package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"infinite-experiment/flightdeck/internal/config"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/db"
	"infinite-experiment/flightdeck/internal/db/repositories"
)

func main() {
	account := flag.String("account", "", "account id the key acts as (passenger id for passenger keys)")
	role := flag.String("role", string(constants.RolePassenger), "operator or passenger")
	flag.Parse()

	r := constants.Role(*role)
	if !r.Valid() {
		log.Fatalf("invalid role %q", *role)
	}
	if strings.TrimSpace(*account) == "" {
		log.Fatal("-account is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	gormDB, err := db.InitORM(cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	sqlDB, err := db.InitSQL(cfg.Database, gormDB)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := repositories.NewApiKeysRepo(sqlDB).Insert(ctx, key, *account, r); err != nil {
		log.Fatalf("insert api key: %v", err)
	}

	fmt.Println("New API Key:", key)
}
