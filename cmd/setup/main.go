package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/bootstrap"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/database"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/rarity"
)

func main() {
	seed := flag.Int("seed", 0, "number of spawns to scatter around -lat/-lng after migrating")
	lat := flag.Float64("lat", 40.7580, "seed center latitude")
	lng := flag.Float64("lng", -73.9855, "seed center longitude")
	radius := flag.Float64("radius", 500, "seed scatter radius in meters")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.StorageDriver != config.StorageDriverPostgres {
		log.Fatalf("setup requires STORAGE_DRIVER=%s", config.StorageDriverPostgres)
	}

	ctx := context.Background()

	// 1. Connect to default 'postgres' database to create the new database
	defaultConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort)
	conn, err := pgx.Connect(ctx, defaultConnString)
	if err != nil {
		log.Fatalf("Unable to connect to postgres database: %v", err)
	}

	// 2. Check if database exists
	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		log.Fatalf("Failed to check if database exists: %v", err)
	}

	if !exists {
		fmt.Printf("Creating database %s...\n", cfg.DBName)
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
		fmt.Println("Database created successfully.")
	} else {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
	}
	conn.Close(ctx)

	// 3. Apply migrations
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MaxConnIdleTime: cfg.DBMaxIdle,
		MaxConnLifetime: cfg.DBMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Unable to connect to %s database: %v", cfg.DBName, err)
	}
	fmt.Println("Running migrations...")
	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	pool.Close()
	fmt.Println("Migrations completed successfully.")

	if *seed > 0 {
		if err := seedSpawns(ctx, cfg, *seed, geo.Point{Lat: *lat, Lng: *lng}, *radius); err != nil {
			log.Fatalf("Failed to seed spawns: %v", err)
		}
		fmt.Printf("Seeded %d spawns within %.0fm of (%f, %f).\n", *seed, *radius, *lat, *lng)
	}
}

// seedSpawns creates spawns through the hunt service. Creature rarities are
// drawn from the configured base odds with no pity applied.
func seedSpawns(ctx context.Context, cfg *config.Config, n int, center geo.Point, radius float64) error {
	cfg.AutoMigrate = false
	econ, err := bootstrap.LoadEconomy(cfg)
	if err != nil {
		return err
	}
	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	services, err := bootstrap.InitializeServices(cfg, econ, storage.Hunt, event.NewMemoryBus())
	if err != nil {
		return err
	}

	roller := rarity.NewRoller(econ.Rarity, rand.Float64)
	for i := 0; i < n; i++ {
		p := geo.Destination(center, rand.Float64()*360, rand.Float64()*radius)
		req := domain.NewSpawn{
			Kind:     domain.SpawnKindCreature,
			Location: domain.Location{Lat: p.Lat, Lng: p.Lng},
			TTL:      time.Hour,
		}
		if rand.IntN(5) == 0 {
			req.Kind = domain.SpawnKindEgg
		} else {
			req.Rarity, _ = roller.Roll(domain.PityCounters{})
		}
		if _, err := services.Hunt.CreateSpawn(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
