package hunt_bench

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/bootstrap"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/config"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/database/memory"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/geo"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/hunt"
)

var center = domain.Location{Lat: 40.7580, Lng: -73.9855}

// newService wires the real hunt stack over the in-memory store
func newService(b *testing.B, nearbyCacheMax int) hunt.Service {
	b.Helper()
	cfg := &config.Config{
		DailyResetTZ:   "UTC",
		NearbyCacheMax: nearbyCacheMax,
		NearbyCacheTTL: time.Minute,
	}
	services, err := bootstrap.InitializeServices(cfg, config.DefaultEconomy(), memory.NewStore(), event.NewMemoryBus())
	if err != nil {
		b.Fatalf("InitializeServices failed: %v", err)
	}
	return services.Hunt
}

func seed(b *testing.B, svc hunt.Service, n int) []*domain.Spawn {
	b.Helper()
	ctx := context.Background()
	spawns := make([]*domain.Spawn, 0, n)
	for i := 0; i < n; i++ {
		p := geo.Destination(geo.Point{Lat: center.Lat, Lng: center.Lng}, float64(i%360), float64(i%400))
		sp, err := svc.CreateSpawn(ctx, domain.NewSpawn{
			Kind:     domain.SpawnKindCreature,
			Rarity:   domain.RarityCommon,
			Location: domain.Location{Lat: p.Lat, Lng: p.Lng},
			TTL:      time.Hour,
		})
		if err != nil {
			b.Fatalf("CreateSpawn failed: %v", err)
		}
		spawns = append(spawns, sp)
	}
	return spawns
}

// BenchmarkListNearbySpawns measures the nearby query against a dense area,
// with and without the result cache.
func BenchmarkListNearbySpawns(b *testing.B) {
	for _, size := range []int{0, 1024} {
		b.Run(fmt.Sprintf("cache_size=%d", size), func(b *testing.B) {
			svc := newService(b, size)
			seed(b, svc, 1000)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := svc.ListNearbySpawns(ctx, "bench-player", center, 500); err != nil {
					b.Fatalf("ListNearbySpawns failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkCatchFlow runs reserve, arrive and catch for a fresh player each
// iteration so the daily cap never interferes.
func BenchmarkCatchFlow(b *testing.B) {
	svc := newService(b, 0)
	spawns := seed(b, svc, b.N)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		player := fmt.Sprintf("bench-%d", i)
		sp := spawns[i]
		if _, err := svc.ReserveSpawn(ctx, player, sp.ID); err != nil {
			b.Fatalf("ReserveSpawn failed: %v", err)
		}
		arrival, err := svc.ArriveAtSpawn(ctx, player, sp.ID, sp.Location)
		if err != nil {
			b.Fatalf("ArriveAtSpawn failed: %v", err)
		}
		if _, err := svc.AttemptCatch(ctx, player, sp.ID, arrival.TargetCenter); err != nil {
			b.Fatalf("AttemptCatch failed: %v", err)
		}
	}
}
