package main

import (
	"context"
	"log"
	"time"

	"verified-reviews/config"
	httpapi "verified-reviews/internal/api/http"
	"verified-reviews/internal/attestation"
	"verified-reviews/internal/service"
	"verified-reviews/internal/storage"
	"verified-reviews/internal/worker"
)

const reviewsTopic = "reviews"

func main() {
	settings := config.Load()
	ctx := context.Background()

	store := selectStore(ctx, settings)

	var verifier service.AttestationVerifier
	switch settings.Verifier {
	case "ed25519":
		verifier = attestation.Ed25519Verifier{}
		log.Println("Using ed25519 attestation verifier")
	default:
		verifier = &attestation.DemoVerifier{Delay: settings.VerifyDelay}
		log.Println("[MOCK] Using simplified attestation verification")
	}

	var guard service.ReplayGuard
	if settings.ReplayGuard {
		if client, err := config.InitRedis(); err == nil {
			guard = storage.NewRedisReplayGuard(client, 30*24*time.Hour)
			log.Println("Replay guard backed by Redis")
		} else {
			guard = storage.NewMemoryReplayGuard()
			log.Printf("Redis unavailable (%v), replay guard in memory", err)
		}
	}

	var publisher service.ReviewPublisher
	if settings.KafkaBroker != "" {
		writer := config.NewKafkaWriter(reviewsTopic)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)

		reader := config.NewKafkaReader(reviewsTopic, "rating-aggregator")
		defer reader.Close()
		go worker.NewAggregator(reader, store).Start(ctx)
	}

	reviews := service.NewReviewService(store, verifier, guard, publisher, settings.DemoFallback)
	restaurants := service.NewRestaurantService(store, service.DefaultQRGenerator{BaseURL: settings.BaseURL})

	handler := httpapi.NewHandler(reviews, restaurants, storeMode(store))
	httpapi.StartServer(":"+settings.Port, httpapi.NewRouter(handler))
}

// selectStore probes the remote backend once at startup and falls back to
// the local snapshot store for the process lifetime on any failure.
func selectStore(ctx context.Context, settings config.Settings) service.Store {
	db, err := config.InitPostgres()
	if err == nil {
		if err = storage.Probe(ctx, db); err == nil {
			log.Println("Connected to Postgres backend")
			return storage.NewPostgresStore(db)
		}
		db.Close()
	}
	log.Printf("Remote backend unavailable (%v), using local storage", err)
	return storage.NewLocalStore(settings.SnapshotPath)
}

func storeMode(store service.Store) string {
	type moder interface{ Mode() string }
	if m, ok := store.(moder); ok {
		return m.Mode()
	}
	return "unknown"
}
