package config

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Settings collects the service knobs read from the environment.
type Settings struct {
	Port         string
	BaseURL      string
	SnapshotPath string
	KafkaBroker  string
	Verifier     string        // "demo" or "ed25519"
	VerifyDelay  time.Duration // simulated proof-check latency for the demo verifier
	DemoFallback bool          // substitute an existing restaurant on unknown id
	ReplayGuard  bool
}

func Load() Settings {
	return Settings{
		Port:         getenv("PORT", "3002"),
		BaseURL:      getenv("BASE_URL", "http://localhost:3002"),
		SnapshotPath: getenv("SNAPSHOT_PATH", "local-data.json"),
		KafkaBroker:  os.Getenv("KAFKA_BROKER"),
		Verifier:     getenv("VERIFIER", "demo"),
		VerifyDelay:  time.Duration(getenvInt("VERIFY_DELAY_MS", 500)) * time.Millisecond,
		DemoFallback: getenvBool("DEMO_FALLBACK", false),
		ReplayGuard:  getenvBool("REPLAY_GUARD", true),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// InitPostgres opens the remote backend from DB_* env vars. It does not ping;
// the caller probes with its own timeout before committing to the backend.
func InitPostgres() (*sql.DB, error) {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, errors.New("DB_HOST not configured")
	}

	connStr := "host=" + dbHost + " port=" + getenv("DB_PORT", "5432") +
		" user=" + os.Getenv("DB_USER") + " password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + os.Getenv("DB_NAME") + " sslmode=" + getenv("DB_SSLMODE", "disable")

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// InitRedis connects to Redis from REDIS_* env vars with a bounded ping.
func InitRedis() (*redis.Client, error) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil, errors.New("REDIS_HOST not configured")
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + getenv("REDIS_PORT", "6379"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}
