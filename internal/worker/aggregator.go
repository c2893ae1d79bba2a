package worker

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"verified-reviews/internal/domain"
)

type StoreInterface interface {
	UpdateRestaurantRating(ctx context.Context, restaurantID string) error
}

// Aggregator consumes review events and recomputes restaurant rating
// aggregates. Runs as a background loop for the process lifetime.
type Aggregator struct {
	Reader *kafka.Reader
	Store  StoreInterface
}

func NewAggregator(reader *kafka.Reader, store StoreInterface) *Aggregator {
	return &Aggregator{Reader: reader, Store: store}
}

func (a *Aggregator) Start(ctx context.Context) {
	log.Println("Starting rating aggregation consumer...")
	for {
		message, err := a.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Rating aggregation consumer stopped.")
				return
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		var evt domain.ReviewEvent
		if err := json.Unmarshal(message.Value, &evt); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		a.ProcessEvent(ctx, evt)
	}
}

func (a *Aggregator) ProcessEvent(ctx context.Context, evt domain.ReviewEvent) {
	if evt.Type != "review_submitted" {
		return
	}
	log.Printf("Processing review event: RestaurantID=%s, Rating=%d", evt.RestaurantID, evt.Rating)

	if err := a.Store.UpdateRestaurantRating(ctx, evt.RestaurantID); err != nil {
		log.Printf("Error updating restaurant rating: %v", err)
		return
	}

	log.Printf("Successfully updated rating aggregates for restaurant %s", evt.RestaurantID)
}
