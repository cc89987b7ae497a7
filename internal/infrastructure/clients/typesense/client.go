package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/medtriage/backend/pkg/config"
	"github.com/medtriage/backend/pkg/retry"
)

const (
	SymptomsCollection = "symptoms"
)

// Client wraps the Typesense client used for symptom name suggestions.
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry.
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	retryConfig := retry.DefaultConfig()
	err := retry.DoWithLog(
		context.Background(),
		retryConfig,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("Typesense connection attempt failed")
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client.
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the symptoms collection exists.
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == SymptomsCollection {
			log.Debug().Msg("Typesense collection 'symptoms' already exists")
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: SymptomsCollection,
		Fields: []api.Field{
			{
				Name: "id",
				Type: "string",
			},
			{
				Name: "symptom",
				Type: "string",
			},
			{
				Name:     "conditions",
				Type:     "string[]",
				Optional: pointer.True(),
			},
			{
				Name:  "red_flag",
				Type:  "bool",
				Facet: pointer.True(),
			},
		},
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Msg("created Typesense collection 'symptoms'")
	return nil
}

// IndexSymptom upserts a symptom document.
func (c *Client) IndexSymptom(ctx context.Context, document map[string]interface{}) error {
	_, err := c.client.Collection(SymptomsCollection).Documents().Upsert(ctx, document)
	return err
}
