package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	tsclient "github.com/medtriage/backend/internal/infrastructure/clients/typesense"
	"github.com/medtriage/backend/internal/knowledge"
)

// SymptomSuggestion is one fuzzy-match hit against the symptom index.
type SymptomSuggestion struct {
	Symptom    string   `json:"symptom"`
	Conditions []string `json:"conditions"`
	RedFlag    bool     `json:"red_flag"`
}

// SymptomIndexAdapter maintains a Typesense index over the knowledge
// base's symptom vocabulary and serves typo-tolerant suggestions for
// free-text symptom input.
type SymptomIndexAdapter struct {
	client *tsclient.Client
}

// NewSymptomIndexAdapter creates a new symptom index adapter.
func NewSymptomIndexAdapter(client *tsclient.Client) *SymptomIndexAdapter {
	return &SymptomIndexAdapter{client: client}
}

// InitSchema ensures the symptoms collection exists.
func (a *SymptomIndexAdapter) InitSchema(ctx context.Context) error {
	return a.client.InitSchema(ctx)
}

// IndexKnowledge upserts every symptom the knowledge base knows about.
// The vocabulary is small, so a full reindex on startup is fine.
func (a *SymptomIndexAdapter) IndexKnowledge(ctx context.Context, base *knowledge.Base) error {
	for _, entry := range base.SymptomEntries() {
		document := map[string]interface{}{
			"id":         entry.Symptom,
			"symptom":    entry.Symptom,
			"conditions": entry.Conditions,
			"red_flag":   entry.RedFlag,
		}
		if err := a.client.IndexSymptom(ctx, document); err != nil {
			return fmt.Errorf("failed to index symptom %q: %w", entry.Symptom, err)
		}
	}
	return nil
}

// Suggest searches the symptom index for query.
func (a *SymptomIndexAdapter) Suggest(ctx context.Context, query string, limit int) ([]SymptomSuggestion, error) {
	if limit <= 0 {
		limit = 5
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("symptom"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.SymptomsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search symptoms: %w", err)
	}

	suggestions := []SymptomSuggestion{}
	if result.Hits == nil {
		return suggestions, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document

		suggestion := SymptomSuggestion{}
		if symptom, ok := doc["symptom"].(string); ok {
			suggestion.Symptom = symptom
		}
		if redFlag, ok := doc["red_flag"].(bool); ok {
			suggestion.RedFlag = redFlag
		}
		if conditions, ok := doc["conditions"].([]interface{}); ok {
			for _, c := range conditions {
				if s, ok := c.(string); ok {
					suggestion.Conditions = append(suggestion.Conditions, s)
				}
			}
		}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}
