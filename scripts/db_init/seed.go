package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/seekaclimb/internal/mapping"
	"github.com/garnizeh/seekaclimb/pkg/models"
	"github.com/garnizeh/seekaclimb/pkg/repository"
)

// seedPlaces inserts every place of a JSON array whose name is not stored
// yet and returns how many were added.
func seedPlaces(ctx context.Context, places repository.PlaceRepo, raw []byte) (int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, fmt.Errorf("places file must be a JSON array: %w", err)
	}

	added := 0
	for i, item := range items {
		p, err := mapping.DecodePlace(ctx, item)
		if err != nil {
			return added, fmt.Errorf("place %d: %w", i, err)
		}

		existing, err := places.SearchPlaces(ctx, p.Name, 50)
		if err != nil {
			return added, fmt.Errorf("lookup place %q: %w", p.Name, err)
		}
		if containsName(existing, p.Name) {
			continue
		}

		p.ID = 0
		if _, err := places.CreatePlace(ctx, p); err != nil {
			return added, fmt.Errorf("create place %q: %w", p.Name, err)
		}
		added++
	}

	return added, nil
}

func containsName(places []models.Place, name string) bool {
	for _, p := range places {
		if p.Name == name {
			return true
		}
	}
	return false
}
