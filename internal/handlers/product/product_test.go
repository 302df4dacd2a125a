package product

import (
	"testing"
	"time"

	"github.com/gocql/gocql"

	"foodstore_back_end/internal/models"
)

func strPtr(s string) *string   { return &s }
func intPtr(n int) *int         { return &n }
func f64Ptr(f float64) *float64 { return &f }

func existingProduct() models.Product {
	created := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	return models.Product{
		ID:          gocql.TimeUUID(),
		Name:        "Pad Thai",
		Description: "Nouilles sautées",
		Price:       12.5,
		Stock:       40,
		Category:    "plats",
		Rating:      4.6,
		ImageURL:    "https://cdn.example.com/pad-thai.jpg",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestMergeProductUpdate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("omitted fields keep their value", func(t *testing.T) {
		existing := existingProduct()
		updated := mergeProductUpdate(existing, productUpdateInput{Price: f64Ptr(13.9)}, now)

		if updated.Price != 13.9 {
			t.Errorf("Price = %v, want 13.9", updated.Price)
		}
		if updated.Name != existing.Name || updated.Description != existing.Description ||
			updated.Stock != existing.Stock || updated.Category != existing.Category ||
			updated.Rating != existing.Rating || updated.ImageURL != existing.ImageURL {
			t.Errorf("omitted fields changed: %+v", updated)
		}
		if updated.ID != existing.ID || !updated.CreatedAt.Equal(existing.CreatedAt) {
			t.Error("identity fields changed")
		}
		if !updated.UpdatedAt.Equal(now) {
			t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, now)
		}
	})

	t.Run("empty body only bumps updated_at", func(t *testing.T) {
		existing := existingProduct()
		updated := mergeProductUpdate(existing, productUpdateInput{}, now)

		existing.UpdatedAt = now
		if updated != existing {
			t.Errorf("mergeProductUpdate() = %+v, want %+v", updated, existing)
		}
	})

	t.Run("explicit zero is applied", func(t *testing.T) {
		updated := mergeProductUpdate(existingProduct(), productUpdateInput{
			Stock:       intPtr(0),
			Description: strPtr(""),
		}, now)

		if updated.Stock != 0 {
			t.Errorf("Stock = %d, want 0", updated.Stock)
		}
		if updated.Description != "" {
			t.Errorf("Description = %q, want empty", updated.Description)
		}
	})

	t.Run("empty name is ignored", func(t *testing.T) {
		updated := mergeProductUpdate(existingProduct(), productUpdateInput{Name: strPtr("")}, now)
		if updated.Name != "Pad Thai" {
			t.Errorf("Name = %q, want unchanged", updated.Name)
		}
	})

	t.Run("all fields provided", func(t *testing.T) {
		updated := mergeProductUpdate(existingProduct(), productUpdateInput{
			Name:        strPtr("Pad See Ew"),
			Description: strPtr("Nouilles plates"),
			Price:       f64Ptr(11.0),
			Stock:       intPtr(25),
			Category:    strPtr("nouilles"),
			Rating:      f64Ptr(4.2),
			ImageURL:    strPtr("https://cdn.example.com/pad-see-ew.jpg"),
		}, now)

		if updated.Name != "Pad See Ew" || updated.Price != 11.0 || updated.Stock != 25 ||
			updated.Category != "nouilles" || updated.Rating != 4.2 {
			t.Errorf("fields not applied: %+v", updated)
		}
	})
}
