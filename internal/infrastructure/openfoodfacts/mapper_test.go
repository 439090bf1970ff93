package openfoodfacts

import (
	"testing"

	"github.com/ecocart/backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestMapToBarcodeProduct(t *testing.T) {
	tests := []struct {
		name  string
		input *product
		want  *domain.BarcodeProduct
	}{
		{
			name:  "nil product",
			input: nil,
			want:  nil,
		},
		{
			name: "all fields",
			input: &product{
				ProductName:     strPtr("Oat Milk"),
				IngredientsText: strPtr("Water, oats"),
				Packaging:       strPtr("Carton"),
				Brands:          strPtr("Oatly"),
				Categories:      strPtr("Plant milks"),
				ImageURL:        strPtr("https://img/oat.jpg"),
			},
			want: &domain.BarcodeProduct{
				Name:        strPtr("Oat Milk"),
				Ingredients: strPtr("Water, oats"),
				Packaging:   strPtr("Carton"),
				Brands:      strPtr("Oatly"),
				Categories:  strPtr("Plant milks"),
				ImageURL:    strPtr("https://img/oat.jpg"),
			},
		},
		{
			name:  "empty string is kept, missing stays nil",
			input: &product{ProductName: strPtr("")},
			want:  &domain.BarcodeProduct{Name: strPtr("")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapToBarcodeProduct(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("MapToBarcodeProduct() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("MapToBarcodeProduct() = nil, want non-nil")
			}
			assertStrPtr(t, "Name", got.Name, tt.want.Name)
			assertStrPtr(t, "Ingredients", got.Ingredients, tt.want.Ingredients)
			assertStrPtr(t, "Packaging", got.Packaging, tt.want.Packaging)
			assertStrPtr(t, "Brands", got.Brands, tt.want.Brands)
			assertStrPtr(t, "Categories", got.Categories, tt.want.Categories)
			assertStrPtr(t, "ImageURL", got.ImageURL, tt.want.ImageURL)
		})
	}
}

func assertStrPtr(t *testing.T, field string, got, want *string) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Errorf("%s = %v, want %v", field, got, want)
		return
	}
	if got != nil && *got != *want {
		t.Errorf("%s = %q, want %q", field, *got, *want)
	}
}
