package core

import "testing"

func TestCatalogPlatform(t *testing.T) {
	p, ok := CatalogPlatform("netflix")
	if !ok {
		t.Fatal("netflix missing from the catalog")
	}
	if p.Name != "Netflix" || p.Category != "Entertainment" || p.Custom {
		t.Errorf("unexpected catalog entry: %+v", p)
	}

	if _, ok := CatalogPlatform("nope"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestCatalogEntriesValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range PlatformCatalog {
		if err := p.Validate(); err != nil {
			t.Errorf("catalog entry %s invalid: %v", p.ID, err)
		}
		if p.Custom {
			t.Errorf("catalog entry %s marked custom", p.ID)
		}
		if seen[p.ID] {
			t.Errorf("duplicate catalog id %s", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestNewCustomPlatform(t *testing.T) {
	p := NewCustomPlatform("custom-1", "Local Gym", "Health")
	if !p.Custom {
		t.Error("custom platform not marked custom")
	}
	if p.Logo == "" || p.Color == "" {
		t.Error("custom platform missing generated logo or color")
	}
	if p.Category != "Health" {
		t.Errorf("category = %q, want Health", p.Category)
	}

	blank := NewCustomPlatform("custom-2", "Thing", "  ")
	if blank.Category != "Other" {
		t.Errorf("blank category defaulted to %q, want Other", blank.Category)
	}
}

func TestCategoryColor(t *testing.T) {
	if CategoryColor("Entertainment") != colorEntertainment {
		t.Error("entertainment color mismatch")
	}
	if CategoryColor("ENTERTAINMENT") != colorEntertainment {
		t.Error("category lookup should be case-insensitive")
	}
	if CategoryColor("Underwater Basket Weaving") != colorDefault {
		t.Error("unknown category should get the default color")
	}
}
