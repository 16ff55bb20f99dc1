package knowledge

import "testing"

func TestCatalog_Complete(t *testing.T) {
	entries := Catalog()

	if len(entries) != 11 {
		t.Fatalf("expected 11 entries, got %d", len(entries))
	}

	ids := make(map[string]bool)
	for _, e := range entries {
		if e.ID == "" {
			t.Errorf("entry %q has empty id", e.Content[:20])
		}
		if ids[e.ID] {
			t.Errorf("duplicate id %q", e.ID)
		}
		ids[e.ID] = true

		if e.Content == "" || e.Category == "" || e.Language == "" || e.Source == "" {
			t.Errorf("entry %q has missing fields", e.ID)
		}
		if len(e.Tags) == 0 {
			t.Errorf("entry %q has no tags", e.ID)
		}
	}
}

func TestCatalog_Languages(t *testing.T) {
	var en, hi int
	for _, e := range Catalog() {
		switch e.Language {
		case "en":
			en++
		case "hi":
			hi++
		default:
			t.Errorf("unexpected language %q on entry %q", e.Language, e.ID)
		}
	}
	if en != 9 || hi != 2 {
		t.Errorf("expected 9 en and 2 hi entries, got %d en and %d hi", en, hi)
	}
}

func TestCatalog_CrisisEntryPresent(t *testing.T) {
	for _, e := range Catalog() {
		if e.Category == "crisis_intervention" {
			return
		}
	}
	t.Error("expected a crisis_intervention entry in the catalog")
}
