package parking

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"handicapped":   Handicapped,
		"Handicapped":   Handicapped,
		"smallMidsize":  SmallMidsize,
		"small_midsize": SmallMidsize,
		"small-midsize": SmallMidsize,
		" large ":       Large,
	}

	for name, want := range tests {
		got, err := ParseCategory(name)
		if err != nil {
			t.Errorf("ParseCategory(%q) returned error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCategory(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestParseCategoryUnknown(t *testing.T) {
	_, err := ParseCategory("motorcycle")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}

func TestCategoryZeroValueInvalid(t *testing.T) {
	var c Category
	if c.Valid() {
		t.Error("Expected zero Category to be invalid")
	}
	if _, err := json.Marshal(c); err == nil {
		t.Error("Expected marshaling an invalid category to fail")
	}
}

func TestCategoryJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Category{"c": SmallMidsize})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != `{"c":"smallMidsize"}` {
		t.Errorf("Unexpected JSON %s", data)
	}

	var decoded struct {
		C Category `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"c":"large"}`), &decoded); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if decoded.C != Large {
		t.Errorf("Expected large, got %s", decoded.C)
	}
}

func TestCategoriesScanOrder(t *testing.T) {
	got := Categories()
	want := []Category{Handicapped, SmallMidsize, Large}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
