package main

import (
	"testing"
	"time"

	"github.com/JakWdo/envfilter/internal/filter"
	"github.com/JakWdo/envfilter/internal/store"
	"github.com/JakWdo/envfilter/internal/tag"
)

func persona(id string, tags ...string) store.Resource {
	return store.Resource{
		ID:            id,
		EnvironmentID: "env-1",
		Type:          store.ResourcePersona,
		Tags:          tag.ParseSet(tags...),
		CreatedAt:     time.Now(),
	}
}

func TestBuildResultList(t *testing.T) {
	resources := []store.Resource{
		persona("p-001", "dem:age-25-34", "geo:warsaw"),
		persona("p-002", "geo:krakow"),
		persona("p-003", "geo:warsaw"),
	}
	expr, err := filter.Parse("geo:warsaw")
	if err != nil {
		t.Fatal(err)
	}

	list := buildResultList(resources, expr, 0)
	if list.Count != 2 {
		t.Errorf("Count = %d, want 2", list.Count)
	}
	if len(list.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(list.Entries))
	}
	if list.Entries[0].ID != "p-001" {
		t.Errorf("first entry = %s", list.Entries[0].ID)
	}
	// Tags render in serialized sorted form
	if len(list.Entries[0].Tags) != 2 || list.Entries[0].Tags[0] != "dem:age-25-34" {
		t.Errorf("tags = %v", list.Entries[0].Tags)
	}
}

func TestBuildResultListLimit(t *testing.T) {
	resources := []store.Resource{
		persona("p-001", "geo:warsaw"),
		persona("p-002", "geo:warsaw"),
		persona("p-003", "geo:warsaw"),
	}
	expr, err := filter.Parse("geo:warsaw")
	if err != nil {
		t.Fatal(err)
	}

	list := buildResultList(resources, expr, 2)
	if list.Count != 3 {
		t.Errorf("Count = %d, want total 3 despite limit", list.Count)
	}
	if len(list.Entries) != 2 {
		t.Errorf("Entries = %d, want 2", len(list.Entries))
	}
}
