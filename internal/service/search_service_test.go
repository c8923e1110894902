package service

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
)

func TestDecodeHitIDs(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	hits := meilisearch.Hits{
		{
			"id":    json.RawMessage(`"` + first.String() + `"`),
			"title": json.RawMessage(`"Go Basics"`),
		},
		{
			"id": json.RawMessage(`"not-a-uuid"`),
		},
		{
			"id": json.RawMessage(`42`),
		},
		{
			"id": json.RawMessage(`"` + second.String() + `"`),
		},
	}

	ids := decodeHitIDs(hits)
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if ids[0] != first || ids[1] != second {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestDecodeHitIDsEmpty(t *testing.T) {
	if ids := decodeHitIDs(nil); len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}
