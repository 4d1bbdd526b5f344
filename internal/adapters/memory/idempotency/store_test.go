package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/innocentmk82/efecosall-sub001/internal/domain"
	"github.com/innocentmk82/efecosall-sub001/internal/ports/out/idempotency"
)

func TestStore_PutThenGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	fp := idempotency.Fingerprint{
		Key:      "k1",
		Subject:  domain.SubjectID("sub-1"),
		Method:   "POST",
		Route:    "/trips",
		BodyHash: "abc123",
	}
	rec := idempotency.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"ok":true}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}

	if err := s.Put(context.Background(), fp, rec); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	got, ok, err := s.Get(context.Background(), fp)
	if err != nil {
		t.Fatalf("Get() err=%v", err)
	}
	if !ok {
		t.Fatalf("Get() ok=false, want true")
	}
	if got.StatusCode != rec.StatusCode || got.ContentType != rec.ContentType || string(got.Body) != string(rec.Body) {
		t.Fatalf("Get()=%+v, want %+v", got, rec)
	}
}

func TestStore_TTLExpiresRecords(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)
	s := NewStore(WithTTL(time.Minute, func() time.Time { return now }))
	fp := idempotency.Fingerprint{Key: "k1", Subject: "sub-1", Method: "PATCH", Route: "/profiles/me"}

	if err := s.Put(context.Background(), fp, idempotency.Record{Body: []byte("h")}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	now = now.Add(59 * time.Second)
	if _, ok, _ := s.Get(context.Background(), fp); !ok {
		t.Fatalf("Get() before ttl ok=false, want true")
	}
	now = now.Add(time.Second)
	if _, ok, _ := s.Get(context.Background(), fp); ok {
		t.Fatalf("Get() after ttl ok=true, want false")
	}
}
