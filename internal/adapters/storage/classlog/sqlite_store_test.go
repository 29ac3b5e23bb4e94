package classlog

import (
	"context"
	"errors"
	"testing"

	"dojo/internal/adapters/storage"
	"dojo/internal/adapters/storage/storagetest"
	domain "dojo/internal/domain/classlog"
)

func TestSQLiteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	db := storagetest.OpenDB(t)
	storagetest.SeedProfile(t, db, "u1", "a@dojo.mx")
	storagetest.SeedProfile(t, db, "u2", "b@dojo.mx")
	store := NewSQLiteStore(db)

	logs := []domain.Log{
		{ID: "l1", UserID: "u1", ClassName: "BJJ", Instructor: "Josue", Date: "2024-03-01", DurationMinutes: 60},
		{ID: "l2", UserID: "u2", ClassName: "Muay Thai", Instructor: "Andrea", Date: "2024-03-04", DurationMinutes: 90},
		{ID: "l3", UserID: "u1", ClassName: "BJJ", Instructor: "Josue", Date: "2024-03-08", DurationMinutes: 60},
	}
	for _, l := range logs {
		if err := store.Save(ctx, l); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	mine, _ := store.List(ctx, ListFilter{UserID: "u1"})
	if len(mine) != 2 || mine[0].ID != "l3" {
		t.Errorf("List(u1) = %+v", mine)
	}
	limited, _ := store.List(ctx, ListFilter{Limit: 1})
	if len(limited) != 1 {
		t.Errorf("limited = %d", len(limited))
	}
	if n, _ := store.CountFrom(ctx, "2024-03-04"); n != 2 {
		t.Errorf("CountFrom = %d, want 2", n)
	}

	l := logs[0]
	l.Notes = "Trabajo de guardia"
	store.Save(ctx, l)
	got, _ := store.GetByID(ctx, "l1")
	if got.Notes != "Trabajo de guardia" {
		t.Errorf("Notes = %q", got.Notes)
	}

	if err := store.Delete(ctx, "l1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, "l1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}
