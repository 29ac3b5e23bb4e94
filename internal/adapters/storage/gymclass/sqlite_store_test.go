package gymclass

import (
	"context"
	"errors"
	"testing"
	"time"

	"dojo/internal/adapters/storage"
	"dojo/internal/adapters/storage/storagetest"
	domain "dojo/internal/domain/gymclass"
)

func TestSQLiteStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(storagetest.OpenDB(t))

	older := domain.Class{ID: "c1", Name: "BJJ Fundamentos", Coach: "Josue", Schedule: "Lun/Mie 19:00", Capacity: 20, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := domain.Class{ID: "c2", Name: "Muay Thai", Coach: "Andrea", Capacity: 15, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	for _, c := range []domain.Class{older, newer} {
		if err := store.Save(ctx, c); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	older.Enrolled = 12
	store.Save(ctx, older)
	got, err := store.GetByID(ctx, "c1")
	if err != nil || got.Enrolled != 12 || got.Schedule != "Lun/Mie 19:00" {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}

	list, _ := store.List(ctx)
	if len(list) != 2 || list[0].ID != "c2" {
		t.Errorf("List = %+v", list)
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Errorf("Count = %d", n)
	}

	if err := store.Delete(ctx, "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.GetByID(ctx, "c1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetByID after delete err = %v", err)
	}
	if err := store.Delete(ctx, "c1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Delete missing err = %v", err)
	}
}
