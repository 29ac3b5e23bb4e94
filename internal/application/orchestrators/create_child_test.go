package orchestrators

import (
	"context"
	"errors"
	"testing"

	childStore "dojo/internal/adapters/storage/child"
	"dojo/internal/adapters/storage/storagetest"
	"dojo/internal/domain/child"
)

func TestExecuteCreateChild_Links(t *testing.T) {
	store := &mockChildren{profiles: map[string]child.Profile{}}
	c, err := ExecuteCreateChild(context.Background(), CreateChildInput{
		ParentID: "parent", FullName: " Mateo ", BirthDate: "2015-06-01",
	}, CreateChildDeps{Children: store, Now: testNow, GenerateID: sequentialIDs()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.FullName != "Mateo" {
		t.Errorf("name = %q", c.FullName)
	}
	if len(store.links) != 1 || store.links[0].ChildID != c.ID || store.links[0].Relation != child.RelationParent {
		t.Errorf("links = %+v", store.links)
	}
}

func TestExecuteCreateChild_CompensatesOnLinkFailure(t *testing.T) {
	store := &mockChildren{profiles: map[string]child.Profile{}, linkErr: errors.New("constraint")}
	_, err := ExecuteCreateChild(context.Background(), CreateChildInput{ParentID: "parent", FullName: "Mateo"},
		CreateChildDeps{Children: store, Now: testNow})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.profiles) != 0 {
		t.Errorf("orphan child profiles left: %+v", store.profiles)
	}
}

func TestExecuteCreateChild_CompensatesAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db := storagetest.OpenDB(t)
	store := childStore.NewSQLiteStore(db)

	_, err := ExecuteCreateChild(ctx, CreateChildInput{ParentID: "no-such-parent", FullName: "Mateo"},
		CreateChildDeps{Children: store, Now: testNow})
	if err == nil {
		t.Fatal("expected foreign key failure")
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM child_profile").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("child_profile rows = %d, want 0", n)
	}
}

func TestExecuteCreateChild_InvalidRelation(t *testing.T) {
	store := &mockChildren{profiles: map[string]child.Profile{}}
	_, err := ExecuteCreateChild(context.Background(), CreateChildInput{ParentID: "p", FullName: "Mateo", Relation: "tio"},
		CreateChildDeps{Children: store})
	if !IsValidation(err) || len(store.profiles) != 0 {
		t.Errorf("err = %v, profiles = %d", err, len(store.profiles))
	}
}
