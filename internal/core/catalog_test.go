package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCatalog_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	actor := uuid.New()
	repo := newWidgetRepo()
	cat := &Catalog[*widget]{Kind: "widget", Repo: repo, Clock: fixedClock(at)}

	id, err := cat.Create(ctx, &widget{Name: "Germany", Code: "DE"}, actor)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("Create() returned nil id")
	}

	got := repo.rows[id]
	if got.CreatedBy != actor || got.ModifiedBy != actor {
		t.Errorf("actor stamps = %s/%s, want %s", got.CreatedBy, got.ModifiedBy, actor)
	}
	if !got.CreatedOn.Equal(at) || !got.ModifiedOn.Equal(at) {
		t.Errorf("time stamps = %v/%v, want %v", got.CreatedOn, got.ModifiedOn, at)
	}
	if got.IsDeleted {
		t.Error("IsDeleted = true on create")
	}

	_, err = cat.Create(ctx, &widget{Name: "Deutschland", Code: "de"}, actor)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Create() duplicate error = %v, want ErrConflict", err)
	}

	if _, err := cat.Create(ctx, &widget{Name: "Nowhere"}, actor); err != nil {
		t.Errorf("Create() with blank key error = %v", err)
	}
	if _, err := cat.Create(ctx, &widget{Name: "Elsewhere"}, actor); err != nil {
		t.Errorf("Create() with second blank key error = %v", err)
	}
}

func TestCatalog_Update(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	de := widget{ID: uuid.New(), Name: "Germany", Code: "DE"}
	de.StampCreated(uuid.New(), created)
	fr := widget{ID: uuid.New(), Name: "France", Code: "FR"}
	fr.StampCreated(uuid.New(), created)
	repo := newWidgetRepo(de, fr)

	// A clock behind CreatedOn must not produce ModifiedOn < CreatedOn.
	cat := &Catalog[*widget]{Kind: "widget", Repo: repo, Clock: fixedClock(created.Add(-time.Hour))}
	editor := uuid.New()

	err := cat.Update(ctx, de.ID, editor, func(w *widget) { w.Name = "Deutschland" })
	if err != nil {
		t.Fatalf("Update() own key error = %v", err)
	}
	got := repo.rows[de.ID]
	if got.Name != "Deutschland" || got.ModifiedBy != editor {
		t.Errorf("updated = %+v", got)
	}
	if got.ModifiedOn.Before(got.CreatedOn) {
		t.Errorf("ModifiedOn %v before CreatedOn %v", got.ModifiedOn, got.CreatedOn)
	}

	err = cat.Update(ctx, de.ID, editor, func(w *widget) { w.Code = "fr" })
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Update() colliding key error = %v, want ErrConflict", err)
	}

	err = cat.Update(ctx, uuid.New(), editor, func(*widget) {})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() missing error = %v, want ErrNotFound", err)
	}
}

func TestCatalog_Delete(t *testing.T) {
	ctx := context.Background()
	de := widget{ID: uuid.New(), Name: "Germany", Code: "DE"}
	repo := newWidgetRepo(de)
	cat := &Catalog[*widget]{Kind: "widget", Repo: repo}

	if err := cat.Delete(ctx, de.ID, uuid.New()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := cat.Delete(ctx, de.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	if _, err := cat.Create(ctx, &widget{Name: "Germany", Code: "DE"}, uuid.New()); err != nil {
		t.Errorf("Create() reusing a deleted key error = %v", err)
	}
}
