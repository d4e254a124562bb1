package service

import (
	"context"
	"errors"
	"testing"

	"dokudoku/internal/domain"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/repositories"
	"dokudoku/internal/domain/services"
)

func newTagFixture() (*fakeStore, services.TagService) {
	store := newFakeStore()
	svc := NewTagService(&fakeTagRepo{store: store}, &fakeTxManager{store: store}, newTestLogger())
	return store, svc
}

func TestTagService_CreateTag(t *testing.T) {
	_, svc := newTagFixture()
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "Invoices"})
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	if tag.Color != models.DefaultTagColor {
		t.Errorf("Color = %s, want default %s", tag.Color, models.DefaultTagColor)
	}

	// Same name, different case
	_, err = svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "invoices"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("case-folded duplicate = %v, want conflict", err)
	}

	// Same name for another owner is fine
	if _, err := svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "bob", Name: "invoices"}); err != nil {
		t.Errorf("other owner's duplicate = %v, want nil", err)
	}

	// Custom color passes, junk does not
	custom, err := svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "urgent", Color: "#F59E0B"})
	if err != nil {
		t.Fatalf("CreateTag with color failed: %v", err)
	}
	if custom.Color != "#F59E0B" {
		t.Errorf("Color = %s, want #F59E0B", custom.Color)
	}
	_, err = svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "bad", Color: "red"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("bad color = %v, want validation error", err)
	}

	_, err = svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: ""})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank name = %v, want validation error", err)
	}
}

func TestTagService_UpdateTag(t *testing.T) {
	_, svc := newTagFixture()
	ctx := context.Background()

	a, _ := svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "work"})
	b, _ := svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "home"})

	// Renaming onto another tag's name collides case-insensitively
	_, err := svc.UpdateTag(ctx, "alice", b.ID, &services.UpdateTagRequest{Name: strPtr("WORK")})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("rename onto existing = %v, want conflict", err)
	}

	// Changing only the case of a tag's own name is allowed
	renamed, err := svc.UpdateTag(ctx, "alice", a.ID, &services.UpdateTagRequest{Name: strPtr("Work")})
	if err != nil {
		t.Fatalf("case-only rename failed: %v", err)
	}
	if renamed.Name != "Work" {
		t.Errorf("Name = %s, want Work", renamed.Name)
	}

	recolored, err := svc.UpdateTag(ctx, "alice", a.ID, &services.UpdateTagRequest{Color: strPtr("#112233")})
	if err != nil {
		t.Fatalf("recolor failed: %v", err)
	}
	if recolored.Color != "#112233" {
		t.Errorf("Color = %s, want #112233", recolored.Color)
	}

	_, err = svc.UpdateTag(ctx, "alice", a.ID, &services.UpdateTagRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty patch = %v, want validation error", err)
	}

	_, err = svc.UpdateTag(ctx, "bob", a.ID, &services.UpdateTagRequest{Color: strPtr("#112233")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign update = %v, want not found", err)
	}
}

func TestTagService_DeleteTag(t *testing.T) {
	store, svc := newTagFixture()
	ctx := context.Background()

	tag, _ := svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "keep"})

	// Attach it to a document
	store.docTags["doc-1"] = map[string]struct{}{tag.ID: {}}

	err := svc.DeleteTag(ctx, "alice", tag.ID)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("delete in-use tag = %v, want conflict", err)
	}

	// Detached, it deletes
	delete(store.docTags, "doc-1")
	if err := svc.DeleteTag(ctx, "alice", tag.ID); err != nil {
		t.Fatalf("delete unused tag failed: %v", err)
	}

	tags, _ := svc.ListTags(ctx, "alice")
	if len(tags) != 0 {
		t.Errorf("tags remaining = %d, want 0", len(tags))
	}
}

type spyTxManager struct {
	fakeTxManager
	serializable int
}

func (tm *spyTxManager) ExecSerializableTx(ctx context.Context, fn repositories.TxFn) error {
	tm.serializable++
	return tm.fakeTxManager.ExecSerializableTx(ctx, fn)
}

// The in-use check and the delete must share one isolated section, so a
// concurrent attach cannot land between them.
func TestTagService_DeleteTag_GuardSharesTransaction(t *testing.T) {
	store := newFakeStore()
	tx := &spyTxManager{fakeTxManager: fakeTxManager{store: store}}
	svc := NewTagService(&fakeTagRepo{store: store}, tx, newTestLogger())
	ctx := context.Background()

	tag, _ := svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "fleeting"})
	store.docTags["doc-1"] = map[string]struct{}{tag.ID: {}}

	if err := svc.DeleteTag(ctx, "alice", tag.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("delete in-use tag = %v, want conflict", err)
	}

	delete(store.docTags, "doc-1")
	if err := svc.DeleteTag(ctx, "alice", tag.ID); err != nil {
		t.Fatalf("delete unused tag failed: %v", err)
	}

	if tx.serializable != 2 {
		t.Errorf("isolated sections = %d, want 2", tx.serializable)
	}
}

func TestTagService_ListTags_UsageCounts(t *testing.T) {
	store, svc := newTagFixture()
	ctx := context.Background()

	tag, _ := svc.CreateTag(ctx, &services.CreateTagRequest{OwnerID: "alice", Name: "busy"})
	store.docTags["doc-1"] = map[string]struct{}{tag.ID: {}}
	store.docTags["doc-2"] = map[string]struct{}{tag.ID: {}}

	tags, err := svc.ListTags(ctx, "alice")
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0].DocumentCount != 2 {
		t.Fatalf("tags = %+v, want one tag with DocumentCount 2", tags)
	}
}
