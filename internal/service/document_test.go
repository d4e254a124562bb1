package service

import (
	"context"
	"errors"
	"testing"

	"dokudoku/internal/domain"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/services"
)

type docFixture struct {
	store *fakeStore
	tags  *fakeTagRepo
	svc   services.DocumentService
}

func newDocFixture() *docFixture {
	store := newFakeStore()
	folders := &fakeFolderRepo{store: store}
	docs := &fakeDocRepo{store: store}
	tags := &fakeTagRepo{store: store}
	shares := &fakeShareRepo{store: store}
	filter := NewAccessFilter(folders, docs, shares)
	svc := NewDocumentService(docs, folders, tags, filter, &fakeTxManager{store: store}, newTestLogger())
	return &docFixture{store: store, tags: tags, svc: svc}
}

func (f *docFixture) addDoc(t *testing.T, ownerID, name string, folderID *string) *models.Document {
	t.Helper()
	doc, err := f.svc.CreateDocument(context.Background(), &services.CreateDocumentRequest{
		OwnerID:   ownerID,
		Name:      name,
		FileName:  name + ".pdf",
		FileKey:   "uploads/" + name,
		MimeType:  "application/pdf",
		SizeBytes: 1024,
		FolderID:  folderID,
	})
	if err != nil {
		t.Fatalf("CreateDocument(%s) failed: %v", name, err)
	}
	return doc
}

func TestDocumentService_CreateDocument(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	folder := &models.Folder{OwnerID: "alice", Name: "Inbox"}
	_ = (&fakeFolderRepo{store: f.store}).Create(ctx, folder)

	doc := f.addDoc(t, "alice", "report", &folder.ID)
	if doc.FolderID == nil || *doc.FolderID != folder.ID {
		t.Errorf("FolderID = %v, want %s", doc.FolderID, folder.ID)
	}

	// Unknown folder
	_, err := f.svc.CreateDocument(ctx, &services.CreateDocumentRequest{
		OwnerID:  "alice",
		Name:     "lost",
		FileName: "l.pdf",
		FileKey:  "k",
		FolderID: strPtr("ghost"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("create in missing folder = %v, want not found", err)
	}

	// Required metadata
	_, err = f.svc.CreateDocument(ctx, &services.CreateDocumentRequest{OwnerID: "alice", Name: "x"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("create without file metadata = %v, want validation error", err)
	}
}

func TestDocumentService_GetDocument(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	doc := f.addDoc(t, "alice", "report", nil)

	tag := &models.Tag{OwnerID: "alice", Name: "q3", Color: models.DefaultTagColor}
	_ = f.tags.Create(ctx, tag)
	_ = f.tags.Attach(ctx, doc.ID, tag.ID)

	got, err := f.svc.GetDocument(ctx, "alice", doc.ID)
	if err != nil {
		t.Fatalf("owner GetDocument failed: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != tag.ID {
		t.Errorf("Tags = %+v, want the attached tag", got.Tags)
	}

	// A sharee with VIEW can read it
	f.store.shares[shareKey(doc.ID, "bob")] = &models.Share{
		ID: "s1", DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionView,
	}
	if _, err := f.svc.GetDocument(ctx, "bob", doc.ID); err != nil {
		t.Errorf("sharee GetDocument = %v, want nil", err)
	}

	// Existing but inaccessible vs absent
	if _, err := f.svc.GetDocument(ctx, "carol", doc.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("stranger GetDocument = %v, want forbidden", err)
	}
	if _, err := f.svc.GetDocument(ctx, "alice", "no-such"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing GetDocument = %v, want not found", err)
	}
}

func TestDocumentService_RenameDocument(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	doc := f.addDoc(t, "alice", "draft", nil)

	f.store.shares[shareKey(doc.ID, "editor")] = &models.Share{
		ID: "s1", DocumentID: doc.ID, UserID: "editor", Permission: models.PermissionEdit,
	}
	f.store.shares[shareKey(doc.ID, "viewer")] = &models.Share{
		ID: "s2", DocumentID: doc.ID, UserID: "viewer", Permission: models.PermissionView,
	}

	// An EDIT sharee may rename
	renamed, err := f.svc.RenameDocument(ctx, "editor", doc.ID, "final")
	if err != nil {
		t.Fatalf("editor rename failed: %v", err)
	}
	if renamed.Name != "final" {
		t.Errorf("Name = %s, want final", renamed.Name)
	}

	// A VIEW sharee may not
	_, err = f.svc.RenameDocument(ctx, "viewer", doc.ID, "sneaky")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("viewer rename = %v, want forbidden", err)
	}
}

func TestDocumentService_MoveDocument(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	folder := &models.Folder{OwnerID: "alice", Name: "Archive"}
	_ = (&fakeFolderRepo{store: f.store}).Create(ctx, folder)

	doc := f.addDoc(t, "alice", "report", nil)

	moved, err := f.svc.MoveDocument(ctx, "alice", doc.ID, &folder.ID)
	if err != nil {
		t.Fatalf("MoveDocument failed: %v", err)
	}
	if moved.FolderID == nil || *moved.FolderID != folder.ID {
		t.Errorf("FolderID = %v, want %s", moved.FolderID, folder.ID)
	}

	// Unfiling
	unfiled, err := f.svc.MoveDocument(ctx, "alice", doc.ID, nil)
	if err != nil {
		t.Fatalf("unfile failed: %v", err)
	}
	if unfiled.FolderID != nil {
		t.Errorf("FolderID = %v, want nil", unfiled.FolderID)
	}

	// Even an EDIT sharee cannot file someone else's document
	f.store.shares[shareKey(doc.ID, "editor")] = &models.Share{
		ID: "s1", DocumentID: doc.ID, UserID: "editor", Permission: models.PermissionEdit,
	}
	_, err = f.svc.MoveDocument(ctx, "editor", doc.ID, &folder.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("sharee move = %v, want not found", err)
	}
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	doc := f.addDoc(t, "alice", "report", nil)

	tag := &models.Tag{OwnerID: "alice", Name: "q3", Color: models.DefaultTagColor}
	_ = f.tags.Create(ctx, tag)
	_ = f.tags.Attach(ctx, doc.ID, tag.ID)
	f.store.shares[shareKey(doc.ID, "bob")] = &models.Share{
		ID: "s1", DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionEdit,
	}

	// An EDIT sharee cannot delete
	if err := f.svc.DeleteDocument(ctx, "bob", doc.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("sharee delete = %v, want forbidden", err)
	}

	if err := f.svc.DeleteDocument(ctx, "alice", doc.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	// Associations went with it
	if len(f.store.docTags[doc.ID]) != 0 {
		t.Error("tag associations survived the delete")
	}
	if _, ok := f.store.shares[shareKey(doc.ID, "bob")]; ok {
		t.Error("share survived the delete")
	}
}

func TestDocumentService_AttachDetachTag(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	doc := f.addDoc(t, "alice", "report", nil)

	mine := &models.Tag{OwnerID: "alice", Name: "mine", Color: models.DefaultTagColor}
	theirs := &models.Tag{OwnerID: "bob", Name: "theirs", Color: models.DefaultTagColor}
	_ = f.tags.Create(ctx, mine)
	_ = f.tags.Create(ctx, theirs)

	if err := f.svc.AttachTag(ctx, "alice", doc.ID, mine.ID); err != nil {
		t.Fatalf("AttachTag failed: %v", err)
	}

	// Attaching twice is a no-op success
	if err := f.svc.AttachTag(ctx, "alice", doc.ID, mine.ID); err != nil {
		t.Fatalf("repeat AttachTag failed: %v", err)
	}

	// Another owner's tag reads as not found
	if err := f.svc.AttachTag(ctx, "alice", doc.ID, theirs.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign tag attach = %v, want not found", err)
	}

	// Only the owner attaches
	if err := f.svc.AttachTag(ctx, "bob", doc.ID, theirs.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner attach = %v, want forbidden", err)
	}

	if err := f.svc.DetachTag(ctx, "alice", doc.ID, mine.ID); err != nil {
		t.Fatalf("DetachTag failed: %v", err)
	}
	if len(f.store.docTags[doc.ID]) != 0 {
		t.Error("tag still attached after detach")
	}
}

func TestDocumentService_ListDocuments(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	folder := &models.Folder{OwnerID: "alice", Name: "Inbox"}
	_ = (&fakeFolderRepo{store: f.store}).Create(ctx, folder)

	f.addDoc(t, "alice", "filed", &folder.ID)
	f.addDoc(t, "alice", "loose", nil)
	f.addDoc(t, "bob", "other", nil)

	all, err := f.svc.ListDocuments(ctx, "alice", nil, false)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListDocuments all = (%d, %v), want (2, nil)", len(all), err)
	}

	filed, err := f.svc.ListDocuments(ctx, "alice", &folder.ID, true)
	if err != nil || len(filed) != 1 || filed[0].Name != "filed" {
		t.Fatalf("ListDocuments filed = (%+v, %v), want the filed doc", filed, err)
	}

	unfiled, err := f.svc.ListDocuments(ctx, "alice", nil, true)
	if err != nil || len(unfiled) != 1 || unfiled[0].Name != "loose" {
		t.Fatalf("ListDocuments unfiled = (%+v, %v), want the loose doc", unfiled, err)
	}

	_, err = f.svc.ListDocuments(ctx, "alice", strPtr("ghost"), true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("list in missing folder = %v, want not found", err)
	}
}
