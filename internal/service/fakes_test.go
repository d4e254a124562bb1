package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"dokudoku/internal/domain"
	"dokudoku/internal/domain/models"
	"dokudoku/internal/domain/repositories"
)

// fakeStore is a shared in-memory backend for the repository fakes.
// The transaction manager fake serializes transactional sections with
// the store mutex, which is enough isolation for these tests.
type fakeStore struct {
	mu      sync.Mutex
	seq     int
	folders map[string]*models.Folder
	docs    map[string]*models.Document
	tags    map[string]*models.Tag
	shares  map[string]*models.Share            // document|user -> share
	docTags map[string]map[string]struct{}      // document -> tag set
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		folders: make(map[string]*models.Folder),
		docs:    make(map[string]*models.Document),
		tags:    make(map[string]*models.Tag),
		shares:  make(map[string]*models.Share),
		docTags: make(map[string]map[string]struct{}),
	}
}

func (s *fakeStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func shareKey(documentID, userID string) string {
	return documentID + "|" + userID
}

// fakeTxManager runs the function under the store mutex so concurrent
// "transactions" execute one at a time, like serializable isolation.
type fakeTxManager struct {
	store *fakeStore
}

func (tm *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()
	return fn(ctx)
}

func (tm *fakeTxManager) ExecSerializableTx(ctx context.Context, fn repositories.TxFn) error {
	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()
	return fn(ctx)
}

// ---- folders ----

type fakeFolderRepo struct {
	store *fakeStore
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = r.store.nextID("folder")
	}
	cp := *folder
	r.store.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, ownerID string) (*models.Folder, error) {
	folder, ok := r.store.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	cp := *folder
	return &cp, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	existing, ok := r.store.folders[folder.ID]
	if !ok || existing.OwnerID != folder.OwnerID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	cp := *folder
	r.store.folders[folder.ID] = &cp
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, ownerID string) error {
	folder, ok := r.store.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, folder := range r.store.folders {
		if folder.OwnerID == ownerID {
			out = append(out, *folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) ParentMap(_ context.Context, ownerID string) (map[string]*string, error) {
	parents := make(map[string]*string)
	for _, folder := range r.store.folders {
		if folder.OwnerID == ownerID {
			parents[folder.ID] = folder.ParentID
		}
	}
	return parents, nil
}

func (r *fakeFolderRepo) CountChildren(_ context.Context, id, ownerID string) (int64, error) {
	var n int64
	for _, folder := range r.store.folders {
		if folder.OwnerID == ownerID && folder.ParentID != nil && *folder.ParentID == id {
			n++
		}
	}
	return n, nil
}

// ---- documents ----

type fakeDocRepo struct {
	store *fakeStore
}

func (r *fakeDocRepo) Create(_ context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = r.store.nextID("doc")
	}
	cp := *doc
	r.store.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, id, ownerID string) (*models.Document, error) {
	doc, ok := r.store.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocRepo) GetByIDAny(_ context.Context, id string) (*models.Document, error) {
	doc, ok := r.store.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocRepo) Update(_ context.Context, doc *models.Document) error {
	existing, ok := r.store.docs[doc.ID]
	if !ok || existing.OwnerID != doc.OwnerID {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	cp := *doc
	r.store.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, id, ownerID string) error {
	doc, ok := r.store.docs[id]
	if !ok || doc.OwnerID != ownerID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.docs, id)
	delete(r.store.docTags, id)
	for key := range r.store.shares {
		if strings.HasPrefix(key, id+"|") {
			delete(r.store.shares, key)
		}
	}
	return nil
}

func (r *fakeDocRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range r.store.docs {
		if doc.OwnerID == ownerID {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDocRepo) ListByFolder(_ context.Context, folderID *string, ownerID string) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range r.store.docs {
		if doc.OwnerID != ownerID {
			continue
		}
		if folderID == nil {
			if doc.FolderID == nil {
				out = append(out, *doc)
			}
		} else if doc.FolderID != nil && *doc.FolderID == *folderID {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDocRepo) CountInFolder(_ context.Context, folderID, ownerID string) (int64, error) {
	var n int64
	for _, doc := range r.store.docs {
		if doc.OwnerID == ownerID && doc.FolderID != nil && *doc.FolderID == folderID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDocRepo) CountByFolder(_ context.Context, ownerID string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, doc := range r.store.docs {
		if doc.OwnerID == ownerID && doc.FolderID != nil {
			counts[*doc.FolderID]++
		}
	}
	return counts, nil
}

func (r *fakeDocRepo) CountOwned(_ context.Context, ownerID string, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if doc, ok := r.store.docs[id]; ok && doc.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeDocRepo) SetFolderBulk(_ context.Context, ownerID string, ids []string, folderID *string) (int64, error) {
	var n int64
	for _, id := range ids {
		if doc, ok := r.store.docs[id]; ok && doc.OwnerID == ownerID {
			doc.FolderID = folderID
			n++
		}
	}
	return n, nil
}

func (r *fakeDocRepo) DeleteBulk(ctx context.Context, ownerID string, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if doc, ok := r.store.docs[id]; ok && doc.OwnerID == ownerID {
			_ = r.Delete(ctx, id, ownerID)
			n++
		}
	}
	return n, nil
}

// ---- tags ----

type fakeTagRepo struct {
	store *fakeStore
}

func (r *fakeTagRepo) Create(_ context.Context, tag *models.Tag) error {
	for _, existing := range r.store.tags {
		if existing.OwnerID == tag.OwnerID && strings.EqualFold(existing.Name, tag.Name) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("a tag named %q already exists", existing.Name),
				ResourceType: "tag",
				ResourceID:   existing.ID,
			}
		}
	}
	if tag.ID == "" {
		tag.ID = r.store.nextID("tag")
	}
	cp := *tag
	r.store.tags[tag.ID] = &cp
	return nil
}

func (r *fakeTagRepo) GetByID(_ context.Context, id, ownerID string) (*models.Tag, error) {
	tag, ok := r.store.tags[id]
	if !ok || tag.OwnerID != ownerID {
		return nil, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	cp := *tag
	return &cp, nil
}

func (r *fakeTagRepo) GetByNameFold(_ context.Context, ownerID, name string) (*models.Tag, error) {
	for _, tag := range r.store.tags {
		if tag.OwnerID == ownerID && strings.EqualFold(tag.Name, name) {
			cp := *tag
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTagRepo) Update(_ context.Context, tag *models.Tag) error {
	existing, ok := r.store.tags[tag.ID]
	if !ok || existing.OwnerID != tag.OwnerID {
		return fmt.Errorf("tag %s: %w", tag.ID, domain.ErrNotFound)
	}
	cp := *tag
	r.store.tags[tag.ID] = &cp
	return nil
}

func (r *fakeTagRepo) Delete(_ context.Context, id, ownerID string) error {
	tag, ok := r.store.tags[id]
	if !ok || tag.OwnerID != ownerID {
		return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}
	delete(r.store.tags, id)
	return nil
}

func (r *fakeTagRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error) {
	var out []models.Tag
	for _, tag := range r.store.tags {
		if tag.OwnerID == ownerID {
			cp := *tag
			usage, _ := r.CountUsage(ctx, tag.ID)
			cp.DocumentCount = int(usage)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTagRepo) ListByDocument(_ context.Context, documentID string) ([]models.Tag, error) {
	var out []models.Tag
	for tagID := range r.store.docTags[documentID] {
		if tag, ok := r.store.tags[tagID]; ok {
			out = append(out, *tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTagRepo) CountUsage(_ context.Context, id string) (int64, error) {
	var n int64
	for _, tagSet := range r.store.docTags {
		if _, ok := tagSet[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r *fakeTagRepo) CountOwned(_ context.Context, ownerID string, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if tag, ok := r.store.tags[id]; ok && tag.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *fakeTagRepo) Attach(_ context.Context, documentID, tagID string) error {
	if r.store.docTags[documentID] == nil {
		r.store.docTags[documentID] = make(map[string]struct{})
	}
	r.store.docTags[documentID][tagID] = struct{}{}
	return nil
}

func (r *fakeTagRepo) Detach(_ context.Context, documentID, tagID string) error {
	delete(r.store.docTags[documentID], tagID)
	return nil
}

func (r *fakeTagRepo) AttachBulk(ctx context.Context, documentIDs, tagIDs []string) error {
	for _, docID := range documentIDs {
		for _, tagID := range tagIDs {
			_ = r.Attach(ctx, docID, tagID)
		}
	}
	return nil
}

// ---- shares ----

type fakeShareRepo struct {
	store *fakeStore
}

func (r *fakeShareRepo) Upsert(_ context.Context, share *models.Share) error {
	key := shareKey(share.DocumentID, share.UserID)
	if existing, ok := r.store.shares[key]; ok {
		existing.Permission = share.Permission
		share.ID = existing.ID
		share.CreatedAt = existing.CreatedAt
		return nil
	}
	if share.ID == "" {
		share.ID = r.store.nextID("share")
	}
	cp := *share
	r.store.shares[key] = &cp
	return nil
}

func (r *fakeShareRepo) Get(_ context.Context, documentID, userID string) (*models.Share, error) {
	share, ok := r.store.shares[shareKey(documentID, userID)]
	if !ok {
		return nil, fmt.Errorf("share: %w", domain.ErrNotFound)
	}
	cp := *share
	return &cp, nil
}

func (r *fakeShareRepo) Delete(_ context.Context, documentID, userID string) error {
	key := shareKey(documentID, userID)
	if _, ok := r.store.shares[key]; !ok {
		return fmt.Errorf("share: %w", domain.ErrNotFound)
	}
	delete(r.store.shares, key)
	return nil
}

func (r *fakeShareRepo) ListByDocument(_ context.Context, documentID string) ([]models.Share, error) {
	var out []models.Share
	for _, share := range r.store.shares {
		if share.DocumentID == documentID {
			out = append(out, *share)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
