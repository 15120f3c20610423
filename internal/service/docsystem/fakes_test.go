package docsystem

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"filedesk/internal/domain"
	models "filedesk/internal/domain/models/docsystem"
	"filedesk/internal/domain/repositories"
)

// memStore is an in-memory stand-in for the three tables. It enforces the
// same constraints as the schema: unique names per owner and a folder
// reference that blocks folder deletion.
type memStore struct {
	mu        sync.Mutex
	users     map[int64]models.User
	documents map[int64]models.Document
	folders   map[int64]models.Folder
	nextID    int64

	calls      []string       // repository calls, in order
	listLimits map[string]int // last ListRecent limit per table
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int64]models.User{},
		documents:  map[int64]models.Document{},
		folders:    map[int64]models.Folder{},
		listLimits: map[string]int{},
	}
}

func (m *memStore) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) snapshot() *memStore {
	s := newMemStore()
	for k, v := range m.users {
		s.users[k] = v
	}
	for k, v := range m.documents {
		s.documents[k] = v
	}
	for k, v := range m.folders {
		s.folders[k] = v
	}
	s.nextID = m.nextID
	return s
}

func (m *memStore) restore(s *memStore) {
	m.users, m.documents, m.folders, m.nextID = s.users, s.documents, s.folders, s.nextID
}

func matches(filter models.ListFilter, userID int64, name string) bool {
	if userID != filter.UserID {
		return false
	}
	if !filter.HasSearch() {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter.Search))
}

func newestFirst(aAt, bAt time.Time, aID, bID int64) bool {
	if !aAt.Equal(bAt) {
		return aAt.After(bAt)
	}
	return aID > bID
}

// memTxManager snapshots the store and restores it when fn fails
type memTxManager struct {
	store     *memStore
	began     int
	rollbacks int
}

func (tm *memTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.store.mu.Lock()
	saved := tm.store.snapshot()
	tm.began++
	tm.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		tm.store.mu.Lock()
		tm.store.restore(saved)
		tm.rollbacks++
		tm.store.mu.Unlock()
		return err
	}
	return nil
}

type memUsers struct{ store *memStore }

func (r *memUsers) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return domain.NewConflict("user", user.Email, u.ID)
		}
	}
	user.ID = r.store.id()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	return &u, nil
}

func (r *memUsers) Count(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.store.users), nil
}

type memDocuments struct{ store *memStore }

func (r *memDocuments) Create(ctx context.Context, doc *models.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("documents.Create")
	if _, ok := r.store.users[doc.UserID]; !ok {
		return domain.NewValidation("document references a user or folder that does not exist")
	}
	for _, d := range r.store.documents {
		if d.UserID == doc.UserID && d.Name == doc.Name {
			return domain.NewConflict("document", doc.Name, d.ID)
		}
	}
	doc.ID = r.store.id()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	doc.UpdatedAt = doc.CreatedAt
	r.store.documents[doc.ID] = *doc
	return nil
}

func (r *memDocuments) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.documents[id]
	if !ok {
		return nil, domain.NewNotFound("document", id)
	}
	return &d, nil
}

func (r *memDocuments) GetByName(ctx context.Context, userID int64, name string) (*models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, d := range r.store.documents {
		if d.UserID == userID && d.Name == name {
			return &d, nil
		}
	}
	return nil, fmt.Errorf("document %q: %w", name, domain.ErrNotFound)
}

func (r *memDocuments) Update(ctx context.Context, doc *models.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.documents[doc.ID]; !ok {
		return domain.NewNotFound("document", doc.ID)
	}
	for _, d := range r.store.documents {
		if d.ID != doc.ID && d.UserID == doc.UserID && d.Name == doc.Name {
			return domain.NewConflict("document", doc.Name, d.ID)
		}
	}
	doc.UpdatedAt = time.Now()
	r.store.documents[doc.ID] = *doc
	return nil
}

func (r *memDocuments) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.documents[id]; !ok {
		return domain.NewNotFound("document", id)
	}
	delete(r.store.documents, id)
	return nil
}

func (r *memDocuments) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("documents.DeleteMany")
	var n int64
	for _, id := range ids {
		if _, ok := r.store.documents[id]; ok {
			delete(r.store.documents, id)
			n++
		}
	}
	return n, nil
}

func (r *memDocuments) Count(ctx context.Context, filter models.ListFilter) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("documents.Count")
	n := 0
	for _, d := range r.store.documents {
		if matches(filter, d.UserID, d.Name) {
			n++
		}
	}
	return n, nil
}

func (r *memDocuments) ListRecent(ctx context.Context, filter models.ListFilter, limit int) ([]models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("documents.ListRecent")
	r.store.listLimits["documents"] = limit

	out := []models.Document{}
	for _, d := range r.store.documents {
		if matches(filter, d.UserID, d.Name) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memDocuments) ListByFolder(ctx context.Context, folderID int64) ([]models.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := []models.Document{}
	for _, d := range r.store.documents {
		if d.FolderID != nil && *d.FolderID == folderID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *memDocuments) AssignFolder(ctx context.Context, userID int64, ids []int64, folderID *int64, onlyUnfiled bool) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if folderID != nil {
		if _, ok := r.store.folders[*folderID]; !ok {
			return 0, domain.NewValidation("target folder does not exist")
		}
	}
	var n int64
	for _, id := range ids {
		d, ok := r.store.documents[id]
		if !ok || d.UserID != userID || (onlyUnfiled && d.FolderID != nil) {
			continue
		}
		if folderID != nil {
			fid := *folderID
			d.FolderID = &fid
		} else {
			d.FolderID = nil
		}
		r.store.documents[id] = d
		n++
	}
	return n, nil
}

func (r *memDocuments) DetachFromFolders(ctx context.Context, folderIDs []int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("documents.DetachFromFolders")
	targets := map[int64]bool{}
	for _, id := range folderIDs {
		targets[id] = true
	}
	var n int64
	for id, d := range r.store.documents {
		if d.FolderID != nil && targets[*d.FolderID] {
			d.FolderID = nil
			r.store.documents[id] = d
			n++
		}
	}
	return n, nil
}

type memFolders struct{ store *memStore }

func (r *memFolders) Create(ctx context.Context, folder *models.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("folders.Create")
	if _, ok := r.store.users[folder.UserID]; !ok {
		return domain.NewValidation("user %d does not exist", folder.UserID)
	}
	for _, f := range r.store.folders {
		if f.UserID == folder.UserID && f.Name == folder.Name {
			return domain.NewConflict("folder", folder.Name, f.ID)
		}
	}
	folder.ID = r.store.id()
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	folder.UpdatedAt = folder.CreatedAt
	r.store.folders[folder.ID] = *folder
	return nil
}

func (r *memFolders) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	f, ok := r.store.folders[id]
	if !ok {
		return nil, domain.NewNotFound("folder", id)
	}
	return &f, nil
}

func (r *memFolders) GetByName(ctx context.Context, userID int64, name string) (*models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, f := range r.store.folders {
		if f.UserID == userID && f.Name == name {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
}

func (r *memFolders) Update(ctx context.Context, folder *models.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.folders[folder.ID]; !ok {
		return domain.NewNotFound("folder", folder.ID)
	}
	folder.UpdatedAt = time.Now()
	r.store.folders[folder.ID] = *folder
	return nil
}

// referenced mirrors the foreign key: a folder row with filed documents
// cannot be removed
func (r *memFolders) referenced(id int64) bool {
	for _, d := range r.store.documents {
		if d.FolderID != nil && *d.FolderID == id {
			return true
		}
	}
	return false
}

func (r *memFolders) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("folders.Delete")
	if _, ok := r.store.folders[id]; !ok {
		return domain.NewNotFound("folder", id)
	}
	if r.referenced(id) {
		return fmt.Errorf("delete folder: foreign key violation on folder %d", id)
	}
	delete(r.store.folders, id)
	return nil
}

func (r *memFolders) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("folders.DeleteMany")
	for _, id := range ids {
		if r.referenced(id) {
			return 0, fmt.Errorf("delete folders: foreign key violation on folder %d", id)
		}
	}
	var n int64
	for _, id := range ids {
		if _, ok := r.store.folders[id]; ok {
			delete(r.store.folders, id)
			n++
		}
	}
	return n, nil
}

func (r *memFolders) Count(ctx context.Context, filter models.ListFilter) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("folders.Count")
	n := 0
	for _, f := range r.store.folders {
		if matches(filter, f.UserID, f.Name) {
			n++
		}
	}
	return n, nil
}

func (r *memFolders) ListRecent(ctx context.Context, filter models.ListFilter, limit int) ([]models.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.record("folders.ListRecent")
	r.store.listLimits["folders"] = limit

	out := []models.Folder{}
	for _, f := range r.store.folders {
		if matches(filter, f.UserID, f.Name) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// testEnv wires every service to one memStore
type testEnv struct {
	store     *memStore
	users     *memUsers
	documents *memDocuments
	folders   *memFolders
	tx        *memTxManager
	logger    *slog.Logger
}

func newTestEnv() *testEnv {
	store := newMemStore()
	return &testEnv{
		store:     store,
		users:     &memUsers{store: store},
		documents: &memDocuments{store: store},
		folders:   &memFolders{store: store},
		tx:        &memTxManager{store: store},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (e *testEnv) validator() *ResourceValidator {
	return NewResourceValidator(e.users, e.folders)
}

func (e *testEnv) resetCalls() {
	e.store.mu.Lock()
	e.store.calls = nil
	e.store.listLimits = map[string]int{}
	e.store.mu.Unlock()
}

var baseTime = time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

func dayAt(n int) time.Time {
	return baseTime.AddDate(0, 0, n)
}

func (e *testEnv) mustUser(name string) *models.User {
	u := &models.User{Email: strings.ToLower(name) + "@example.com", Name: name}
	if err := e.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (e *testEnv) mustFolder(userID int64, name string, created time.Time) *models.Folder {
	f := &models.Folder{UserID: userID, Name: name, CreatedAt: created}
	if err := e.folders.Create(context.Background(), f); err != nil {
		panic(err)
	}
	return f
}

func (e *testEnv) mustDocument(userID int64, name string, created time.Time, folderID *int64) *models.Document {
	d := &models.Document{UserID: userID, Name: name, FileSize: "1 KB", CreatedAt: created, FolderID: folderID}
	if err := e.documents.Create(context.Background(), d); err != nil {
		panic(err)
	}
	return d
}
