package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storeit/internal/common"
	"github.com/dmitrijs2005/storeit/internal/dbx"
	"github.com/dmitrijs2005/storeit/internal/logging"
	"github.com/dmitrijs2005/storeit/internal/server/models"
	"github.com/dmitrijs2005/storeit/internal/server/objectstore"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/files"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/uploads"
	"github.com/dmitrijs2005/storeit/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// recLogger remembers error messages.
type recLogger struct {
	nopLogger
	mu     sync.Mutex
	errors []string
}

func (r *recLogger) Error(_ context.Context, msg string, _ ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recLogger) With(...any) logging.Logger { return r }

// --- in-memory backend ---

type memBackend struct {
	mu      sync.Mutex
	seq     int
	now     time.Time
	users   map[string]*models.User
	files   []*models.File
	pending map[string]*models.PendingUpload
	tokens  map[string]*models.RefreshToken

	fileQueries int
	userQueries int

	createFileErr  error
	listErr        error
	getErr         error
	updateNameErr  error
	updateUsersErr error
	deleteFileErr  error
	existsErr      error

	pendingCreateErr error
	pendingDeleteErr error
	pendingListErr   error

	userCreateErr  error
	tokenCreateErr error
	tokenDeleteErr error
	tokenFindErr   error
	tokenPurgeErr  error
}

func newMemBackend() *memBackend {
	return &memBackend{
		now:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		users:   map[string]*models.User{},
		pending: map[string]*models.PendingUpload{},
		tokens:  map[string]*models.RefreshToken{},
	}
}

func (b *memBackend) tick() time.Time {
	b.now = b.now.Add(time.Minute)
	return b.now
}

func (b *memBackend) addUser(id, email, name string) *models.User {
	u := &models.User{ID: id, AccountID: "acc-" + id, Email: email, FullName: name}
	b.users[id] = u
	return u
}

func (b *memBackend) findFile(id string) (int, *models.File) {
	for i, f := range b.files {
		if f.ID == id {
			return i, f
		}
	}
	return -1, nil
}

func cloneFile(f *models.File) *models.File {
	c := *f
	c.Users = slices.Clone(f.Users)
	return &c
}

type fakeRepoManager struct{ b *memBackend }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return &memUsers{m.b} }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &memTokens{m.b}
}
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository     { return &memFiles{m.b} }
func (m *fakeRepoManager) Uploads(dbx.DBTX) uploads.Repository { return &memUploads{m.b} }

type memUsers struct{ b *memBackend }

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if r.b.userCreateErr != nil {
		return nil, r.b.userCreateErr
	}
	for _, x := range r.b.users {
		if x.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	r.b.seq++
	u.ID = fmt.Sprintf("u-%d", r.b.seq)
	u.AccountID = fmt.Sprintf("acc-%d", r.b.seq)
	u.CreatedAt = r.b.tick()
	r.b.users[u.ID] = u
	return u, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.userQueries++
	for _, u := range r.b.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.userQueries++
	if u, ok := r.b.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type memTokens struct{ b *memBackend }

func (r *memTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	if r.b.tokenCreateErr != nil {
		return r.b.tokenCreateErr
	}
	r.b.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r *memTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	if r.b.tokenFindErr != nil {
		return nil, r.b.tokenFindErr
	}
	if t, ok := r.b.tokens[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memTokens) Delete(_ context.Context, token string) error {
	if r.b.tokenDeleteErr != nil {
		return r.b.tokenDeleteErr
	}
	delete(r.b.tokens, token)
	return nil
}

func (r *memTokens) DeleteExpired(_ context.Context, userID string, now time.Time) (int64, error) {
	if r.b.tokenPurgeErr != nil {
		return 0, r.b.tokenPurgeErr
	}
	var n int64
	for k, t := range r.b.tokens {
		if t.UserID == userID && t.Expires.Before(now) {
			delete(r.b.tokens, k)
			n++
		}
	}
	return n, nil
}

type memFiles struct{ b *memBackend }

func (r *memFiles) Create(_ context.Context, f *models.File) (*models.File, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.fileQueries++
	if r.b.createFileErr != nil {
		return nil, r.b.createFileErr
	}
	r.b.seq++
	f.ID = fmt.Sprintf("f-%d", r.b.seq)
	f.CreatedAt = r.b.tick()
	f.UpdatedAt = f.CreatedAt
	r.b.files = append(r.b.files, cloneFile(f))
	return f, nil
}

func (r *memFiles) List(_ context.Context, userID, email string) ([]*models.File, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.fileQueries++
	if r.b.listErr != nil {
		return nil, r.b.listErr
	}
	out := make([]*models.File, 0)
	for _, f := range r.b.files {
		if f.Owner.ID == userID || slices.Contains(f.Users, strings.ToLower(email)) {
			out = append(out, cloneFile(f))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memFiles) Get(_ context.Context, id string) (*models.File, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.fileQueries++
	if r.b.getErr != nil {
		return nil, r.b.getErr
	}
	if _, f := r.b.findFile(id); f != nil {
		return cloneFile(f), nil
	}
	return nil, common.ErrorNotFound
}

func (r *memFiles) UpdateName(_ context.Context, id, name string) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.fileQueries++
	if r.b.updateNameErr != nil {
		return r.b.updateNameErr
	}
	_, f := r.b.findFile(id)
	if f == nil {
		return common.ErrorNotFound
	}
	f.Name = name
	f.UpdatedAt = r.b.tick()
	return nil
}

func (r *memFiles) UpdateUsers(_ context.Context, id string, emails []string) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.fileQueries++
	if r.b.updateUsersErr != nil {
		return r.b.updateUsersErr
	}
	_, f := r.b.findFile(id)
	if f == nil {
		return common.ErrorNotFound
	}
	owner := r.b.users[f.Owner.ID]
	f.Users = make([]string, 0, len(emails))
	for _, e := range emails {
		if owner != nil && e == strings.ToLower(owner.Email) {
			continue
		}
		f.Users = append(f.Users, e)
	}
	f.UpdatedAt = r.b.tick()
	return nil
}

func (r *memFiles) Delete(_ context.Context, id string) (*models.File, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	r.b.fileQueries++
	if r.b.deleteFileErr != nil {
		return nil, r.b.deleteFileErr
	}
	i, f := r.b.findFile(id)
	if f == nil {
		return nil, common.ErrorNotFound
	}
	r.b.files = append(r.b.files[:i], r.b.files[i+1:]...)
	return &models.File{ID: f.ID, BucketFileID: f.BucketFileID, Owner: models.Owner{ID: f.Owner.ID}}, nil
}

func (r *memFiles) ExistsByBucketFileID(_ context.Context, bucketFileID string) (bool, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if r.b.existsErr != nil {
		return false, r.b.existsErr
	}
	for _, f := range r.b.files {
		if f.BucketFileID == bucketFileID {
			return true, nil
		}
	}
	return false, nil
}

type memUploads struct{ b *memBackend }

func (r *memUploads) Create(_ context.Context, p *models.PendingUpload) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if r.b.pendingCreateErr != nil {
		return r.b.pendingCreateErr
	}
	if _, ok := r.b.pending[p.BucketFileID]; !ok {
		c := *p
		if c.CreatedAt.IsZero() {
			c.CreatedAt = r.b.now
		}
		r.b.pending[p.BucketFileID] = &c
	}
	return nil
}

func (r *memUploads) Delete(_ context.Context, bucketFileID string) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if r.b.pendingDeleteErr != nil {
		return r.b.pendingDeleteErr
	}
	delete(r.b.pending, bucketFileID)
	return nil
}

func (r *memUploads) MarkFailed(_ context.Context, bucketFileID string) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if p, ok := r.b.pending[bucketFileID]; ok {
		p.Attempts++
	}
	return nil
}

func (r *memUploads) ListOlderThan(_ context.Context, before time.Time, limit int) ([]*models.PendingUpload, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if r.b.pendingListErr != nil {
		return nil, r.b.pendingListErr
	}
	var out []*models.PendingUpload
	for _, p := range r.b.pending {
		if p.CreatedAt.Before(before) {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts < out[j].Attempts
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].BucketFileID < out[j].BucketFileID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- object storage ---

type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	createErr error
	deleteErr error
	deletes   []string
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (s *memStore) CreateFile(_ context.Context, id, name string, body []byte) (*objectstore.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.objects[id] = slices.Clone(body)
	return &objectstore.Object{ID: id, Name: name, SizeOriginal: int64(len(body))}, nil
}

func (s *memStore) DeleteFile(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, id)
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// --- session and revalidation ---

type fakeSession struct {
	user  *models.User
	err   error
	calls int
}

func (f *fakeSession) CurrentUser(context.Context) (*models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil {
		return nil, common.ErrUnauthenticated
	}
	return f.user, nil
}

type recRevalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recRevalidator) Revalidate(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}
