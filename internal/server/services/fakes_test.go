package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/cryptox"
	"github.com/dmitrijs2005/accounts/internal/dbx"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/avatars"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accounts/internal/server/validation"
)

const (
	testSecret  = "test-secret"
	testBaseURL = "http://localhost/avatars/"
	testDefault = "default-user.png"
)

// memRepo is an in-memory accounts.Repository enforcing the same unique
// constraints as the table.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Account

	// errs forces a method (by name) to fail.
	errs map[string]error
	// hidden makes FindByUsername/FindByEmail miss existing rows, so the
	// store constraint is the one that trips.
	hidden bool
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[int64]*models.Account{}, errs: map[string]error{}}
}

func (r *memRepo) conflict(a *models.Account) error {
	for _, row := range r.rows {
		if row.ID == a.ID {
			continue
		}
		if row.Username == a.Username {
			return accounts.ErrUsernameTaken
		}
		if row.Email == a.Email {
			return accounts.ErrEmailTaken
		}
	}
	return nil
}

func (r *memRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs["Create"]; err != nil {
		return nil, err
	}
	if err := r.conflict(a); err != nil {
		return nil, err
	}
	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	c := *a
	r.rows[a.ID] = &c
	return a, nil
}

func (r *memRepo) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs["Update"]; err != nil {
		return nil, err
	}
	old, ok := r.rows[a.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if err := r.conflict(a); err != nil {
		return nil, err
	}
	a.CreatedAt = old.CreatedAt
	a.UpdatedAt = time.Now()
	c := *a
	r.rows[a.ID] = &c
	return a, nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs["FindByID"]; err != nil {
		return nil, err
	}
	if a, ok := r.rows[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (r *memRepo) find(method string, match func(*models.Account) bool) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs[method]; err != nil {
		return nil, err
	}
	if r.hidden {
		return nil, common.ErrorNotFound
	}
	for _, a := range r.rows {
		if match(a) {
			c := *a
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.find("FindByUsername", func(a *models.Account) bool { return a.Username == username })
}

func (r *memRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find("FindByEmail", func(a *models.Account) bool { return a.Email == email })
}

func (r *memRepo) List(ctx context.Context) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs["List"]; err != nil {
		return nil, err
	}
	out := make([]*models.Account, 0, len(r.rows))
	for _, a := range r.rows {
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) get(t *testing.T, username string) *models.Account {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.Username == username {
			return a
		}
	}
	t.Fatalf("account %q not stored", username)
	return nil
}

type fakeRepoManager struct {
	repo *memRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accounts.Repository     { return m.repo }

type fakeStore struct {
	mu      sync.Mutex
	objects map[string]string
	deleted []string
	seq     int
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}}
}

func (s *fakeStore) SeedDefault(ctx context.Context, name string) error {
	return nil
}

func (s *fakeStore) Put(ctx context.Context, up avatars.Upload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return "", s.putErr
	}
	b, err := io.ReadAll(up.Body)
	if err != nil {
		return "", err
	}
	s.seq++
	name := fmt.Sprintf("obj-%d.png", s.seq)
	s.objects[name] = string(b)
	return name, nil
}

func (s *fakeStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, name)
	s.deleted = append(s.deleted, name)
	return nil
}

type failingHasher struct {
	hashErr   error
	verifyErr error
}

func (h failingHasher) Hash(string) (string, error)         { return "", h.hashErr }
func (h failingHasher) Verify(string, string) (bool, error) { return false, h.verifyErr }

var _ cryptox.PasswordHasher = failingHasher{}

type fixture struct {
	svc   *AccountService
	repo  *memRepo
	store *fakeStore
	db    *sql.DB
	mock  sqlmock.Sqlmock
}

func testOptions() Options {
	return Options{
		SecretKey:     []byte(testSecret),
		TokenValidity: time.Hour,
		Rules:         validation.DefaultRules(),
		AvatarBaseURL: testBaseURL,
		DefaultAvatar: testDefault,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := newMemRepo()
	store := newFakeStore()
	hasher := cryptox.NewArgon2Hasher(cryptox.Argon2Params{Time: 1, Memory: 1024, Threads: 1, SaltLength: 16, KeyLength: 32})

	svc := NewAccountService(db, &fakeRepoManager{repo: repo}, hasher, store, logging.NewNopLogger(), testOptions())
	return &fixture{svc: svc, repo: repo, store: store, db: db, mock: mock}
}

var errBoom = errors.New("boom")
