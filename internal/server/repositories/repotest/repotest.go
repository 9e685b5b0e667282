// Package repotest provides an in-memory RepositoryManager for tests that
// exercise the service and handler layers without a database.
package repotest

import (
	"context"
	"database/sql"

	"github.com/ttakano/climblog/internal/common"
	"github.com/ttakano/climblog/internal/dbx"
	"github.com/ttakano/climblog/internal/server/models"
	mountainsrepo "github.com/ttakano/climblog/internal/server/repositories/mountains"
	recordsrepo "github.com/ttakano/climblog/internal/server/repositories/records"
	usersrepo "github.com/ttakano/climblog/internal/server/repositories/users"
)

type UsersRepo struct {
	NextID int64
	ByID   map[int64]*models.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{NextID: 1, ByID: map[int64]*models.User{}}
}

// Seed stores a user directly, assigning the next id when unset.
func (f *UsersRepo) Seed(u *models.User) *models.User {
	if u.ID == 0 {
		u.ID = f.NextID
	}
	f.ByID[u.ID] = u
	if u.ID >= f.NextID {
		f.NextID = u.ID + 1
	}
	return u
}

func (f *UsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	u.ID = f.NextID
	f.NextID++
	f.ByID[u.ID] = u
	return u, nil
}

func (f *UsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.ByID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *UsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.ByID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *UsersRepo) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.ByID))
	for i := int64(1); i < f.NextID; i++ {
		if u, ok := f.ByID[i]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type MountainsRepo struct {
	NextID int64
	ByID   map[int64]*models.Mountain

	// Records, when set, receives cascade deletes the way the schema's
	// ON DELETE CASCADE would.
	Records *RecordsRepo
}

func NewMountainsRepo() *MountainsRepo {
	return &MountainsRepo{NextID: 1, ByID: map[int64]*models.Mountain{}}
}

// Seed stores a mountain directly, assigning the next id when unset.
func (f *MountainsRepo) Seed(m *models.Mountain) *models.Mountain {
	if m.ID == 0 {
		m.ID = f.NextID
	}
	f.ByID[m.ID] = m
	if m.ID >= f.NextID {
		f.NextID = m.ID + 1
	}
	return m
}

func (f *MountainsRepo) Create(ctx context.Context, m *models.Mountain) (*models.Mountain, error) {
	m.ID = f.NextID
	f.NextID++
	f.ByID[m.ID] = m
	return m, nil
}

func (f *MountainsRepo) GetByID(ctx context.Context, id int64) (*models.Mountain, error) {
	if m, ok := f.ByID[id]; ok {
		return m, nil
	}
	return nil, common.ErrorNotFound
}

func (f *MountainsRepo) Update(ctx context.Context, m *models.Mountain) error {
	if _, ok := f.ByID[m.ID]; !ok {
		return common.ErrorNotFound
	}
	f.ByID[m.ID] = m
	return nil
}

func (f *MountainsRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.ByID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.ByID, id)
	if f.Records != nil {
		for rid, r := range f.Records.ByID {
			if r.MountainID == id {
				delete(f.Records.ByID, rid)
			}
		}
	}
	return nil
}

func (f *MountainsRepo) List(ctx context.Context, nameFilter string) ([]*models.Mountain, error) {
	out := make([]*models.Mountain, 0, len(f.ByID))
	for i := int64(1); i < f.NextID; i++ {
		if m, ok := f.ByID[i]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

type RecordsRepo struct {
	NextID int64
	ByID   map[int64]*models.ClimbRecord
}

func NewRecordsRepo() *RecordsRepo {
	return &RecordsRepo{NextID: 1, ByID: map[int64]*models.ClimbRecord{}}
}

func (f *RecordsRepo) Create(ctx context.Context, rec *models.ClimbRecord) (*models.ClimbRecord, error) {
	rec.ID = f.NextID
	f.NextID++
	f.ByID[rec.ID] = rec
	return rec, nil
}

func (f *RecordsRepo) GetByID(ctx context.Context, id int64) (*models.ClimbRecord, error) {
	if r, ok := f.ByID[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *RecordsRepo) Update(ctx context.Context, rec *models.ClimbRecord) error {
	if _, ok := f.ByID[rec.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *rec
	f.ByID[rec.ID] = &cp
	return nil
}

func (f *RecordsRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.ByID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.ByID, id)
	return nil
}

func (f *RecordsRepo) List(ctx context.Context) ([]*models.ClimbRecord, error) {
	return f.all(), nil
}

func (f *RecordsRepo) ListByMountain(ctx context.Context, mountainID int64) ([]*models.ClimbRecord, error) {
	var out []*models.ClimbRecord
	for _, r := range f.all() {
		if r.MountainID == mountainID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *RecordsRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*models.ClimbRecord, error) {
	var mine []*models.ClimbRecord
	for _, r := range f.all() {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	if offset >= len(mine) {
		return nil, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	return mine[offset:end], nil
}

func (f *RecordsRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	n := 0
	for _, r := range f.ByID {
		if r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *RecordsRepo) all() []*models.ClimbRecord {
	out := make([]*models.ClimbRecord, 0, len(f.ByID))
	for i := int64(1); i < f.NextID; i++ {
		if r, ok := f.ByID[i]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Manager implements repomanager.RepositoryManager over the in-memory
// repos. The dbx.DBTX argument is ignored; there is no real transaction.
type Manager struct {
	UsersRepo     *UsersRepo
	MountainsRepo *MountainsRepo
	RecordsRepo   *RecordsRepo
}

func NewManager() *Manager {
	m := &Manager{
		UsersRepo:     NewUsersRepo(),
		MountainsRepo: NewMountainsRepo(),
		RecordsRepo:   NewRecordsRepo(),
	}
	m.MountainsRepo.Records = m.RecordsRepo
	return m
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *Manager) Users(db dbx.DBTX) usersrepo.Repository         { return m.UsersRepo }
func (m *Manager) Mountains(db dbx.DBTX) mountainsrepo.Repository { return m.MountainsRepo }
func (m *Manager) Records(db dbx.DBTX) recordsrepo.Repository     { return m.RecordsRepo }
