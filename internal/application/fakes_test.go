package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/velora-social/velora-api/internal/domain/entity"
	"github.com/velora-social/velora-api/internal/domain/repository"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("user-%d", f.seq)
}

func (f *fakeUserRepo) clone(u *entity.User) *entity.User {
	cp := *u
	return &cp
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.EnsureDefaults()
	u.ID = f.nextID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = f.clone(u)
	return nil
}

func (f *fakeUserRepo) InsertBatch(ctx context.Context, users []*entity.User) ([]bool, error) {
	inserted := make([]bool, len(users))
	for i, u := range users {
		err := f.Create(ctx, u)
		inserted[i] = err == nil
		if err != nil && err != repository.ErrDuplicate {
			return nil, err
		}
	}
	return inserted, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return f.clone(u), nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return f.clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	f.users[u.ID] = f.clone(u)
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Password = hash
	return nil
}

type fakeRoleRepo struct {
	mu        sync.Mutex
	seq       int
	roles     map[string]*entity.Role
	userRoles map[string]map[string]bool // userID -> roleID set
	perms     *fakePermissionRepo        // optional, for resolving permissions
	users     *fakeUserRepo              // optional, enforces user existence on assignment
}

func newFakeRoleRepo(perms *fakePermissionRepo) *fakeRoleRepo {
	return &fakeRoleRepo{
		roles:     map[string]*entity.Role{},
		userRoles: map[string]map[string]bool{},
		perms:     perms,
	}
}

func (f *fakeRoleRepo) Create(_ context.Context, r *entity.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.roles {
		if existing.Name == r.Name {
			return repository.ErrDuplicate
		}
	}
	f.seq++
	r.ID = fmt.Sprintf("role-%d", f.seq)
	cp := *r
	f.roles[r.ID] = &cp
	return nil
}

func (f *fakeRoleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRoleRepo) List(_ context.Context) ([]entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRoleRepo) Update(_ context.Context, r *entity.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.roles[r.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range f.roles {
		if id != r.ID && existing.Name == r.Name {
			return repository.ErrDuplicate
		}
	}
	cp := *r
	f.roles[r.ID] = &cp
	return nil
}

func (f *fakeRoleRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.roles, id)
	return nil
}

func (f *fakeRoleRepo) AddPermission(ctx context.Context, roleID, permissionID string) error {
	perm, err := f.perms.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[roleID]
	if !ok {
		return repository.ErrNotFound
	}
	if !r.HasPermission(perm.Name) {
		r.Permissions = append(r.Permissions, *perm)
	}
	return nil
}

func (f *fakeRoleRepo) RemovePermission(ctx context.Context, roleID, permissionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[roleID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := r.Permissions[:0]
	for _, p := range r.Permissions {
		if p.ID != permissionID {
			kept = append(kept, p)
		}
	}
	r.Permissions = kept
	return nil
}

func (f *fakeRoleRepo) AssignToUser(ctx context.Context, userID, roleID string) error {
	if f.users != nil {
		if _, err := f.users.GetByID(ctx, userID); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.roles[roleID]; !ok {
		return repository.ErrNotFound
	}
	if f.userRoles[userID] == nil {
		f.userRoles[userID] = map[string]bool{}
	}
	f.userRoles[userID][roleID] = true
	return nil
}

func (f *fakeRoleRepo) RemoveFromUser(_ context.Context, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.userRoles[userID], roleID)
	return nil
}

func (f *fakeRoleRepo) ListForUser(_ context.Context, userID string) ([]entity.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []entity.Role{}
	for roleID := range f.userRoles[userID] {
		if r, ok := f.roles[roleID]; ok {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakePermissionRepo struct {
	mu    sync.Mutex
	seq   int
	perms map[string]*entity.Permission
}

func newFakePermissionRepo() *fakePermissionRepo {
	return &fakePermissionRepo{perms: map[string]*entity.Permission{}}
}

func (f *fakePermissionRepo) Create(_ context.Context, p *entity.Permission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.perms {
		if existing.Name == p.Name {
			return repository.ErrDuplicate
		}
	}
	f.seq++
	p.ID = fmt.Sprintf("perm-%d", f.seq)
	cp := *p
	f.perms[p.ID] = &cp
	return nil
}

func (f *fakePermissionRepo) GetByID(_ context.Context, id string) (*entity.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.perms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePermissionRepo) GetByName(_ context.Context, name string) (*entity.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.perms {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePermissionRepo) List(_ context.Context) ([]entity.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Permission, 0, len(f.perms))
	for _, p := range f.perms {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakePermissionRepo) Update(_ context.Context, p *entity.Permission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.perms[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	f.perms[p.ID] = &cp
	return nil
}

func (f *fakePermissionRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.perms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.perms, id)
	return nil
}

type edge struct {
	follower  string
	following string
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	users *fakeUserRepo
	edges []edge
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{users: users}
}

func (f *fakeFollowRepo) Insert(_ context.Context, followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.edges {
		if e.follower == followerID && e.following == followingID {
			return repository.ErrDuplicate
		}
	}
	f.edges = append(f.edges, edge{followerID, followingID})
	return nil
}

func (f *fakeFollowRepo) Delete(_ context.Context, followerID, followingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.edges {
		if e.follower == followerID && e.following == followingID {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.edges {
		if e.follower == followerID && e.following == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) page(ctx context.Context, ids []string, limit, offset int) ([]entity.User, error) {
	if offset >= len(ids) {
		return []entity.User{}, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]entity.User, 0, end-offset)
	for _, id := range ids[offset:end] {
		u, err := f.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeFollowRepo) Followers(ctx context.Context, userID string, limit, offset int) ([]entity.User, error) {
	f.mu.Lock()
	ids := []string{}
	for _, e := range f.edges {
		if e.following == userID {
			ids = append(ids, e.follower)
		}
	}
	f.mu.Unlock()
	return f.page(ctx, ids, limit, offset)
}

func (f *fakeFollowRepo) Following(ctx context.Context, userID string, limit, offset int) ([]entity.User, error) {
	f.mu.Lock()
	ids := []string{}
	for _, e := range f.edges {
		if e.follower == userID {
			ids = append(ids, e.following)
		}
	}
	f.mu.Unlock()
	return f.page(ctx, ids, limit, offset)
}

func (f *fakeFollowRepo) CountFollowers(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.edges {
		if e.following == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeFollowRepo) CountFollowing(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.edges {
		if e.follower == userID {
			n++
		}
	}
	return n, nil
}

func permFixture(t *testing.T, repo *fakePermissionRepo, name string) entity.Permission {
	t.Helper()
	p := &entity.Permission{Name: name}
	require.NoError(t, repo.Create(context.Background(), p))
	return *p
}

func roleFixture(t *testing.T, repo *fakeRoleRepo, name string, perms ...entity.Permission) *entity.Role {
	t.Helper()
	r := &entity.Role{Name: name, Permissions: perms}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

var (
	_ repository.UserRepository       = (*fakeUserRepo)(nil)
	_ repository.RoleRepository       = (*fakeRoleRepo)(nil)
	_ repository.PermissionRepository = (*fakePermissionRepo)(nil)
	_ repository.FollowRepository     = (*fakeFollowRepo)(nil)
)
