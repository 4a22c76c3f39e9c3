package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int

	setImageErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = "u" + strconv.Itoa(r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.FullName != nil {
		u.Profile.FullName = *update.FullName
	}
	if update.Headline != nil {
		u.Profile.Headline = *update.Headline
	}
	if update.Bio != nil {
		u.Profile.Bio = *update.Bio
	}
	if update.Location != nil {
		u.Profile.Location = *update.Location
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetProfileImage(_ context.Context, id, filename string) (string, error) {
	if r.setImageErr != nil {
		return "", r.setImageErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	previous := u.Profile.ProfileImage
	u.Profile.ProfileImage = filename
	return previous, nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := (filter.Page - 1) * filter.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

// memBlobStorage is an in-memory ports.BlobStorage.
type memBlobStorage struct {
	mu         sync.Mutex
	namespaces map[string]int
	objects    map[string][]byte
	types      map[string]string
}

func newMemBlobStorage() *memBlobStorage {
	return &memBlobStorage{
		namespaces: make(map[string]int),
		objects:    make(map[string][]byte),
		types:      make(map[string]string),
	}
}

func (m *memBlobStorage) EnsureNamespace(_ context.Context, ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespaces[ns]++
	return nil
}

func (m *memBlobStorage) Put(_ context.Context, ns, name string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[ns+"/"+name] = data
	m.types[ns+"/"+name] = contentType
	return nil
}

func (m *memBlobStorage) Open(_ context.Context, ns, name string) (io.ReadCloser, *ports.BlobInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[ns+"/"+name]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	info := &ports.BlobInfo{Size: int64(len(data)), ContentType: m.types[ns+"/"+name], ModTime: time.Now()}
	return io.NopCloser(bytes.NewReader(data)), info, nil
}

func (m *memBlobStorage) Remove(_ context.Context, ns, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[ns+"/"+name]; !ok {
		return domain.ErrNotFound
	}
	delete(m.objects, ns+"/"+name)
	return nil
}

func (m *memBlobStorage) has(ns, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[ns+"/"+name]
	return ok
}

type stubRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (s *stubRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = ttl
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type recordingCleaner struct {
	mu   sync.Mutex
	refs []domain.AssetRef
}

func (c *recordingCleaner) Enqueue(ref domain.AssetRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs = append(c.refs, ref)
}
