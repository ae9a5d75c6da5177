package invites

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/db"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/models"
)

// ── Mock Store ──

type mockStore struct {
	mu         sync.Mutex
	seq        int64
	rows       map[int64]*models.Invite
	createErrs []error // 每次 CreateInvite 先弹出一个预置错误，模拟撞码
	incErr     error   // 非 nil 时 IncrementInviteUsed 直接返回
}

func newMockStore() *mockStore {
	return &mockStore{rows: make(map[int64]*models.Invite)}
}

func (m *mockStore) CreateInvite(_ context.Context, inv *models.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, r := range m.rows {
		if r.Code == inv.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	inv.ID = m.seq
	inv.CreatedAt = time.Now()
	cp := *inv
	m.rows[inv.ID] = &cp
	return nil
}

func (m *mockStore) GetInviteByCode(_ context.Context, code string) (*models.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Code == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStore) GetInviteByID(_ context.Context, id int64) (*models.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStore) ListInvites(_ context.Context, ownerID int64, isAdmin bool) ([]models.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Invite
	for _, r := range m.rows {
		if isAdmin || r.CreatedByUserID == ownerID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) DeleteInvite(_ context.Context, id, ownerID int64, isAdmin bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	if !isAdmin && r.CreatedByUserID != ownerID {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *mockStore) SetInviteExpiry(_ context.Context, id int64, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.ExpiresAt = &expiresAt
	return nil
}

// 和真实实现一样：自增与余量校验在同一个临界区内完成
func (m *mockStore) IncrementInviteUsed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incErr != nil {
		return m.incErr
	}
	r, ok := m.rows[id]
	if !ok || r.UsedCount >= r.MaxUses {
		return db.ErrNoUsesLeft
	}
	r.UsedCount++
	return nil
}

// ── Mock Users ──

type mockUsers struct {
	mu     sync.Mutex
	seq    int64
	byName map[string]*models.User
}

func newMockUsers() *mockUsers {
	return &mockUsers{byName: make(map[string]*models.User)}
}

func (m *mockUsers) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byName[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[u.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.seq++
	u.ID = m.seq
	cp := *u
	m.byName[u.Username] = &cp
	return nil
}
