package invites

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/db"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/models"
)

var (
	ErrNotAllowed        = errors.New("Not allowed to manage invites")
	ErrMaxUsesOutOfRange = errors.New("maxUses 必须在 1 到 1000 之间")
	ErrInviteNotFound    = errors.New("邀请码不存在")
	ErrInviteExpired     = errors.New("邀请码已过期")
	ErrNoRemainingUses   = errors.New("邀请码无可用次数")
	ErrReservedUsername  = errors.New("Cannot register super admin username")
	ErrUsernameExists    = errors.New("Username already exists")
)

const (
	codeLength     = 16
	codeAlphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeRetries = 5
)

// Store 邀请码持久化操作（*db.Repo 实现）
type Store interface {
	CreateInvite(ctx context.Context, inv *models.Invite) error
	GetInviteByCode(ctx context.Context, code string) (*models.Invite, error)
	GetInviteByID(ctx context.Context, id int64) (*models.Invite, error)
	ListInvites(ctx context.Context, ownerID int64, isAdmin bool) ([]models.Invite, error)
	DeleteInvite(ctx context.Context, id, ownerID int64, isAdmin bool) (bool, error)
	SetInviteExpiry(ctx context.Context, id int64, expiresAt time.Time) error
	IncrementInviteUsed(ctx context.Context, id int64) error
}

// Users 注册流程需要的账号操作（*db.Repo 实现）
type Users interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

// Service 邀请码的管理与兑换
type Service interface {
	List(ctx context.Context, caller *models.User) ([]Info, error)
	Validate(ctx context.Context, code string) (*ValidateResponse, error)
	Create(ctx context.Context, caller *models.User, req *CreateRequest) (*Info, error)
	Delete(ctx context.Context, caller *models.User, id int64) error
	Register(ctx context.Context, req *RegisterRequest) (int64, error)
}

type service struct {
	store      Store
	users      Users
	superAdmin string // 启动时注入的超级管理员用户名
	logger     *zap.Logger
	now        func() time.Time
}

// NewService 创建 Service 实例
func NewService(store Store, users Users, superAdmin string, logger *zap.Logger) Service {
	return &service{
		store:      store,
		users:      users,
		superAdmin: superAdmin,
		logger:     logger,
		now:        time.Now,
	}
}

// canManage 邀请码管理权限：用户名等于超级管理员（忽略大小写），
// 或显式持有 createUsers 权限。权限数据缺失/损坏一律按无权处理
func (s *service) canManage(caller *models.User) bool {
	if caller == nil {
		return false
	}
	if strings.EqualFold(caller.Username, s.superAdmin) {
		return true
	}
	return models.DecodePermissions(caller.PermissionsJSON)[models.PermCreateUsers]
}

// List 列出邀请码，管理员全量，其他人只看自己的
func (s *service) List(ctx context.Context, caller *models.User) ([]Info, error) {
	if !s.canManage(caller) {
		return nil, ErrNotAllowed
	}
	rows, err := s.store.ListInvites(ctx, caller.ID, caller.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	now := s.now()
	infos := make([]Info, 0, len(rows))
	for i := range rows {
		infos = append(infos, toInfo(&rows[i], now))
	}
	return infos, nil
}

// Validate 公开校验。内部错误以外永远返回一个响应体
func (s *service) Validate(ctx context.Context, code string) (*ValidateResponse, error) {
	inv, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	switch Evaluate(inv, s.now()) {
	case StatusNotFound:
		return &ValidateResponse{Valid: false, Reason: string(StatusNotFound), Message: ErrInviteNotFound.Error()}, nil
	case StatusExpired:
		return &ValidateResponse{
			Valid: false, Reason: string(StatusExpired), Message: ErrInviteExpired.Error(),
			MaxUses: &inv.MaxUses, UsedCount: &inv.UsedCount, ExpiresAt: inv.ExpiresAt,
		}, nil
	case StatusNoRemaining:
		return &ValidateResponse{
			Valid: false, Reason: string(StatusNoRemaining), Message: ErrNoRemainingUses.Error(),
			MaxUses: &inv.MaxUses, UsedCount: &inv.UsedCount, ExpiresAt: inv.ExpiresAt,
		}, nil
	case StatusDisabled:
		// 对未鉴权调用方，禁用 = 不存在：reason/message 与不存在完全一致，
		// 也不回显任何元数据，避免泄露码的存在性
		return &ValidateResponse{Valid: false, Reason: string(StatusNotFound), Message: ErrInviteNotFound.Error()}, nil
	}
	return &ValidateResponse{
		Valid: true, Message: "ok",
		MaxUses: &inv.MaxUses, UsedCount: &inv.UsedCount, ExpiresAt: inv.ExpiresAt,
	}, nil
}

// Create 生成邀请码。码由服务端随机生成，不预查重：撞到唯一索引就换一个重试
func (s *service) Create(ctx context.Context, caller *models.User, req *CreateRequest) (*Info, error) {
	if !s.canManage(caller) {
		return nil, ErrNotAllowed
	}
	if req.MaxUses < 1 || req.MaxUses > 1000 {
		return nil, ErrMaxUsesOutOfRange
	}
	permJSON := models.EncodePermissions(req.Permissions)

	var created *models.Invite
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		inv := &models.Invite{
			Code:            randomCode(codeLength),
			CreatedByUserID: caller.ID,
			MaxUses:         req.MaxUses,
			PerHourLimit:    req.PerHourLimit,
			PermissionsJSON: permJSON,
			Remark:          req.Remark,
			IsEnabled:       true,
		}
		err := s.store.CreateInvite(ctx, inv)
		if err == nil {
			created = inv
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("邀请码撞码，重新生成", zap.Int("attempt", attempt+1))
			continue
		}
		return nil, fmt.Errorf("create invite: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("create invite: code collision after %d attempts", maxCodeRetries)
	}

	// 过期时间单独补一条更新，最终落库状态与调用顺序无关
	if req.ExpiresAt != nil {
		if err := s.store.SetInviteExpiry(ctx, created.ID, *req.ExpiresAt); err != nil {
			return nil, fmt.Errorf("set invite expiry: %w", err)
		}
	}

	row, err := s.store.GetInviteByID(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("reload invite: %w", err)
	}
	info := toInfo(row, s.now())
	return &info, nil
}

// Delete 硬删除。删不到行按"不存在"返回，不当成服务端错误
func (s *service) Delete(ctx context.Context, caller *models.User, id int64) error {
	if !s.canManage(caller) {
		return ErrNotAllowed
	}
	ok, err := s.store.DeleteInvite(ctx, id, caller.ID, caller.IsAdmin())
	if err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	if !ok {
		return ErrInviteNotFound
	}
	return nil
}

// Register 受邀注册：校验 → 保留名/重名检查 → 建号 → 消耗名额。
// 建号在前、计数在后：计数失败时宁可多出一个没计入配额的账号，
// 也不丢已创建的账号。这里只记录对账日志，不回滚不重试
func (s *service) Register(ctx context.Context, req *RegisterRequest) (int64, error) {
	inv, err := s.getByCode(ctx, req.Code)
	if err != nil {
		return 0, err
	}
	switch Evaluate(inv, s.now()) {
	case StatusNotFound, StatusDisabled:
		return 0, ErrInviteNotFound
	case StatusExpired:
		return 0, ErrInviteExpired
	case StatusNoRemaining:
		return 0, ErrNoRemainingUses
	}

	// 超级管理员用户名任何大小写都不允许注册，权限授予也绕不过
	if strings.EqualFold(req.Username, s.superAdmin) {
		return 0, ErrReservedUsername
	}

	if _, err := s.users.FindUserByUsername(ctx, req.Username); err == nil {
		return 0, ErrUsernameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	// 权限按解码后的规范布尔映射重新序列化继承；坏数据按无权限处理
	var permJSON *string
	if perms := models.DecodePermissions(inv.PermissionsJSON); perms != nil {
		if b, err := json.Marshal(perms); err == nil {
			str := string(b)
			permJSON = &str
		}
	}

	user := &models.User{
		Username:        req.Username,
		PasswordHash:    string(hash),
		Role:            models.RoleUser, // 邀请注册永远是普通用户
		CanCreateAdmin:  false,
		PerHourLimit:    inv.PerHourLimit,
		PermissionsJSON: permJSON,
		Remark:          inv.Remark,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrUsernameExists
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	if err := s.store.IncrementInviteUsed(ctx, inv.ID); err != nil {
		if errors.Is(err, db.ErrNoUsesLeft) {
			// 最后一个名额被并发抢走。账号留着，等人工对账
			s.logger.Error("账号已创建但邀请码名额已被并发耗尽",
				zap.Int64("userId", user.ID),
				zap.Int64("inviteId", inv.ID),
				zap.String("code", inv.Code))
			return 0, ErrNoRemainingUses
		}
		s.logger.Error("账号已创建但邀请码计数失败，需人工对账",
			zap.Int64("userId", user.ID),
			zap.Int64("inviteId", inv.ID),
			zap.Error(err))
		return 0, fmt.Errorf("increment invite used: %w", err)
	}
	return user.ID, nil
}

func (s *service) getByCode(ctx context.Context, code string) (*models.Invite, error) {
	inv, err := s.store.GetInviteByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invite by code: %w", err)
	}
	return inv, nil
}

func toInfo(inv *models.Invite, now time.Time) Info {
	return Info{
		ID:              inv.ID,
		Code:            inv.Code,
		CreatedByUserID: inv.CreatedByUserID,
		CreatedAt:       inv.CreatedAt,
		MaxUses:         inv.MaxUses,
		UsedCount:       inv.UsedCount,
		ExpiresAt:       inv.ExpiresAt,
		IsExpired:       IsExpired(inv, now),
		PerHourLimit:    inv.PerHourLimit,
		Permissions:     models.DecodePermissions(inv.PermissionsJSON),
		Remark:          inv.Remark,
		IsEnabled:       inv.IsEnabled,
	}
}

// randomCode 16 位字母数字。不追求密码学强度：撞码只会触发唯一索引冲突并重试
func randomCode(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out)
}
