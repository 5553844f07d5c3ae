package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"sync"

	"github.com/realtyblog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrCredentialsMissing = errors.New("username and password are required")
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// 用户不存在时也执行一次 bcrypt 比较，避免通过响应时间枚举用户名。
func timingDummyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("realtyblog-timing-dummy"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// AdminService authenticates and provisions admin accounts.
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates an AdminService instance.
func NewAdminService(gdb *gorm.DB) *AdminService {
	return &AdminService{db: gdb}
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// Authenticate verifies credentials. Rows still holding a plaintext password
// are accepted once and rewritten with a bcrypt hash.
func (s *AdminService) Authenticate(ctx context.Context, username, password string) (*db.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsMissing
	}

	var user db.AdminUser
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(timingDummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if isBcryptHash(user.Password) {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
		return &user, nil
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&db.AdminUser{}).
			Where("id = ? AND password = ?", user.ID, user.Password).
			Update("password", hashed).Error
	})
	if err != nil {
		return nil, err
	}
	user.Password = hashed
	return &user, nil
}

// Get fetches an admin by id.
func (s *AdminService) Get(ctx context.Context, id uint) (*db.AdminUser, error) {
	var user db.AdminUser
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser 若提供的用户名与密码均非空且账号不存在，则创建一个 bcrypt 哈希的管理员。
func (s *AdminService) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.AdminUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.db.WithContext(ctx).Create(&db.AdminUser{Username: username, Password: hashed}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// SetPassword replaces the password of an existing admin.
func (s *AdminService) SetPassword(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return ErrCredentialsMissing
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&db.AdminUser{}).Where("username = ?", username).Update("password", hashed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}
