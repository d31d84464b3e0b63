package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"petstore-user/internal/domain"
	"petstore-user/pkg/utils"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidUser = errors.New("invalid user")
)

// ReadMode 决定读写路径是否真正使用存储
type ReadMode string

const (
	// ModeStore 按 username 查存储，创建时写入存储
	ModeStore ReadMode = "store"
	// ModeStub 脚手架原始行为：读返回固定记录，写不落存储
	ModeStub ReadMode = "stub"
)

func ParseReadMode(s string) (ReadMode, error) {
	switch m := ReadMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeStore:
		return ModeStore, nil
	case ModeStub:
		return ModeStub, nil
	default:
		return "", fmt.Errorf("unknown user read mode %q", s)
	}
}

type Options struct {
	Mode       ReadMode
	BcryptCost int
	IDGen      func() int64 // 默认 utils.NewID
}

// CreateInput 创建入参；ID 为客户端传入的值（可能没有），只用于避免重号
type CreateInput struct {
	ID         *int64
	Username   string
	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Password   string
	UserStatus int32
}

// StubUser 脚手架模式下 GET 返回的固定记录
type StubUser struct {
	domain.User
	Password string
}

type UserService struct {
	store domain.UserStore
	opt   Options
}

func NewUserService(store domain.UserStore, opt Options) *UserService {
	if opt.Mode == "" {
		opt.Mode = ModeStore
	}
	if opt.IDGen == nil {
		opt.IDGen = utils.NewID
	}
	return &UserService{store: store, opt: opt}
}

func (s *UserService) Mode() ReadMode { return s.opt.Mode }

// GetByName 仅 store 模式可用；stub 模式请用 Stub
func (s *UserService) GetByName(_ context.Context, username string) (domain.User, error) {
	if username == "" {
		return domain.User{}, ErrNotFound
	}
	u, ok := s.store.Get(username)
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

// Stub 不查存储，原样回显 username
func (s *UserService) Stub(username string) StubUser {
	return StubUser{
		User: domain.User{
			ID:         1,
			Username:   username,
			FirstName:  "john",
			LastName:   "doe",
			Email:      "john.doe@email.com",
			Phone:      "647-123-4567",
			UserStatus: 1,
		},
		Password: "password",
	}
}

// Create 分配新 ID（忽略客户端 ID），store 模式下写入存储
func (s *UserService) Create(_ context.Context, in CreateInput) (domain.User, error) {
	if in.Username == "" {
		return domain.User{}, fmt.Errorf("%w: username is required", ErrInvalidUser)
	}

	u := domain.User{
		ID:         s.newID(in.ID),
		Username:   in.Username,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		UserStatus: in.UserStatus,
	}
	if in.Password != "" {
		h, err := utils.HashPassword(in.Password, s.opt.BcryptCost)
		if err != nil {
			// 只有超长密码算客户端问题；cost 非法等属于服务端配置错误
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidUser, err)
			}
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = h
	}

	if s.opt.Mode == ModeStore {
		s.store.Put(u)
	}
	return u, nil
}

func (s *UserService) newID(supplied *int64) int64 {
	for {
		id := s.opt.IDGen()
		if supplied == nil || id != *supplied {
			return id
		}
	}
}
