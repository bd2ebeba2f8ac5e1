package service

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/jwt"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var ErrInvalidCredentials = errors.New("用户名或密码错误")

type AuthService struct {
	adminRepo *repository.AdminRepository
	jwtCfg    config.JWTConfig
}

func NewAuthService(adminRepo *repository.AdminRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{adminRepo: adminRepo, jwtCfg: jwtCfg}
}

// Login 管理员登录，校验通过后签发 JWT
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(admin.ID, s.jwtCfg.Secret, s.jwtCfg.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Token: token, Username: admin.Username}, nil
}

// Bootstrap 首次启动时按配置写入初始管理员账号
func (s *AuthService) Bootstrap(adminCfg config.AdminConfig) error {
	if adminCfg.Username == "" || adminCfg.Password == "" {
		return nil
	}

	count, err := s.adminRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminCfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.Admin{
		Username:     adminCfg.Username,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return err
	}

	log.Printf("Initial admin account created: %s", admin.Username)
	return nil
}
