package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"whosbook/internal/core/authz"
	"whosbook/internal/domain"
	"whosbook/pkg/utils"
)

type SignupInput struct {
	Email        string `json:"email" validate:"required,email,max=191"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	Nickname     string `json:"nickname" validate:"required,min=2,max=64"`
	Introduction string `json:"introduction" validate:"max=500"`
	ImageURL     string `json:"image" validate:"omitempty,url,max=512"`
}

// MemberProfile 个人主页；Subscribed 是查看者视角
type MemberProfile struct {
	domain.Member
	Subscribed bool `json:"subscribed"`
}

type MemberService struct {
	tx      Transactor
	members domain.MemberRepository
	subs    domain.SubscribeRepository
	tokens  TokenIssuer
	policy  AdminPolicy
	log     *zap.Logger
}

func NewMemberService(tx Transactor, members domain.MemberRepository, subs domain.SubscribeRepository,
	tokens TokenIssuer, policy AdminPolicy, log *zap.Logger) *MemberService {
	return &MemberService{tx: tx, members: members, subs: subs, tokens: tokens, policy: policy, log: log}
}

func (s *MemberService) ByEmail(ctx context.Context, email string) (*domain.Member, error) {
	m, err := s.members.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find member by email: %w", err)
	}
	if m == nil {
		return nil, domain.ErrMemberNotFound
	}
	if m.IsDeleted() {
		return nil, domain.ErrMemberHasBeenDeleted
	}
	return m, nil
}

func (s *MemberService) ByID(ctx context.Context, id uint64) (*domain.Member, error) {
	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	if m == nil || m.IsDeleted() {
		return nil, domain.ErrMemberNotFound
	}
	return m, nil
}

func (s *MemberService) Register(ctx context.Context, in SignupInput) (*domain.Member, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Nickname = strings.TrimSpace(in.Nickname)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.ErrInvalidInput.WithCause(err)
	}

	m := &domain.Member{
		Email:        in.Email,
		Nickname:     in.Nickname,
		PasswordHash: hash,
		Introduction: in.Introduction,
		ImageURL:     in.ImageURL,
		Role:         domain.RoleUser,
		Status:       domain.MemberActive,
	}
	err = s.tx.Within(ctx, func(ctx context.Context) error {
		if exist, err := s.members.FindByEmail(ctx, m.Email); err != nil {
			return err
		} else if exist != nil {
			return domain.ErrMemberExists
		}
		if exist, err := s.members.FindByNickname(ctx, m.Nickname); err != nil {
			return err
		} else if exist != nil {
			return domain.ErrNicknameExists
		}
		return s.members.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	count(evMemberJoined)
	s.log.Info("member joined", zap.Uint64("memberId", m.ID), zap.String("nickname", m.Nickname))
	return m, nil
}

// Login 邮箱不存在与密码错误返回同一个错误
func (s *MemberService) Login(ctx context.Context, email, password string) (string, *domain.Member, error) {
	m, err := s.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrMemberNotFound):
		return "", nil, domain.ErrInvalidCredentials
	default:
		return "", nil, err
	}
	if !utils.CheckPassword(password, m.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(m)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, m, nil
}

func (s *MemberService) Profile(ctx context.Context, viewer domain.Identity, memberID uint64) (*MemberProfile, error) {
	m, err := s.ByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	p := &MemberProfile{Member: *m}
	if !viewer.IsAnonymous() && viewer.MemberID != m.ID {
		if p.Subscribed, err = s.subs.Exists(ctx, viewer.MemberID, m.ID); err != nil {
			return nil, fmt.Errorf("check subscribe: %w", err)
		}
	}
	return p, nil
}

// Withdraw 注销自己（软删）
func (s *MemberService) Withdraw(ctx context.Context, id domain.Identity) error {
	return s.tx.Within(ctx, func(ctx context.Context) error {
		m, err := s.ByEmail(ctx, id.Email)
		if err != nil {
			return err
		}
		if err := s.members.UpdateStatus(ctx, m.ID, domain.MemberDeleted); err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
		count(evMemberDeleted)
		s.log.Info("member withdrew", zap.Uint64("memberId", m.ID))
		return nil
	})
}

func (s *MemberService) authorize(id domain.Identity, action string) error {
	ok, err := s.policy.Allow(id, authz.ObjectMembers, action)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	if !ok {
		return domain.ErrMemberNoHaveAuthorization
	}
	return nil
}

// List 管理端成员列表（含已注销）
func (s *MemberService) List(ctx context.Context, id domain.Identity, q string, page domain.PageRequest) (domain.Page[domain.Member], error) {
	if err := s.authorize(id, authz.ActRead); err != nil {
		return domain.Page[domain.Member]{}, err
	}
	ms, total, err := s.members.List(ctx, q, page)
	if err != nil {
		return domain.Page[domain.Member]{}, fmt.Errorf("list members: %w", err)
	}
	return domain.NewPage(ms, page, total), nil
}

// Ban 管理员封禁成员；已注销的成员视为不存在
func (s *MemberService) Ban(ctx context.Context, id domain.Identity, memberID uint64) error {
	if err := s.authorize(id, authz.ActWrite); err != nil {
		return err
	}
	return s.tx.Within(ctx, func(ctx context.Context) error {
		m, err := s.ByID(ctx, memberID)
		if err != nil {
			return err
		}
		if err := s.members.UpdateStatus(ctx, m.ID, domain.MemberDeleted); err != nil {
			return fmt.Errorf("ban member: %w", err)
		}
		count(evMemberBanned)
		s.log.Warn("member banned", zap.Uint64("memberId", m.ID), zap.String("by", id.Email))
		return nil
	})
}
