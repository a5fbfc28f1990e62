package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
}

func NewService(repo Repository, issuer *auth.TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Login authenticates dashboard credentials and issues an admin token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return nil, httpx.Validation("email and password are required")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if httpx.IsKind(err, httpx.KindNotFound) {
			return nil, httpx.Unauthenticated("invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, creds.Password) {
		return nil, httpx.Unauthenticated("invalid email or password")
	}

	token, err := s.issuer.IssueAdmin(u.ID, u.Name, u.Role)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return &Session{Token: token, User: u}, nil
}

// CreateUser adds a dashboard user. Only managers reach this path.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*AdminUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, httpx.Validation("name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, httpx.Validation("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, httpx.Validation("password must be at least 8 characters")
	}
	if in.Role != auth.RoleManager && in.Role != auth.RoleStaff {
		return nil, httpx.Validation("role must be manager or staff")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, httpx.Internal(err)
	}

	u := &AdminUser{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*AdminUser, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// DeleteUser removes a dashboard user. A manager cannot delete themselves so
// the system always keeps at least the acting manager.
func (s *Service) DeleteUser(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return httpx.Validation("cannot delete your own account")
	}
	return s.repo.Delete(ctx, id)
}
