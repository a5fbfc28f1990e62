package hospital

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/notify"
)

// Notifier is the slice of the notification engine the service needs.
type Notifier interface {
	SendTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*notify.Notification, error)
}

type Service struct {
	repo     Repository
	issuer   *auth.TokenIssuer
	notifier Notifier
	logger   zerolog.Logger
}

func NewService(repo Repository, issuer *auth.TokenIssuer, notifier Notifier, logger zerolog.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, notifier: notifier, logger: logger}
}

// Register creates an unapproved portal account. The hospital cannot sign in
// until an admin approves it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Hospital, error) {
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
	if strings.TrimSpace(in.Phone) == "" {
		return nil, httpx.Validation("phone is required")
	}
	if strings.TrimSpace(in.City) == "" {
		return nil, httpx.Validation("city is required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, httpx.Internal(err)
	}

	h := &Hospital{
		ID:           uuid.New(),
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		City:         in.City,
		Address:      in.Address,
		IsApproved:   false,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Login authenticates portal credentials. Unapproved hospitals are refused
// with a pending-approval message even when the password is correct.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		return nil, httpx.Validation("email and password are required")
	}

	h, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if httpx.IsKind(err, httpx.KindNotFound) {
			return nil, httpx.Unauthenticated("invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(h.PasswordHash, creds.Password) {
		return nil, httpx.Unauthenticated("invalid email or password")
	}
	if !h.IsApproved {
		return nil, httpx.Permission("account pending approval")
	}

	token, err := s.issuer.IssueHospital(h.ID, h.Name)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return &Session{Token: token, Hospital: h}, nil
}

// Approve marks a hospital approved and notifies it by email.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.IsApproved {
		return h, nil
	}
	if err := s.repo.SetApproved(ctx, id, true); err != nil {
		return nil, err
	}
	h.IsApproved = true

	if s.notifier != nil {
		if _, err := s.notifier.SendTemplate(ctx, notify.TplHospitalApproved,
			map[string]string{"hospital": h.Name}, h.Email); err != nil {
			s.logger.Warn().Err(err).Str("hospital_id", id.String()).Msg("approval notification failed")
		}
	}
	return h, nil
}

// CreateByAdmin registers a hospital from the dashboard. Admin-created
// hospitals are approved immediately but have no portal password until the
// hospital resets it.
func (s *Service) CreateByAdmin(ctx context.Context, h *Hospital) error {
	h.Name = strings.TrimSpace(h.Name)
	h.Email = strings.ToLower(strings.TrimSpace(h.Email))
	if h.Name == "" {
		return httpx.Validation("name is required")
	}
	if h.Email == "" || !strings.Contains(h.Email, "@") {
		return httpx.Validation("a valid email is required")
	}
	if h.NeededBloodGroup != nil && !h.NeededBloodGroup.Valid() {
		return httpx.Validation("invalid blood group: %s", *h.NeededBloodGroup)
	}
	h.ID = uuid.New()
	h.IsApproved = true
	return s.repo.Create(ctx, h)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, h *Hospital) error {
	if h.NeededBloodGroup != nil && !h.NeededBloodGroup.Valid() {
		return httpx.Validation("invalid blood group: %s", *h.NeededBloodGroup)
	}
	return s.repo.Update(ctx, h)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, approved *bool, limit, offset int) ([]*Hospital, int, error) {
	return s.repo.List(ctx, approved, limit, offset)
}
