package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
)

type mockRepo struct {
	users map[uuid.UUID]*AdminUser
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*AdminUser)}
}

func (m *mockRepo) Create(_ context.Context, u *AdminUser) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return httpx.Validation("a user with this email already exists")
		}
	}
	copied := *u
	m.users[u.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*AdminUser, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, httpx.NotFound("user not found")
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*AdminUser, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, httpx.NotFound("user not found")
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*AdminUser, int, error) {
	var items []*AdminUser
	for _, u := range m.users {
		items = append(items, u)
	}
	return items, len(items), nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return httpx.NotFound("user not found")
	}
	delete(m.users, id)
	return nil
}

func newTestService() (*Service, *mockRepo, *auth.TokenIssuer) {
	repo := newMockRepo()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewService(repo, issuer), repo, issuer
}

func TestLogin(t *testing.T) {
	svc, _, issuer := newTestService()

	u, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name: "Manager", Email: "admin@bloodbank.com", Password: "admin-secret-1", Role: auth.RoleManager,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	session, err := svc.Login(context.Background(), Credentials{
		Email: "admin@bloodbank.com", Password: "admin-secret-1",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := issuer.Verify(session.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Actor != auth.ActorAdmin {
		t.Errorf("actor = %s, want admin", claims.Actor)
	}
	if claims.Role != auth.RoleManager {
		t.Errorf("role = %s, want manager", claims.Role)
	}
	if claims.Subject != u.ID.String() {
		t.Errorf("subject = %s, want %s", claims.Subject, u.ID)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name: "Staff", Email: "staff@bloodbank.com", Password: "staff-secret-1", Role: auth.RoleStaff,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err := svc.Login(context.Background(), Credentials{Email: "staff@bloodbank.com", Password: "nope"})
	if !httpx.IsKind(err, httpx.KindUnauthenticated) {
		t.Errorf("wrong password: err = %v, want unauthenticated", err)
	}

	_, err = svc.Login(context.Background(), Credentials{Email: "ghost@bloodbank.com", Password: "nope"})
	if !httpx.IsKind(err, httpx.KindUnauthenticated) {
		t.Errorf("unknown email: err = %v, want unauthenticated", err)
	}
}

func TestCreateUser_RejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name: "X", Email: "x@bloodbank.com", Password: "longenough", Role: "superuser",
	})
	if !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestDeleteUser_SelfDeleteBlocked(t *testing.T) {
	svc, _, _ := newTestService()

	u, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name: "Manager", Email: "admin@bloodbank.com", Password: "admin-secret-1", Role: auth.RoleManager,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err = svc.DeleteUser(context.Background(), u.ID, u.ID)
	if !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}
