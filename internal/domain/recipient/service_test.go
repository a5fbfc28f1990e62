package recipient

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

type mockRepo struct {
	recipients map[uuid.UUID]*Recipient
}

func newMockRepo() *mockRepo {
	return &mockRepo{recipients: make(map[uuid.UUID]*Recipient)}
}

func (m *mockRepo) Create(_ context.Context, r *Recipient) error {
	copied := *r
	m.recipients[r.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Recipient, error) {
	r, ok := m.recipients[id]
	if !ok {
		return nil, httpx.NotFound("recipient not found")
	}
	return r, nil
}

func (m *mockRepo) Update(_ context.Context, r *Recipient) error {
	if _, ok := m.recipients[r.ID]; !ok {
		return httpx.NotFound("recipient not found")
	}
	copied := *r
	m.recipients[r.ID] = &copied
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.recipients[id]; !ok {
		return httpx.NotFound("recipient not found")
	}
	delete(m.recipients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Recipient, int, error) {
	var items []*Recipient
	for _, r := range m.recipients {
		items = append(items, r)
	}
	return items, len(items), nil
}

func TestRegister_DefaultsQuantity(t *testing.T) {
	svc := NewService(newMockRepo())

	rec := &Recipient{
		Name:       "Kavita Gupta",
		Age:        45,
		Sex:        "F",
		Phone:      "+91-9000000001",
		BloodGroup: blood.BNegative,
		City:       "Delhi",
	}
	if err := svc.Register(context.Background(), rec); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Quantity != 1 {
		t.Errorf("quantity = %d, want default 1", rec.Quantity)
	}
	if rec.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestRegister_RejectsInvalidGroup(t *testing.T) {
	svc := NewService(newMockRepo())

	rec := &Recipient{
		Name: "X", Age: 20, Sex: "M", Phone: "1", BloodGroup: "ZZ", City: "Pune",
	}
	err := svc.Register(context.Background(), rec)
	if !httpx.IsKind(err, httpx.KindValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Delete(context.Background(), uuid.New())
	if !httpx.IsKind(err, httpx.KindNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}
