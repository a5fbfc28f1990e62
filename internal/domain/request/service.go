package request

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/notify"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
	"github.com/bloodlink/bloodlink/pkg/blood"
)

// StockWithdrawer debits inventory during fulfillment. The inventory service
// implements it.
type StockWithdrawer interface {
	Withdraw(ctx context.Context, group blood.Group, units int) error
}

// Notifier is the slice of the notification engine the service needs.
type Notifier interface {
	SendTemplate(ctx context.Context, templateID string, data map[string]string, recipient string) (*notify.Notification, error)
}

// TxRunner runs fn inside a database transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// PassthroughTx runs fn without a transaction.
func PassthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	repo      Repository
	stock     StockWithdrawer
	inTx      TxRunner
	notifier  Notifier
	publisher ws.Publisher
	logger    zerolog.Logger
}

func NewService(repo Repository, stock StockWithdrawer, inTx TxRunner,
	notifier Notifier, publisher ws.Publisher, logger zerolog.Logger) *Service {
	return &Service{repo: repo, stock: stock, inTx: inTx, notifier: notifier, publisher: publisher, logger: logger}
}

// Create files a new request for the authenticated hospital. It always
// starts pending.
func (s *Service) Create(ctx context.Context, hospitalID uuid.UUID, req *Request) error {
	if !req.BloodGroup.Valid() {
		return httpx.Validation("invalid blood group: %s", req.BloodGroup)
	}
	if req.Quantity <= 0 {
		return httpx.Validation("quantity must be positive")
	}
	if req.Urgency == "" {
		req.Urgency = blood.UrgencyRoutine
	}
	if !req.Urgency.Valid() {
		return httpx.Validation("invalid urgency: %s", req.Urgency)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return httpx.Validation("reason is required")
	}

	req.ID = uuid.New()
	req.HospitalID = hospitalID
	req.Status = StatusPending
	if err := s.repo.Create(ctx, req); err != nil {
		return err
	}

	s.publish(ctx, "request.created", ws.TopicAdmin, req)
	return nil
}

// Get returns a request, restricted to its owner for hospital sessions.
func (s *Service) Get(ctx context.Context, id uuid.UUID, hospitalID uuid.UUID) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hospitalID != uuid.Nil && req.HospitalID != hospitalID {
		return nil, httpx.Permission("request belongs to another hospital")
	}
	return req, nil
}

// Respond approves or rejects a pending request and notifies the hospital.
func (s *Service) Respond(ctx context.Context, id uuid.UUID, approve bool, notes, respondedBy string) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	to := StatusRejected
	if approve {
		to = StatusApproved
	}
	if !CanTransition(req.Status, to) {
		return nil, httpx.InvalidState("cannot move request from %s to %s", req.Status, to)
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	moved, err := s.repo.TransitionStatus(ctx, id, req.Status, to, notesPtr, &respondedBy)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, httpx.InvalidState("request is no longer %s", req.Status)
	}
	req.Status = to
	req.AdminNotes = notesPtr
	req.RespondedBy = &respondedBy

	s.notifyDecision(ctx, req)
	s.publish(ctx, "request."+to, ws.HospitalTopic(req.HospitalID), req)
	return req, nil
}

// Fulfill dispatches units against an approved request. The stock debit and
// status change commit together; a failed debit surfaces as an
// insufficient-stock conflict and leaves the request approved.
func (s *Service) Fulfill(ctx context.Context, id uuid.UUID, respondedBy string) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(req.Status, StatusFulfilled) {
		return nil, httpx.InvalidState("cannot fulfill a %s request", req.Status)
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.stock.Withdraw(ctx, req.BloodGroup, req.Quantity); err != nil {
			return err
		}
		moved, err := s.repo.TransitionStatus(ctx, id, StatusApproved, StatusFulfilled, nil, &respondedBy)
		if err != nil {
			return err
		}
		if !moved {
			return httpx.InvalidState("request is no longer approved")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	req.Status = StatusFulfilled
	req.RespondedBy = &respondedBy

	if s.notifier != nil && req.HospitalEmail != "" {
		if _, err := s.notifier.SendTemplate(ctx, notify.TplRequestFulfilled, map[string]string{
			"hospital":    req.HospitalName,
			"quantity":    strconv.Itoa(req.Quantity),
			"blood_group": string(req.BloodGroup),
		}, req.HospitalEmail); err != nil {
			s.logger.Warn().Err(err).Str("request_id", id.String()).Msg("fulfillment notification failed")
		}
	}
	s.publish(ctx, "request.fulfilled", ws.HospitalTopic(req.HospitalID), req)
	return req, nil
}

// Cancel withdraws a pending request. Only the owning hospital may cancel.
func (s *Service) Cancel(ctx context.Context, id, hospitalID uuid.UUID) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.HospitalID != hospitalID {
		return nil, httpx.Permission("request belongs to another hospital")
	}
	if !CanTransition(req.Status, StatusCancelled) {
		return nil, httpx.InvalidState("cannot cancel a %s request", req.Status)
	}

	moved, err := s.repo.TransitionStatus(ctx, id, req.Status, StatusCancelled, nil, nil)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, httpx.InvalidState("request is no longer %s", req.Status)
	}
	req.Status = StatusCancelled

	s.publish(ctx, "request.cancelled", ws.TopicAdmin, req)
	return req, nil
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]*Request, int, error) {
	if filter.Status != "" {
		switch filter.Status {
		case StatusPending, StatusApproved, StatusRejected, StatusFulfilled, StatusCancelled:
		default:
			return nil, 0, httpx.Validation("invalid status filter: %s", filter.Status)
		}
	}
	if filter.Urgency != "" && !filter.Urgency.Valid() {
		return nil, 0, httpx.Validation("invalid urgency filter: %s", filter.Urgency)
	}
	return s.repo.List(ctx, filter, limit, offset)
}

// Stats aggregates the whole queue; StatsFor scopes to one hospital's requests.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx, uuid.Nil)
}

func (s *Service) StatsFor(ctx context.Context, hospitalID uuid.UUID) (*Stats, error) {
	if hospitalID == uuid.Nil {
		return nil, httpx.Validation("hospital id is required")
	}
	return s.repo.Stats(ctx, hospitalID)
}

func (s *Service) notifyDecision(ctx context.Context, req *Request) {
	if s.notifier == nil || req.HospitalEmail == "" {
		return
	}
	notes := ""
	if req.AdminNotes != nil {
		notes = *req.AdminNotes
	}
	if _, err := s.notifier.SendTemplate(ctx, notify.TplRequestDecision, map[string]string{
		"hospital":    req.HospitalName,
		"quantity":    strconv.Itoa(req.Quantity),
		"blood_group": string(req.BloodGroup),
		"decision":    req.Status,
		"notes":       notes,
	}, req.HospitalEmail); err != nil {
		s.logger.Warn().Err(err).Str("request_id", req.ID.String()).Msg("decision notification failed")
	}
}

func (s *Service) publish(ctx context.Context, eventType, topic string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ws.NewEvent(eventType, topic, payload)); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish failed")
	}
}
