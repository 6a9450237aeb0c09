package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"cafe-backend/entity"
	"cafe-backend/pkg/apperr"
	"cafe-backend/pkg/metrics"
	"cafe-backend/pkg/paging"
	"cafe-backend/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SupportNotifier receives committed changes to a support thread, e.g. to push
// them to connected websocket clients.
type SupportNotifier interface {
	MessagePosted(requestID uint, msg *entity.SupportMessage)
	StatusChanged(req *entity.SupportRequest)
}

type SupportService struct {
	DB       *gorm.DB
	Repo     *repository.SupportRepository
	Log      *zap.Logger
	Notifier SupportNotifier

	now func() time.Time
}

func NewSupportService(db *gorm.DB, repo *repository.SupportRepository, log *zap.Logger) *SupportService {
	return &SupportService{DB: db, Repo: repo, Log: log, now: time.Now}
}

type SupportRequestInput struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

type SupportThread struct {
	Request  *entity.SupportRequest  `json:"request"`
	Messages []entity.SupportMessage `json:"messages"`
}

func (s *SupportService) Create(ctx context.Context, actor Actor, in SupportRequestInput) (*entity.SupportRequest, error) {
	subject := strings.TrimSpace(in.Subject)
	description := strings.TrimSpace(in.Description)
	if subject == "" {
		return nil, apperr.Validation("subject", "Subject is required")
	}
	if len(subject) > 200 {
		return nil, apperr.Validation("subject", "Ensure this field has no more than 200 characters")
	}
	if description == "" {
		return nil, apperr.Validation("description", "Description is required")
	}
	req := &entity.SupportRequest{
		CustomerID:  actor.ID,
		Subject:     subject,
		Description: description,
		Status:      entity.SupportOpen,
	}
	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, err
	}
	metrics.RecordOperation("support_create", true)
	s.Log.Info("support request created", zap.Uint("id", req.ID), zap.String("user", actor.Username))
	return s.Repo.FindByID(ctx, req.ID)
}

func (s *SupportService) List(ctx context.Context, actor Actor, status entity.SupportStatus, p paging.Params) ([]entity.SupportRequest, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperr.Validation("status", "Invalid support status")
	}
	return s.Repo.List(ctx, repository.SupportFilter{CustomerID: actor.Scope(), Status: status}, p)
}

func canSee(actor Actor, req *entity.SupportRequest) bool {
	return actor.IsStaff || req.CustomerID == actor.ID || req.IsAssignedTo(actor.ID)
}

// Get loads a request the actor may see. Strangers get a permission error.
func (s *SupportService) Get(ctx context.Context, actor Actor, id uint) (*entity.SupportRequest, error) {
	req, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, req) {
		return nil, apperr.Permission("You don't have permission to view this support request")
	}
	return req, nil
}

func (s *SupportService) Thread(ctx context.Context, actor Actor, id uint) (*SupportThread, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	msgs, err := s.Repo.Messages(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SupportThread{Request: req, Messages: msgs}, nil
}

// UpdateDetails lets the owner edit subject and description while the request
// is still open.
func (s *SupportService) UpdateDetails(ctx context.Context, actor Actor, id uint, in SupportRequestInput) (*entity.SupportRequest, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.CustomerID != actor.ID {
		return nil, apperr.Permission("only the requester can edit the request")
	}
	if req.Status == entity.SupportClosed {
		return nil, apperr.Validation("status", "This support request is closed")
	}
	updates := map[string]any{}
	if v := strings.TrimSpace(in.Subject); v != "" {
		updates["subject"] = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		updates["description"] = v
	}
	if len(updates) == 0 {
		return req, nil
	}
	if err := s.Repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(ctx, id)
}

// ----- State machine -----

// Assign makes the acting staff member the owner of the request and marks
// it in progress.
func (s *SupportService) Assign(ctx context.Context, actor Actor, id uint) (*entity.SupportRequest, error) {
	if err := requireStaff(actor, "Only staff can assign support requests"); err != nil {
		return nil, err
	}
	staffID := actor.ID
	return s.guarded(ctx, actor, id, "assign",
		[]entity.SupportStatus{entity.SupportOpen, entity.SupportInProgress},
		map[string]any{"assigned_to_id": staffID, "status": entity.SupportInProgress})
}

// Resolve is allowed for any staff member or the assigned agent.
func (s *SupportService) Resolve(ctx context.Context, actor Actor, id uint) (*entity.SupportRequest, error) {
	req, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff && !req.IsAssignedTo(actor.ID) {
		return nil, apperr.Permission("Only staff or assigned agent can resolve support requests")
	}
	now := s.now()
	return s.guarded(ctx, actor, id, "resolve",
		[]entity.SupportStatus{entity.SupportOpen, entity.SupportInProgress},
		map[string]any{"status": entity.SupportResolved, "resolved_at": &now})
}

func (s *SupportService) Close(ctx context.Context, actor Actor, id uint) (*entity.SupportRequest, error) {
	if err := requireStaff(actor, "Only staff can close support requests"); err != nil {
		return nil, err
	}
	return s.guarded(ctx, actor, id, "close",
		[]entity.SupportStatus{entity.SupportOpen, entity.SupportInProgress, entity.SupportResolved},
		map[string]any{"status": entity.SupportClosed})
}

// SetStatus backs the staff status form. Moving to RESOLVED stamps
// resolved_at; moving away from it clears the stamp.
func (s *SupportService) SetStatus(ctx context.Context, actor Actor, id uint, to entity.SupportStatus) (*entity.SupportRequest, error) {
	if !to.Valid() {
		return nil, apperr.Validation("status", "Invalid support status")
	}
	req, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff && !req.IsAssignedTo(actor.ID) {
		return nil, apperr.Permission("You don't have permission to update this support request")
	}
	if req.Status == to {
		return req, nil
	}
	if !req.Status.CanTransitionTo(to) {
		return nil, apperr.Conflict("cannot move support request from " + string(req.Status) + " to " + string(to))
	}
	updates := map[string]any{"status": to}
	if to == entity.SupportResolved {
		now := s.now()
		updates["resolved_at"] = &now
	} else if req.Status == entity.SupportResolved {
		updates["resolved_at"] = nil
	}
	return s.guarded(ctx, actor, id, "status_"+strings.ToLower(string(to)), []entity.SupportStatus{req.Status}, updates)
}

func (s *SupportService) guarded(ctx context.Context, actor Actor, id uint, op string, from []entity.SupportStatus, updates map[string]any) (*entity.SupportRequest, error) {
	updates["updated_at"] = s.now()
	affected, err := s.Repo.UpdateGuard(s.DB.WithContext(ctx), id, from, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		req, err := s.Repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		metrics.RecordOperation("support_"+op, false)
		return nil, apperr.Conflict("support request is " + string(req.Status))
	}
	metrics.RecordOperation("support_"+op, true)
	req, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Log.Info("support request updated",
		zap.Uint("id", id), zap.String("op", op),
		zap.String("status", string(req.Status)), zap.String("by", actor.Username))
	if s.Notifier != nil {
		s.Notifier.StatusChanged(req)
	}
	return req, nil
}

// ----- Messages -----

// PostMessage appends to the thread. A reply from the customer on a RESOLVED
// request reopens it; staff replies never do. Any other status, CLOSED
// included, is left as it is.
func (s *SupportService) PostMessage(ctx context.Context, actor Actor, id uint, text string) (*entity.SupportMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("message", "Message cannot be empty")
	}

	var msg entity.SupportMessage
	var reopened bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req entity.SupportRequest
		if err := tx.First(&req, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Wrap(apperr.NotFound("support request"), err)
			}
			return err
		}
		if !canSee(actor, &req) {
			return apperr.Permission("You don't have permission to reply to this support request")
		}

		now := s.now()
		msg = entity.SupportMessage{SupportRequestID: req.ID, SenderID: actor.ID, Message: text}
		if err := s.Repo.CreateMessage(tx, &msg); err != nil {
			return err
		}

		updates := map[string]any{"updated_at": now}
		from := []entity.SupportStatus{req.Status}
		if req.CustomerID == actor.ID && req.Status == entity.SupportResolved {
			updates["status"] = entity.SupportOpen
			updates["resolved_at"] = nil
			reopened = true
		}
		affected, err := s.Repo.UpdateGuard(tx, req.ID, from, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Conflict("support request changed, reload and retry")
		}
		return nil
	})
	metrics.RecordOperation("support_message", err == nil)
	if err != nil {
		return nil, err
	}

	out, err := s.Repo.FindMessage(ctx, msg.ID, nil)
	if err != nil {
		return nil, err
	}
	if reopened {
		s.Log.Info("support request reopened by customer reply", zap.Uint("id", id), zap.String("user", actor.Username))
	}
	if s.Notifier != nil {
		s.Notifier.MessagePosted(id, out)
		if reopened {
			if req, err := s.Repo.FindByID(ctx, id); err == nil {
				s.Notifier.StatusChanged(req)
			}
		}
	}
	return out, nil
}

func (s *SupportService) ListMessages(ctx context.Context, actor Actor, requestID uint, p paging.Params) ([]entity.SupportMessage, int64, error) {
	return s.Repo.ListMessages(ctx, actor.Scope(), requestID, p)
}

func (s *SupportService) GetMessage(ctx context.Context, actor Actor, id uint) (*entity.SupportMessage, error) {
	return s.Repo.FindMessage(ctx, id, actor.Scope())
}

func (s *SupportService) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := requireStaff(actor, "only staff can delete support requests"); err != nil {
		return err
	}
	if _, err := s.Repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, id)
}
