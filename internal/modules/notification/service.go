package notification

import (
	"context"
	"errors"
	"fmt"
)

var ErrMissingFields = errors.New("user_id, title, message and type are required")

type repo interface {
	Create(ctx context.Context, n *Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type broadcaster interface {
	SendToUser(userID int64, message interface{}) bool
}

type Service struct {
	repo repo
	hub  broadcaster
}

func NewService(repo repo, hub broadcaster) *Service {
	return &Service{repo: repo, hub: hub}
}

// Send validates, persists and broadcasts a notification. The broadcast is
// best-effort: offline users pick the row up on next fetch.
func (s *Service) Send(ctx context.Context, n *Notification) error {
	if n.UserID == 0 || n.Title == "" || n.Message == "" || n.Type == "" {
		return ErrMissingFields
	}
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.hub.SendToUser(n.UserID, map[string]any{
		"event":        "notification",
		"notification": n,
	})
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyAdvisorAssigned(ctx context.Context, clientUserID, relationshipID int64, advisorName string) error {
	relID := relationshipID
	return s.Send(ctx, &Notification{
		UserID:     clientUserID,
		Type:       TypeAdvisorAssigned,
		Title:      "Asesor asignado",
		Message:    fmt.Sprintf("Se te ha asignado el asesor %s. Ya puedes contactar con él desde tu panel.", advisorName),
		EntityType: "relationship",
		EntityID:   &relID,
		ActionURL:  "/dashboard/advisor",
		Priority:   PriorityHigh,
	})
}

func (s *Service) NotifyNewClient(ctx context.Context, advisorUserID, relationshipID int64, clientName string) error {
	relID := relationshipID
	return s.Send(ctx, &Notification{
		UserID:     advisorUserID,
		Type:       TypeNewClient,
		Title:      "Nuevo cliente",
		Message:    fmt.Sprintf("Se te ha asignado un nuevo cliente: %s.", clientName),
		EntityType: "relationship",
		EntityID:   &relID,
		ActionURL:  "/advisor/clients",
		Priority:   PriorityNormal,
	})
}
