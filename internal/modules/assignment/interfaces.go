package assignment

import (
	"context"

	"asesoria/internal/domain"
	"asesoria/internal/repository"
)

type ClientRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetAssignedAdvisor(ctx context.Context, clientID, advisorID int64) error
}

type AdvisorPoolInterface interface {
	GetActive(ctx context.Context) ([]repository.ActiveAdvisor, error)
}

type RelationshipRepositoryInterface interface {
	Create(ctx context.Context, rel *domain.ClientAdvisorRelationship) error
	CountActiveByAdvisor(ctx context.Context) (map[int64]int, error)
	GetActiveByClient(ctx context.Context, clientID int64) (*domain.ClientAdvisorRelationship, error)
	GetByAdvisor(ctx context.Context, advisorID int64) ([]domain.ClientAdvisorRelationship, error)
}

type NotificationSender interface {
	NotifyAdvisorAssigned(ctx context.Context, clientUserID, relationshipID int64, advisorName string) error
	NotifyNewClient(ctx context.Context, advisorUserID, relationshipID int64, clientName string) error
}
