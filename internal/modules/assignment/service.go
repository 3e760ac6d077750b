package assignment

import (
	"context"
	"errors"
	"strings"

	"asesoria/internal/domain"
	"asesoria/internal/repository"

	"gorm.io/gorm"
)

const (
	ReasonSpecialization = "specialization"
	ReasonBusinessType   = "business_type"
	ReasonAvailability   = "availability"
)

// Service selects an advisor for a client: greedy least-loaded over the most
// specific non-empty candidate pool.
type Service struct {
	clients       ClientRepositoryInterface
	advisors      AdvisorPoolInterface
	relationships RelationshipRepositoryInterface
	notifications NotificationSender
	loggerf       func(format string, args ...interface{})
}

func NewService(
	clients ClientRepositoryInterface,
	advisors AdvisorPoolInterface,
	relationships RelationshipRepositoryInterface,
	notifications NotificationSender,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		clients:       clients,
		advisors:      advisors,
		relationships: relationships,
		notifications: notifications,
		loggerf:       loggerf,
	}
}

type candidate struct {
	advisor repository.ActiveAdvisor
	count   int
}

// Assign picks the advisor, persists the relationship, updates the client's
// advisor reference and fires two best-effort notifications. Notification
// failures never roll the assignment back.
//
// The precondition check (client has no advisor yet) and the write are not
// one atomic step; two concurrent calls for the same client can both pass
// the check.
func (s *Service) Assign(ctx context.Context, req AssignRequest) (*AssignResult, error) {
	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.AssignedAdvisorID != nil {
		return nil, ErrAlreadyAssigned
	}

	advisors, err := s.advisors.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.relationships.CountActiveByAdvisor(ctx)
	if err != nil {
		return nil, err
	}

	// Advisors at capacity never enter the pool.
	pool := make([]candidate, 0, len(advisors))
	for _, a := range advisors {
		count := counts[a.UserID]
		if count >= a.MaxClients {
			continue
		}
		pool = append(pool, candidate{advisor: a, count: count})
	}
	if len(pool) == 0 {
		return nil, ErrNoAdvisorsAvailable
	}

	// Each narrowing step only applies when it leaves a non-empty pool, so
	// specialization and business type pick the pool to load-balance over,
	// they never override the least-loaded rule.
	reason := ReasonAvailability
	if spec := strings.TrimSpace(req.Specialization); spec != "" {
		if narrowed := withSpecialization(pool, spec); len(narrowed) > 0 {
			pool = narrowed
			reason = ReasonSpecialization
		}
	} else if cats := categoriesForBusinessType(req.BusinessType); len(cats) > 0 {
		if narrowed := withAnySpecialization(pool, cats); len(narrowed) > 0 {
			pool = narrowed
			reason = ReasonBusinessType
		}
	}

	// Least loaded wins; ties go to the first encountered.
	chosen := pool[0]
	for _, c := range pool[1:] {
		if c.count < chosen.count {
			chosen = c
		}
	}

	rel := &domain.ClientAdvisorRelationship{
		ClientID:  client.ID,
		AdvisorID: chosen.advisor.UserID,
		Type:      domain.RelationshipPrimary,
		Status:    domain.RelationshipActive,
	}
	if err := s.relationships.Create(ctx, rel); err != nil {
		return nil, err
	}

	if err := s.clients.SetAssignedAdvisor(ctx, client.ID, chosen.advisor.UserID); err != nil {
		return nil, err
	}

	if err := s.notifications.NotifyAdvisorAssigned(ctx, client.ID, rel.ID, chosen.advisor.Name); err != nil {
		s.loggerf("level=warn msg=client notification failed client_id=%d err=%v", client.ID, err)
	}
	if err := s.notifications.NotifyNewClient(ctx, chosen.advisor.UserID, rel.ID, client.Name); err != nil {
		s.loggerf("level=warn msg=advisor notification failed advisor_id=%d err=%v", chosen.advisor.UserID, err)
	}

	return &AssignResult{
		Relationship: rel,
		Advisor: AdvisorSummary{
			ID:              chosen.advisor.UserID,
			Name:            chosen.advisor.Name,
			Specializations: chosen.advisor.Specializations,
			CurrentClients:  chosen.count,
		},
		AssignmentReason: reason,
	}, nil
}

// GetClientRelationship returns the client's active primary relationship.
func (s *Service) GetClientRelationship(ctx context.Context, clientID int64) (*domain.ClientAdvisorRelationship, error) {
	rel, err := s.relationships.GetActiveByClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAssigned
		}
		return nil, err
	}
	return rel, nil
}

// ListAdvisorClients returns the advisor's relationships with each client's
// public details. Clients that vanished mid-read are skipped.
func (s *Service) ListAdvisorClients(ctx context.Context, advisorID int64) ([]AdvisorClient, error) {
	rels, err := s.relationships.GetByAdvisor(ctx, advisorID)
	if err != nil {
		return nil, err
	}

	out := make([]AdvisorClient, 0, len(rels))
	for _, rel := range rels {
		client, err := s.clients.GetByID(ctx, rel.ClientID)
		if err != nil {
			s.loggerf("level=warn msg=client lookup failed client_id=%d err=%v", rel.ClientID, err)
			continue
		}
		out = append(out, AdvisorClient{
			Relationship: rel,
			Client: ClientSummary{
				ID:    client.ID,
				Name:  client.Name,
				Email: client.Email,
			},
		})
	}
	return out, nil
}

func withSpecialization(pool []candidate, spec string) []candidate {
	out := make([]candidate, 0, len(pool))
	for _, c := range pool {
		if hasSpecialization(c.advisor.Specializations, spec) {
			out = append(out, c)
		}
	}
	return out
}

func withAnySpecialization(pool []candidate, specs []string) []candidate {
	out := make([]candidate, 0, len(pool))
	for _, c := range pool {
		for _, spec := range specs {
			if hasSpecialization(c.advisor.Specializations, spec) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

func hasSpecialization(specializations []string, spec string) bool {
	for _, s := range specializations {
		if strings.EqualFold(s, spec) {
			return true
		}
	}
	return false
}

// categoriesForBusinessType maps a client's business type to preferred
// advisor specializations. Unknown types keep the full pool.
func categoriesForBusinessType(businessType string) []string {
	switch strings.ToLower(strings.TrimSpace(businessType)) {
	case "autonomo", "autónomo":
		return []string{"IRPF", "Autónomos"}
	case "sl", "sa":
		return []string{"Sociedades", "IVA"}
	default:
		return nil
	}
}
