package assignment

import "asesoria/internal/domain"

type AssignRequest struct {
	ClientID       int64  `json:"client_id" binding:"required"`
	BusinessType   string `json:"business_type"`
	Specialization string `json:"specialization"`
}

// AdvisorSummary reports the chosen advisor with the load they carried
// before this assignment.
type AdvisorSummary struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Specializations []string `json:"specializations"`
	CurrentClients  int      `json:"current_clients"`
}

type AssignResult struct {
	Relationship     *domain.ClientAdvisorRelationship `json:"relationship"`
	Advisor          AdvisorSummary                    `json:"advisor"`
	AssignmentReason string                            `json:"assignment_reason"`
}

type ClientSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AdvisorClient is one row of an advisor's client list.
type AdvisorClient struct {
	Relationship domain.ClientAdvisorRelationship `json:"relationship"`
	Client       ClientSummary                    `json:"client"`
}
