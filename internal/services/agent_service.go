package services

import (
	"agenthub/internal/access"
	"agenthub/internal/apis/dtos"
	"agenthub/internal/models"
	"agenthub/internal/repositories"
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrAccessDenied  = errors.New("access denied")
	ErrPathTaken     = errors.New("an agent already uses this path")
)

type AgentService interface {
	ListVisible(ctx context.Context, identity access.Identity) ([]dtos.AgentResponse, uint, error)
	GetByPath(ctx context.Context, identity access.Identity, path string) (*dtos.AgentResponse, uint, error)
	// Authorize loads an agent and evaluates the access policy for it
	Authorize(ctx context.Context, identity access.Identity, agentID string) (*models.Agent, uint, error)

	ListAll(ctx context.Context) ([]dtos.AgentResponse, uint, error)
	Create(ctx context.Context, req *dtos.CreateAgentRequest) (*dtos.AgentResponse, uint, error)
	Update(ctx context.Context, id string, req *dtos.UpdateAgentRequest) (*dtos.AgentResponse, uint, error)
	Delete(ctx context.Context, id string) (uint, error)
}

type agentService struct {
	agentRepo repositories.AgentRepository
}

func NewAgentService(agentRepo repositories.AgentRepository) AgentService {
	return &agentService{agentRepo: agentRepo}
}

func toAgentResponse(agent *models.Agent) dtos.AgentResponse {
	return dtos.AgentResponse{
		ID:          agent.ID,
		Name:        agent.Name,
		Description: agent.Description,
		WebhookURL:  agent.WebhookURL,
		Path:        agent.Path,
		Color:       agent.Color,
		Icon:        agent.Icon,
		AccessLevel: agent.AccessLevel,
		CreatedAt:   agent.CreatedAt,
		UpdatedAt:   agent.UpdatedAt,
	}
}

func toAgentResponses(agents []*models.Agent) []dtos.AgentResponse {
	responses := make([]dtos.AgentResponse, 0, len(agents))
	for _, agent := range agents {
		responses = append(responses, toAgentResponse(agent))
	}
	return responses
}

// normalizePath makes every route suffix absolute; empty means "/"
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (s *agentService) ListVisible(ctx context.Context, identity access.Identity) ([]dtos.AgentResponse, uint, error) {
	agents, err := s.agentRepo.List(ctx)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	visible := access.Filter(identity, agents, func(a *models.Agent) access.Level { return a.AccessLevel })
	return toAgentResponses(visible), http.StatusOK, nil
}

func (s *agentService) GetByPath(ctx context.Context, identity access.Identity, path string) (*dtos.AgentResponse, uint, error) {
	agent, err := s.agentRepo.FindByPath(ctx, normalizePath(path))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if agent == nil {
		return nil, http.StatusNotFound, ErrAgentNotFound
	}
	if !identity.CanAccess(agent.AccessLevel) {
		return nil, http.StatusForbidden, ErrAccessDenied
	}
	response := toAgentResponse(agent)
	return &response, http.StatusOK, nil
}

func (s *agentService) Authorize(ctx context.Context, identity access.Identity, agentID string) (*models.Agent, uint, error) {
	agent, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if agent == nil {
		return nil, http.StatusNotFound, ErrAgentNotFound
	}
	if !identity.CanAccess(agent.AccessLevel) {
		return nil, http.StatusForbidden, ErrAccessDenied
	}
	return agent, http.StatusOK, nil
}

func (s *agentService) ListAll(ctx context.Context) ([]dtos.AgentResponse, uint, error) {
	agents, err := s.agentRepo.List(ctx)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return toAgentResponses(agents), http.StatusOK, nil
}

func (s *agentService) pathTaken(ctx context.Context, path, exceptID string) (bool, error) {
	existing, err := s.agentRepo.FindByPath(ctx, path)
	if err != nil {
		return false, err
	}
	return existing != nil && existing.ID != exceptID, nil
}

func (s *agentService) Create(ctx context.Context, req *dtos.CreateAgentRequest) (*dtos.AgentResponse, uint, error) {
	path := normalizePath(req.Path)
	taken, err := s.pathTaken(ctx, path, "")
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if taken {
		return nil, http.StatusConflict, ErrPathTaken
	}

	agent := models.NewAgent(strings.TrimSpace(req.Name), req.Description, strings.TrimSpace(req.WebhookURL), path, req.Color, req.Icon, req.AccessLevel)
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	response := toAgentResponse(agent)
	return &response, http.StatusCreated, nil
}

func (s *agentService) Update(ctx context.Context, id string, req *dtos.UpdateAgentRequest) (*dtos.AgentResponse, uint, error) {
	agent, err := s.agentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if agent == nil {
		return nil, http.StatusNotFound, ErrAgentNotFound
	}

	path := normalizePath(req.Path)
	taken, err := s.pathTaken(ctx, path, id)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if taken {
		return nil, http.StatusConflict, ErrPathTaken
	}

	agent.Name = strings.TrimSpace(req.Name)
	agent.Description = req.Description
	agent.WebhookURL = strings.TrimSpace(req.WebhookURL)
	agent.Path = path
	agent.Color = req.Color
	agent.Icon = req.Icon
	agent.AccessLevel = req.AccessLevel

	updated, err := s.agentRepo.Update(ctx, agent)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if !updated {
		return nil, http.StatusNotFound, ErrAgentNotFound
	}
	response := toAgentResponse(agent)
	return &response, http.StatusOK, nil
}

func (s *agentService) Delete(ctx context.Context, id string) (uint, error) {
	deleted, err := s.agentRepo.Delete(ctx, id)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if !deleted {
		return http.StatusNotFound, ErrAgentNotFound
	}
	return http.StatusOK, nil
}
