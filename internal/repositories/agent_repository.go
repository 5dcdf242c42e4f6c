package repositories

import (
	"agenthub/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AgentRepository interface {
	List(ctx context.Context) ([]*models.Agent, error)
	FindByID(ctx context.Context, id string) (*models.Agent, error)
	FindByPath(ctx context.Context, path string) (*models.Agent, error)
	Create(ctx context.Context, agent *models.Agent) error
	Update(ctx context.Context, agent *models.Agent) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type agentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) List(ctx context.Context) ([]*models.Agent, error) {
	agents := []*models.Agent{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	return agents, nil
}

func (r *agentRepository) FindByID(ctx context.Context, id string) (*models.Agent, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *agentRepository) FindByPath(ctx context.Context, path string) (*models.Agent, error) {
	return r.findOne(ctx, "path = ?", path)
}

func (r *agentRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).Where(query, arg).First(&agent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch agent: %w", err)
	}
	return &agent, nil
}

func (r *agentRepository) Create(ctx context.Context, agent *models.Agent) error {
	if err := r.db.WithContext(ctx).Create(agent).Error; err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}
	return nil
}

// Update writes every editable column, so empty strings clear fields
func (r *agentRepository) Update(ctx context.Context, agent *models.Agent) (bool, error) {
	agent.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Agent{}).Where("id = ?", agent.ID).Updates(map[string]interface{}{
		"name":         agent.Name,
		"description":  agent.Description,
		"webhookurl":   agent.WebhookURL,
		"path":         agent.Path,
		"color":        agent.Color,
		"icon":         agent.Icon,
		"access_level": agent.AccessLevel,
		"updated_at":   agent.UpdatedAt,
	})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update agent: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *agentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Agent{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete agent: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
