package models

import (
	"agenthub/internal/access"
	"agenthub/internal/constants"
)

type Agent struct {
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	WebhookURL  string       `gorm:"column:webhookurl;type:text;not null" json:"webhookurl"`
	Path        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"path"` // route suffix, starts with "/"
	Color       string       `gorm:"type:varchar(64)" json:"color"`
	Icon        string       `gorm:"type:varchar(32)" json:"icon"`
	AccessLevel access.Level `gorm:"column:access_level;type:varchar(32);not null;default:public" json:"access_level"`
	Base
}

func (Agent) TableName() string { return constants.AgentsTable }

func NewAgent(name, description, webhookURL, path, color, icon string, level access.Level) *Agent {
	return &Agent{
		Name:        name,
		Description: description,
		WebhookURL:  webhookURL,
		Path:        path,
		Color:       color,
		Icon:        icon,
		AccessLevel: level,
		Base:        NewBase(),
	}
}
