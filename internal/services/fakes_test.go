package services

import (
	"agenthub/internal/access"
	"agenthub/internal/models"
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

type fakeAgentRepo struct {
	mu     sync.Mutex
	agents map[string]*models.Agent
}

func newFakeAgentRepo(agents ...*models.Agent) *fakeAgentRepo {
	r := &fakeAgentRepo{agents: map[string]*models.Agent{}}
	for _, a := range agents {
		r.agents[a.ID] = a
	}
	return r
}

func (r *fakeAgentRepo) List(_ context.Context) ([]*models.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	agents := make([]*models.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		copied := *a
		agents = append(agents, &copied)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	return agents, nil
}

func (r *fakeAgentRepo) FindByID(_ context.Context, id string) (*models.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.agents[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAgentRepo) FindByPath(_ context.Context, path string) (*models.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.agents {
		if a.Path == path {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAgentRepo) Create(_ context.Context, agent *models.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *agent
	r.agents[agent.ID] = &copied
	return nil
}

func (r *fakeAgentRepo) Update(_ context.Context, agent *models.Agent) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[agent.ID]; !ok {
		return false, nil
	}
	copied := *agent
	r.agents[agent.ID] = &copied
	return true, nil
}

func (r *fakeAgentRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[id]; !ok {
		return false, nil
	}
	delete(r.agents, id)
	return true, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.Base = models.NewBase()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role access.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Role = role
	return nil
}

// fakeConversationRepo applies the same owner predicate as the Mongo filters
type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[primitive.ObjectID]*models.Conversation
}

func newFakeConversationRepo(conversations ...*models.Conversation) *fakeConversationRepo {
	r := &fakeConversationRepo{conversations: map[primitive.ObjectID]*models.Conversation{}}
	for _, c := range conversations {
		r.conversations[c.ID] = c
	}
	return r
}

func (r *fakeConversationRepo) FindByOwnerAndAgent(_ context.Context, email, agentID, search string, page, pageSize int) ([]*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []*models.Conversation
	for _, c := range r.conversations {
		if c.Email != email || c.AgentID != agentID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.ConversationTitle), strings.ToLower(search)) {
			continue
		}
		copied := *c
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].UpdatedAt.Equal(matches[j].UpdatedAt) {
			return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
		}
		return matches[i].ID.Hex() > matches[j].ID.Hex()
	})
	start := (page - 1) * pageSize
	if start >= len(matches) {
		return []*models.Conversation{}, nil
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], nil
}

func (r *fakeConversationRepo) FindByIDForOwner(_ context.Context, id primitive.ObjectID, email string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.conversations[id]; ok && c.Email == email {
		copied := *c
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeConversationRepo) UpdateTitleForOwner(_ context.Context, id primitive.ObjectID, email, title string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok || c.Email != email {
		return false, nil
	}
	c.ConversationTitle = title
	return true, nil
}

func (r *fakeConversationRepo) DeleteForOwner(_ context.Context, id primitive.ObjectID, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok || c.Email != email {
		return false, nil
	}
	delete(r.conversations, id)
	return true, nil
}

func (r *fakeConversationRepo) get(id primitive.ObjectID) *models.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conversations[id]
}

type fakeFeedbackRepo struct {
	mu    sync.Mutex
	saved []*models.Feedback
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, feedback)
	return nil
}

var (
	anonymous = access.Anonymous
	alice     = access.Identity{UserID: "u-alice", Email: "alice@example.com", Role: access.RoleNonClient, Authenticated: true}
	bob       = access.Identity{UserID: "u-bob", Email: "bob@example.com", Role: access.RoleNonClient, Authenticated: true}
	partner   = access.Identity{UserID: "u-pat", Email: "pat@example.com", Role: access.RolePartner, Authenticated: true}
	admin     = access.Identity{UserID: "u-root", Email: "root@example.com", Role: access.RoleAdmin, Authenticated: true}
)

func testAgent(id, path string, level access.Level) *models.Agent {
	agent := models.NewAgent("Agent "+id, "", "https://hooks.example.com/"+id, path, "", "", level)
	agent.ID = id
	return agent
}
