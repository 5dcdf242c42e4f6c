package services

import (
	"agenthub/internal/access"
	"agenthub/internal/apis/dtos"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// MembershipService asks the organisation webhook whether an email belongs
// to a partner account.
type MembershipService interface {
	Enabled() bool
	RoleFor(ctx context.Context, email string) (access.Role, error)
}

type membershipService struct {
	webhookURL string
	client     *http.Client
}

func NewMembershipService(webhookURL string, client *http.Client) MembershipService {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &membershipService{webhookURL: webhookURL, client: client}
}

func (s *membershipService) Enabled() bool {
	return s.webhookURL != ""
}

// RoleFor returns partner for organisation members and non_client otherwise.
// Errors are returned alongside non_client so callers can decide whether to
// trust the fallback.
func (s *membershipService) RoleFor(ctx context.Context, email string) (access.Role, error) {
	if !s.Enabled() {
		return access.RoleNonClient, nil
	}

	payload, err := json.Marshal(dtos.MembershipRequest{Email: email})
	if err != nil {
		return access.RoleNonClient, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return access.RoleNonClient, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Membership check failed for %s: %v", email, err)
		return access.RoleNonClient, fmt.Errorf("membership check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("Membership check for %s returned %s", email, resp.Status)
		return access.RoleNonClient, fmt.Errorf("membership check returned %s", resp.Status)
	}

	var result dtos.MembershipResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return access.RoleNonClient, fmt.Errorf("invalid membership response: %w", err)
	}
	if result.IsJiraUser {
		return access.RolePartner, nil
	}
	return access.RoleNonClient, nil
}
