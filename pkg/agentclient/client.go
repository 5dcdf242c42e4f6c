// Package agentclient talks to the agenthub HTTP API the way a browser
// client does: it resolves session ids, sends turns through the webhook
// proxy and renders the streamed reply with agentstream.
package agentclient

import (
	"agenthub/pkg/agentstream"
	"agenthub/pkg/formdata"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ClientIDHeader carries the anonymous client id; the server reads the same name.
const ClientIDHeader = "X-Client-ID"

// APIError is a non-2xx answer from agenthub or from the upstream agent
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	WebhookURL  string `json:"webhookurl"`
	Path        string `json:"path"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	AccessLevel string `json:"access_level"`
}

type Session struct {
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
}

type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Turn is one message sent to an agent
type Turn struct {
	WebhookURL    string
	Message       string
	SessionID     string
	UserEmail     string
	VideoAnalysis bool
	Files         []File
	Audio         *File
}

type Client struct {
	baseURL    string
	token      string
	clientID   string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ClientID() string { return c.clientID }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.clientID != "" {
		req.Header.Set(ClientIDHeader, c.clientID)
	}
	return req, nil
}

// doJSON performs a call against an endpoint answering with the
// {success, data, error} envelope and decodes data into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid response body", Details: err.Error()}
	}
	if !env.Success || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if env.Error != nil {
			msg = *env.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (c *Client) Agents(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := c.doJSON(ctx, http.MethodGet, "/api/agents", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// AgentByPath looks an agent up by its route path, with or without the
// leading slash.
func (c *Client) AgentByPath(ctx context.Context, path string) (*Agent, error) {
	var agent Agent
	p := "/api/agents/by-path/" + url.PathEscape(strings.TrimPrefix(path, "/"))
	if err := c.doJSON(ctx, http.MethodGet, p, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

type authResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for an access token and uses it for later
// calls. The token is returned so callers can persist it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := map[string]string{"email": email, "password": password}
	var out authResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", in, &out); err != nil {
		return "", err
	}
	c.token = out.AccessToken
	return out.AccessToken, nil
}

// ResolveSession asks the server for the session id to send with the next
// turn. The server assigns a client id to anonymous callers; it is kept for
// later calls.
func (c *Client) ResolveSession(ctx context.Context, agentID, conversationID string) (*Session, error) {
	in := map[string]string{}
	if conversationID != "" {
		in["conversation_id"] = conversationID
	}
	var session Session
	if err := c.doJSON(ctx, http.MethodPost, "/api/agents/"+url.PathEscape(agentID)+"/session", in, &session); err != nil {
		return nil, err
	}
	if session.ClientID != "" {
		c.clientID = session.ClientID
	}
	return &session, nil
}

// Send appends the user message to conv, streams the agent's reply into a
// new agent message and returns it. On failure the returned message holds
// whatever content arrived before the error.
func (c *Client) Send(ctx context.Context, conv *agentstream.Conversation, turn Turn, opts ...agentstream.Option) (*agentstream.Message, error) {
	if strings.TrimSpace(turn.Message) == "" && len(turn.Files) == 0 && turn.Audio == nil {
		return nil, fmt.Errorf("nothing to send")
	}

	conv.Append(userMessage(conv, turn))

	parser := agentstream.NewParser(conv, opts...)
	msg, err := parser.Begin()
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeTurn(conv.AgentID, turn)
	if err != nil {
		return msg, parser.Fail(err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/webhook", body)
	if err != nil {
		return msg, parser.Fail(err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return msg, parser.Fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return msg, parser.Fail(decodeProxyError(resp))
	}

	if err := parser.Consume(ctx, agentstream.Chunks(resp.Body, agentstream.DefaultChunkSize)); err != nil {
		return msg, err
	}
	return msg, nil
}

func userMessage(conv *agentstream.Conversation, turn Turn) *agentstream.Message {
	content := turn.Message
	if content == "" {
		switch {
		case turn.Audio != nil:
			content = "[Audio message]"
		case len(turn.Files) > 0:
			content = "[Attachments]"
		}
	}
	msg := &agentstream.Message{
		ID:             conv.NextMessageID(),
		Content:        content,
		Sender:         agentstream.SenderUser,
		Timestamp:      time.Now(),
		AgentID:        conv.AgentID,
		ConversationID: conv.ID,
	}
	for _, f := range turn.Files {
		msg.Attachments = append(msg.Attachments, agentstream.Attachment{Name: f.Name, Type: f.ContentType})
	}
	return msg
}

func encodeTurn(agentID string, turn Turn) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"webhookUrl", turn.WebhookURL},
		{"message", turn.Message},
		{"agentId", agentID},
		{"sessionId", turn.SessionID},
	}
	if turn.UserEmail != "" {
		fields = append(fields, [2]string{"userEmail", turn.UserEmail})
	}
	if turn.VideoAnalysis {
		fields = append(fields, [2]string{"videoAnalysis", "true"})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	for i, f := range turn.Files {
		if _, err := formdata.CopyFilePart(w, "file_"+strconv.Itoa(i), f.Name, f.ContentType, f.Content); err != nil {
			return nil, "", err
		}
	}
	if turn.Audio != nil {
		name := turn.Audio.Name
		if name == "" {
			name = "audio.webm"
		}
		if _, err := formdata.CopyFilePart(w, "audio", name, turn.Audio.ContentType, turn.Audio.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func decodeProxyError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Details = payload.Details
	}
	return apiErr
}
