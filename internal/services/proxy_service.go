package services

import (
	"agenthub/internal/access"
	"agenthub/internal/apis/dtos"
	"agenthub/internal/constants"
	"agenthub/pkg/formdata"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StreamWriter is the response side of a relay; gin's writer and
// httptest.ResponseRecorder both satisfy it.
type StreamWriter interface {
	http.ResponseWriter
	http.Flusher
}

type ProxyService interface {
	// Relay forwards req to the agent webhook and streams the reply into w.
	// A returned *HTTPError means nothing has been written to w yet.
	Relay(ctx context.Context, identity access.Identity, req *dtos.ProxyRequest, w StreamWriter) error
}

type ProxyConfig struct {
	AllowedHosts          []string
	ResponseHeaderTimeout time.Duration
	StreamTimeout         time.Duration
}

type proxyService struct {
	agentService AgentService
	client       *http.Client
	allowedHosts map[string]struct{}
	streamLimit  time.Duration
}

// hop-by-hop headers are never copied from the upstream response
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
	"Content-Length",
}

func NewProxyService(agentService AgentService, cfg ProxyConfig) ProxyService {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout
	return newProxyService(agentService, cfg, &http.Client{Transport: transport})
}

func newProxyService(agentService AgentService, cfg ProxyConfig, client *http.Client) *proxyService {
	allowed := make(map[string]struct{}, len(cfg.AllowedHosts))
	for _, host := range cfg.AllowedHosts {
		allowed[strings.ToLower(host)] = struct{}{}
	}
	return &proxyService{
		agentService: agentService,
		client:       client,
		allowedHosts: allowed,
		streamLimit:  cfg.StreamTimeout,
	}
}

func (s *proxyService) validateTarget(raw string) (*url.URL, error) {
	target, err := url.Parse(raw)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, newHTTPError(http.StatusBadRequest, "invalid webhookUrl", "")
	}
	if len(s.allowedHosts) > 0 {
		if _, ok := s.allowedHosts[strings.ToLower(target.Hostname())]; !ok {
			return nil, newHTTPError(http.StatusBadRequest, "webhook host is not allowed", target.Hostname())
		}
	}
	return target, nil
}

func (s *proxyService) Relay(ctx context.Context, identity access.Identity, req *dtos.ProxyRequest, w StreamWriter) error {
	if req.WebhookURL == "" {
		return newHTTPError(http.StatusBadRequest, "webhookUrl is required", "")
	}
	target, err := s.validateTarget(req.WebhookURL)
	if err != nil {
		return err
	}
	if req.AgentID == "" {
		return newHTTPError(http.StatusBadRequest, "agentId is required", "")
	}
	agent, status, err := s.agentService.Authorize(ctx, identity, req.AgentID)
	if err != nil {
		return newHTTPError(int(status), err.Error(), "")
	}
	// the caller may only reach the webhook configured on the agent it was
	// authorized for
	target, ok := agentWebhook(target, agent.WebhookURL)
	if !ok {
		return newHTTPError(http.StatusForbidden, "webhook does not match agent", "")
	}

	if s.streamLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.streamLimit)
		defer cancel()
	}

	body, contentType := s.encode(ctx, req)
	defer body.Close()

	upstreamReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), body)
	if err != nil {
		return newHTTPError(http.StatusInternalServerError, "internal server error", err.Error())
	}
	upstreamReq.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(upstreamReq)
	if err != nil {
		log.Printf("Webhook request to %s failed: %v", target.Host, err)
		return newHTTPError(http.StatusInternalServerError, "internal server error", describeTransportError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		details, _ := io.ReadAll(io.LimitReader(resp.Body, constants.WebhookErrorBodyLimit))
		log.Printf("Webhook %s answered %s", target.Host, resp.Status)
		return newHTTPError(resp.StatusCode, "webhook error: "+resp.Status, string(details))
	}

	return s.relay(resp, w)
}

// agentWebhook returns the agent's configured webhook when it names the
// same endpoint as the requested one. Scheme and host compare case
// insensitively and a trailing slash is ignored.
func agentWebhook(requested *url.URL, configured string) (*url.URL, bool) {
	hook, err := url.Parse(strings.TrimSpace(configured))
	if err != nil || hook.Host == "" {
		return nil, false
	}
	same := strings.EqualFold(requested.Scheme, hook.Scheme) &&
		strings.EqualFold(requested.Host, hook.Host) &&
		strings.TrimRight(requested.EscapedPath(), "/") == strings.TrimRight(hook.EscapedPath(), "/") &&
		requested.RawQuery == hook.RawQuery
	if !same {
		return nil, false
	}
	return hook, true
}

// encode streams the outgoing multipart body through a pipe so uploads are
// never held in memory twice.
func (s *proxyService) encode(ctx context.Context, req *dtos.ProxyRequest) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeProxyForm(ctx, mw, req)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writeProxyForm(ctx context.Context, mw *multipart.Writer, req *dtos.ProxyRequest) error {
	fields := [][2]string{
		{constants.WebhookFieldMessage, req.Message},
		{constants.WebhookFieldAgentID, req.AgentID},
		{constants.WebhookFieldSessionID, req.SessionID},
		{constants.WebhookFieldUserEmail, req.UserEmail},
	}
	if req.VideoAnalysis {
		fields = append(fields, [2]string{constants.WebhookFieldVideoAnalysis, "true"})
	}
	for _, field := range fields {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return err
		}
	}

	files := req.Files
	if req.Audio != nil {
		files = append(files[:len(files):len(files)], *req.Audio)
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := copyProxyFile(mw, file); err != nil {
			return err
		}
	}
	return nil
}

func copyProxyFile(mw *multipart.Writer, file dtos.ProxyFile) error {
	src, err := file.Header.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.Field, err)
	}
	defer src.Close()
	_, err = formdata.CopyFilePart(mw, file.Field, file.Header.Filename, file.Header.Header.Get("Content-Type"), src)
	return err
}

// relay copies status, headers and body chunk by chunk, flushing after
// every write. Headers are held back until the first byte so an empty
// stream can still be reported as an error.
func (s *proxyService) relay(resp *http.Response, w StreamWriter) error {
	if resp.Body == nil || resp.Body == http.NoBody || resp.ContentLength == 0 {
		return newHTTPError(http.StatusInternalServerError, "no stream available from webhook", "")
	}

	buf := make([]byte, constants.WebhookRelayBufferBytes)
	n, err := readSome(resp.Body, buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return newHTTPError(http.StatusInternalServerError, "internal server error", err.Error())
		}
		return newHTTPError(http.StatusInternalServerError, "no stream available from webhook", "")
	}

	header := w.Header()
	for key, values := range resp.Header {
		header[key] = append([]string(nil), values...)
	}
	for _, key := range hopHeaders {
		header.Del(key)
	}
	w.WriteHeader(resp.StatusCode)

	for {
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				log.Printf("Client went away during relay: %v", werr)
				return nil
			}
			w.Flush()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("Webhook stream ended early: %v", err)
			}
			return nil
		}
		n, err = resp.Body.Read(buf)
	}
}

// readSome reads until at least one byte or an error arrives
func readSome(r io.Reader, buf []byte) (int, error) {
	for {
		n, err := r.Read(buf)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func describeTransportError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "webhook did not respond in time"
	}
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return err.Error()
}
