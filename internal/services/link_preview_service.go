package services

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/constants"
	"agenthub/internal/repositories"
	"agenthub/internal/utils"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const linkPreviewBodyLimit = 2 << 20

type LinkPreviewService interface {
	Preview(ctx context.Context, rawURL string) (*dtos.LinkPreviewResponse, error)
}

type linkPreviewService struct {
	cache    repositories.LinkPreviewRepository
	client   *http.Client
	cacheTTL time.Duration
}

func NewLinkPreviewService(cache repositories.LinkPreviewRepository, client *http.Client, cacheTTL time.Duration) LinkPreviewService {
	if client == nil {
		client = &http.Client{Timeout: constants.LinkPreviewTimeoutSeconds * time.Second}
	}
	return &linkPreviewService{cache: cache, client: client, cacheTTL: cacheTTL}
}

func (s *linkPreviewService) Preview(ctx context.Context, rawURL string) (*dtos.LinkPreviewResponse, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, newHTTPError(http.StatusBadRequest, "URL is required", "")
	}
	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, newHTTPError(http.StatusBadRequest, "invalid URL", "")
	}

	key := utils.MD5Hash(rawURL)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	preview, err := s.fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, preview, s.cacheTTL); err != nil {
		log.Printf("Failed to cache link preview: %v", err)
	}
	return preview, nil
}

func (s *linkPreviewService) fetch(ctx context.Context, target *url.URL) (*dtos.LinkPreviewResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.LinkPreviewTimeoutSeconds*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, newHTTPError(http.StatusInternalServerError, "Failed to fetch link preview", err.Error())
	}
	req.Header.Set("User-Agent", constants.LinkPreviewUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, newHTTPError(http.StatusInternalServerError, "Failed to fetch link preview", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(resp.StatusCode, fmt.Sprintf("Failed to fetch the URL: %s", http.StatusText(resp.StatusCode)), "")
	}

	if !strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return &dtos.LinkPreviewResponse{
			Title:       target.String(),
			Description: utils.ToStringPtr(constants.LinkPreviewNonHTMLDescription),
		}, nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, linkPreviewBodyLimit))
	if err != nil {
		return nil, newHTTPError(http.StatusInternalServerError, "Failed to fetch link preview", err.Error())
	}
	return extractPreview(doc, target), nil
}

// metaContent looks a property up as og:<name>, then name=<name>, then
// twitter:<name> as a property or a name attribute.
func metaContent(doc *goquery.Document, name string) string {
	selectors := []string{
		fmt.Sprintf(`meta[property="og:%s"]`, name),
		fmt.Sprintf(`meta[name="%s"]`, name),
		fmt.Sprintf(`meta[property="twitter:%s"]`, name),
		fmt.Sprintf(`meta[name="twitter:%s"]`, name),
	}
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if content = strings.TrimSpace(content); content != "" {
				return content
			}
		}
	}
	return ""
}

func extractPreview(doc *goquery.Document, target *url.URL) *dtos.LinkPreviewResponse {
	preview := &dtos.LinkPreviewResponse{Title: metaContent(doc, "title")}
	if preview.Title == "" {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if preview.Title == "" {
		preview.Title = target.String()
	}

	if description := metaContent(doc, "description"); description != "" {
		preview.Description = &description
	}
	if image := metaContent(doc, "image"); image != "" {
		if ref, err := url.Parse(image); err == nil {
			image = target.ResolveReference(ref).String()
		}
		preview.Image = &image
	}
	return preview
}
