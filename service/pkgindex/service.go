// Package pkgindex checks that an alternate package index is reachable before pip uses it.
package pkgindex

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/thirukguru/yolo-workbench/shared/logger"
)

const (
	// DefaultBaseURL hosts the per-toolkit wheel indexes, e.g. <base>/cu128.
	DefaultBaseURL = "https://download.pytorch.org/whl"

	reqTimeout    = time.Second * 15
	maxRetryCount = 2
	retryDelay    = 200 * time.Millisecond
)

// Service is the interface for package index checks.
type Service interface {
	IndexURL(tag string) string
	Check(ctx context.Context, tag string) error
}

type service struct {
	baseURL string
	client  *resty.Client
}

// NewService returns an index checker rooted at baseURL.
func NewService(baseURL string) Service {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	c := resty.New().
		SetLogger(logger.S()).
		SetTimeout(reqTimeout).
		SetRetryCount(maxRetryCount).
		SetRetryWaitTime(retryDelay)

	return &service{baseURL: baseURL, client: c}
}

// IndexURL returns the index URL for a build tag.
func (s *service) IndexURL(tag string) string {
	return s.baseURL + "/" + tag
}

// Check requests the index page of tag and fails on anything but a 2xx answer.
func (s *service) Check(ctx context.Context, tag string) error {
	url := s.IndexURL(tag) + "/"
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("couldn't reach package index %s: %w", url, err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("package index %s answered %s", url, resp.Status())
	}
	return nil
}
