// SPDX-License-Identifier: MPL-2.0

package mavenrepo

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single metadata request.
const DefaultTimeout = 15 * time.Second

var (
	// ErrNotFound is returned when the repository has no metadata for a coordinate.
	ErrNotFound = errors.New("artifact not found in repository")
	// ErrNoStableVersion is returned when only pre-releases are published.
	ErrNoStableVersion = errors.New("no stable version published")
)

type (
	// Client reads maven-metadata.xml files.
	Client struct {
		baseURL string
		http    *http.Client
		logger  *log.Logger
	}

	// Option configures a Client.
	Option func(*Client)

	// Metadata is the versioning section of maven-metadata.xml.
	Metadata struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Versioning struct {
			Latest   string   `xml:"latest"`
			Release  string   `xml:"release"`
			Versions []string `xml:"versions>version"`
		} `xml:"versioning"`
	}

	// StatusError reports an unexpected HTTP status.
	StatusError struct {
		URL    string
		Status int
	}
)

// NewClient creates a client for the repository at baseURL,
// e.g. https://repo1.maven.org/maven2.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// MetadataURL returns the metadata location of group:artifact.
func (c *Client) MetadataURL(group, artifact string) string {
	return fmt.Sprintf("%s/%s/%s/maven-metadata.xml", c.baseURL, strings.ReplaceAll(group, ".", "/"), artifact)
}

// Metadata fetches and decodes maven-metadata.xml.
func (c *Client) Metadata(ctx context.Context, group, artifact string) (*Metadata, error) {
	url := c.MetadataURL(group, artifact)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.logger.Debug("fetching metadata", "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s:%s: %w", group, artifact, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}

	var md Metadata
	if err := xml.NewDecoder(resp.Body).Decode(&md); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return &md, nil
}

// LatestStable returns the highest stable published version of
// group:artifact.
func (c *Client) LatestStable(ctx context.Context, group, artifact string) (string, error) {
	md, err := c.Metadata(ctx, group, artifact)
	if err != nil {
		return "", err
	}
	candidates := md.Versioning.Versions
	if len(candidates) == 0 && md.Versioning.Release != "" {
		candidates = []string{md.Versioning.Release}
	}
	version, ok := LatestStable(candidates)
	if !ok {
		return "", fmt.Errorf("%s:%s: %w", group, artifact, ErrNoStableVersion)
	}
	return version, nil
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}
