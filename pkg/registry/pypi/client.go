// Package pypi provides access to the PyPI JSON API.
package pypi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/pyrite/pkg/cache"
	"github.com/matzehuels/pyrite/pkg/manifest"
	"github.com/matzehuels/pyrite/pkg/registry"
)

// PackageInfo holds metadata for the latest release of a package on PyPI.
//
// Names are normalized following PEP 503. The zero value of every field is
// valid; a missing license or summary simply comes back empty.
type PackageInfo struct {
	Name     string            `json:"name"`
	Version  string            `json:"version"` // latest release
	Summary  string            `json:"summary,omitempty"`
	License  string            `json:"license,omitempty"`
	HomePage string            `json:"home_page,omitempty"`
	URLs     map[string]string `json:"project_urls,omitempty"`
	Yanked   bool              `json:"yanked,omitempty"`
}

// Client provides access to the PyPI package registry API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*registry.Client
	baseURL string
}

// NewClient creates a PyPI client with the given cache backend.
// Pass a NullCache to disable caching.
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  registry.NewClient(backend, "pypi", cacheTTL, nil),
		baseURL: "https://pypi.org/pypi",
	}
}

// FetchPackage retrieves metadata for the latest release of pkg.
//
// The pkg parameter is normalized automatically. If refresh is true, the
// cache is bypassed and a fresh API call is made.
//
// Returns [registry.ErrNotFound] if the package doesn't exist and
// [registry.ErrNetwork] for HTTP failures.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = manifest.NormalizeName(pkg)

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return err
	}

	urls := make(map[string]string, len(data.Info.ProjectURLs))
	for k, v := range data.Info.ProjectURLs {
		if s, ok := v.(string); ok {
			urls[k] = s
		}
	}

	*info = PackageInfo{
		Name:     manifest.NormalizeName(data.Info.Name),
		Version:  data.Info.Version,
		Summary:  data.Info.Summary,
		License:  extractLicenseType(data.Info.License, data.Info.Classifiers),
		HomePage: data.Info.HomePage,
		URLs:     urls,
		Yanked:   data.Info.Yanked,
	}
	return nil
}

type apiResponse struct {
	Info apiInfo `json:"info"`
}

type apiInfo struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Summary     string         `json:"summary"`
	License     string         `json:"license"`
	Classifiers []string       `json:"classifiers"`
	ProjectURLs map[string]any `json:"project_urls"`
	HomePage    string         `json:"home_page"`
	Yanked      bool           `json:"yanked"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// It prefers the classifier (e.g., "License :: OSI Approved :: MIT License" -> "MIT License")
// and falls back to the license field if it's short enough.
func extractLicenseType(license string, classifiers []string) string {
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				return parts[len(parts)-1]
			}
		}
	}

	// A short license field is likely just the type.
	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}

	// Otherwise take the first line of the license text if it's short.
	if license != "" {
		firstLine := strings.TrimSpace(strings.Split(license, "\n")[0])
		if len(firstLine) < 50 {
			return firstLine
		}
	}

	return ""
}
