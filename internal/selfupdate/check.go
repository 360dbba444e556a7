// Package selfupdate finds newer aquacheck releases on GitHub and swaps
// them in for the running binary.
package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultOwner   = "abhisek"
	defaultRepo    = "aquacheck"
	defaultTimeout = 10 * time.Second
)

// Checker reads release metadata and downloads release assets.
type Checker struct {
	client   *http.Client
	baseURL  string
	owner    string
	repo     string
	execPath func() (string, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithBaseURL overrides the GitHub API base URL.
func WithBaseURL(u string) Option {
	return func(c *Checker) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

// WithRepository points the checker at a fork.
func WithRepository(owner, repo string) Option {
	return func(c *Checker) { c.owner, c.repo = owner, repo }
}

func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:   &http.Client{Timeout: defaultTimeout},
		baseURL:  defaultBaseURL,
		owner:    defaultOwner,
		repo:     defaultRepo,
		execPath: os.Executable,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Release is one published release and its downloadable files.
type Release struct {
	Tag    string
	URL    string
	Assets map[string]string // file name -> download URL
}

// CheckInput is the version currently running.
type CheckInput struct {
	Version string
}

// CheckResult compares the latest release with the running version.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool

	release *Release
}

// Check fetches the latest release. A running version that is not
// valid semver never reports an update.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	rel, err := c.fetchRelease(ctx, "latest")
	if err != nil {
		return nil, err
	}
	current := canonical(input.Version)
	return &CheckResult{
		CurrentVersion:  input.Version,
		LatestVersion:   rel.Tag,
		ReleaseURL:      rel.URL,
		UpdateAvailable: semver.IsValid(current) && semver.Compare(rel.Tag, current) > 0,
		release:         rel,
	}, nil
}

// fetchRelease reads releases/latest or releases/tags/<tag>.
func (c *Checker) fetchRelease(ctx context.Context, which string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/%s", c.baseURL, c.owner, c.repo, which)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release %s: %w", which, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("release %s: %w", which, ErrNoRelease)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch release %s: HTTP %d", which, resp.StatusCode)
	}

	var body struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
		Assets  []struct {
			Name string `json:"name"`
			URL  string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if !semver.IsValid(body.TagName) {
		return nil, fmt.Errorf("release tag %q is not a semantic version", body.TagName)
	}

	rel := &Release{Tag: body.TagName, URL: body.HTMLURL, Assets: make(map[string]string, len(body.Assets))}
	for _, a := range body.Assets {
		rel.Assets[a.Name] = a.URL
	}
	return rel, nil
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	if v != "" && !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
