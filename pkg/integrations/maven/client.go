package maven

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	gvcerrors "github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/httputil"
	"github.com/matzehuels/gvc/pkg/integrations"
	"github.com/matzehuels/gvc/pkg/repository"
)

// Metadata is the version listing a repository publishes for one artifact.
//
// Versions keeps the document order of <versioning><versions>. Latest and
// Release are informational and may be empty.
type Metadata struct {
	GroupID     string
	ArtifactID  string
	Latest      string
	Release     string
	Versions    []string
	LastUpdated string
}

// Client looks up maven-metadata.xml documents in Maven-layout repositories.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	logger *log.Logger
}

// NewClient creates a metadata client with the given per-request timeout
// and retry policy. A nil logger uses log.Default().
func NewClient(timeout time.Duration, retry httputil.Policy, logger *log.Logger) *Client {
	return newClient(integrations.NewHTTPClient(timeout), retry, logger)
}

func newClient(hc *http.Client, retry httputil.Policy, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		Client: integrations.NewClient(hc, retry, integrations.DefaultHeaders()),
		logger: logger,
	}
}

// FetchMetadata retrieves the metadata document for c from one repository.
//
// Returns:
//   - [integrations.ErrNotFound] if the repository has no such artifact
//   - [integrations.ErrNetwork] for HTTP failures after retries
//   - [integrations.ErrMalformed] if the document is not valid metadata XML
func (c *Client) FetchMetadata(ctx context.Context, repo repository.Descriptor, coord repository.Coordinate) (*Metadata, error) {
	url := integrations.JoinURL(repo.BaseURL, coord.MetadataPath())
	c.logger.Debug("fetching metadata", "coordinate", coord, "repo", repo.Name, "url", url)

	var doc metadataXML
	if err := c.GetXML(ctx, url, &doc); err != nil {
		return nil, fmt.Errorf("%s %s: %w", repo.Name, coord, err)
	}
	return doc.normalize(), nil
}

// Versions returns the raw version literals published for coord, asking
// repos in order. The first repository that lists at least one version
// wins. Not-found answers move on to the next repository.
//
// If no repository lists a version and at least one of them failed, the
// result is a NETWORK_ERROR. If every repository answered not-found, the
// result is empty with a nil error.
func (c *Client) Versions(ctx context.Context, coord repository.Coordinate, repos []repository.Descriptor) ([]string, error) {
	var failures []error
	for _, repo := range repos {
		md, err := c.FetchMetadata(ctx, repo, coord)
		switch {
		case err == nil:
			if vs := md.All(); len(vs) > 0 {
				c.logger.Debug("resolved versions", "coordinate", coord, "repo", repo.Name, "versions", len(vs))
				return vs, nil
			}
		case errors.Is(err, integrations.ErrNotFound):
			c.logger.Debug("not found", "coordinate", coord, "repo", repo.Name)
		case ctx.Err() != nil:
			return nil, gvcerrors.Wrap(gvcerrors.ErrCodeCancelled, ctx.Err(), "lookup of %s interrupted", coord)
		default:
			c.logger.Warn("repository lookup failed", "coordinate", coord, "repo", repo.Name, "err", err)
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return nil, gvcerrors.Wrap(gvcerrors.ErrCodeNetwork, errors.Join(failures...),
			"no repository answered for %s", coord)
	}
	return nil, nil
}

// All returns the listed versions, adding Release and Latest when the
// listing omits them. Blank entries are dropped and duplicates collapsed.
func (m *Metadata) All() []string {
	seen := make(map[string]bool, len(m.Versions)+2)
	var out []string
	add := func(v string) {
		if v = strings.TrimSpace(v); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, v := range m.Versions {
		add(v)
	}
	add(m.Release)
	add(m.Latest)
	return out
}

type metadataXML struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
	Versioning struct {
		Latest      string   `xml:"latest"`
		Release     string   `xml:"release"`
		Versions    []string `xml:"versions>version"`
		LastUpdated string   `xml:"lastUpdated"`
	} `xml:"versioning"`
}

func (x metadataXML) normalize() *Metadata {
	md := &Metadata{
		GroupID:     strings.TrimSpace(x.GroupID),
		ArtifactID:  strings.TrimSpace(x.ArtifactID),
		Latest:      strings.TrimSpace(x.Versioning.Latest),
		Release:     strings.TrimSpace(x.Versioning.Release),
		LastUpdated: strings.TrimSpace(x.Versioning.LastUpdated),
	}
	for _, v := range x.Versioning.Versions {
		if v = strings.TrimSpace(v); v != "" {
			md.Versions = append(md.Versions, v)
		}
	}
	// Some repositories publish only the top-level <version>.
	if len(md.Versions) == 0 && strings.TrimSpace(x.Version) != "" {
		md.Versions = []string{strings.TrimSpace(x.Version)}
	}
	return md
}
