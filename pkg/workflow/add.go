package workflow

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/gvc/pkg/catalog"
	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/repository"
	"github.com/matzehuels/gvc/pkg/version"
)

// LatestVersion is the version placeholder resolved to the newest release.
const LatestVersion = "latest"

// AddOptions configure an add.
type AddOptions struct {
	Catalog      string
	Repositories []repository.Descriptor
	Kind         catalog.Kind // KindLibrary or KindPlugin

	// Coordinate is "group:artifact:version" for libraries and
	// "plugin.id:version" for plugins. The version may be "latest".
	Coordinate string

	Alias         string
	VersionAlias  string
	StableOnly    bool // Restricts "latest" to stable releases
	StripPrefixes []string
}

// AddOutcome describes the entry an add created.
type AddOutcome struct {
	catalog.AddResult `yaml:",inline"`
	Kind              catalog.Kind          `json:"kind" yaml:"kind"`
	Coordinate        repository.Coordinate `json:"coordinate" yaml:"coordinate"`
	Version           string                `json:"version" yaml:"version"`
}

// Add verifies that the requested version is published and inserts a new
// library or plugin entry with its own versions alias.
func (r *Runner) Add(ctx context.Context, opts AddOptions) (*AddOutcome, error) {
	coord, requested, err := parseAddCoordinate(opts.Kind, opts.Coordinate)
	if err != nil {
		return nil, err
	}
	doc, err := r.load(opts.Catalog)
	if err != nil {
		return nil, err
	}

	repos := opts.Repositories
	if len(repos) == 0 {
		repos = repository.Defaults()
	}
	concrete, err := r.verify(ctx, coord, requested, repository.Select(coord, repos), opts.StableOnly)
	if err != nil {
		return nil, err
	}

	updated, res, err := doc.Add(catalog.AddRequest{
		Kind:          opts.Kind,
		Coordinate:    coord,
		Version:       concrete,
		Alias:         opts.Alias,
		VersionAlias:  opts.VersionAlias,
		StripPrefixes: opts.StripPrefixes,
	})
	if err != nil {
		return nil, err
	}
	if err := catalog.Save(opts.Catalog, updated); err != nil {
		return nil, err
	}
	r.Logger.Info("entry added", "alias", res.Alias, "coordinate", coord, "version", concrete)
	return &AddOutcome{AddResult: res, Kind: opts.Kind, Coordinate: coord, Version: concrete}, nil
}

func parseAddCoordinate(kind catalog.Kind, raw string) (repository.Coordinate, string, error) {
	if strings.TrimSpace(raw) == "" {
		return repository.Coordinate{}, "", errors.New(errors.ErrCodeInvalidInput,
			"coordinate is required, e.g. gvc add com.squareup.okhttp3:okhttp:4.12.0")
	}
	var (
		coord repository.Coordinate
		v     string
		err   error
	)
	switch kind {
	case catalog.KindLibrary:
		coord, v, err = repository.ParseCoordinate(raw)
	case catalog.KindPlugin:
		coord, v, err = repository.ParsePluginCoordinate(raw)
	default:
		return repository.Coordinate{}, "", errors.New(errors.ErrCodeInvalidInput, "can only add libraries or plugins")
	}
	if err != nil {
		return repository.Coordinate{}, "", err
	}
	if v == "" {
		return repository.Coordinate{}, "", errors.New(errors.ErrCodeInvalidInput,
			"%s: missing version (use :%s for the newest release)", raw, LatestVersion)
	}
	return coord, v, nil
}

// verify returns the concrete version to add: requested itself when some
// repository publishes it, or the newest published version for "latest".
func (r *Runner) verify(ctx context.Context, coord repository.Coordinate, requested string, repos []repository.Descriptor, stableOnly bool) (string, error) {
	if len(repos) == 0 {
		return "", errors.New(errors.ErrCodeValidation, "no configured repository accepts %s", coord)
	}
	published, err := r.Query.Versions(ctx, coord, repos)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeNetwork, err, "lookup %s", coord)
		}
		return "", err
	}

	if !strings.EqualFold(requested, LatestVersion) {
		if !slices.Contains(published, requested) {
			return "", errors.New(errors.ErrCodeValidation,
				"version %q of %s not found in %s", requested, coord, repoNames(repos))
		}
		return requested, nil
	}

	var candidates []version.Version
	for _, p := range published {
		v := version.Parse(p)
		if stableOnly && !version.Classify(v).IsStable() {
			continue
		}
		candidates = append(candidates, v)
	}
	best, ok := version.Max(candidates)
	if !ok {
		return "", errors.New(errors.ErrCodeValidation, "no published versions of %s in %s", coord, repoNames(repos))
	}
	r.Logger.Debug("resolved latest", "coordinate", coord, "version", best.Raw(), "versions", len(published))
	return best.Raw(), nil
}

func repoNames(repos []repository.Descriptor) string {
	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}
