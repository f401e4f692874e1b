package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gvc/pkg/catalog"
	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/observability"
	"github.com/matzehuels/gvc/pkg/repository"
	"github.com/matzehuels/gvc/pkg/version"
)

// VersionQuery returns every raw version literal published for coord in
// repos. An empty result with a nil error means the coordinate is unknown.
type VersionQuery interface {
	Versions(ctx context.Context, coord repository.Coordinate, repos []repository.Descriptor) ([]string, error)
}

// LookupFunc adapts a function to [VersionQuery].
type LookupFunc func(ctx context.Context, coord repository.Coordinate, repos []repository.Descriptor) ([]string, error)

// Versions calls f.
func (f LookupFunc) Versions(ctx context.Context, coord repository.Coordinate, repos []repository.Descriptor) ([]string, error) {
	return f(ctx, coord, repos)
}

// Options control one resolution pass.
type Options struct {
	StableOnly   bool
	Filter       *Matcher // nil resolves every alias
	Repositories []repository.Descriptor
}

// Engine resolves the newest acceptable version of each catalog entry.
type Engine struct {
	query  VersionQuery
	logger *log.Logger
}

// NewEngine creates an Engine. A nil logger uses log.Default().
func NewEngine(q VersionQuery, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{query: q, logger: logger}
}

// target is one entry whose version slot can be looked up.
type target struct {
	kind    catalog.Kind
	alias   string
	coord   repository.Coordinate
	current string
}

// Resolve inspects doc in table order (versions, libraries, plugins) and
// returns the update candidates and per-entry errors it found. Lookup
// failures never abort the pass. The returned error is non-nil only when
// ctx ends before every entry was inspected.
func (e *Engine) Resolve(ctx context.Context, doc *catalog.Document, opts Options) (*Report, error) {
	report := &Report{}
	start := time.Now()

	targets, problems := e.targets(doc, opts.Filter)
	report.Errors = append(report.Errors, problems...)

	hooks := observability.Resolve()
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(errors.ErrCodeCancelled, err, "resolution interrupted")
		}
		hooks.OnLookupStart(ctx, t.alias, t.coord.String(), i, len(targets))
		cand, err := e.resolveOne(ctx, t, opts)
		if err != nil {
			if ctx.Err() != nil {
				return report, errors.Wrap(errors.ErrCodeCancelled, ctx.Err(), "resolution interrupted")
			}
			e.logger.Warn("lookup failed", "alias", t.alias, "coordinate", t.coord, "err", errors.UserMessage(err))
			report.Errors = append(report.Errors, EntryError{Alias: t.alias, Kind: t.kind, Coordinate: t.coord, Err: err})
			continue
		}
		if cand != nil {
			report.add(*cand)
		}
	}

	e.logger.Debug("resolution finished",
		"entries", len(targets),
		"updates", report.Len(),
		"errors", len(report.Errors),
		"duration", time.Since(start))
	return report, nil
}

func (e *Engine) resolveOne(ctx context.Context, t target, opts Options) (*Candidate, error) {
	repos := repository.Select(t.coord, opts.Repositories)
	if len(repos) == 0 {
		e.logger.Debug("no repository accepts coordinate", "alias", t.alias, "coordinate", t.coord)
		return nil, nil
	}

	started := time.Now()
	raw, err := e.query.Versions(ctx, t.coord, repos)
	observability.Resolve().OnLookupComplete(ctx, t.alias, t.coord.String(), len(raw), time.Since(started), err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeNetwork, err, "lookup %s", t.coord)
		}
		return nil, err
	}

	current := version.Parse(t.current)
	var eligible []version.Version
	for _, r := range raw {
		v := version.Parse(r)
		if opts.StableOnly && !version.Classify(v).IsStable() {
			continue
		}
		if !version.Newer(v, current) {
			continue
		}
		eligible = append(eligible, v)
	}

	best, ok := version.Max(eligible)
	if !ok {
		e.logger.Debug("up to date", "alias", t.alias, "current", t.current, "versions", len(raw))
		return nil, nil
	}
	return &Candidate{
		Alias:      t.alias,
		Kind:       t.kind,
		Coordinate: t.coord,
		Current:    t.current,
		Proposed:   best.Raw(),
		Stability:  version.Classify(best),
	}, nil
}

// targets lists the entries to look up, in table order, and the errors for
// entries that cannot be looked up at all.
func (e *Engine) targets(doc *catalog.Document, filter *Matcher) ([]target, []EntryError) {
	var (
		out  []target
		errs []EntryError
	)
	for _, p := range doc.Problems() {
		if filter.Match(p.Alias) {
			errs = append(errs, EntryError{Alias: p.Alias, Kind: p.Kind, Err: p.Err()})
		}
	}

	for _, v := range doc.Versions() {
		if !filter.Match(v.Alias) {
			continue
		}
		coord, ok := representative(doc, v.Alias)
		if !ok {
			e.logger.Debug("version alias is not referenced", "alias", v.Alias)
			continue
		}
		if e.skipDynamic(v.Alias, v.Version.Literal) {
			continue
		}
		out = append(out, target{catalog.KindVersion, v.Alias, coord, v.Version.Literal})
	}

	for _, l := range doc.Libraries() {
		if !filter.Match(l.Alias) {
			continue
		}
		if t, ok, problem := e.entryTarget(doc, catalog.KindLibrary, l.Alias, l.Coordinate(), l.Version); problem != nil {
			errs = append(errs, *problem)
		} else if ok {
			out = append(out, t)
		}
	}

	for _, p := range doc.Plugins() {
		if !filter.Match(p.Alias) {
			continue
		}
		if t, ok, problem := e.entryTarget(doc, catalog.KindPlugin, p.Alias, p.Coordinate(), p.Version); problem != nil {
			errs = append(errs, *problem)
		} else if ok {
			out = append(out, t)
		}
	}
	return out, errs
}

// entryTarget returns the lookup target for a library or plugin that holds
// its own literal. References are resolved through their versions alias
// and only checked for existence here.
func (e *Engine) entryTarget(doc *catalog.Document, kind catalog.Kind, alias string, coord repository.Coordinate, spec catalog.VersionSpec) (target, bool, *EntryError) {
	switch {
	case spec.IsRef():
		if _, ok := doc.Version(spec.Ref); !ok {
			return target{}, false, &EntryError{
				Alias:      alias,
				Kind:       kind,
				Coordinate: coord,
				Err: errors.New(errors.ErrCodeUnresolvableVersionRef,
					"%s.%s references missing version %q", kind.Table(), alias, spec.Ref),
			}
		}
		return target{}, false, nil
	case spec.IsZero():
		e.logger.Debug("no version declared", "alias", alias, "coordinate", coord)
		return target{}, false, nil
	case e.skipDynamic(alias, spec.Literal):
		return target{}, false, nil
	}
	return target{kind, alias, coord, spec.Literal}, true, nil
}

func (e *Engine) skipDynamic(alias, literal string) bool {
	if isDynamic(literal) {
		e.logger.Debug("skipping dynamic version", "alias", alias, "version", literal)
		return true
	}
	return false
}

// representative returns the coordinate a versions alias is looked up
// under: the first library referencing it, else the first plugin.
func representative(doc *catalog.Document, alias string) (repository.Coordinate, bool) {
	for _, l := range doc.Libraries() {
		if l.Version.Ref == alias {
			return l.Coordinate(), true
		}
	}
	for _, p := range doc.Plugins() {
		if p.Version.Ref == alias {
			return p.Coordinate(), true
		}
	}
	return repository.Coordinate{}, false
}

// isDynamic reports Gradle dynamic selectors ("1.+", "latest.release") and
// Maven ranges ("[1.0,2.0)"), which are never rewritten.
func isDynamic(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasSuffix(v, "+") ||
		strings.HasPrefix(v, "latest.") ||
		strings.HasPrefix(v, "[") || strings.HasPrefix(v, "(") ||
		strings.Contains(v, ",")
}
