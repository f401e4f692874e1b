// Package gradle discovers the repositories a Gradle build resolves from.
//
// It does not evaluate build scripts. [Scan] recognizes the common
// repository declarations of the Groovy and Kotlin DSLs with regular
// expressions, in source order, and attaches content filters
// (includeGroup, includeGroupByRegex, includeGroupAndSubgroups) to the
// repository declared before them.
package gradle

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gvc/pkg/errors"
	"github.com/matzehuels/gvc/pkg/repository"
)

// ScriptFiles are the build scripts read, in order.
var ScriptFiles = []string{
	"settings.gradle.kts",
	"settings.gradle",
	"build.gradle.kts",
	"build.gradle",
}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`(?m)^\s*//.*$`)

	declRegex = regexp.MustCompile(strings.Join([]string{
		`\b(mavenCentral|google|gradlePluginPortal|jcenter|mavenLocal)\s*(?:\(\s*\)|\{)`,
		`\bmaven\s*\(\s*(?:url\s*=\s*)?(?:(?i:uri)\s*\(\s*)?["']([^"']+)["']`,
		`\bmaven\s*\{\s*(?:name\s*=?\s*["'][^"']*["'][\s;]*)?url\s*(?:=\s*)?(?:(?i:uri)\s*\(\s*)?["']([^"']+)["']`,
		`\bsetUrl\s*\(\s*["']([^"']+)["']\s*\)`,
		`\b(includeGroupByRegex|includeGroupAndSubgroups|includeGroup)\s*\(?\s*["']([^"']+)["']`,
	}, "|"))
)

// Submatch positions in declRegex.
const (
	builtinGroup = 1
	mavenCall    = 2
	mavenBlock   = 3
	setURL       = 4
	filterKind   = 5
	filterValue  = 6
)

// Declaration is one repository found in a script, before validation.
type Declaration struct {
	Name     string
	URL      string
	Kind     repository.Kind
	Patterns []string // Anchored-at-compile include regexes
}

// Scan returns the repository declarations in src in source order.
func Scan(src string) []Declaration {
	src = blockComment.ReplaceAllString(src, "")
	src = lineComment.ReplaceAllString(src, "")

	var out []Declaration
	for _, m := range declRegex.FindAllStringSubmatch(src, -1) {
		switch {
		case m[builtinGroup] != "":
			if d, ok := builtin(m[builtinGroup]); ok {
				out = append(out, d)
			}
		case m[mavenCall] != "":
			out = append(out, custom(m[mavenCall]))
		case m[mavenBlock] != "":
			out = append(out, custom(m[mavenBlock]))
		case m[setURL] != "":
			out = append(out, custom(m[setURL]))
		case m[filterKind] != "":
			if len(out) == 0 {
				continue
			}
			last := &out[len(out)-1]
			last.Patterns = append(last.Patterns, filterPattern(m[filterKind], m[filterValue]))
		}
	}
	return out
}

func builtin(fn string) (Declaration, bool) {
	switch fn {
	case "mavenCentral":
		return Declaration{Name: "Maven Central", URL: repository.MavenCentralURL, Kind: repository.MavenCentral}, true
	case "google":
		return Declaration{Name: "Google", URL: repository.GoogleURL, Kind: repository.Google}, true
	case "gradlePluginPortal":
		return Declaration{Name: "Gradle Plugin Portal", URL: repository.PluginPortalURL, Kind: repository.PluginPortal}, true
	case "jcenter":
		return Declaration{Name: "JCenter", URL: repository.JCenterURL, Kind: repository.Custom}, true
	}
	// mavenLocal() is file based and never queried.
	return Declaration{}, false
}

func custom(raw string) Declaration {
	u := strings.TrimSpace(raw)
	kind := repository.KindForURL(u)
	return Declaration{Name: displayName(u, kind), URL: u, Kind: kind}
}

func displayName(u string, kind repository.Kind) string {
	switch kind {
	case repository.MavenCentral:
		return "Maven Central"
	case repository.Google:
		return "Google"
	case repository.PluginPortal:
		return "Gradle Plugin Portal"
	}
	if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
		return "Custom (" + parsed.Host + ")"
	}
	return "Custom (" + u + ")"
}

func filterPattern(kind, value string) string {
	// Script string literals escape backslashes: "com\\.example" is com\.example.
	value = strings.ReplaceAll(value, `\\`, `\`)
	switch kind {
	case "includeGroup":
		return regexp.QuoteMeta(value)
	case "includeGroupAndSubgroups":
		return regexp.QuoteMeta(value) + `(\..*)?`
	default:
		return value
	}
}

// Provider reads repository declarations from a project's build scripts.
type Provider struct {
	root   string
	logger *log.Logger
}

// NewProvider creates a Provider for the project at root. A nil logger
// uses log.Default().
func NewProvider(root string, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.Default()
	}
	return &Provider{root: root, logger: logger}
}

// Repositories returns the project's repositories in declaration order,
// deduplicated by URL. When no script declares any, [repository.Defaults]
// is used. The Gradle Plugin Portal is appended when missing, since plugin
// markers are only published there.
func (p *Provider) Repositories() ([]repository.Descriptor, error) {
	var repos []repository.Descriptor
	for _, name := range ScriptFiles {
		path := filepath.Join(p.root, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
		}
		for _, d := range Scan(string(data)) {
			r, err := repository.New(d.Name, d.URL, d.Kind, d.Patterns...)
			if err != nil {
				p.logger.Warn("ignoring repository", "file", name, "url", d.URL, "err", errors.UserMessage(err))
				continue
			}
			repos = append(repos, r)
		}
	}

	if len(repos) == 0 {
		p.logger.Info("no repositories declared in build scripts, using defaults")
		repos = repository.Defaults()
	}
	repos = repository.EnsurePluginPortal(repository.Dedupe(repos))
	for _, r := range repos {
		p.logger.Debug("repository", "repo", r.Name, "url", r.BaseURL, "kind", r.Kind, "include", r.Patterns())
	}
	return repos, nil
}
