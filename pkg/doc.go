// Package pkg provides the core libraries for gvc, a Gradle version catalog
// updater.
//
// # Overview
//
// gvc reads gradle/libs.versions.toml, asks the project's Maven repositories
// which versions of every declared library and plugin exist, and rewrites
// only the version values it updates. Comments, ordering and formatting of
// the catalog are preserved byte for byte.
//
// # Architecture
//
// The typical data flow of an update:
//
//	Gradle project (gradlew, settings.gradle[.kts], libs.versions.toml)
//	         ↓
//	    [project] + [gradle] packages (validate layout, scrape repositories)
//	         ↓
//	    [catalog] package (position-aware parse)
//	         ↓
//	    [resolve] package (query repositories, pick newest versions)
//	         ↓
//	    [interactive] package (optional accept/skip/all/quit selection)
//	         ↓
//	    [catalog] package (splice new versions, atomic save)
//	         ↓
//	    [vcs] package (branch and commit)
//
// [workflow] wires these stages together for the CLI.
//
// # Quick Start
//
// Check a catalog against Maven Central without changing it:
//
//	import (
//	    "context"
//	    "fmt"
//	    "github.com/matzehuels/gvc/pkg/catalog"
//	    "github.com/matzehuels/gvc/pkg/httputil"
//	    "github.com/matzehuels/gvc/pkg/integrations"
//	    "github.com/matzehuels/gvc/pkg/integrations/maven"
//	    "github.com/matzehuels/gvc/pkg/repository"
//	    "github.com/matzehuels/gvc/pkg/resolve"
//	)
//
//	doc, _ := catalog.Load("gradle/libs.versions.toml")
//	client := maven.NewClient(integrations.DefaultTimeout, httputil.DefaultPolicy, nil)
//	report, _ := resolve.NewEngine(client, nil).Resolve(context.Background(), doc, resolve.Options{
//	    StableOnly:   true,
//	    Repositories: repository.Defaults(),
//	})
//	for _, c := range report.Candidates() {
//	    fmt.Println(c.Alias, c.Current, "→", c.Proposed)
//	}
//
// # Main Packages
//
// ## Catalog and Versions
//
// [catalog] - Edit-aware view of a version catalog. Parsing records the byte
// span of every version literal; edits splice those spans and re-validate.
//
// [version] - Version parsing, ordering and stability classification
// (stable vs. alpha, beta, rc, milestone, snapshot and similar).
//
// [resolve] - The update engine. Resolves each versions alias through its
// first referencing library or plugin, skips dynamic selectors and reports
// per-entry failures without aborting the pass.
//
// ## Repositories
//
// [repository] - Repository descriptors, coordinates and group content
// filters.
//
// [gradle] - Discovers declared repositories from settings and build scripts.
//
// [integrations] - HTTP plumbing with retries; [integrations/maven] reads
// maven-metadata.xml.
//
// ## Side Effects
//
// [vcs] - Git clean-tree check, branch creation and commit.
//
// [config] - Tool configuration from .gvc.toml files and GVC_* variables.
//
// [observability] - Hooks for lookup progress and request tracing.
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/catalog
// [version]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/version
// [resolve]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/resolve
// [repository]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/repository
// [gradle]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/gradle
// [project]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/project
// [interactive]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/interactive
// [integrations]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/integrations
// [integrations/maven]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/integrations/maven
// [vcs]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/vcs
// [config]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/observability
// [workflow]: https://pkg.go.dev/github.com/matzehuels/gvc/pkg/workflow
package pkg
