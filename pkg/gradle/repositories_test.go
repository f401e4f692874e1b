package gradle

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/gvc/pkg/repository"
)

func urls(ds []Declaration) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.URL)
	}
	return out
}

func TestScanKotlinDSL(t *testing.T) {
	src := `
pluginManagement {
    repositories {
        gradlePluginPortal()
        google {
            content {
                includeGroupByRegex("com\\.android.*")
                includeGroupByRegex("androidx.*")
            }
        }
        mavenCentral()
    }
}
dependencyResolutionManagement {
    repositories {
        maven { url = uri("https://jitpack.io") }
        maven("https://maven.pkg.jetbrains.space/public/p/compose/dev")
        maven {
            name = "corp"
            url = uri("https://nexus.example.com/repository/maven-public/")
            content { includeGroup("com.example") }
        }
    }
}
`
	got := Scan(src)
	want := []string{
		repository.PluginPortalURL,
		repository.GoogleURL,
		repository.MavenCentralURL,
		"https://jitpack.io",
		"https://maven.pkg.jetbrains.space/public/p/compose/dev",
		"https://nexus.example.com/repository/maven-public/",
	}
	if !reflect.DeepEqual(urls(got), want) {
		t.Fatalf("Scan() urls = %v\nwant %v", urls(got), want)
	}
	if p := got[1].Patterns; !reflect.DeepEqual(p, []string{`com\.android.*`, "androidx.*"}) {
		t.Errorf("google patterns = %q", p)
	}
	if p := got[5].Patterns; !reflect.DeepEqual(p, []string{`com\.example`}) {
		t.Errorf("corp patterns = %q", p)
	}
	if got[3].Name != "Custom (jitpack.io)" || got[3].Kind != repository.Custom {
		t.Errorf("jitpack = %+v", got[3])
	}
}

func TestScanGroovyDSL(t *testing.T) {
	src := `
repositories {
    mavenCentral()
    google()
    jcenter()
    mavenLocal()
    maven { url 'https://jitpack.io' }
    maven { url = "https://repo.spring.io/milestone" }
    maven {
        setUrl("https://oss.sonatype.org/content/repositories/snapshots")
        content { includeGroupAndSubgroups 'io.github.example' }
    }
}
`
	got := Scan(src)
	want := []string{
		repository.MavenCentralURL,
		repository.GoogleURL,
		repository.JCenterURL,
		"https://jitpack.io",
		"https://repo.spring.io/milestone",
		"https://oss.sonatype.org/content/repositories/snapshots",
	}
	if !reflect.DeepEqual(urls(got), want) {
		t.Fatalf("Scan() urls = %v\nwant %v", urls(got), want)
	}
	if p := got[5].Patterns; len(p) != 1 || p[0] != `io\.github\.example(\..*)?` {
		t.Errorf("sonatype patterns = %q", p)
	}
}

func TestScanIgnoresComments(t *testing.T) {
	src := `
repositories {
    // google()
    /* maven { url "https://old.example.com" } */
    mavenCentral()
}
`
	if got := urls(Scan(src)); !reflect.DeepEqual(got, []string{repository.MavenCentralURL}) {
		t.Errorf("Scan() = %v", got)
	}
}

func TestScanFilterBeforeAnyRepository(t *testing.T) {
	if got := Scan(`includeGroup("com.example")`); len(got) != 0 {
		t.Errorf("Scan() = %+v, want nothing", got)
	}
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func names(repos []repository.Descriptor) []string {
	var out []string
	for _, r := range repos {
		out = append(out, r.Name)
	}
	return out
}

func TestProviderRepositories(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "settings.gradle.kts", `
dependencyResolutionManagement {
    repositories {
        google()
        mavenCentral()
        maven("https://jitpack.io/")
    }
}`)
	write(t, dir, "build.gradle", `
allprojects {
    repositories {
        mavenCentral()
        maven { url 'https://jitpack.io' }
        maven { url "$rootDir/local-repo" }
    }
}`)

	repos, err := NewProvider(dir, nil).Repositories()
	if err != nil {
		t.Fatalf("Repositories() error = %v", err)
	}
	want := []string{"Google", "Maven Central", "Custom (jitpack.io)", "Gradle Plugin Portal"}
	if !reflect.DeepEqual(names(repos), want) {
		t.Errorf("Repositories() = %v, want %v", names(repos), want)
	}
}

func TestProviderDefaults(t *testing.T) {
	repos, err := NewProvider(t.TempDir(), nil).Repositories()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names(repos), names(repository.Defaults())) {
		t.Errorf("Repositories() = %v, want defaults", names(repos))
	}
}

func TestProviderKeepsFilters(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "settings.gradle", `
repositories {
    maven {
        url "https://nexus.example.com/maven"
        content { includeGroupByRegex "com\\.example\\..*" }
    }
}`)
	repos, err := NewProvider(dir, nil).Repositories()
	if err != nil {
		t.Fatal(err)
	}
	if len(repos) != 2 {
		t.Fatalf("Repositories() = %v", names(repos))
	}
	nexus := repos[0]
	if !nexus.Accepts("com.example.core") || nexus.Accepts("org.other") {
		t.Errorf("filter not applied: %v", nexus.Patterns())
	}
}
