package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gvc/pkg/errors"
)

const testCatalog = `[versions]
okhttp = "4.11.0"

[libraries]
okhttp = { module = "com.squareup.okhttp3:okhttp", version.ref = "okhttp" }

[plugins]
kotlin-jvm = { id = "org.jetbrains.kotlin.jvm", version = "1.9.22" }
`

func metadata(versions ...string) string {
	var b strings.Builder
	b.WriteString("<metadata><versioning><versions>")
	for _, v := range versions {
		b.WriteString("<version>" + v + "</version>")
	}
	b.WriteString("</versions></versioning></metadata>")
	return b.String()
}

// testProject creates a Gradle project whose only repository is an
// httptest server publishing okhttp, moshi and the kotlin plugin marker.
func testProject(t *testing.T) string {
	t.Helper()
	files := map[string]string{
		"/com/squareup/okhttp3/okhttp/maven-metadata.xml":                                    metadata("4.11.0", "4.12.0", "5.0.0-alpha.12"),
		"/com/squareup/moshi/moshi/maven-metadata.xml":                                       metadata("1.15.0"),
		"/org/jetbrains/kotlin/jvm/org.jetbrains.kotlin.jvm.gradle.plugin/maven-metadata.xml": metadata("1.9.22", "2.0.0"),
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("gradlew", "#!/bin/sh\n")
	write("gradle/libs.versions.toml", testCatalog)
	write("settings.gradle.kts", "dependencyResolutionManagement {\n    repositories {\n        maven(\""+server.URL+"\")\n    }\n}\n")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithStderr(t, args...)
	return out, err
}

func executeWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func readCatalog(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "gradle", "libs.versions.toml"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCheckCommand(t *testing.T) {
	dir := testProject(t)
	out, err := execute(t, "check", "-C", dir)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	for _, want := range []string{"Version updates", "okhttp", "4.12.0", "Plugin updates", "2.0.0", "gvc update --stable-only"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "5.0.0-alpha.12") {
		t.Error("check proposed a pre-release without --include-unstable")
	}
	if got := readCatalog(t, dir); got != testCatalog {
		t.Error("check modified the catalog")
	}
}

func TestCheckCommandJSON(t *testing.T) {
	dir := testProject(t)
	out, err := execute(t, "check", "-C", dir, "--include-unstable", "--format", "json")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	var report struct {
		VersionUpdates []struct {
			Alias     string `json:"alias"`
			Proposed  string `json:"proposed"`
			Stability string `json:"stability"`
		} `json:"version_updates"`
		PluginUpdates []struct {
			Alias string `json:"alias"`
		} `json:"plugin_updates"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(report.VersionUpdates) != 1 || report.VersionUpdates[0].Proposed != "5.0.0-alpha.12" {
		t.Errorf("version_updates = %+v", report.VersionUpdates)
	}
	if report.VersionUpdates[0].Stability != "unstable(alpha)" {
		t.Errorf("stability = %q", report.VersionUpdates[0].Stability)
	}
	if len(report.PluginUpdates) != 1 || report.PluginUpdates[0].Alias != "kotlin-jvm" {
		t.Errorf("plugin_updates = %+v", report.PluginUpdates)
	}
}

func TestUpdateCommand(t *testing.T) {
	dir := testProject(t)
	out, err := execute(t, "update", "-C", dir, "--stable-only")
	if err != nil {
		t.Fatalf("update error = %v", err)
	}
	want := strings.NewReplacer(`"4.11.0"`, `"4.12.0"`, `"1.9.22"`, `"2.0.0"`).Replace(testCatalog)
	if got := readCatalog(t, dir); got != want {
		t.Errorf("catalog =\n%s\nwant\n%s", got, want)
	}
	if !strings.Contains(out, "Updated 2 entries") {
		t.Errorf("output = %s", out)
	}
}

func TestUpdateCommandFiltered(t *testing.T) {
	dir := testProject(t)
	if _, err := execute(t, "update", "-C", dir, "-s", "-f", "kotlin"); err != nil {
		t.Fatalf("update error = %v", err)
	}
	want := strings.Replace(testCatalog, `"1.9.22"`, `"2.0.0"`, 1)
	if got := readCatalog(t, dir); got != want {
		t.Errorf("catalog =\n%s\nwant\n%s", got, want)
	}
}

func TestAddCommand(t *testing.T) {
	dir := testProject(t)
	out, err := execute(t, "add", "-C", dir, "com.squareup.moshi:moshi:latest", "--format", "yaml")
	if err != nil {
		t.Fatalf("add error = %v", err)
	}
	var res map[string]any
	if err := yaml.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if res["alias"] != "moshi" || res["version"] != "1.15.0" {
		t.Errorf("result = %v", res)
	}
	got := readCatalog(t, dir)
	if !strings.Contains(got, `moshi = { module = "com.squareup.moshi:moshi", version.ref = "moshi" }`) {
		t.Errorf("catalog missing moshi:\n%s", got)
	}
}

func TestAddCommandErrors(t *testing.T) {
	dir := testProject(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unpublished", []string{"add", "-C", dir, "com.squareup.moshi:moshi:9.0.0"}, errors.ErrCodeValidation},
		{"duplicate", []string{"add", "-C", dir, "com.squareup.okhttp3:okhttp:4.12.0"}, errors.ErrCodeDuplicateCoordinate},
		{"bad coordinate", []string{"add", "-C", dir, "not-a-coordinate"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
			if got := readCatalog(t, dir); got != testCatalog {
				t.Error("failed add modified the catalog")
			}
		})
	}

	_, stderr, err := executeWithStderr(t, "add", "-C", dir, "com.squareup.okhttp3:okhttp:4.12.0")
	if !errors.IsConflict(err) {
		t.Fatalf("error = %v, want a conflict", err)
	}
	if !strings.Contains(stderr, "gvc update") {
		t.Errorf("conflict hint missing:\n%s", stderr)
	}

	if _, err := execute(t, "add", "-C", dir, "-p", "-l", "a:b:1"); err == nil {
		t.Error("--plugin with --library should fail")
	}
}

func TestListCommand(t *testing.T) {
	dir := testProject(t)
	out, err := execute(t, "list", "-C", dir)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	for _, want := range []string{"com.squareup.okhttp3:okhttp:4.11.0", "org.jetbrains.kotlin.jvm:1.9.22", "1 library, 1 plugin"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	dir := testProject(t)
	if _, err := execute(t, "check", "-C", dir, "--format", "xml"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad format error = %v, want INVALID_INPUT", err)
	}
	if _, err := execute(t, "check", "-C", t.TempDir()); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("non-project error = %v, want VALIDATION_ERROR", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "gvc") {
		t.Error("bash completion does not mention gvc")
	}
}
