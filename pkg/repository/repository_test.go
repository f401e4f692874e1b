package repository

import (
	"testing"

	"github.com/matzehuels/gvc/pkg/errors"
)

func names(repos []Descriptor) []string {
	out := make([]string, len(repos))
	for i, r := range repos {
		out[i] = r.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelect(t *testing.T) {
	corp := MustNew("corp", "https://maven.corp.example/releases", Custom, `com\.corp\..*`)
	open := MustNew("mirror", "https://mirror.example/maven2/", Custom)
	repos := append(Defaults(), corp, open)

	tests := []struct {
		name  string
		coord Coordinate
		want  []string
	}{
		{"androidx goes to google first", Library("androidx.core", "core-ktx"),
			[]string{"Google", "Maven Central", "mirror"}},
		{"com.google group", Library("com.google.dagger", "hilt-android"),
			[]string{"Google", "Maven Central", "mirror"}},
		{"plain library skips google and portal", Library("com.squareup.okhttp3", "okhttp"),
			[]string{"Maven Central", "mirror"}},
		{"custom include pattern", Library("com.corp.platform", "core"),
			[]string{"Maven Central", "corp", "mirror"}},
		{"plugin consults portal", Plugin("org.jetbrains.kotlin.jvm"),
			[]string{"Maven Central", "Gradle Plugin Portal", "mirror"}},
		{"android plugin", Plugin("com.android.application"),
			[]string{"Google", "Maven Central", "Gradle Plugin Portal", "mirror"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Select(tt.coord, repos))
			if !equal(got, tt.want) {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectExplicitGooglePatternsOverrideDefaults(t *testing.T) {
	g := MustNew("Google", GoogleURL, Google, `com\.example\..*`)
	if got := Select(Library("androidx.core", "core"), []Descriptor{g}); len(got) != 0 {
		t.Errorf("explicit patterns should replace defaults, got %v", names(got))
	}
	if got := Select(Library("com.example.lib", "core"), []Descriptor{g}); len(got) != 1 {
		t.Errorf("explicit pattern should match, got %v", names(got))
	}
}

func TestAcceptsIsAnchored(t *testing.T) {
	d := MustNew("r", "https://example.com/m2", Custom, `com\.corp`)
	if d.Accepts("com.corp.extra") {
		t.Error("pattern should match the whole group")
	}
	if !d.Accepts("com.corp") {
		t.Error("pattern should match exact group")
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New("bad", "https://example.com", Custom, "("); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("invalid regex error = %v", err)
	}
	if _, err := New("bad", "ftp://example.com", Custom); err == nil {
		t.Error("non-http URL should be rejected")
	}
}

func TestDedupe(t *testing.T) {
	repos := []Descriptor{
		MustNew("a", "https://Example.com/m2/", Custom),
		MustNew("b", "https://example.com/m2", Custom),
		MustNew("c", "https://other.example/m2", Custom),
	}
	if got := names(Dedupe(repos)); !equal(got, []string{"a", "c"}) {
		t.Errorf("Dedupe() = %v", got)
	}
}

func TestEnsurePluginPortal(t *testing.T) {
	base := []Descriptor{MustNew("Maven Central", MavenCentralURL, MavenCentral)}
	got := EnsurePluginPortal(base)
	if len(got) != 2 || got[1].Kind != PluginPortal {
		t.Fatalf("EnsurePluginPortal() = %v", names(got))
	}
	if again := EnsurePluginPortal(got); len(again) != 2 {
		t.Errorf("portal added twice: %v", names(again))
	}
}

func TestKindForURL(t *testing.T) {
	tests := map[string]Kind{
		"https://repo1.maven.org/maven2":         MavenCentral,
		"https://maven.google.com":               Google,
		"https://plugins.gradle.org/m2/":         PluginPortal,
		"https://jitpack.io":                     Custom,
		"https://repo.maven.apache.org/maven2/x": MavenCentral,
	}
	for u, want := range tests {
		if got := KindForURL(u); got != want {
			t.Errorf("KindForURL(%q) = %v, want %v", u, got, want)
		}
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{Custom, MavenCentral, Google, PluginPortal} {
		b, _ := k.MarshalText()
		var back Kind
		if err := back.UnmarshalText(b); err != nil || back != k {
			t.Errorf("round trip %v -> %q -> %v (%v)", k, b, back, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("nexus")); err == nil {
		t.Error("unknown kind should fail")
	}
}

func TestCoordinate(t *testing.T) {
	lib := Library("com.squareup.okhttp3", "okhttp")
	if lib.MetadataPath() != "com/squareup/okhttp3/okhttp/maven-metadata.xml" {
		t.Errorf("MetadataPath() = %q", lib.MetadataPath())
	}
	p := Plugin("org.jetbrains.kotlin.jvm")
	want := "org/jetbrains/kotlin/jvm/org.jetbrains.kotlin.jvm.gradle.plugin/maven-metadata.xml"
	if p.MetadataPath() != want {
		t.Errorf("plugin MetadataPath() = %q, want %q", p.MetadataPath(), want)
	}
	if lib.String() != "com.squareup.okhttp3:okhttp" || p.String() != "org.jetbrains.kotlin.jvm" {
		t.Errorf("String() = %q / %q", lib, p)
	}
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		in           string
		wantGroup    string
		wantArtifact string
		wantVersion  string
		wantErr      bool
	}{
		{"com.squareup.okhttp3:okhttp:4.12.0", "com.squareup.okhttp3", "okhttp", "4.12.0", false},
		{"androidx.core:core-ktx:latest", "androidx.core", "core-ktx", "latest", false},
		{"com.google.guava:guava", "com.google.guava", "guava", "", false},
		{"invalid", "", "", "", true},
		{"a:b:c:d", "", "", "", true},
		{"g::1.0", "", "", "", true},
		{"g:a:", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, v, err := ParseCoordinate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCoordinate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if c.Group != tt.wantGroup || c.Artifact != tt.wantArtifact || v != tt.wantVersion {
				t.Errorf("ParseCoordinate() = %+v %q", c, v)
			}
		})
	}
}

func TestParsePluginCoordinate(t *testing.T) {
	c, v, err := ParsePluginCoordinate("org.jetbrains.kotlin.jvm:1.9.22")
	if err != nil || c.PluginID != "org.jetbrains.kotlin.jvm" || v != "1.9.22" {
		t.Errorf("ParsePluginCoordinate() = %+v %q %v", c, v, err)
	}
	if _, _, err := ParsePluginCoordinate("a:b:c"); err == nil {
		t.Error("extra segments should fail")
	}
	if _, _, err := ParsePluginCoordinate(""); err == nil {
		t.Error("empty id should fail")
	}
}
