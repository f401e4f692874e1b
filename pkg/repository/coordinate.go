package repository

import (
	"strings"

	"github.com/matzehuels/gvc/pkg/errors"
)

// Coordinate identifies a library (group and artifact) or a plugin (id).
type Coordinate struct {
	Group    string `json:"group,omitempty" yaml:"group,omitempty"`
	Artifact string `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	PluginID string `json:"plugin_id,omitempty" yaml:"plugin_id,omitempty"`
}

// Library returns a library coordinate.
func Library(group, artifact string) Coordinate {
	return Coordinate{Group: group, Artifact: artifact}
}

// Plugin returns a plugin coordinate.
func Plugin(id string) Coordinate {
	return Coordinate{PluginID: id}
}

// IsPlugin reports whether c names a plugin.
func (c Coordinate) IsPlugin() bool { return c.PluginID != "" }

// String returns "group:artifact" or the plugin id.
func (c Coordinate) String() string {
	if c.IsPlugin() {
		return c.PluginID
	}
	return c.Group + ":" + c.Artifact
}

// FilterGroup returns the id matched against repository include patterns.
func (c Coordinate) FilterGroup() string {
	if c.IsPlugin() {
		return c.PluginID
	}
	return c.Group
}

// MetadataPath returns the repository-relative path of maven-metadata.xml.
// Plugins resolve through their marker artifact "<id>:<id>.gradle.plugin".
func (c Coordinate) MetadataPath() string {
	group, artifact := c.Group, c.Artifact
	if c.IsPlugin() {
		group, artifact = c.PluginID, c.PluginID+".gradle.plugin"
	}
	return strings.ReplaceAll(group, ".", "/") + "/" + artifact + "/maven-metadata.xml"
}

// Validate checks every populated component.
func (c Coordinate) Validate() error {
	if c.IsPlugin() {
		return errors.ValidateCoordinatePart("plugin id", c.PluginID)
	}
	if err := errors.ValidateCoordinatePart("group", c.Group); err != nil {
		return err
	}
	return errors.ValidateCoordinatePart("artifact", c.Artifact)
}

// ParseCoordinate splits "group:artifact[:version]" into its coordinate and
// optional version. "latest" is returned as-is for the caller to resolve.
func ParseCoordinate(s string) (Coordinate, string, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, "", errors.New(errors.ErrCodeInvalidInput,
			"invalid coordinate %q (expected group:artifact[:version])", s)
	}
	c := Library(parts[0], parts[1])
	if err := c.Validate(); err != nil {
		return Coordinate{}, "", err
	}
	var v string
	if len(parts) == 3 {
		v = parts[2]
		if v == "" {
			return Coordinate{}, "", errors.New(errors.ErrCodeInvalidInput, "coordinate %q has an empty version", s)
		}
	}
	return c, v, nil
}

// ParsePluginCoordinate splits "plugin.id[:version]".
func ParsePluginCoordinate(s string) (Coordinate, string, error) {
	id, v, hasVersion := strings.Cut(strings.TrimSpace(s), ":")
	c := Plugin(id)
	if err := c.Validate(); err != nil {
		return Coordinate{}, "", err
	}
	if hasVersion && (v == "" || strings.Contains(v, ":")) {
		return Coordinate{}, "", errors.New(errors.ErrCodeInvalidInput,
			"invalid plugin coordinate %q (expected plugin.id[:version])", s)
	}
	return c, v, nil
}
