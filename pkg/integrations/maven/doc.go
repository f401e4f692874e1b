// Package maven reads version listings from Maven-layout repositories.
//
// # Overview
//
// Every Maven repository (Maven Central, Google's Maven repository, the
// Gradle Plugin Portal, private Nexus or Artifactory instances) publishes a
// maven-metadata.xml per artifact:
//
//	<repo>/<group with dots as slashes>/<artifact>/maven-metadata.xml
//
// Gradle plugins are published as a marker artifact
// "<plugin id>:<plugin id>.gradle.plugin", so the same lookup works for
// them.
//
// # Usage
//
//	client := maven.NewClient(30*time.Second, httputil.DefaultPolicy, logger)
//	versions, err := client.Versions(ctx, repository.Library("com.squareup.okhttp3", "okhttp"), repos)
//
// # Repository Order
//
// [Client.Versions] asks the given repositories in order and returns the
// listing of the first one that has any versions. A 404 moves on to the
// next repository. Network failures are retried per request, and reported
// only when no repository produced a listing.
package maven
