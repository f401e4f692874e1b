// Package catalog reads and edits Gradle version catalogs
// (gradle/libs.versions.toml) without disturbing their formatting.
//
// # Model
//
// A [Document] indexes the versions, libraries and plugins tables of the
// source. Each entry exposes its version as a [VersionSpec]: either a
// literal held in a [VersionSlot] or a reference into versions. Libraries
// may be written in three shapes:
//
//	okhttp   = "com.squareup.okhttp3:okhttp:4.12.0"                          # inline
//	okhttp   = { module = "com.squareup.okhttp3:okhttp", version = "4.12.0" } # module
//	okhttp   = { group = "com.squareup.okhttp3", name = "okhttp", version.ref = "okhttp" }
//
// # Editing
//
// [Document.Apply] and [Document.Add] splice new text into the source and
// re-index the result. Everything outside the replaced value tokens or the
// inserted lines is preserved byte for byte. [Save] writes atomically.
package catalog
