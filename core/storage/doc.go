// Package storage provides the two persistence capabilities msc depends on.
//
// # Filesystem
//
// Everything that touches the server directory goes through an afero.Fs, so the
// settings store and the launcher can be exercised against an in-memory filesystem in
// tests. WriteFileAtomic implements the write-to-temp-then-rename discipline used
// whenever the settings file is replaced: a crash or error mid-write never leaves a
// truncated file behind.
//
// # Object Storage
//
// The Client interface wraps the MinIO Go client for the optional settings backups.
// It supports both AWS S3 and self-hosted MinIO instances, and is mocked in
// core/storage/mocks for unit tests.
//
//   - BucketExists: Verifies access to the target bucket.
//   - PutObject: Uploads a backup.
//   - ListObjects: Lists the backups under a prefix.
//
// # Usage
//
//	fsys := storage.NewOsFS()
//	err := storage.WriteFileAtomic(fsys, "/srv/mc/server.properties", data, 0o644)
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
