// Package artifact stores the files published after a refresh run.
//
// Two backends implement Store: FileStore writes into the local cache directory
// (atomic rename, so readers never see a half-written image) and ObjectStore
// writes into the S3/MinIO bucket configured under storage. Artifacts are
// overwritten wholesale; there is no versioning.
package artifact
