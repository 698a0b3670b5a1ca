// Package mediacontent coordinates portfolio content records (photos, videos,
// press articles) whose binaries live in a remote object store.
//
// The core problem it solves is keeping two systems consistent per request:
// N parallel blob uploads against an unreliable object store, and one local
// record write. A record is persisted only after every required upload
// succeeded; on partial upload failure the completed uploads are deleted
// best-effort and no record is written; on persistence failure after
// successful uploads the now-orphaned blobs get the same cleanup. Record
// deletion is the mirror image: remote deletions are best-effort and never
// block removal of the local record.
//
// Storage backends live in storage/ (S3-compatible, in-memory), repositories
// in repo/ (Postgres, in-memory), HTTP handlers in api/, and configuration in
// config/.
package mediacontent
