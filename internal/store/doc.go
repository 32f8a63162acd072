// Package store defines the durable fingerprint-to-payload mapping backing
// the response cache. The LevelDB implementation provides atomic single-key
// puts with synchronous writes, so a populated entry is always observable by
// the time the write returns. Entries are never expired or evicted here;
// lifetime management, if any, is an administrative concern outside the
// process.
package store
