package cache

import (
	"context"
	"fmt"
	"time"
)

// Default TTLs per entry class. Reports are deterministic for a given
// content hash and option set, so they keep for a long time; rendered
// artifacts are cheaper to rebuild and expire sooner.
const (
	ReportTTL   = 30 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented cache with per-entry TTL.
type Cache interface {
	// Get returns the entry and whether it was present. An absent entry is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores an entry. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes an entry. Deleting an absent entry is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// ReportKeyOpts captures every option that changes validation output for
// identical file content. InputName is the input's base name; it is part of
// the key because the filename convention check depends on it.
type ReportKeyOpts struct {
	ToolVersion        string
	InputName          string
	Delimiter          string
	DistanceThreshold  float64
	Convention         string
	IncludeNodeDetails bool
}

// Keyer derives cache keys. Implementations must be deterministic: equal
// inputs always produce equal keys.
type Keyer interface {
	// ReportKey keys a standardization report by the input content hash and
	// the options that affect findings.
	ReportKey(contentHash string, opts ReportKeyOpts) string

	// ArtifactKey keys a rendered artifact (html, json, renumbered swc) by
	// the report key it derives from.
	ArtifactKey(reportKey, format string) string
}

// DefaultKeyer is the standard key scheme: prefix:sha256(parts).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ReportKey(contentHash string, opts ReportKeyOpts) string {
	return hashKey("report", contentHash, opts)
}

func (DefaultKeyer) ArtifactKey(reportKey, format string) string {
	return hashKey("artifact", reportKey, format)
}

// ScopedKeyer prefixes every key, isolating cache namespaces when one
// backend is shared between projects or service tenants.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps a keyer with a prefix. A nil inner keyer defaults to
// the standard scheme.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ReportKey(contentHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(contentHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(reportKey, format string) string {
	return k.prefix + k.inner.ArtifactKey(reportKey, format)
}

// hashKey builds prefix:sha256(parts) keys.
func hashKey(prefix string, parts ...any) string {
	return fmt.Sprintf("%s:%s", prefix, hashParts(parts...))
}
