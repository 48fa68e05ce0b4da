// Package cache provides validation result caching.
//
// Validating the same SWC file with the same settings is deterministic, so
// reports and rendered artifacts are cached under keys derived from the file
// content hash and the options that affect the outcome. Three backends are
// provided: FileCache for CLI runs, RedisCache for the shared HTTP service,
// and NullCache to disable caching entirely.
package cache
