// Package retryutil retries transient failures against external backends,
// mainly the Redis cache and the Mongo report store.
package retryutil
