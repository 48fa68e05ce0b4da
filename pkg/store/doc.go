// Package store persists standardization reports.
//
// MemoryStore backs the HTTP service in single-process deployments and
// tests; MongoStore is the durable backend for shared deployments.
package store
