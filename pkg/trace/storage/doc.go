// Package storage provides persistence backends for trace records.
//
// The engine itself never writes to storage; these backends exist for the
// persistence collaborator that receives composed records. Two backends are
// provided: an in-memory store for tests and a SQLite store for durable
// single-instance deployments.
package storage
