// Package repository defines the data access interfaces for routegraph.
//
// This package provides the repository abstraction layer for persisting
// session graphs: the ordered marker sequence and the accumulated star
// edges. The implementation lives in the sqldb subpackage.
//
// # Repository Interface
//
// The Repository interface covers sessions, markers, edges, whole-graph
// snapshots and the atomic InsertNode operation.
//
// # Insertion Serialization
//
// The pure GraphBuilder requires a consistent snapshot of the marker
// sequence. The repository reads that snapshot, computes the edges and
// appends the new marker and edges inside one transaction, so concurrent
// insertions into the same session receive distinct, contiguous indices.
//
// # SQL Implementation
//
// The sqldb implementation runs on database/sql with two dialects:
//
// - sqlite (modernc.org/sqlite), the default, WAL mode, one writer
// - mysql (github.com/go-sql-driver/mysql), row locks on the session
//
// The schema is migrated on open.
//
// # Testing
//
// The sqldb repository is tested against in-memory SQLite databases.
package repository
