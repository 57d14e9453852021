// Package store provides the relational store that holds loaded tables.
// The default implementation keeps everything in a private in-memory SQLite
// database reached through a single driver connection.
package store
