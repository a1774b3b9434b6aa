// Package cache implements §10.9's compile cache: a content-addressed
// store of finalized M artifacts keyed by the SHA-256 of a contract's
// canonicalized typed IR (see ir/hash). It sits entirely outside the pure
// batch compile function — a cache miss, a disabled cache, and a deleted
// cache file all fall back to the exact same codegen path, never a
// different one.
package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chazu/clc/ir"
	irhash "github.com/chazu/clc/ir/hash"
	"github.com/chazu/clc/mtext"
)

// Cache wraps a single-file SQLite database holding one row per distinct
// content hash ever compiled.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	content_key TEXT PRIMARY KEY,
	program     BLOB NOT NULL
);`

// Open creates or reopens the cache database at path. The CLI passes
// .clc-cache.sqlite in the working directory, but any writable path
// works — the cache makes no assumption about where it lives.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema in %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }

// Key is the identifier Lookup and Store use to address one contract's
// artifact. Callers that already have a hash from a prior call (e.g. to
// log it) can reuse it via LookupKey/StoreKey instead of rehashing.
type Key = irhash.Key

// KeyOf hashes contract's canonicalized content.
func KeyOf(contract *ir.Contract) Key { return irhash.Contract(contract) }

// Lookup returns the cached artifact for contract's current content, if
// any. A miss is reported by (nil, false, nil), never an error — a fresh
// project or a cache that was just deleted looks exactly like an empty
// one.
func (c *Cache) Lookup(ctx context.Context, contract *ir.Contract) (*mtext.Program, bool, error) {
	return c.LookupKey(ctx, KeyOf(contract))
}

// LookupKey is Lookup for a hash the caller already computed.
func (c *Cache) LookupKey(ctx context.Context, key Key) (*mtext.Program, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx, `SELECT program FROM artifacts WHERE content_key = ?`, key.String()).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: lookup: %w", err)
	}
	p, err := mtext.DecodeJSON(blob)
	if err != nil {
		return nil, false, fmt.Errorf("cache: decode cached artifact for %s: %w", key, err)
	}
	return p, true, nil
}

// Store records program as the compiled result for contract's current
// content. Only ever call Store once a compile has produced a clean
// artifact — diagnostics are never cached (§10.9), so a caller that
// stored a failed compile's partial output would poison every later
// lookup with stale garbage.
func (c *Cache) Store(ctx context.Context, contract *ir.Contract, program *mtext.Program) error {
	return c.StoreKey(ctx, KeyOf(contract), program)
}

// StoreKey is Store for a hash the caller already computed.
func (c *Cache) StoreKey(ctx context.Context, key Key, program *mtext.Program) error {
	blob, err := mtext.EncodeJSON(program)
	if err != nil {
		return fmt.Errorf("cache: encode artifact for %s: %w", key, err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO artifacts (content_key, program) VALUES (?, ?)
		ON CONFLICT(content_key) DO UPDATE SET program = excluded.program`,
		key.String(), blob)
	if err != nil {
		return fmt.Errorf("cache: store %s: %w", key, err)
	}
	return nil
}
