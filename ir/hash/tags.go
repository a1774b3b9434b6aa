// Package hash implements §10.9's compile cache key: it canonicalizes a
// typed ir.Contract into a de-Bruijn-indexed, name-erased tree and hashes
// that tree with SHA-256, the same normalize-then-hash technique the
// corpus's Smalltalk method-body content hasher uses, applied here to
// whole translation units instead of individual methods.
package hash

// HashVersion is prefixed to every serialized tree. Bump it whenever a tag
// below changes meaning or a new node kind is added; the cache treats a
// version mismatch as a guaranteed miss rather than trying to interpret
// bytes written by an older tag scheme.
const HashVersion byte = 1

// Tag bytes identify a node's kind inside the serialized stream in place
// of a type-switch on the Go type. These are FROZEN once shipped: adding a
// new tag is safe (pick the next unused value), but renumbering or
// reassigning an existing one changes every previously computed content
// hash silently, which defeats the entire point of a stable cache key.
const (
	TagVar byte = iota + 1
	TagFreeRef
	TagConst
	TagLet
	TagSeq
	TagIf
	TagLambda
	TagClosure
	TagApply
	TagMatchOption
	TagMatchNat
	TagMatchList
	TagMatchVariant
	TagMatchCase
	TagLoop
	TagLoopLeft
	TagFold
	TagMap
	TagMapFold
	TagRecordConstruct
	TagProject
	TagSetField
	TagTransfer
	TagFailwith
	TagCreateContract
	TagContractAt
	TagUnpack

	TagType
	TagGlobal
	TagEntry
	TagContract
)

// allTags exists purely so tags_test.go can assert every constant above is
// distinct; a colliding tag would silently merge two unrelated node kinds
// into the same byte on the wire.
var allTags = []byte{
	TagVar, TagFreeRef, TagConst, TagLet, TagSeq, TagIf, TagLambda, TagClosure,
	TagApply, TagMatchOption, TagMatchNat, TagMatchList, TagMatchVariant,
	TagMatchCase, TagLoop, TagLoopLeft, TagFold, TagMap, TagMapFold,
	TagRecordConstruct, TagProject, TagSetField, TagTransfer, TagFailwith,
	TagCreateContract, TagContractAt, TagUnpack, TagType, TagGlobal, TagEntry,
	TagContract,
}
