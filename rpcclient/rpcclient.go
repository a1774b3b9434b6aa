// Package rpcclient defines the boundary between this repository and the
// on-chain node it deploys and invokes contracts against (§10.7). The
// node itself, and everything about its consensus, mempool, and storage
// layout, is an out-of-scope external collaborator (§1) — this package
// exists only to name the handful of calls the CLI's `--deploy`,
// `--call`, `--get-storage`, `--inject`, and `--forge-*` commands need,
// so those commands can be tested against an in-memory fake instead of a
// live chain.
package rpcclient

import (
	"context"
	"encoding/json"
)

// OriginateRequest is the data needed to deploy a compiled contract.
// Code is the M program in its structured JSON form (mtext.EncodeJSON),
// the wire shape every node in this ecosystem accepts for origination.
type OriginateRequest struct {
	Code        json.RawMessage `json:"code"`
	InitStorage json.RawMessage `json:"storage"`
	Balance     int64           `json:"balance"`
	Delegate    string          `json:"delegate,omitempty"`
}

// OriginateResult is what a successful origination returns.
type OriginateResult struct {
	ContractAddress string `json:"contract_address"`
	OperationHash   string `json:"operation_hash"`
}

// InvokeRequest calls one entry point of an already-originated contract.
type InvokeRequest struct {
	Contract string          `json:"contract"`
	Entry    string          `json:"entry"`
	Arg      json.RawMessage `json:"arg"`
	Amount   int64           `json:"amount"`
}

// OperationResult is what a successful invocation returns.
type OperationResult struct {
	OperationHash string `json:"operation_hash"`
}

// ForgeRequest asks the node to serialize an operation group into the
// bytes a wallet or signer needs to sign, without injecting it.
type ForgeRequest struct {
	Branch   string            `json:"branch"`
	Contents []json.RawMessage `json:"contents"`
}

// NodeClient is every network operation the CLI needs from a chain node.
// HTTPNodeClient is the only production implementation; tests use an
// in-memory Fake instead (see fake.go) so CLI dispatch logic never
// touches a real network.
type NodeClient interface {
	// GetStorage fetches a contract's current storage, still encoded as
	// the node's native JSON value tree — decoding it into a typed
	// *types.Const is the caller's job, not this boundary's.
	GetStorage(ctx context.Context, contract string) (json.RawMessage, error)

	// Originate deploys a compiled contract and returns its address.
	Originate(ctx context.Context, req OriginateRequest) (OriginateResult, error)

	// InvokeEntry calls one entry point of a deployed contract.
	InvokeEntry(ctx context.Context, req InvokeRequest) (OperationResult, error)

	// Inject submits an already-forged, already-signed operation and
	// returns its operation hash.
	Inject(ctx context.Context, signedOp []byte) (string, error)

	// ForgeOperation serializes an operation group for external signing.
	ForgeOperation(ctx context.Context, req ForgeRequest) ([]byte, error)
}
