package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Fake is an in-memory NodeClient the CLI's own tests drive instead of a
// live chain. Every method is deterministic and side-effect-free beyond
// Fake's own state, so a test can assert on exactly what was originated
// or invoked without any network.
type Fake struct {
	mu        sync.Mutex
	nextAddr  int
	nextOp    int
	contracts map[string]json.RawMessage
	Calls     []InvokeRequest
	Origins   []OriginateRequest
}

// NewFake returns an empty Fake ready to originate into.
func NewFake() *Fake {
	return &Fake{contracts: map[string]json.RawMessage{}}
}

func (f *Fake) GetStorage(ctx context.Context, contract string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.contracts[contract]
	if !ok {
		return nil, fmt.Errorf("rpcclient: fake: no such contract %q", contract)
	}
	return s, nil
}

func (f *Fake) Originate(ctx context.Context, req OriginateRequest) (OriginateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextAddr++
	addr := fmt.Sprintf("KT1Fake%06d", f.nextAddr)
	f.contracts[addr] = req.InitStorage
	f.Origins = append(f.Origins, req)
	f.nextOp++
	return OriginateResult{ContractAddress: addr, OperationHash: fmt.Sprintf("opFake%06d", f.nextOp)}, nil
}

func (f *Fake) InvokeEntry(ctx context.Context, req InvokeRequest) (OperationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contracts[req.Contract]; !ok {
		return OperationResult{}, fmt.Errorf("rpcclient: fake: no such contract %q", req.Contract)
	}
	f.Calls = append(f.Calls, req)
	f.nextOp++
	return OperationResult{OperationHash: fmt.Sprintf("opFake%06d", f.nextOp)}, nil
}

func (f *Fake) Inject(ctx context.Context, signedOp []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextOp++
	return fmt.Sprintf("opFake%06d", f.nextOp), nil
}

func (f *Fake) ForgeOperation(ctx context.Context, req ForgeRequest) ([]byte, error) {
	return json.Marshal(req)
}
