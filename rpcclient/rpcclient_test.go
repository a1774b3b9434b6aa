package rpcclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFakeOriginateThenGetStorage(t *testing.T) {
	f := NewFake()
	ctx := context.Background()
	res, err := f.Originate(ctx, OriginateRequest{InitStorage: json.RawMessage(`{"int":"0"}`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContractAddress == "" {
		t.Fatal("expected a non-empty contract address")
	}
	storage, err := f.GetStorage(ctx, res.ContractAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(storage) != `{"int":"0"}` {
		t.Errorf("expected the originated storage back, got %s", storage)
	}
}

func TestFakeInvokeUnknownContractErrors(t *testing.T) {
	f := NewFake()
	_, err := f.InvokeEntry(context.Background(), InvokeRequest{Contract: "KT1DoesNotExist", Entry: "main"})
	if err == nil {
		t.Fatal("expected an error invoking an unoriginated contract")
	}
}

func TestFakeRecordsCallsAndOrigins(t *testing.T) {
	f := NewFake()
	ctx := context.Background()
	res, _ := f.Originate(ctx, OriginateRequest{InitStorage: json.RawMessage(`{"int":"1"}`)})
	f.InvokeEntry(ctx, InvokeRequest{Contract: res.ContractAddress, Entry: "deposit"})
	if len(f.Origins) != 1 || len(f.Calls) != 1 {
		t.Fatalf("expected one recorded origin and call, got %d/%d", len(f.Origins), len(f.Calls))
	}
	if f.Calls[0].Entry != "deposit" {
		t.Errorf("expected the recorded call's entry to survive, got %q", f.Calls[0].Entry)
	}
}

func TestHTTPNodeClientOriginateRoundTrips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/injection/originate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req OriginateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Balance != 100 {
			t.Errorf("expected balance 100 to reach the node, got %d", req.Balance)
		}
		json.NewEncoder(w).Encode(OriginateResult{ContractAddress: "KT1Test", OperationHash: "opTest"})
	}))
	defer srv.Close()

	client := NewHTTPNodeClient(srv.URL, nil)
	res, err := client.Originate(context.Background(), OriginateRequest{Balance: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContractAddress != "KT1Test" {
		t.Errorf("expected the node's contract address back, got %q", res.ContractAddress)
	}
}

func TestHTTPNodeClientErrorStatusIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad request"}`))
	}))
	defer srv.Close()

	client := NewHTTPNodeClient(srv.URL, nil)
	_, err := client.GetStorage(context.Background(), "KT1Whatever")
	if err == nil {
		t.Fatal("expected a non-2xx status to surface as an error")
	}
}
