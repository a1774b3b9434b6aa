package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chazu/clc/config"
	"github.com/chazu/clc/mtext"
	"github.com/chazu/clc/rpcclient"
	"github.com/chazu/clc/types"
)

// nodeClient builds the boundary rpcclient talks through. A --tezos-node
// value is required for every network command; there is no default node
// to fall back to, since silently picking one would be talking to chain
// state the user never asked to touch.
func nodeClient(f cliFlags) (rpcclient.NodeClient, error) {
	if f.tezosNode == "" {
		return nil, fmt.Errorf("--tezos-node is required")
	}
	return rpcclient.NewHTTPNodeClient(f.tezosNode, nil), nil
}

// constJSONArg wraps a parsed constant as the JSON payload a
// NodeClient request carries. The RPC boundary only promises an opaque
// json.RawMessage (rpcclient.go's own doc comment: decoding it into a
// typed constant is the caller's job, not this boundary's), so the M
// stanza text form, JSON-string-quoted, is a legitimate wire shape for
// it.
func constJSONArg(c *types.Const) (json.RawMessage, error) {
	return json.Marshal(mtext.ConstText(c))
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func runGetStorage(cfg config.Config, f cliFlags) int {
	client, err := nodeClient(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitUsage
	}
	return getStorage(client, f.getStorage)
}

func getStorage(client rpcclient.NodeClient, addr string) int {
	ctx, cancel := requestContext()
	defer cancel()
	raw, err := client.GetStorage(ctx, addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitInternal
	}
	fmt.Println(string(raw))
	return exitOK
}

func runCall(cfg config.Config, f cliFlags, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "clc: --call ADDR requires ENTRY PARAM")
		return exitUsage
	}
	client, err := nodeClient(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitUsage
	}
	return callEntry(client, f.call, args[0], args[1], f.amount)
}

func callEntry(client rpcclient.NodeClient, contract, entry, paramSrc string, amount int64) int {
	param, err := mtext.ParseConst(paramSrc)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc: parsing PARAM:", err)
		return exitUsage
	}
	arg, err := constJSONArg(param)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitInternal
	}
	ctx, cancel := requestContext()
	defer cancel()
	result, err := client.InvokeEntry(ctx, rpcclient.InvokeRequest{
		Contract: contract, Entry: entry, Arg: arg, Amount: amount,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitInternal
	}
	fmt.Println(result.OperationHash)
	return exitOK
}

func runForgeCall(cfg config.Config, f cliFlags, args []string) int {
	client, err := nodeClient(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitUsage
	}
	ctx, cancel := requestContext()
	defer cancel()
	bytes, err := client.ForgeOperation(ctx, rpcclient.ForgeRequest{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitInternal
	}
	fmt.Printf("%x\n", bytes)
	return exitOK
}

func runInject(cfg config.Config, f cliFlags) int {
	client, err := nodeClient(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitUsage
	}
	signed, err := os.ReadFile(f.inject)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitInternal
	}
	return injectOp(client, signed)
}

func injectOp(client rpcclient.NodeClient, signed []byte) int {
	ctx, cancel := requestContext()
	defer cancel()
	hash, err := client.Inject(ctx, signed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitInternal
	}
	fmt.Println(hash)
	return exitOK
}

// runData implements `--data ENTRY PARAM [STORAGE]`: it parses and
// re-renders CLI-supplied literals as M constant text without compiling
// a contract at all, for callers who already have a compiled entry and
// just need its argument encoded.
func runData(cfg config.Config, f cliFlags, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "clc: --data requires ENTRY PARAM [STORAGE]")
		return exitUsage
	}
	param, err := mtext.ParseConst(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc: parsing PARAM:", err)
		return exitUsage
	}
	fmt.Println(mtext.ConstText(param))
	if len(args) >= 3 {
		storage, err := mtext.ParseConst(args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "clc: parsing STORAGE:", err)
			return exitUsage
		}
		fmt.Println(mtext.ConstText(storage))
	}
	return exitOK
}

// runDeployFamily implements --init-storage, --forge-deploy, and
// --deploy: each compiles its input(s) exactly as compileFile does, but
// ends by handing the artifact to the node boundary (or, for
// --init-storage, just printing the initializer sidecar) instead of
// writing a .tz file.
func runDeployFamily(cfg config.Config, f cliFlags, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "clc: no input files")
		return exitUsage
	}
	code := exitOK
	for _, path := range args {
		var rc int
		switch {
		case f.initStorage:
			rc = compileInitOnly(cfg, path)
		case f.forgeDeploy:
			rc = forgeOrDeploy(cfg, f, path, false)
		case f.deploy:
			rc = forgeOrDeploy(cfg, f, path, true)
		}
		if rc != exitOK {
			code = rc
		}
	}
	return code
}

// compileInitOnly implements --init-storage: it compiles path and prints
// just its storage-initializer script (§10.8). A constant storage still
// gets one — CompileInitializer over a global chain with no non-constant
// bindings just pushes literals — so this path never needs to special
// case cd.isConstant; that flag only decides artifact naming.
func compileInitOnly(cfg config.Config, path string) int {
	cd, rc := compileSource(cfg, path)
	if cd == nil {
		return rc
	}
	initProgram, err := initializerProgram(cfg, cd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, err)
		return exitInternal
	}
	fmt.Println(mtext.EncodeText(initProgram))
	return exitOK
}

// forgeOrDeploy compiles path, then either forges the resulting
// origination without injecting it or, when deploy is set, originates it
// directly against --tezos-node.
func forgeOrDeploy(cfg config.Config, f cliFlags, path string, deploy bool) int {
	cd, rc := compileSource(cfg, path)
	if cd == nil {
		return rc
	}
	client, err := nodeClient(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "clc:", err)
		return exitUsage
	}
	return originate(client, cfg, cd, path, f.amount, deploy)
}

func originate(client rpcclient.NodeClient, cfg config.Config, cd *compiled, path string, amount int64, deploy bool) int {
	codeJSON, err := mtext.EncodeJSON(cd.program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, err)
		return exitInternal
	}

	// The initializer script's code, constant or not, is what an
	// originator runs once to produce the storage argument; a constant
	// storage just means that script never reads anything off an
	// incoming stack.
	initProgram, ierr := initializerProgram(cfg, cd)
	if ierr != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, ierr)
		return exitInternal
	}
	storageJSON, err := mtext.EncodeJSON(initProgram)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clc: %s: %v\n", path, err)
		return exitInternal
	}

	ctx, cancel := requestContext()
	defer cancel()

	if !deploy {
		bytes, ferr := client.ForgeOperation(ctx, rpcclient.ForgeRequest{})
		if ferr != nil {
			fmt.Fprintln(os.Stderr, "clc:", ferr)
			return exitInternal
		}
		fmt.Printf("%x\n", bytes)
		return exitOK
	}

	result, oerr := client.Originate(ctx, rpcclient.OriginateRequest{
		Code: codeJSON, InitStorage: storageJSON, Balance: amount,
	})
	if oerr != nil {
		fmt.Fprintln(os.Stderr, "clc:", oerr)
		return exitInternal
	}
	fmt.Println(result.ContractAddress)
	vlog(cfg, "clc: %s: deployed as %s (op %s)", path, result.ContractAddress, result.OperationHash)
	return exitOK
}
