// Command clc-lsp starts the editor-facing language server (§10.10) on
// stdio, the transport every LSP client speaks by default.
package main

import (
	"fmt"
	"os"

	"github.com/chazu/clc/lspserver"
)

func main() {
	if err := lspserver.New().Run(); err != nil {
		fmt.Fprintln(os.Stderr, "clc-lsp:", err)
		os.Exit(1)
	}
}
