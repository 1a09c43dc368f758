// Command releaseflow analyzes merged pull requests to produce release
// previews, retrospectives and trends for a staged branch workflow.
package main

import (
	"fmt"
	"os"

	"github.com/ehuang2/releaseflow/cmd"
	"github.com/ehuang2/releaseflow/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		iocache.CloseStores()
		os.Exit(1)
	}
}
