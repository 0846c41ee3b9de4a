// main is the entry point of the marketscope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/marketscope/cmd"
	"github.com/huangsam/marketscope/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
