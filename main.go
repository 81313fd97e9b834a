// main is the entry point for the casewatch CLI.
package main

import (
	"github.com/arosling/casewatch/cmd"
	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/internal/runstore"
)

func main() {
	cmd.SetStoreManager(runstore.Manager)

	err := cmd.Execute()

	// Cleanup must run before any exit, so no defers here.
	runstore.CloseStore()
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Failed to stop profiling", profErr)
	}

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
