package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/srg/bentool/internal/bonderr"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", bonderr.FormatUserError(err))
		os.Exit(1)
	}
}
