package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/rigup/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose()}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		var coded *cli.ExitCodeError
		if errors.As(err, &coded) {
			os.Exit(coded.Code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("RIGUP_DEBUG"), "1") || strings.EqualFold(os.Getenv("RIGUP_DEBUG"), "true")
}
