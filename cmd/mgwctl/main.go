package main

import (
	"fmt"
	"os"

	"github.com/edgefn/model-gateway/cmd/mgwctl/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
