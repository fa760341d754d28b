package main

import (
	"fmt"
	"os"

	api "Wildography"
)

func main() {
	if err := api.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
