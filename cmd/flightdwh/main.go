package main

import (
	"fmt"
	"os"

	"flight_dwh/cmd/flightdwh/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
