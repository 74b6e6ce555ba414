// Package main is the entry point for the audit-report CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/audit-reporter/cmd/audit-report/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
