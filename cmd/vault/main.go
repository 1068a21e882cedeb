package main

import (
	"fmt"
	"os"

	"github.com/MKhiriev/monad-vault/internal/cli"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := cli.Execute(versionString()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func versionString() string {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	return fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit)
}
