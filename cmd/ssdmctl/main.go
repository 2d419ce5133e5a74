// Command ssdmctl is the operator and partner command line client of the
// broker. Mall administration needs --admin-token, mall operations need
// --api-key, and session commands need neither.
package main

import (
	"os"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewConsoleLogger("ssdmctl")

	if err := newApp(os.Stdout, log).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
