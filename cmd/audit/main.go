// Command audit runs the operator integrity sweep over all stored records
// and prints the findings as JSON. It exits non-zero when any record fails
// decryption or tag verification.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/dmitrijs2005/secureportal/internal/server"
	"github.com/dmitrijs2005/secureportal/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Bootstrap(ctx); err != nil {
		log.Fatalf("%v", err)
	}

	report, err := app.Records.Scan(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalf("%v", err)
	}

	if len(report.Compromised) > 0 {
		os.Exit(1)
	}
}
