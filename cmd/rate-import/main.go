// rate-import loads exchange rate observations from a JSON file and
// appends them to the rates table. Rows already stored for the same
// (from, to, rate_date) are skipped, so re-importing a file is safe.
//
// File format: an array of objects with from_currency, to_currency,
// rate, rate_date (RFC 3339, optional) and source (optional).
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/rate-import rates.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/models"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: rate-import <rates.json>")
		os.Exit(2)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	var inputs []models.NewExchangeRate
	if err := json.Unmarshal(data, &inputs); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	imported := 0
	for i := range inputs {
		if _, err := models.CreateExchangeRate(ctx, &inputs[i]); err != nil {
			fmt.Fprintf(os.Stderr, "row %d (%s->%s): %v\n", i, inputs[i].FromCurrency, inputs[i].ToCurrency, err)
			os.Exit(1)
		}
		imported++
	}
	fmt.Printf("imported %d rate observations\n", imported)
}
