package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/havona-labs/havona-sapphire/internal/registry"
)

// Show prints the latest attested price of every registered commodity,
// read back from the contract.
func (a *App) Show(ctx context.Context) error {
	client, err := a.dialChain(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Commodity\tPrice (USD)\tUpdated (UTC)")

	for _, c := range registry.Default() {
		price, updatedAt, err := client.GetPrice(ctx, c.ID)
		if err != nil {
			fmt.Fprintf(writer, "%s\t-\t(%s)\n", c.Name, sanitizeInline(err.Error()))
			continue
		}
		if updatedAt.Sign() == 0 {
			fmt.Fprintf(writer, "%s\t-\tnever attested\n", c.Name)
			continue
		}

		usd := decimal.NewFromBigInt(price, -6)
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\n",
			c.Name,
			usd.StringFixed(4),
			time.Unix(updatedAt.Int64(), 0).UTC().Format(time.RFC3339),
		)
	}

	return writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
