package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/havona-labs/havona-sapphire/internal/registry"
)

var attestCmd = &cobra.Command{
	Use:   "attest <commodity>",
	Short: "Fetch one commodity and submit a single attestation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToUpper(args[0])
		if _, err := registry.Default().Lookup(name); err != nil {
			return fmt.Errorf("%w (known: %s)", err, strings.Join(registry.Default().Names(), ", "))
		}
		return getApp().Attest(cmd.Context(), name)
	},
}
