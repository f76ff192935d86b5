package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/tsugix/tsugix/internal/config"
	"github.com/tsugix/tsugix/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit .tsugix.json",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one key in .tsugix.json, leaving every other key untouched",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

// runConfigSet patches a single key into the resolved config file's raw
// JSON via sjson, rather than unmarshal/marshal through fileConfig, so
// keys this binary doesn't know about (or comments a hand-editor added)
// survive the edit untouched.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	path := config.ResolveWritePath()

	data, err := os.ReadFile(path) // #nosec G304 - path comes from a fixed, documented resolution order
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	updated, err := sjson.SetBytes(data, key, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("%s set %s = %s in %s\n", ui.Bullet(), key, value, path)
	return nil
}
