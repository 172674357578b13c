package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Read and write the configuration file (~/.config/o365/config.toml).

Keys use section.option form. The settings that matter:

  auth.client_id    Azure app registration ID (required once)
  auth.tenant       Directory to sign in against (default: common)
  auth.scopes       Space-separated delegated scopes
  auth.token_file   Where the token record lives

O365_* environment variables override these per run.

Examples:
  o365 config set auth.client_id 00000000-0000-0000-0000-000000000000
  o365 config set auth.client_secret --secret
  o365 config get auth.tenant
  o365 config list`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting's value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Store a setting",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all settings",
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

// Flags for config set.
var configSetSecret bool

func init() {
	configSetCmd.Flags().BoolVar(
		&configSetSecret, "secret", false, "Prompt for the value without echoing it")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	value, ok := settingsService.Get(args[0])
	if !ok {
		return fmt.Errorf("%s is not set", args[0])
	}
	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key := args[0]

	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case configSetSecret:
		cmd.Printf("Value for %s: ", key)
		secret, err := readSecret(cmd)
		if err != nil {
			return err
		}
		cmd.Println()
		value = secret
	default:
		return errors.New("usage: o365 config set <key> <value>")
	}

	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	if configSetSecret {
		cmd.Printf("Set %s\n", key)
	} else {
		cmd.Printf("Set %s = %s\n", key, value)
	}
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return err
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	keys := settingsService.Keys()
	if len(keys) == 0 {
		cmd.Println("No configuration set. Use 'o365 config set' to add values.")
		return nil
	}

	cmd.Printf("Configuration (%s):\n\n", settingsService.Path())
	lastSection := ""
	for _, key := range keys {
		section, option, found := strings.Cut(key, ".")
		if !found {
			cmd.Printf("%s = %v\n", key, settingValue(key))
			continue
		}
		if section != lastSection {
			if lastSection != "" {
				cmd.Println()
			}
			cmd.Printf("[%s]\n", section)
			lastSection = section
		}
		cmd.Printf("  %s = %v\n", option, settingValue(key))
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(settingsService.Path())
	return nil
}

func settingValue(key string) any {
	value, _ := settingsService.Get(key)
	return value
}

// readSecret reads a line of input without echoing when stdin is a
// terminal, falling back to a plain read otherwise.
func readSecret(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(secret), nil
		}
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
