package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trinoor/o365-cli/internal/adapters/driven/config/env"
	"github.com/trinoor/o365-cli/internal/adapters/driven/config/file"
	"github.com/trinoor/o365-cli/internal/adapters/driven/tokenfile"
	"github.com/trinoor/o365-cli/internal/connectors/graph"
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
	"github.com/trinoor/o365-cli/internal/core/services"
	"github.com/trinoor/o365-cli/internal/logger"
	"github.com/trinoor/o365-cli/internal/normalisers/vtt"
)

// Services the commands run against. wireServices installs the real
// implementations on first use; tests install mocks and set wired so
// the real wiring never runs.
var (
	authService       driving.AuthService
	mailService       driving.MailService
	chatService       driving.ChatService
	calendarService   driving.CalendarService
	filesService      driving.FilesService
	contactsService   driving.ContactsService
	recordingsService driving.RecordingsService
	settingsService   driving.SettingsService

	wired bool
)

// Persistent flags.
var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "o365",
	Short: "Microsoft 365 from the command line",
	Long: `Work with Microsoft 365 mail, calendar, Teams chats, OneDrive files,
contacts, and meeting recordings from the command line.

Sign in once with 'o365 auth login'; tokens refresh automatically from
then on. Configuration lives in ~/.config/o365/config.toml, with O365_*
environment variables taking precedence per run.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if wired {
			return nil
		}
		return wireServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(
		&configDir, "config-dir", "", "Config directory (default ~/.config/o365)")
}

// wireServices connects the real adapters: environment and file
// configuration, the token store, the Graph client, and the services
// on top. Missing credentials are not an error here; a command that
// needs them surfaces the failure on its first API call.
func wireServices() error {
	overrides, err := env.Parse()
	if err != nil {
		return err
	}

	dir := configDir
	if dir == "" {
		dir = overrides.ConfigDir
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return err
	}

	cfg := graph.Config{
		ClientID: overrides.ClientID,
		Tenant:   overrides.Tenant,
		Scopes:   overrides.Scopes,
	}
	if cfg.ClientID == "" {
		cfg.ClientID = store.GetString("auth.client_id")
	}
	if cfg.Tenant == "" {
		cfg.Tenant = store.GetString("auth.tenant")
	}
	if len(cfg.Scopes) == 0 {
		if s := store.GetString("auth.scopes"); s != "" {
			cfg.Scopes = strings.Fields(s)
		}
	}

	tokenPath := overrides.TokenFile
	if tokenPath == "" {
		tokenPath = store.GetString("auth.token_file")
	}
	if tokenPath == "" && dir != "" {
		tokenPath = filepath.Join(dir, "tokens.json")
	}
	tokens, err := tokenfile.NewStore(tokenPath)
	if err != nil {
		return err
	}

	manager := graph.NewTokenManager(cfg, tokens)
	client := graph.NewClient(cfg, manager)

	settingsService = services.NewSettingsService(store)
	authService = services.NewAuthService(manager)
	contactsService = services.NewContactsService(client)
	mailService = services.NewMailService(client, contactsService)
	chatService = services.NewChatService(client)
	calendarService = services.NewCalendarService(client)
	filesService = services.NewFilesService(client)
	recordingsService = services.NewRecordingsService(client, vtt.New())
	wired = true
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
