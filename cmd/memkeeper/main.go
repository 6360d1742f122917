package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/memkeeper/internal/cli"
	"github.com/julianstephens/memkeeper/internal/errors"
	"github.com/julianstephens/memkeeper/internal/keyring"
	"github.com/julianstephens/memkeeper/internal/logger"
	"github.com/julianstephens/memkeeper/internal/storage"
	"github.com/julianstephens/memkeeper/internal/vault"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path; use a .json extension for JSON storage or 'postgres' for a keyring-configured Postgres database." type:"path" default:"~/.config/memkeeper/memkeeper.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init       cli.InitCmd       `cmd:"" help:"Initialize memkeeper storage."`
	Tui        cli.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Create     cli.CreateCmd     `cmd:"" help:"Seal a new memory."`
	List       cli.ListCmd       `cmd:"" help:"List memories."`
	Vault      cli.VaultCmd      `cmd:"" help:"Show locked memories."`
	Unlocked   cli.UnlockedCmd   `cmd:"" help:"Show unlocked memories."`
	Show       cli.ShowCmd       `cmd:"" help:"Show a single memory."`
	Respond    cli.RespondCmd    `cmd:"" help:"Respond to an unlocked memory."`
	Upcoming   cli.UpcomingCmd   `cmd:"" help:"Show the next memories to unlock."`
	Stats      cli.StatsCmd      `cmd:"" help:"Show vault statistics."`
	Categories cli.CategoriesCmd `cmd:"" help:"List memory categories."`
	Export     cli.ExportCmd     `cmd:"" help:"Export all memories to a snapshot file."`
	Import     cli.ImportCmd     `cmd:"" help:"Import memories from a snapshot file."`
	Delete     cli.DeleteCmd     `cmd:"" help:"Delete a memory (soft delete)."`
	Restore    cli.RestoreCmd    `cmd:"" help:"Restore a deleted memory."`
	Doctor     cli.DoctorCmd     `cmd:"" help:"Run health diagnostics."`
	Backup     struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a database backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a Postgres connection string in the OS keyring."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show keyring availability and stored credentials."`
		Clear  cli.KeyringClearCmd  `cmd:"" help:"Remove stored credentials from the OS keyring."`
	} `cmd:"" help:"Manage stored database credentials."`
	Settings struct {
		Show cli.SettingsShowCmd `cmd:"" help:"Show current settings."`
		Set  cli.SettingsSetCmd  `cmd:"" help:"Change settings."`
	} `cmd:"" help:"Manage settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("memkeeper"),
		kong.Description("Time-capsule journal: seal memories now, read them later"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store, err := selectStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Store:  store,
		Keeper: vault.NewKeeper(store),
	}

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}

func selectStore(config string) (storage.Provider, error) {
	switch {
	case config == "postgres":
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if err == keyring.ErrNotFound {
				return nil, fmt.Errorf("no Postgres credentials stored, run 'memkeeper keyring set' first")
			}
			return nil, err
		}
		return storage.NewPostgresStore(connStr), nil
	case strings.HasSuffix(config, ".json"):
		return storage.NewJSONStore(config), nil
	default:
		return storage.NewSQLiteStore(config), nil
	}
}
