package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailyquest/internal/calendar"
	"github.com/julianstephens/dailyquest/internal/cli"
	"github.com/julianstephens/dailyquest/internal/cli/backups"
	"github.com/julianstephens/dailyquest/internal/cli/days"
	"github.com/julianstephens/dailyquest/internal/cli/quests"
	"github.com/julianstephens/dailyquest/internal/cli/system"
	"github.com/julianstephens/dailyquest/internal/config"
	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/errors"
	"github.com/julianstephens/dailyquest/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `name:"db" help:"Database path (.db, .json, :memory:) or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use ${env_db} or the OS keyring instead." placeholder:"PATH"`
	Config  string `help:"Settings file path." type:"path" default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize dailyquest storage and settings."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	List     quests.ListCmd     `cmd:"" help:"List today's quests."`
	Add      quests.AddCmd      `cmd:"" help:"Add a new quest."`
	Toggle   quests.ToggleCmd   `cmd:"" help:"Toggle a checkbox quest."`
	Progress quests.ProgressCmd `cmd:"" help:"Set or step a counter quest."`
	Delete   quests.DeleteCmd   `cmd:"" help:"Delete a quest."`
	History  days.HistoryCmd    `cmd:"" help:"Show daily completion for a month."`
	Status   days.StatusCmd     `cmd:"" help:"Show the logical day and last visit."`
	Watch    system.WatchCmd    `cmd:"" help:"Run the day check in the foreground until interrupted."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage the database connection string in the OS keyring."`
}

// commands that open the store themselves, or never touch it
var skipLoad = map[string]bool{
	"init":    true,
	"keyring": true,
	"doctor":  true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily quest tracker with a 3 AM reset"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": filepath.Join(constants.DefaultConfigDir, constants.ConfigFileName),
			"env_db":      constants.EnvDBConnection,
		},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		os.Exit(errors.Report(os.Stderr, err))
	}

	command := strings.Fields(ctx.Command())[0]

	cfg, err := config.Load(CLI.Config)
	if err != nil && command != "doctor" && command != "init" {
		errors.Fatal(err)
	}

	ref := CLI.DB
	if ref != "" && ref != ":memory:" && !strings.Contains(ref, "://") && !strings.Contains(ref, "=") {
		ref = kong.ExpandPath(ref)
	}
	store, err := cli.SelectStore(ref, kong.ExpandPath(constants.DefaultDBPath))
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: CLI.Config,
		Clock:      calendar.SystemClock{},
		Out:        os.Stdout,
		Err:        os.Stderr,
		In:         os.Stdin,
	}

	// Load the store before running the command (some commands handle their own loading)
	if !skipLoad[command] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		os.Exit(errors.Report(os.Stderr, err))
	}
}
