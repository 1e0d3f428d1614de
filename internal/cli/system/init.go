package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/dailyquest/internal/cli"
	"github.com/julianstephens/dailyquest/internal/config"
	"github.com/julianstephens/dailyquest/internal/constants"
	"github.com/julianstephens/dailyquest/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database and config before initialization."`
	Source string `help:"Source database path or connection string to copy quest data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.removeExisting(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "Initialized dailyquest storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Fprintf(ctx.Out, "Copying data from: %s\n", c.Source)
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Fprintf(ctx.Out, "  Copied %d key(s)\n", n)
	}

	created, err := config.EnsureDefault(ctx.ConfigPath, c.Force)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(ctx.Out, "Wrote default settings to: %s\n", ctx.ConfigPath)
	}

	s, err := ctx.OpenSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Controller.Seeded() {
		fmt.Fprintf(ctx.Out, "Seeded %d starter quests. Run 'dailyquest' to get going.\n", len(s.Controller.State().Snapshot()))
	}
	return nil
}

func (c *InitCmd) removeExisting(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if abs, err := filepath.Abs(dbPath); err == nil {
		dbPath = abs
	}
	// Don't delete the source (user error protection)
	if c.Source != "" {
		if abs, err := filepath.Abs(c.Source); err == nil && abs == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// Close first to prevent file locking issues
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Fprintf(ctx.Out, "Deleted existing database at: %s\n", dbPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	source, err := cli.SelectStore(c.Source, constants.DefaultDBPath)
	if err != nil {
		return 0, err
	}
	if err := source.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	return storage.Copy(ctx.Store, source)
}
