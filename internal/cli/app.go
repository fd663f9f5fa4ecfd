// Package cli implements the procure command line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"procure/db"
	"procure/db/migrations"
	"procure/internal/apiclient"
	"procure/internal/award"
	"procure/internal/config"
	"procure/internal/dashboard"
	"procure/internal/logging"
	"procure/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App carries the wired components every command uses. Fields left nil are
// built from configuration by Init.
type App struct {
	Client    *apiclient.Client
	Session   *session.Holder
	Awards    *award.Orchestrator
	Dashboard *dashboard.Aggregator
	Logger    *zap.Logger

	In  io.Reader
	Out io.Writer
	Err io.Writer

	reader  *bufio.Reader
	closers []func() error
}

func NewApp() *App {
	return &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Init loads configuration and opens the local store. It is a no-op when
// the components were supplied by the caller.
func (a *App) Init(ctx context.Context, configPath string, verbose bool) error {
	if a.Client != nil {
		if a.Logger == nil {
			a.Logger = zap.NewNop()
		}
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.NewCLI(verbose)
	if err != nil {
		return err
	}
	a.Logger = logger
	a.closers = append(a.closers, func() error { _ = logger.Sync(); return nil })

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, conn.Close)
	if err := migrations.Run(ctx, conn.DB, cfg.DBDriver); err != nil {
		return err
	}
	store := db.NewStorage(conn)

	client := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.HTTPTimeout), apiclient.WithLogger(logger))
	holder := session.New(store, client,
		session.WithLogger(logger),
		session.OnExpired(func() {
			fmt.Fprintln(a.Err, warnStyle.Render("Your session has expired. Run `procure login` to sign in again."))
		}))
	client.SetSession(holder)
	if err := holder.Restore(ctx); err != nil {
		logger.Warn("restore session", zap.Error(err))
	}

	a.Client = client
	a.Session = holder
	a.Awards = award.New(client, store, award.WithLogger(logger))
	a.Dashboard = dashboard.New(client, logger)
	return nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) prompt(label string) (string, error) {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	fmt.Fprint(a.Out, label)
	line, err := a.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var errAborted = errors.New("aborted")

// confirm asks a yes/no question unless the command was given --yes.
func (a *App) confirm(cmd *cobra.Command, question string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}
	answer, err := a.prompt(question + " [y/N]: ")
	if err != nil {
		return errAborted
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return nil
	}
	return errAborted
}

// stringValue prompts for a flag value that was not given.
func (a *App) stringValue(cmd *cobra.Command, flag, label string) (string, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v, nil
	}
	return a.prompt(label + ": ")
}

func addYesFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// awards scopes the journal to the signed-in user.
func (a *App) awards() (*award.Orchestrator, error) {
	if a.Session == nil || a.Session.CurrentUser() == nil {
		return nil, apiclient.ErrAuthRequired
	}
	return a.Awards.ForOwner(award.UserOwner(a.Session.CurrentUser().ID)), nil
}

// changedString returns the flag value only when the user set it.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}
