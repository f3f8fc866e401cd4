package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sweetlist/internal/notify"
	"github.com/desertthunder/sweetlist/internal/services"
	"github.com/desertthunder/sweetlist/internal/shared"
	"github.com/desertthunder/sweetlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	notes      *notify.Center
	actions    *tasks.Actions
	browse     func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	// Browse opens a URL; defaults to [shared.OpenBrowser].
	Browse func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Browse == nil {
		opts.Browse = shared.OpenBrowser
	}

	notes := notify.NewCenter(opts.Config.NotificationTTL())
	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		notes:      notes,
		browse:     opts.Browse,
	}
	if opts.Client != nil {
		r.actions = tasks.NewActions(opts.Client, notes, shared.WithLogger(opts.Logger, "component", "actions"))
	}
	return r
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Before applies global flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, recipesCommand, selectCommand, shoppingListCommand,
		categoryCommand, recipeCommand, sessionCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) requireClient() (*services.Client, error) {
	if r.client == nil {
		return nil, fmt.Errorf("%w: recipe client not initialized", shared.ErrServiceUnavailable)
	}
	return r.client, nil
}

// openDatabase opens the configured database with pending migrations applied.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// sessionID returns the --session flag, falling back to session.id from the config.
func (r *Runner) sessionID(cmd *cli.Command) string {
	if id := strings.TrimSpace(cmd.String("session")); id != "" {
		return id
	}
	if r.config.Session.ID != "" {
		return r.config.Session.ID
	}
	return "default"
}

// confirm asks a yes/no question on the runner's input. Anything but y/yes/o/oui is a no.
func (r *Runner) confirm(question string) bool {
	r.writePlain("%s [y/N] ", question)
	answer, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "o", "oui":
		return true
	default:
		return false
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeMarkdown prints md, styled for the terminal when render is set.
func (r *Runner) writeMarkdown(md []byte, render bool) error {
	if !render {
		return r.writePlain("%s", md)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(string(md))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.writePlain("%s", out)
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeOutcome prints a flow's notification and turns a failed outcome into an error.
func (r *Runner) writeOutcome(outcome tasks.Outcome) error {
	if outcome.Notification.Message != "" {
		r.writePlain("%s\n", outcome.Notification)
	}
	if outcome.Err != nil {
		return outcome.Err
	}
	if !outcome.OK() {
		return fmt.Errorf("%w: %s", shared.ErrRejected, outcome.Result.Message)
	}
	return nil
}
