// Package cli wires the evotodo command tree. Commands print with the ui
// helpers and map failures to exit codes: 0 ok, 1 failure, 2 usage,
// validation or not signed in.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/evotodo/internal/api"
	"github.com/idilsaglam/evotodo/internal/board"
	"github.com/idilsaglam/evotodo/internal/config"
	"github.com/idilsaglam/evotodo/internal/model"
	"github.com/idilsaglam/evotodo/internal/session"
	"github.com/idilsaglam/evotodo/internal/tui"
	"github.com/idilsaglam/evotodo/internal/ui"
)

var errSignedOut = errors.New("not signed in")

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usage(format string, args ...any) error {
	return &exitError{code: 2, err: fmt.Errorf(format, args...)}
}

// App holds what every command needs. Zero fields are filled in from the
// environment before a command runs; tests preset them.
type App struct {
	In       io.Reader
	Out, Err io.Writer

	Config *config.Config
	Store  session.Store
	HTTP   *http.Client
	// Dashboard runs the interactive list; tests replace it.
	Dashboard func(context.Context, tui.Options) (api.Destination, error)

	log     *log.Logger
	in      *bufio.Reader
	dest    api.Destination
	ran     bool
	verbose bool
	apiURL  string
	noColor bool
}

// Run executes args against the real environment and returns the exit
// code.
func Run(ctx context.Context, args []string) int {
	a := &App{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
	return a.Run(ctx, args)
}

func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.Err)

	err := root.ExecuteContext(ctx)
	if a.dest == api.DestSignIn {
		ui.Hint(a.Err, "Session expired. Run: evotodo auth login")
	}
	if err == nil {
		return 0
	}
	ui.Fail(a.Err, err.Error())
	if errors.Is(err, errSignedOut) {
		ui.Hint(a.Err, "Run: evotodo auth login (or set "+session.EnvToken+")")
	}
	return a.exitCode(err)
}

func (a *App) exitCode(err error) int {
	var ee *exitError
	switch {
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, errSignedOut),
		errors.Is(err, api.ErrUnauthorized),
		errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrInvalidRef):
		return 2
	case !a.ran:
		// cobra rejected the flags or args before any command ran
		return 2
	}
	return 1
}

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "evotodo",
		Short: "evotodo - todos and tasks from your terminal",
		Long: `evotodo talks to the todo/task backend.

Items from both families are shown in one list. Refer to an item by its
1-based position in that list or by its ref, e.g. todo:3 or task:abc-1.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "backend base URL (overrides config)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colors")

	root.AddCommand(
		a.lsCmd(),
		a.addCmd(),
		a.doneCmd(true),
		a.doneCmd(false),
		a.editCmd(),
		a.rmCmd(),
		a.authCmd(),
		a.chatCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads config, session and logger once the command line parsed.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	a.ran = true

	lvl := log.WarnLevel
	if a.verbose {
		lvl = log.DebugLevel
	}
	a.log = log.NewWithOptions(a.Err, log.Options{Prefix: "evotodo", Level: lvl})

	if a.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return usage("%v", err)
		}
		a.Config = cfg
	}
	if a.apiURL != "" {
		a.Config.APIURL = strings.TrimRight(a.apiURL, "/")
	}
	ui.SetTheme(a.Config.Theme)
	ui.DisableColor(a.noColor)

	if a.Store == nil {
		path, err := session.DefaultPath()
		if err != nil {
			return err
		}
		a.Store = session.NewFileStore(path)
	}
	if a.Dashboard == nil {
		a.Dashboard = tui.Run
	}
	a.log.Debug("config", "api_url", a.Config.APIURL, "add_target", a.Config.AddTarget)
	return nil
}

func (a *App) navigate(d api.Destination) { a.dest = d }

// client builds a resource client. nav defaults to recording the
// destination for the exit hint.
func (a *App) client(nav api.Navigator) *api.Client {
	if nav == nil {
		nav = api.NavigatorFunc(a.navigate)
	}
	opts := []api.Option{api.WithNavigator(nav), api.WithLogger(a.log)}
	if a.HTTP != nil {
		opts = append(opts, api.WithHTTPClient(a.HTTP))
	}
	return api.New(a.Config.APIURL, a.Store, opts...)
}

func (a *App) requireToken() (*session.Token, error) {
	tok, err := a.Store.Get()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, errSignedOut
	}
	return tok, nil
}

func (a *App) mutator(c *api.Client) (*board.Mutator, error) {
	target, err := a.Config.Target()
	if err != nil {
		return nil, usage("%v", err)
	}
	m := board.NewMutator(c, c)
	m.AddTarget = target
	return m, nil
}

// resolve turns "todo:3", "task:abc-1" or a 1-based list position into a
// ref. Positions need a fresh load.
func (a *App) resolve(ctx context.Context, c *api.Client, arg string) (model.Ref, error) {
	if strings.Contains(arg, ":") {
		ref, err := model.ParseRef(arg)
		if err != nil {
			return model.Ref{}, usage("%v", err)
		}
		return ref, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Ref{}, usage("not a number or ref: %s", arg)
	}
	st := board.Load(ctx, c)
	if err := st.Err(); err != nil {
		return model.Ref{}, err
	}
	it, err := st.At(n)
	if err != nil {
		ui.Hint(a.Err, "Hint: run `evotodo ls --plain` to see valid indexes")
		return model.Ref{}, &exitError{code: 2, err: err}
	}
	return it.Ref, nil
}

// readLine prompts and reads one trimmed line from In.
func (a *App) readLine(prompt string) (string, error) {
	if a.in == nil {
		a.in = bufio.NewReader(a.In)
	}
	fmt.Fprint(a.Out, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
