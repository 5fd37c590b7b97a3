/*
Package cli implements pmctl, the terminal client for PixelMinds.

pmctl keeps its session token in a file (by default under the user's config directory)
so consecutive invocations share one login.
*/
package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pixelminds/internal/app/api"
	"pixelminds/internal/app/storage"
	"pixelminds/internal/pkg/auth/session"
	"pixelminds/internal/pkg/logx"
)

const (
	envTokenFile = "PMCTL_TOKEN_FILE"
	envAPIURL    = "PIXELMINDS_API_URL"
	envPassword  = "PMCTL_PASSWORD"
)

// Options lets callers replace the collaborators pmctl builds for itself.
type Options struct {
	// Store overrides the token file store. pmctl does not close it.
	Store storage.Store

	// OpenStore opens the store at the resolved token path; it defaults to a file store.
	// A store it returns is closed when the command finishes, including on error.
	OpenStore func(path string) (storage.Store, error)

	HTTPClient *http.Client
	Clock      func() time.Time
}

// app holds what a command needs once the persistent flags are parsed.
type app struct {
	opts Options

	apiURL    string
	tokenFile string
	verbose   bool

	store     storage.Store
	ownsStore bool
	client    *api.Client
	session   *session.Service
}

// NewRootCommand returns the pmctl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	root, _ := newRoot(opts)
	return root
}

func newRoot(opts Options) (*cobra.Command, *app) {
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "pmctl",
		Short:         "Terminal client for the PixelMinds blog",
		Long:          "Sign in to PixelMinds, manage your session and read or publish posts from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logx.Init(logx.EnvCLI, a.verbose)
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", envOr(envAPIURL, api.DefaultBaseURL), "PixelMinds API base URL")
	flags.StringVar(&a.tokenFile, "token-file", os.Getenv(envTokenFile), "session token file (default <config dir>/pixelminds/session.json)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newRegisterCommand(a),
		newWhoamiCommand(a),
		newStatusCommand(a),
		newRefreshCommand(a),
		newTokenCommand(a),
		newPostsCommand(a),
	)
	a.closeAfterRun(root)

	return root, a
}

// closeAfterRun makes every runnable command release the store it opened. Cobra skips
// post-run hooks when RunE fails, so the close is deferred inside RunE itself.
func (a *app) closeAfterRun(cmd *cobra.Command) {
	for _, child := range cmd.Commands() {
		a.closeAfterRun(child)
	}

	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = errors.Join(err, a.teardown())
		}()
		return run(cmd, args)
	}
}

// Execute runs pmctl and returns the process exit code.
func Execute() int {
	root, a := newRoot(Options{})
	// Covers failures cobra reports between setup and RunE, such as missing required flags.
	defer func() { _ = a.teardown() }()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command) error {
	a.store = a.opts.Store
	if a.store == nil {
		path, err := a.resolveTokenFile()
		if err != nil {
			return err
		}
		open := a.opts.OpenStore
		if open == nil {
			open = openFileStore
		}
		store, err := open(path)
		if err != nil {
			return err
		}
		a.store = store
		a.ownsStore = true
	}

	base, err := api.NewClient(api.Config{BaseURL: a.apiURL, HTTPClient: a.opts.HTTPClient})
	if err != nil {
		return errors.Join(err, a.teardown())
	}

	errOut := cmd.ErrOrStderr()
	a.session, err = session.New(session.Options{
		Store: a.store,
		API:   base,
		Navigator: session.NavigatorFunc(func(route string) {
			if route == session.LoginRoute && cmd.Name() != "logout" {
				fmt.Fprintln(errOut, "Session ended. Run 'pmctl login' to sign in.")
			}
		}),
		Clock: a.opts.Clock,
	})
	if err != nil {
		return errors.Join(err, a.teardown())
	}

	a.client = base.WithAuthorizer(a.session)
	return nil
}

// teardown closes an owned store once; later calls do nothing.
func (a *app) teardown() error {
	if !a.ownsStore || a.store == nil {
		return nil
	}
	a.ownsStore = false
	return a.store.Close()
}

func openFileStore(path string) (storage.Store, error) {
	return storage.NewFileStore(path)
}

func (a *app) resolveTokenFile() (string, error) {
	if a.tokenFile != "" {
		return a.tokenFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory (set --token-file or %s): %w", envTokenFile, err)
	}
	return filepath.Join(dir, "pixelminds", "session.json"), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
