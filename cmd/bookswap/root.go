package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bookswap/client"
)

type (
	cliConfig struct {
		APIURL   string `env:"BOOKSWAP_API_URL" envDefault:"http://localhost:8080/api"`
		LogLevel string `env:"BOOKSWAP_LOG_LEVEL" envDefault:"warn"`
	}

	app struct {
		session  *client.Session
		catalog  *client.Catalog
		requests *client.RequestManager
		logger   zerolog.Logger
	}
)

func newApp() (*app, error) {
	cfg := cliConfig{}
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()

	store, err := client.NewFileCredentialStore()
	if err != nil {
		return nil, err
	}

	session := client.NewSession(cfg.APIURL, store, client.WithLogger(logger))
	return &app{
		session:  session,
		catalog:  client.NewCatalog(session.API()),
		requests: client.NewRequestManager(session.API()),
		logger:   logger,
	}, nil
}

// requireUser restores the session and fails if it settled anonymous.
func (a *app) requireUser(cmd *cobra.Command) error {
	a.session.Restore(cmd.Context())
	if !a.session.Authenticated() {
		return errors.New("not logged in; run `bookswap login` first")
	}
	return nil
}

// readPassword securely reads a password with masking
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func newRootCmd() (*cobra.Command, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:           "bookswap",
		Short:         "Peer-to-peer book exchange",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newBooksCmd(a),
		newRequestsCmd(a),
	)
	return root, nil
}
