// Package cli defines dangit's command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dangit/internal/browser"
	"dangit/internal/config"
	"dangit/internal/forge"
	"dangit/internal/logging"
	"dangit/internal/loop"
	"dangit/internal/tui"
)

// Set at build time with -ldflags "-X dangit/internal/cli.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// New returns the root command.
func New() *cobra.Command {
	return newRoot(config.New())
}

func newRoot(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "dangit",
		Short: base.Wrap80("Open GitHub issues, pull requests, and notifications in one terminal dashboard."),
		Long: base.Wrap80("dangit fetches the issues and pull requests you created or are assigned to, " +
			"plus your unread notifications, and shows them grouped by repository. " +
			"Press tab to switch between notifications, issues, and pull requests, and enter to open a notification."),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := setup(cmd.Context(), v, cfgFile)
			if err != nil {
				return err
			}
			defer s.close()

			return tui.Run(cmd.Context(), tui.Options{
				Source:        s.source,
				Opener:        loop.OpenerFunc(browser.Open),
				Logger:        s.logger,
				Tick:          s.cfg.Tick,
				Reveal:        s.cfg.Reveal,
				TabTransition: s.cfg.TabTransition,
			})
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: <user config dir>/dangit/config.yaml)")
	flags.String("org", "", "only show work items from this organization")
	flags.String("log-file", "", "write JSON logs to this file")
	flags.String("log-level", "warn", "log level: debug, info, warn, or error")
	_ = v.BindPFlag(config.KeyOrganization, flags.Lookup("org"))
	_ = v.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))
	_ = v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	addList(cmd, v, &cfgFile)
	addVersion(cmd)
	return cmd
}

// session is what every data command needs.
type session struct {
	cfg      config.Config
	logger   *slog.Logger
	source   *forge.GitHub
	closeLog func() error
}

func (s *session) close() {
	if err := s.closeLog(); err != nil {
		s.logger.Warn("close log file", "error", err)
	}
}

func setup(ctx context.Context, v *viper.Viper, cfgFile string) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.ReadFile(v, cfgFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}

	token, err := forge.Token(ctx, cfg.Token)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	source := forge.NewGitHub(forge.Config{
		Token:              token,
		GraphQLURL:         cfg.GraphQLURL,
		APIURL:             cfg.APIURL,
		Organization:       cfg.Organization,
		MaxItems:           cfg.MaxItems,
		NotificationsLimit: cfg.NotificationsLimit,
		AllNotifications:   cfg.AllNotifications,
		Timeout:            cfg.Timeout,
		Logger:             logger,
	})
	return &session{cfg: cfg, logger: logger, source: source, closeLog: closeLog}, nil
}
