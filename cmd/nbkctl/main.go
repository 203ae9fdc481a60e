package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nbkdev/control-center/internal/config"
	"github.com/nbkdev/control-center/internal/observability/logging"
)

const serviceName = "nbkctl"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(openSession).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	open    sessionOpener
	cfg     config.Config
}

func newRootCmd(open sessionOpener) *cobra.Command {
	c := &app{v: viper.New(), open: open}

	root := &cobra.Command{
		Use:   serviceName,
		Short: "Back-office attention feed, vitals and reminders from the terminal",
		Long: `nbkctl reads the same back-office records as the API and prints the ranked
attention feed, the financial vitals and the next renewal reminder.

Reminders are tracked in a local ledger so each one shows at most once a day.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: $HOME/.config/nbkctl/config.yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("postgres-dsn", "", "postgres connection string (overrides POSTGRES_DSN)")
	flags.String("timezone", "", "IANA timezone used to decide what today is")
	flags.String("ledger", "", "path of the local reminder ledger")

	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("postgres.dsn", flags.Lookup("postgres-dsn"))
	_ = c.v.BindPFlag("timezone", flags.Lookup("timezone"))
	_ = c.v.BindPFlag("ledger.path", flags.Lookup("ledger"))

	root.AddCommand(
		c.attentionCmd(),
		c.vitalsCmd(),
		c.remindCmd(),
		c.exportCmd(),
		c.statusCmd(),
	)
	return root
}

func (c *app) initConfig(cmd *cobra.Command, _ []string) error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		c.v.AddConfigPath(filepath.Join(home, ".config", serviceName))
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
	}

	c.v.SetEnvPrefix("NBK")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	c.cfg = mergeConfig(config.Load(), c.v)
	slog.SetDefault(logging.NewJSONLoggerTo(cmd.ErrOrStderr(), serviceName, c.v.GetString("log.level")))
	return nil
}

// mergeConfig lays viper values (flags, NBK_* env, config file) over the
// process environment defaults.
func mergeConfig(cfg config.Config, v *viper.Viper) config.Config {
	if s := v.GetString("postgres.dsn"); s != "" {
		cfg.PostgresDSN = s
	}
	if s := v.GetString("timezone"); s != "" {
		cfg.Timezone = s
	}
	if s := v.GetString("ledger.path"); s != "" {
		cfg.LedgerPath = s
	}
	if s := v.GetString("export.path"); s != "" {
		cfg.ExportPath = s
	}
	if s := v.GetString("scoring.profile"); s != "" {
		cfg.ScoringProfile = s
	}
	return cfg
}

func (c *app) withSession(cmd *cobra.Command, fn func(context.Context, *session) error) error {
	ctx := cmd.Context()
	sess, err := c.open(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(ctx, sess)
}

// parseAsOf reads an optional YYYY-MM-DD flag; empty means today.
func parseAsOf(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: want YYYY-MM-DD", value)
	}
	return day, nil
}
