package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/msutils/internal/config"
	"github.com/harrison/msutils/internal/display"
	"github.com/harrison/msutils/internal/edition"
	"github.com/harrison/msutils/internal/logger"
	"github.com/harrison/msutils/internal/page"
	"github.com/spf13/cobra"
)

// dateLayout is the format of DATE arguments.
const dateLayout = "2006-01-02"

// Page kinds selectable with --kind.
const (
	kindIndd  = "indd"
	kindPress = "press"
	kindWeb   = "web"
)

var pageKinds = []string{kindIndd, kindPress, kindWeb}

// session holds what every subcommand needs: the effective configuration,
// a logger and a resolver over the configured stores.
type session struct {
	cfg      *config.Config
	log      logger.Logger
	resolver *edition.Resolver
	fileLog  *logger.FileLogger
}

// newSession loads the configuration named by --config (or the default
// location), applies flag overrides and builds the logger and resolver.
// Console diagnostics go to the command's error stream so listings on
// stdout stay clean.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	consoleLog := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	s := &session{cfg: cfg, log: consoleLog}

	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLoggerWithLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to create file logger: %w", err)
		}
		s.fileLog = fileLog
		s.log = logger.NewMultiLogger(consoleLog, fileLog)
	}

	registry, err := cfg.Registry()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.resolver = edition.NewResolver(registry, s.log)

	return s, nil
}

// Close flushes the run log, if any.
func (s *session) Close() error {
	if s.fileLog != nil {
		return s.fileLog.Close()
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var logLevel, logDir, historyDB *string
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		v = strings.ToLower(v)
		logLevel = &v
	}
	if cmd.Flags().Changed("log-dir") {
		v, _ := cmd.Flags().GetString("log-dir")
		logDir = &v
	}
	if cmd.Flags().Changed("history-db") {
		v, _ := cmd.Flags().GetString("history-db")
		historyDB = &v
	}
	cfg.MergeWithFlags(logLevel, logDir, historyDB)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// parseDate reads the optional DATE argument; no argument means today.
func parseDate(args []string) (time.Time, error) {
	if len(args) == 0 {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	date, err := time.ParseInLocation(dateLayout, args[0], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", args[0])
	}
	return date, nil
}

func validateKind(kind string) error {
	for _, k := range pageKinds {
		if kind == k {
			return nil
		}
	}
	return fmt.Errorf("invalid --kind %q, must be one of: %s", kind, strings.Join(pageKinds, ", "))
}

// editionPages lists date's pages of the given kind.
func (s *session) editionPages(kind string, date time.Time) ([]page.Page, error) {
	switch kind {
	case kindIndd:
		return s.resolver.EditionInddFiles(date)
	case kindPress:
		return s.resolver.EditionPressPDFs(date)
	case kindWeb:
		return s.resolver.EditionWebPDFs(date)
	default:
		return nil, validateKind(kind)
	}
}

// kindDir returns the directory date's pages of the given kind are read from.
func (s *session) kindDir(kind string, date time.Time) (string, error) {
	switch kind {
	case kindIndd:
		return s.resolver.EditionDir(date)
	case kindPress:
		return s.resolver.PressPDFsDir(date)
	case kindWeb:
		return s.resolver.WebPDFsDir(date)
	default:
		return "", validateKind(kind)
	}
}

// explain writes a warning describing a missing store or edition to the
// command's error stream, then returns err unchanged.
func (s *session) explain(cmd *cobra.Command, date time.Time, err error) error {
	out := cmd.ErrOrStderr()
	registry := s.resolver.Registry()

	switch {
	case edition.IsNoEditionStores(err):
		var roots []string
		for _, st := range registry.Stores() {
			roots = append(roots, st.String())
		}
		display.NoStoresWarning(roots).Display(out)
	case edition.IsNoEdition(err):
		stores, ferr := registry.FetchStores()
		if ferr != nil {
			break
		}
		searched := make([]string, len(stores))
		for i, st := range stores {
			searched[i] = st.EditionPath(date)
		}
		display.NoEditionWarning(date, searched).Display(out)
	}
	return err
}
