package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/pfrederiksen/boatrace-odds/internal/api"
	"github.com/pfrederiksen/boatrace-odds/internal/config"
	"github.com/pfrederiksen/boatrace-odds/internal/logger"
	"github.com/pfrederiksen/boatrace-odds/internal/notifier"
	"github.com/pfrederiksen/boatrace-odds/internal/race"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitNotices = 2
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3".
var Version = "dev"

// exitCode carries a non-error exit status out of a command
type exitCode int

func (e exitCode) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

// app holds state shared by all commands of one invocation
type app struct {
	v          *viper.Viper
	cfg        *config.Config
	configFile string
	out        io.Writer
	errOut     io.Writer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stdout, os.Stderr)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.NewViper(), out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "boatrace-odds",
		Short: "BOATRACE odds and schedule scraper with a proxy API",
		Long: `Scrapes win/place odds and race schedules from boatrace.jp, normalizes
them into JSON, and serves them through a small proxy API.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default: ./config.yaml or ./config/config.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("base-url", "", "Upstream site base URL")
	flags.Duration("timeout", 0, "Upstream request timeout")
	a.bind("log.level", flags.Lookup("log-level"))
	a.bind("upstream.base_url", flags.Lookup("base-url"))
	a.bind("upstream.timeout", flags.Lookup("timeout"))

	cmd.AddCommand(a.newServeCmd(), a.newOddsCmd(), a.newScheduleCmd(), a.newBoardCmd())
	return cmd
}

// bind lets a flag override the config key it names when it is set.
func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag.Name, err))
	}
}

// load reads configuration and installs the logger before any command runs.
func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, a.errOut))
	a.cfg = cfg
	return nil
}

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the proxy API",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			n, closeNotifier, err := a.newNotifier(false, false)
			if err != nil {
				return err
			}
			defer closeNotifier()

			router := api.NewRouter(api.Deps{
				Service:     svc,
				Board:       a.newBoard(svc),
				Notifier:    n,
				CORSOrigins: a.cfg.Server.CORSOrigins,
				Version:     Version,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.ListenAndServe(ctx, a.cfg.Server.Addr(), router)
		},
	}
	cmd.Flags().Int("port", 0, "Listen port")
	a.bind("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func (a *app) newOddsCmd() *cobra.Command {
	var venueCode, raceNumber, date, format string

	cmd := &cobra.Command{
		Use:   "odds",
		Short: "Fetch the win/place odds of one race",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			venue, err := race.LookupVenue(venueCode)
			if err != nil {
				return err
			}
			raceIndex, err := race.ParseRace(raceNumber)
			if err != nil {
				return err
			}
			svc, err := a.newService()
			if err != nil {
				return err
			}
			day, err := resolveDate(date, svc.AsOf())
			if err != nil {
				return err
			}

			data := svc.Odds(cmd.Context(), venue.Code, raceIndex, day)
			return writeOdds(a.out, venue, data, f)
		},
	}

	cmd.Flags().StringVar(&venueCode, "venue", "", "Venue code 01-24 (required)")
	cmd.Flags().StringVar(&raceNumber, "race", "", "Race number 1-12 (required)")
	cmd.Flags().StringVar(&date, "date", "", "Racing day YYYYMMDD (default: current racing day)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.MarkFlagRequired("venue")
	cmd.MarkFlagRequired("race")
	return cmd
}

func (a *app) newScheduleCmd() *cobra.Command {
	var venueCode, date, format string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Fetch the race schedule of one venue",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format, FormatICS)
			if err != nil {
				return err
			}
			venue, err := race.LookupVenue(venueCode)
			if err != nil {
				return err
			}
			svc, err := a.newService()
			if err != nil {
				return err
			}
			day, err := resolveDate(date, svc.AsOf())
			if err != nil {
				return err
			}

			data := svc.Schedule(cmd.Context(), venue.Code, day)
			return writeSchedule(a.out, venue, data, f)
		},
	}

	cmd.Flags().StringVar(&venueCode, "venue", "", "Venue code 01-24 (required)")
	cmd.Flags().StringVar(&date, "date", "", "Racing day YYYYMMDD (default: current racing day)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or ics")
	cmd.MarkFlagRequired("venue")
	return cmd
}

func (a *app) newBoardCmd() *cobra.Command {
	var (
		format string
		order  string
		alert  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the next race of every venue",
		Long: `Runs one board cycle over all 24 venues and prints the selected race
and odds of each. Exits with status 2 when boat 1 of any selected race is
priced above the alert threshold.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			sortOrder, err := parseSortOrder(order)
			if err != nil {
				return err
			}
			svc, err := a.newService()
			if err != nil {
				return err
			}

			result := a.newBoard(svc).Run(cmd.Context(), svc.AsOf())
			sortVenues(result.Venues, sortOrder)
			if err := writeBoard(a.out, result, f); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if alert && len(result.Notices) > 0 {
				n, closeNotifier, err := a.newNotifier(dryRun, true)
				if err != nil {
					return err
				}
				defer closeNotifier()
				if n == nil {
					logger.Warn("no alert channel configured", logger.Fields{"notices": len(result.Notices)})
				} else if err := n.Notify(cmd.Context(), result.Notices); errors.Is(err, notifier.ErrAlreadyNotified) {
					logger.Info("notices already sent", logger.Fields{"notices": len(result.Notices)})
				} else if err != nil {
					return fmt.Errorf("sending alerts: %w", err)
				}
			}

			if len(result.Notices) > 0 {
				return exitCode(ExitNotices)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&order, "sort", string(SortByCutoff), "Sort order: cutoff, venue or odds")
	cmd.Flags().BoolVar(&alert, "alert", false, "Send high-odds notices through the configured channels")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "With --alert, print notices instead of sending them")
	return cmd
}

func parseFormat(s string, extra ...OutputFormat) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if format == FormatText || format == FormatJSON || slices.Contains(extra, format) {
		return format, nil
	}
	return "", fmt.Errorf("invalid format: %s", s)
}

func resolveDate(s string, asOf race.AsOf) (time.Time, error) {
	if s == "" {
		return asOf.Date, nil
	}
	return race.ParseDate(s)
}

// run executes the command tree and maps the outcome to an exit status.
func run(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)

	var code exitCode
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &code):
		return int(code)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(context.Background(), NewRootCmd()))
}
