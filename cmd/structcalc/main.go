package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/CapitalsFunds/site-demo/internal/calculation"
	"github.com/CapitalsFunds/site-demo/internal/config"
	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/CapitalsFunds/site-demo/internal/keyrate"
	"github.com/CapitalsFunds/site-demo/internal/logger"
	"github.com/CapitalsFunds/site-demo/internal/output"
	"github.com/CapitalsFunds/site-demo/internal/server"
	"github.com/CapitalsFunds/site-demo/pkg/dateutil"
	pkgdecimal "github.com/CapitalsFunds/site-demo/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
	appCfg   *config.AppConfig
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "structcalc",
		Short: "Ownership structure tax comparison calculator",
		Long: `structcalc compares the annual after-tax income of six ownership structures
(sole proprietor, holding company, personal fund and their closed-end fund
variants) and the 10-year effect of switching from a baseline structure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			appCfg = config.LoadAppConfig(files...)
			level := appCfg.LogLevel
			if logLevel != "" {
				level = logLevel
			}
			logger.InitLogger(level)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load settings from this .env file (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newKeyRateCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newExampleConfigCmd())
	rootCmd.AddCommand(newStructuresCmd())
	return rootCmd
}

func newCompareCmd() *cobra.Command {
	var (
		ebt, share, keyRate, fees string
		years                     int
		baseline, format          string
		configFile, outputPath    string
		fetchRate                 bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare all ownership structures for one parameter bundle",
		Example: `  structcalc compare --ebt 10 --share 30 --key-rate 16.5 --years 5 --baseline sole_proprietor
  structcalc compare --config inputs.yaml --format html --output report.html
  structcalc compare --fetch-rate --format all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &domain.Configuration{Inputs: domain.DefaultInputs()}
			if configFile != "" {
				loaded, err := config.NewInputParser().LoadFromFile(configFile)
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				cfg = loaded
			}

			in := &cfg.Inputs
			flags := cmd.Flags()
			for _, f := range []struct {
				name   string
				value  string
				target *decimal.Decimal
			}{
				{"ebt", ebt, &in.EBT},
				{"share", share, &in.PersonalSharePercent},
				{"key-rate", keyRate, &in.KeyRatePercent},
				{"fees", fees, &in.Fees},
			} {
				if !flags.Changed(f.name) {
					continue
				}
				d, err := pkgdecimal.ParseDecimal(f.value)
				if err != nil {
					return fmt.Errorf("invalid --%s %q: %w", f.name, f.value, err)
				}
				*f.target = d
			}
			if flags.Changed("years") {
				in.HorizonYears = years
			}
			if flags.Changed("baseline") {
				in.Baseline = baseline
			}
			if in.HorizonYears > config.MaxHorizonYears {
				return fmt.Errorf("horizon must be at most %d years, got %d", config.MaxHorizonYears, in.HorizonYears)
			}

			formats := cfg.Formats
			if flags.Changed("format") || len(formats) == 0 {
				formats = []string{format}
			}
			if outputPath != "" && (len(formats) != 1 || strings.EqualFold(formats[0], "all")) {
				return fmt.Errorf("--output needs exactly one format, got %s", strings.Join(formats, ", "))
			}

			ctx := cmd.Context()
			var quote *domain.KeyRateQuote
			if fetchRate || cfg.FetchKeyRate {
				client := keyrate.NewClient(appCfg.CBRURL, appCfg.KeyRateTimeout, appCfg.KeyRateCacheTTL)
				client.Logger = logger.L
				q, err := client.Fetch(ctx)
				if err != nil {
					logger.L.Warn("key rate unavailable, falling back to the configured value",
						"error", err, "key_rate", in.KeyRatePercent.String())
				} else {
					in.KeyRatePercent = q.RatePercent
					quote = &q
				}
			}

			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger.Calc())
			comparison, err := engine.Compare(ctx, *in)
			if err != nil {
				return err
			}
			comparison.KeyRate = quote

			return writeComparison(cmd.OutOrStdout(), comparison, formats, outputPath)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&ebt, "ebt", "10", "Earnings before tax, millions per year")
	flags.StringVar(&share, "share", "30", "Personal share of EBT, percent")
	flags.StringVar(&keyRate, "key-rate", "0", "Key rate, percent")
	flags.IntVar(&years, "years", 1, "Fund horizon in years")
	flags.StringVar(&fees, "fees", "0", "Fund fees, millions")
	flags.StringVar(&baseline, "baseline", domain.SoleProprietor.ID(), "Baseline structure (id, name or label)")
	flags.StringVarP(&format, "format", "f", "console", "Output format: "+strings.Join(output.AvailableFormatterNames(), ", ")+" or all")
	flags.StringVarP(&configFile, "config", "c", "", "YAML configuration file with an inputs block")
	flags.StringVarP(&outputPath, "output", "o", "", "Write the report to this file")
	flags.BoolVar(&fetchRate, "fetch-rate", false, "Use the current CBR key rate")
	return cmd
}

// writeComparison prints console reports to w and writes every other format to a file.
func writeComparison(w io.Writer, c *domain.Comparison, formats []string, outputPath string) error {
	if outputPath != "" {
		if err := output.WriteReport(c, formats[0], outputPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "Report written to %s\n", outputPath)
		return nil
	}

	for _, format := range formats {
		if output.NormalizeFormatName(format) == "console" {
			data, err := output.Render(c, format)
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
			continue
		}
		files, err := output.GenerateReport(c, format)
		for _, f := range files {
			fmt.Fprintf(w, "Report written to %s\n", f)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func newKeyRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keyrate",
		Short: "Fetch the current CBR key rate",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := keyrate.NewClient(appCfg.CBRURL, appCfg.KeyRateTimeout, appCfg.KeyRateCacheTTL)
			client.Logger = logger.L
			quote, err := client.Fetch(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch key rate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Key rate: %s\nAs of:    %s\nSource:   %s\n",
				pkgdecimal.FormatPercent(quote.RatePercent),
				dateutil.FormatDate(quote.AsOf, pkgdecimal.Placeholder),
				quote.Source)
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = appCfg.Addr()
			}
			engine := calculation.NewCalculationEngine()
			engine.SetLogger(logger.Calc())

			client := keyrate.NewClient(appCfg.CBRURL, appCfg.KeyRateTimeout, appCfg.KeyRateCacheTTL)
			client.Logger = logger.L

			srv := server.New(appCfg, engine, client, logger.L)
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :$PORT)")
	return cmd
}

func newExampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config [file]",
		Short: "Print or write an example YAML configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			example := parser.CreateExampleConfiguration()
			if len(args) == 1 {
				if err := parser.SaveConfiguration(example, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", args[0])
				return nil
			}
			data, err := parser.Marshal(example)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newStructuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "structures",
		Short: "List the compared structures and the names accepted as baseline",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			for _, s := range domain.AllStructures {
				fmt.Fprintf(w, "%-22s %-30s %s\n", s.ID(), s.Name(), s.Label())
			}
		},
	}
}
