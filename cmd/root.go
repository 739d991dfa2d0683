package cmd

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/jon4hz/lapinstance/internal/config"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/spf13/cobra"
)

var rootCmdPersistentFlags struct {
	LogFile    string
	ConfigFile string
	LogLevel   string
	URL        string
	Output     string
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogFile, "log-file", "", "File to write logs to")
	rootCmd.PersistentFlags().StringVarP(&rootCmdPersistentFlags.ConfigFile, "config", "c", "", "Path to config file (default: search for config.yml in current dir, ~/.lapinstance, /etc/lapinstance)")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error) - overrides config file setting")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.URL, "url", "", "API root URL - overrides config file setting")
	rootCmd.PersistentFlags().StringVarP(&rootCmdPersistentFlags.Output, "output", "o", "", "Output format (text, json) - overrides config file setting")
}

var rootCmd = &cobra.Command{
	Use:   "lapinstance",
	Short: "lapinstance talks to the lapinstance raid planner",
	Long:  `lapinstance is a command line client for the lapinstance raid planner. It lists and edits raids, subscriptions, characters and the roster.`,
	Example: `lapinstance raids list
  lapinstance --url https://raids.example.com/api raids show 12
  lapinstance -c /path/to/config.yml --output json roster list`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setLogLevel(rootCmdPersistentFlags.LogLevel)
		logToFile()
	},
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info", "":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to info", level)
		log.SetLevel(log.InfoLevel)
	}
}

func logToFile() {
	if rootCmdPersistentFlags.LogFile == "" {
		return
	}
	file, err := os.OpenFile(rootCmdPersistentFlags.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		log.Errorf("failed to open log file: %v", err)
		return
	}

	// stdout is reserved for command output
	multiWriter := io.MultiWriter(os.Stderr, file)
	log.SetOutput(multiWriter)
	log.Debug("logging to both console and file", "file", rootCmdPersistentFlags.LogFile)
}

// loadConfig loads the config file and applies the persistent flag overrides.
func loadConfig() *config.Config {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if rootCmdPersistentFlags.URL != "" {
		cfg.URL = rootCmdPersistentFlags.URL
	}
	if rootCmdPersistentFlags.Output != "" {
		cfg.Output = config.OutputFormat(rootCmdPersistentFlags.Output)
	}
	if cfg.Output != config.OutputText && cfg.Output != config.OutputJSON {
		log.Fatalf("unknown output format %q, expected text or json", cfg.Output)
	}
	return cfg
}

func newClient(cfg *config.Config) (*lapinstance.Client, error) {
	opts := []lapinstance.ClientOption{
		lapinstance.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		lapinstance.WithLogger(log.Default().WithPrefix("api")),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, lapinstance.WithUserAgent(cfg.UserAgent))
	}
	for k, v := range cfg.Headers {
		opts = append(opts, lapinstance.WithDefaultHeader(k, v))
	}
	return lapinstance.New(cfg.URL, opts...)
}

// setup is the common prologue of every API command.
func setup() (*config.Config, *lapinstance.Client) {
	cfg := loadConfig()
	client, err := newClient(cfg)
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}
	return cfg, client
}

func Execute(ctx context.Context) error {
	return fang.Execute(ctx, rootCmd)
}
