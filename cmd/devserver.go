package cmd

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/lapinstance/internal/database"
	"github.com/jon4hz/lapinstance/internal/devserver"
	"github.com/spf13/cobra"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Start a local lapinstance API backed by sqlite",
	Long:  `Start a development server implementing the lapinstance REST API. Data is kept in a local sqlite database.`,
	Example: `lapinstance devserver
lapinstance devserver -c /path/to/config.yml --log-level debug
`,
	Args: cobra.NoArgs,
	Run:  startDevServer,
}

func init() {
	rootCmd.AddCommand(devserverCmd)
}

func startDevServer(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()

	if log.GetLevel() != log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DevServer.Database.Path), 0o750); err != nil {
		log.Fatalf("failed to create database directory: %v", err)
	}
	db, err := database.New(cfg.DevServer.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := devserver.New(ctx, cfg.DevServer, db)
	if err != nil {
		log.Fatalf("failed to create devserver: %v", err)
	}

	log.Info("starting devserver", "listen", cfg.DevServer.Listen, "database", cfg.DevServer.Database.Path, "session_user", server.Session().User.Name)
	if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("devserver error: %v", err)
	}
	log.Info("devserver stopped")
}
