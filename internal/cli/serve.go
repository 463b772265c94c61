package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ppiankov/casematch/internal/argue"
	"github.com/ppiankov/casematch/internal/pipeline"
	"github.com/ppiankov/casematch/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the retrieval API over HTTP",
	Long: `Serve exposes lookups, precedent ranking, rights and defense scoring,
full analysis and argument drafting as a JSON API. Requests are rate
limited per client.`,
	Example: `  casematch serve --addr :8080
  curl -s localhost:8080/v1/offenses/IPC/302`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadConfigAndStore()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.NewPipeline(cfg, store)
	srv := server.New(p, argue.NewGenerator(store, nil), cfg.Server)

	fmt.Fprintf(os.Stderr, "casematch %s listening on %s\n", Version, cfg.Server.Addr)
	return srv.Run(ctx)
}
