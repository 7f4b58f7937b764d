package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/app"
	"github.com/brechtparmentier/tools-batchPDFPrinter/internal/httpapi"
)

func buildServeCmd(e *env) *cobra.Command {
	var (
		corsEnabled bool
		corsOrigins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP front end (plan preview, run control, SSE progress)",
		Example: "  batchprint serve --addr :8085\n" +
			"  batchprint serve --cors-enabled --cors-origins http://localhost:5173",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(e, corsEnabled, corsOrigins)
		},
	}
	cmd.Flags().StringVar(&e.cfg.Addr, "addr", "", "HTTP listen address (default :8085 or BATCHPRINT_ADDR)")
	cmd.Flags().BoolVar(&corsEnabled, "cors-enabled", false, "Enable CORS for browser front ends")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")
	return cmd
}

func runServe(e *env, corsEnabled bool, corsOrigins []string) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	a := app.New(e.cfg, e.log)
	defer a.Close()

	// Cancelling the base context stops an in-flight run on shutdown.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(e.log)
	httpapi.SetCORSOptions(corsEnabled, corsOrigins)

	srv := &http.Server{Addr: e.cfg.Addr, Handler: httpapi.NewMux(a)}

	errCh := make(chan error, 1)
	go func() {
		e.log.Info().Str("addr", e.cfg.Addr).Msg("batchprint listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		e.log.Error().Err(err).Msg("graceful shutdown")
		return err
	}
	return nil
}
