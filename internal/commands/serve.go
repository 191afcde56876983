package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carson-networks/expense-server/api"
	"github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/metrics"
	"github.com/carson-networks/expense-server/internal/operator"
	"github.com/carson-networks/expense-server/internal/service"
	"github.com/carson-networks/expense-server/internal/storage"
)

func newServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.ProcessEnvironmentVariables()
			if err != nil {
				return err
			}
			if port != "" {
				env.Port = port
				if err := env.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, env)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")

	return cmd
}

func runServe(ctx context.Context, env *config.Config) error {
	logger := logging.SetupLogging(env.LogLevel)
	logger.WithField("dbPath", env.SQLiteDBPath).Info("expense-server starting")

	dbStorage, err := storage.NewStorage(env)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer dbStorage.Close()

	delegator := operator.NewOperatorDelegator(dbStorage, env.OperatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	m := metrics.New()
	httpRest := api.Rest{
		Logger:  logger,
		Port:    env.Port,
		Service: service.NewService(dbStorage, delegator, env, m),
		Storage: dbStorage,
		Metrics: m,
	}

	err = httpRest.Serve(ctx)
	logger.Info("expense-server stopped")
	return err
}
