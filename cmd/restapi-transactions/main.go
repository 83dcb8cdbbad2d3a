//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/mhk76/RestApiTransactions/adapters/handlers/rest"
	"github.com/mhk76/RestApiTransactions/adapters/handlers/rest/state"
	"github.com/mhk76/RestApiTransactions/adapters/handlers/rest/testapi"
	enterrors "github.com/mhk76/RestApiTransactions/entities/errors"
	entsentry "github.com/mhk76/RestApiTransactions/entities/sentry"
	"github.com/mhk76/RestApiTransactions/usecases/build"
	"github.com/mhk76/RestApiTransactions/usecases/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var opts config.Flags
	logger := rest.NewLogger()
	log := logger.WithField("action", "startup")

	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.WithError(err).Fatal("failed to parse command line args")
	}

	sentryConfig, err := entsentry.InitSentryConfig()
	if err != nil {
		log.WithError(err).Fatal("invalid sentry config")
	}
	if err := entsentry.Init(sentryConfig, build.Version); err != nil {
		log.WithError(err).Fatal("could not init sentry")
	}

	appState, err := rest.MakeAppState(&opts, logger)
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}
	defer appState.Scheduler.Close()

	var registrars []rest.RouteRegistrar
	if cfg := appState.ServerConfig.Config.TestAPI; cfg.Enabled {
		registrars = append(registrars, testapi.Register(testapi.DurationsFromConfig(cfg)))
		log.Info("serving example endpoints under /test")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, appState, rest.NewHandler(appState, registrars...)); err != nil {
		logger.WithField("action", "shutdown").WithError(err).Error("server stopped with error")
		appState.Scheduler.Close()
		os.Exit(1)
	}
	logger.WithField("action", "shutdown").Info("server stopped")
}

// serve runs the API server and, when enabled, the metrics server until ctx
// is done or one of them fails.
func serve(ctx context.Context, appState *state.State, handler http.Handler) error {
	logger := appState.Logger
	cfg := appState.ServerConfig

	apiListener, err := net.Listen("tcp", cfg.GetHostAddress())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GetHostAddress(), err)
	}

	var metricsListener net.Listener
	if cfg.Config.Monitoring.Enabled {
		addr := fmt.Sprintf(":%d", cfg.Config.Monitoring.Port)
		if metricsListener, err = net.Listen("tcp", addr); err != nil {
			apiListener.Close()
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
	}

	eg, ctx := enterrors.NewErrorGroupWithContextWrapper(ctx, logger)

	api := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	runServer(ctx, eg, logger, "api", api, appState.Metrics.CountingListener(apiListener))

	if metricsListener != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		runServer(ctx, eg, logger, "metrics", metricsServer, metricsListener)
	}

	return eg.Wait()
}

func runServer(ctx context.Context, eg *enterrors.ErrorGroupWrapper, logger logrus.FieldLogger,
	name string, srv *http.Server, l net.Listener,
) {
	eg.Go(func() error {
		logger.WithFields(logrus.Fields{
			"action":  "startup",
			"server":  name,
			"address": l.Addr().String(),
		}).Info("serving")
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	}, name)

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}, name)
}
