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

package sentry

import (
	"fmt"
	"os"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/mhk76/RestApiTransactions/entities/config"
)

// ConfigOpts all map to environment variables. For example:
//   - SENTRY_ENABLED=true -> ConfigOpts.Enabled=true
type ConfigOpts struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	DSN         string `json:"dsn" yaml:"dsn"`
	Debug       bool   `json:"debug" yaml:"debug"`
	Environment string `json:"environment" yaml:"environment"`
}

// Config Global Singleton that can be accessed from anywhere in the app. This
// is required because panic recovery can happen in any goroutine the
// scheduler or the gateway spawns.
var Config *ConfigOpts

// InitSentryConfig from environment. Errors if called more than once.
func InitSentryConfig() (*ConfigOpts, error) {
	if Config != nil {
		return nil, fmt.Errorf("sentry config already initialized")
	} else {
		Config = &ConfigOpts{}
	}

	Config.Enabled = config.Enabled(os.Getenv("SENTRY_ENABLED"))
	if !Config.Enabled {
		return Config, nil
	}

	Config.DSN = os.Getenv("SENTRY_DSN")
	if Config.DSN == "" {
		return nil, fmt.Errorf("sentry enabled but no DSN provided")
	}

	Config.Debug = config.Enabled(os.Getenv("SENTRY_DEBUG"))
	Config.Environment = os.Getenv("SENTRY_ENVIRONMENT")
	return Config, nil
}

func Enabled() bool {
	if Config == nil {
		return false
	}
	return Config.Enabled
}

// Init configures the global sentry hub. It is a no-op when sentry is
// disabled.
func Init(opts *ConfigOpts, release string) error {
	if opts == nil || !opts.Enabled {
		return nil
	}
	return sentrygo.Init(sentrygo.ClientOptions{
		Dsn:         opts.DSN,
		Debug:       opts.Debug,
		Environment: opts.Environment,
		Release:     release,
	})
}

// Recover reports a recovered panic value. It returns without doing anything
// when sentry is disabled.
func Recover(r interface{}) {
	if !Enabled() {
		return
	}
	sentrygo.CurrentHub().Recover(r)
	sentrygo.Flush(2 * time.Second)
}
