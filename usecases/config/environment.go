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

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	entcfg "github.com/mhk76/RestApiTransactions/entities/config"
)

// FromEnv takes a *Config as it will respect initial config that has been
// provided by other means (e.g. a config file) and will only extend those that
// are set
func FromEnv(config *Config) error {
	if v, ok := os.LookupEnv("REST_API_TRANSACTIONS_MODE"); ok {
		config.RestApiTransactions.Mode = strings.TrimSpace(v)
	}

	// Unparsable or out of range values are ignored and leave the previous
	// value in place.
	if v, ok := entcfg.IntFromEnv("REST_API_TRANSACTIONS_TIMEOUT_SECONDS"); ok && validTimeoutSeconds(v) {
		config.RestApiTransactions.TimeoutSeconds = v
	}

	if v := os.Getenv("REST_API_TRANSACTIONS_COOLDOWN"); v != "" {
		d, ok := entcfg.DurationFromEnv("REST_API_TRANSACTIONS_COOLDOWN")
		if !ok {
			return errors.Errorf("parse REST_API_TRANSACTIONS_COOLDOWN as duration: %q", v)
		}
		config.RestApiTransactions.Cooldown = d
	}

	if v := os.Getenv("REST_API_TRANSACTIONS_MAX_PENDING"); v != "" {
		asInt, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse REST_API_TRANSACTIONS_MAX_PENDING as int")
		}
		config.RestApiTransactions.MaxPending = asInt
	}

	if entcfg.Enabled(os.Getenv("PROMETHEUS_MONITORING_ENABLED")) {
		config.Monitoring.Enabled = true

		if v := os.Getenv("PROMETHEUS_MONITORING_PORT"); v != "" {
			asInt, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "parse PROMETHEUS_MONITORING_PORT as int")
			}
			config.Monitoring.Port = asInt
		}
	}

	if entcfg.Enabled(os.Getenv("TEST_API_ENABLED")) {
		config.TestAPI.Enabled = true
	}

	if v := os.Getenv("ORIGIN"); v != "" {
		config.Origin = v
	}

	if entcfg.Enabled(os.Getenv("DEBUG")) {
		config.Debug = true
	}

	return nil
}
