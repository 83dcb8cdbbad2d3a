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
	"time"
)

func Enabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "enabled", "1", "true":
		return true
	default:
		return false
	}
}

// IntFromEnv returns the parsed integer and true when the variable is set
// and parses. Unset or malformed values return false.
func IntFromEnv(name string) (int, bool) {
	opt := os.Getenv(name)
	if opt == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(opt))
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// DurationFromEnv accepts Go durations ("750ms") as well as plain integers,
// which are read as milliseconds.
func DurationFromEnv(name string) (time.Duration, bool) {
	opt := strings.TrimSpace(os.Getenv(name))
	if opt == "" {
		return 0, false
	}
	if parsed, err := time.ParseDuration(opt); err == nil {
		return parsed, true
	}
	if ms, err := strconv.Atoi(opt); err == nil {
		return time.Duration(ms) * time.Millisecond, true
	}
	return 0, false
}
