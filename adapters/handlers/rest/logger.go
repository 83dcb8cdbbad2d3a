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

package rest

import (
	"errors"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mhk76/RestApiTransactions/usecases/build"
)

type JSONFormatter struct {
	*logrus.JSONFormatter
	revision, branch, version, goVersion string
}

func NewJSONFormatter() logrus.Formatter {
	return &JSONFormatter{
		&logrus.JSONFormatter{},
		build.Revision,
		build.Branch,
		build.Version,
		build.GoVersion,
	}
}

func (f *JSONFormatter) Format(e *logrus.Entry) ([]byte, error) {
	addBuildInfo(e, f.revision, f.branch, f.version, f.goVersion)
	return f.JSONFormatter.Format(e)
}

type TextFormatter struct {
	*logrus.TextFormatter
	revision, branch, version, goVersion string
}

func NewTextFormatter() logrus.Formatter {
	return &TextFormatter{
		&logrus.TextFormatter{},
		build.Revision,
		build.Branch,
		build.Version,
		build.GoVersion,
	}
}

func (f *TextFormatter) Format(e *logrus.Entry) ([]byte, error) {
	addBuildInfo(e, f.revision, f.branch, f.version, f.goVersion)
	return f.TextFormatter.Format(e)
}

func addBuildInfo(e *logrus.Entry, revision, branch, version, goVersion string) {
	e.Data["build_git_commit"] = revision
	e.Data["build_git_branch"] = branch
	e.Data["build_version"] = version
	e.Data["build_go_version"] = goVersion
}

var errLogLevelNotRecognized = errors.New("log level not recognized")

// logLevelFromString converts a string to a logrus log level, returns a logLevelNotRecognized
// error if the string is not recognized. level is case insensitive.
func logLevelFromString(level string) (logrus.Level, error) {
	switch strings.ToLower(level) {
	case "panic":
		return logrus.PanicLevel, nil
	case "fatal":
		return logrus.FatalLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "info":
		return logrus.InfoLevel, nil
	case "debug":
		return logrus.DebugLevel, nil
	case "trace":
		return logrus.TraceLevel, nil
	default:
		return 0, errLogLevelNotRecognized
	}
}

// NewLogger does not parse the regular config object, as logging needs to be
// configured before the configuration is even loaded/parsed. We are thus
// "manually" reading the desired env vars and set reasonable defaults if they
// are not set.
//
// Defaults to log level info and json format
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	if os.Getenv("LOG_FORMAT") == "text" {
		logger.SetFormatter(NewTextFormatter())
	} else {
		logger.SetFormatter(NewJSONFormatter())
	}

	logger.SetLevel(logrus.InfoLevel)
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := logLevelFromString(raw)
		if err != nil {
			logger.WithField("action", "startup").WithField("log_level", raw).
				Warn("log level not recognized, using info")
		} else {
			logger.SetLevel(level)
		}
	}

	return logger
}
