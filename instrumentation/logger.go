// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package instrumentation

import (
	"github.com/orbs-network/scribe/log"
	"os"
	"time"
)

// events of these services are kept even when the full log is off
var AlwaysLoggedTags = []*log.Field{
	log.Service("fundme-ledger"),
}

type LoggerConfig interface {
	LoggerFullLog() bool
	LoggerFileTruncationInterval() time.Duration
	NetworkName() string
}

func GetBootstrapCrashLogger() log.Logger {
	path := "./fundme-bootstrap.log"

	logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		panic(err)
	}

	fileWriter := log.NewTruncatingFileWriter(logFile)
	outputs := []log.Output{
		log.NewFormattingOutput(fileWriter, log.NewHumanReadableFormatter()),
		log.NewFormattingOutput(os.Stdout, log.NewHumanReadableFormatter()),
	}

	return log.GetLogger().WithOutput(outputs...)
}

func GetLogger(path string, silent bool, cfg LoggerConfig) log.Logger {
	outputs := make([]log.Output, 0, 2)

	if !silent {
		outputs = append(outputs, log.NewFormattingOutput(os.Stdout, log.NewJsonFormatter()))
	}

	if path != "" {
		logFile, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			panic(err)
		}

		fileWriter := log.NewTruncatingFileWriter(logFile, cfg.LoggerFileTruncationInterval())
		outputs = append(outputs, log.NewFormattingOutput(fileWriter, log.NewJsonFormatter()))
	}

	logger := log.GetLogger().WithOutput(outputs...).WithTags(log.String("network", cfg.NetworkName()))

	conditionalFilter := log.NewConditionalFilter(false, nil)

	if !cfg.LoggerFullLog() {
		filters := []log.Filter{log.OnlyErrors()}
		for _, tag := range AlwaysLoggedTags {
			filters = append(filters, log.MatchField(tag))
		}
		conditionalFilter = log.NewConditionalFilter(true, log.Or(filters...))
	}

	return logger.WithFilters(conditionalFilter)
}
