// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"encoding/json"
	"github.com/pkg/errors"
	"io/ioutil"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

func modifyFromJson(cfg mutableNodeConfig, source string) error {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(source), &data); err != nil {
		return err
	}

	return populateConfig(cfg, data)
}

// convertKeyName maps "minimum-usd" to MINIMUM_USD
func convertKeyName(key string) string {
	return strings.ToUpper(strings.Replace(key, "-", "_", -1))
}

func populateConfig(cfg mutableNodeConfig, data map[string]interface{}) error {
	for key, value := range data {
		name := convertKeyName(key)

		switch v := value.(type) {
		case bool:
			cfg.SetBool(name, v)
		case float64:
			if v < 0 || v != math.Trunc(v) {
				return errors.Errorf("config key %s must be a non-negative integer, got %v", key, v)
			}
			if v > math.MaxUint32 {
				cfg.SetString(name, strconv.FormatFloat(v, 'f', 0, 64))
			} else {
				cfg.SetUint32(name, uint32(v))
			}
		case string:
			if duration, decodeError := time.ParseDuration(v); decodeError != nil {
				cfg.SetString(name, v)
			} else {
				cfg.SetDuration(name, duration)
			}
		default:
			return errors.Errorf("unsupported value for config key %s: %v", key, value)
		}
	}

	return nil
}

// For main reading several files into one config

type FilesPaths []string

func (i *FilesPaths) String() string {
	return strings.Join(*i, ",")
}

func (i *FilesPaths) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func modifyFromFiles(cfg mutableNodeConfig, configFiles FilesPaths) error {
	for _, configFile := range configFiles {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return errors.Errorf("could not open config file: %s", err)
		}

		contents, err := ioutil.ReadFile(configFile)
		if err != nil {
			return err
		}

		if err := modifyFromJson(cfg, string(contents)); err != nil {
			return errors.Wrapf(err, "failed parsing config file %s", configFile)
		}
	}

	return nil
}

// GetNodeConfig layers, in order: network preset, json files, .env files and process environment, and the listen address flag.
func GetNodeConfig(network string, configFiles FilesPaths, envFiles FilesPaths, httpAddress string) (NodeConfig, error) {
	cfg, err := ForNetwork(network)
	if err != nil {
		return nil, err
	}

	if err := modifyFromFiles(cfg, configFiles); err != nil {
		return nil, err
	}

	env, err := readEnvironment(envFiles)
	if err != nil {
		return nil, err
	}

	if err := modifyFromEnvironment(cfg, env); err != nil {
		return nil, err
	}

	if httpAddress != "" {
		cfg.SetString(HTTP_ADDRESS, httpAddress)
	}

	return cfg, nil
}
