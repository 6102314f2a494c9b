// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const EnvPrefix = "FUNDME_"

// readEnvironment merges .env files with the process environment; the process environment wins.
func readEnvironment(envFiles FilesPaths) (map[string]string, error) {
	env := make(map[string]string)

	var existing []string
	for _, path := range envFiles {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}

	if len(existing) > 0 {
		fromFiles, err := godotenv.Read(existing...)
		if err != nil {
			return nil, errors.Wrapf(err, "failed reading env files %v", existing)
		}
		for k, v := range fromFiles {
			env[k] = v
		}
	}

	for _, kv := range os.Environ() {
		if i := strings.Index(kv, "="); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}

	return env, nil
}

// modifyFromEnvironment applies the network secrets (e.g. SEPOLIA_RPC_URL) and any FUNDME_<KEY> override.
func modifyFromEnvironment(cfg mutableNodeConfig, env map[string]string) error {
	if n, err := LookupNetwork(cfg.NetworkName()); err == nil {
		if n.RpcUrlEnv != "" && env[n.RpcUrlEnv] != "" {
			cfg.SetString(ETHEREUM_ENDPOINT, env[n.RpcUrlEnv])
		}
		if n.PrivateKeyEnv != "" && env[n.PrivateKeyEnv] != "" {
			cfg.SetString(DEPLOYER_PRIVATE_KEY, env[n.PrivateKeyEnv])
		}
	}

	for key, value := range env {
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, EnvPrefix)
		if err := setFromString(cfg, name, value); err != nil {
			return errors.Wrapf(err, "bad value for environment variable %s", key)
		}
	}

	return nil
}

func setFromString(cfg mutableNodeConfig, name string, value string) error {
	if name == "" {
		return errors.New("empty config key")
	}

	if b, err := strconv.ParseBool(value); err == nil && !isNumeric(value) {
		cfg.SetBool(name, b)
	} else if u, err := strconv.ParseUint(value, 10, 32); err == nil {
		cfg.SetUint32(name, uint32(u))
	} else if d, err := time.ParseDuration(value); err == nil {
		cfg.SetDuration(name, d)
	} else {
		cfg.SetString(name, value)
	}
	return nil
}

func isNumeric(value string) bool {
	_, err := strconv.ParseUint(value, 10, 64)
	return err == nil
}

// parseEnv reads dotenv formatted content, used for inline env overrides.
func parseEnv(content string) (map[string]string, error) {
	return godotenv.Unmarshal(content)
}
