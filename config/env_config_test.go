// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package config

import (
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sepoliaKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestModifyFromEnvironment_AppliesNetworkSecrets(t *testing.T) {
	cfg, err := ForNetwork("sepolia")
	require.NoError(t, err)

	env, err := parseEnv("SEPOLIA_RPC_URL=https://sepolia.example/v3/key\nSEPOLIA_PRIVATE_KEY=" + sepoliaKey + "\n")
	require.NoError(t, err)
	require.NoError(t, modifyFromEnvironment(cfg, env))

	require.Equal(t, "https://sepolia.example/v3/key", cfg.EthereumEndpoint())
	require.Equal(t, sepoliaKey, cfg.DeployerPrivateKey())
}

func TestModifyFromEnvironment_IgnoresSecretsOfOtherNetworks(t *testing.T) {
	cfg := ForDevelopment(":8080")
	require.NoError(t, modifyFromEnvironment(cfg, map[string]string{"SEPOLIA_RPC_URL": "https://sepolia.example"}))

	require.Empty(t, cfg.EthereumEndpoint())
}

func TestModifyFromEnvironment_AppliesPrefixedOverrides(t *testing.T) {
	cfg := ForDevelopment(":8080")
	env, err := parseEnv(`
FUNDME_MINIMUM_USD=75
FUNDME_PRICE_REPORT_INTERVAL=10s
FUNDME_LOGGER_FULL_LOG=false
FUNDME_MOCK_PRICE_INITIAL_ANSWER=310000000000
UNRELATED=1
`)
	require.NoError(t, err)
	require.NoError(t, modifyFromEnvironment(cfg, env))

	require.Equal(t, "75000000000000000000", cfg.LedgerMinimumUsd().String())
	require.Equal(t, 10*time.Second, cfg.PriceReportInterval())
	require.False(t, cfg.LoggerFullLog())
	require.Equal(t, "310000000000", cfg.MockPriceInitialAnswer().String())
}

func TestReadEnvironment_ProcessEnvironmentWins(t *testing.T) {
	dir, err := ioutil.TempDir("", "fundme-env")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, ioutil.WriteFile(envFile, []byte("FUNDME_TEST_FROM_FILE=file\nFUNDME_TEST_OVERRIDDEN=file\n"), 0644))

	require.NoError(t, os.Setenv("FUNDME_TEST_OVERRIDDEN", "process"))
	defer os.Unsetenv("FUNDME_TEST_OVERRIDDEN")

	env, err := readEnvironment(FilesPaths{envFile, filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	require.Equal(t, "file", env["FUNDME_TEST_FROM_FILE"])
	require.Equal(t, "process", env["FUNDME_TEST_OVERRIDDEN"])
}
