// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package gas

// Costs charged by the ledger host, modeled on the EVM schedule.
const (
	TxBase            uint64 = 21000
	StorageRead       uint64 = 800
	StorageSet        uint64 = 20000
	StorageUpdate     uint64 = 5000
	StorageReset      uint64 = 5000
	MemoryAccess      uint64 = 3
	Balance           uint64 = 700
	ExternalCall      uint64 = 700
	CallValueTransfer uint64 = 9000
)

const DefaultTransactionLimit uint64 = 3000000
