// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package gas

import (
	"github.com/orbs-network/orbs-contract-sdk/go/sdk/v1/safemath/safeuint64"
	"github.com/pkg/errors"
)

var ErrOutOfGas = errors.New("out of gas")

type Meter interface {
	Consume(amount uint64, reason string) error
	Used() uint64
	Limit() uint64
}

type meter struct {
	limit uint64
	used  uint64
}

// NewMeter returns a meter that fails once more than limit gas has been consumed. A zero limit means unlimited.
func NewMeter(limit uint64) Meter {
	return &meter{limit: limit}
}

func (m *meter) Consume(amount uint64, reason string) error {
	used := safeuint64.Add(m.used, amount)
	if m.limit > 0 && used > m.limit {
		left := safeuint64.Sub(m.limit, m.used)
		m.used = m.limit
		return errors.Wrapf(ErrOutOfGas, "%s needs %d gas, %d left", reason, amount, left)
	}
	m.used = used
	return nil
}

func (m *meter) Used() uint64 {
	return m.used
}

func (m *meter) Limit() uint64 {
	return m.limit
}
