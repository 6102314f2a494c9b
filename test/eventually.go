// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package test

import (
	"github.com/orbs-network/go-mock"
	"time"
)

const interval = 5 * time.Millisecond

func Eventually(timeout time.Duration, f func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if f() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
}

func EventuallyVerify(timeout time.Duration, mocks ...mock.HasVerify) error {
	var errExample error
	Eventually(timeout, func() bool {
		for _, m := range mocks {
			if ok, err := m.Verify(); !ok {
				errExample = err
				return false
			}
		}
		errExample = nil
		return true
	})
	return errExample
}
