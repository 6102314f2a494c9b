// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package fundme

import "github.com/pkg/errors"

var (
	ErrInsufficientContribution = errors.New("You need to spend more ETH!")
	ErrNotOwner                 = errors.New("caller is not the owner")
	ErrTransferFailed           = errors.New("call failed")
	ErrIndexOutOfRange          = errors.New("funder index out of range")
	ErrInvalidPrice             = errors.New("price feed returned a non-positive answer")
)
