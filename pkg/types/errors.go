/*
 * Nuts co-sign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package types

import (
	"errors"
)

// ErrNotFound is returned when a document, group, user or record does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the acting user is not allowed to perform an action.
var ErrForbidden = errors.New("forbidden")

// ErrAlreadyExists is returned when creating something that already exists, e.g. a duplicate grant.
var ErrAlreadyExists = errors.New("already exists")

// ErrNotAssigned is returned when a user tries to sign a document without being assigned as signer.
var ErrNotAssigned = errors.New("signer not assigned")

// ErrOrderNotReady is returned when signers of the previous order have not all signed yet.
var ErrOrderNotReady = errors.New("previous order signers have not all signed yet")

// ErrNoActiveSession is returned when a session is completed which was never started or is already consumed.
var ErrNoActiveSession = errors.New("no active session")

// ErrProviderDeclined is returned when the user refused the operation at the identity provider.
var ErrProviderDeclined = errors.New("declined by identity provider")

// ErrProviderTimeout is returned when the identity provider timed out waiting for the user.
var ErrProviderTimeout = errors.New("identity provider timeout")

// ErrProviderUnavailable is returned when the identity provider could not be used.
var ErrProviderUnavailable = errors.New("identity provider unavailable")

// ErrProviderInvalidResponse is returned when the identity provider returned something unexpected.
var ErrProviderInvalidResponse = errors.New("invalid identity provider response")

// ErrTimeout is returned when an operation exceeds the time this service allows for it.
var ErrTimeout = errors.New("timeout")

// ErrInvalidClaim is returned when an identity claim has an unsupported country or malformed national id.
var ErrInvalidClaim = errors.New("invalid identity claim")

// ErrConflict is returned when a document changed in a way that invalidates the operation.
var ErrConflict = errors.New("conflicting change")

// ErrInternal indicates a broken invariant.
var ErrInternal = errors.New("internal error")

// Kind is the name of an error kind as reported in structured results.
type Kind string

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrNotFound, "NotFound"},
	{ErrForbidden, "Forbidden"},
	{ErrAlreadyExists, "AlreadyExists"},
	{ErrNotAssigned, "NotAssigned"},
	{ErrOrderNotReady, "OrderNotReady"},
	{ErrNoActiveSession, "NoActiveSession"},
	{ErrProviderDeclined, "ProviderDeclined"},
	{ErrProviderTimeout, "ProviderTimeout"},
	{ErrProviderUnavailable, "ProviderUnavailable"},
	{ErrProviderInvalidResponse, "ProviderInvalidResponse"},
	{ErrTimeout, "Timeout"},
	{ErrInvalidClaim, "InvalidClaim"},
	{ErrConflict, "Conflict"},
}

// KindOf returns the kind of the given error, "Internal" when it is not part of the taxonomy.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "Internal"
}

// IsProviderError returns true when err is one of the kinds an identity provider failure is classified as.
func IsProviderError(err error) bool {
	return errors.Is(err, ErrProviderDeclined) ||
		errors.Is(err, ErrProviderTimeout) ||
		errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrProviderInvalidResponse)
}
