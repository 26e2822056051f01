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

package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// ErrAllSigned is returned by NextSigner when every signer has signed.
var ErrAllSigned = errors.New("all signers have signed")

// Snapshot holds all signer records of a single document, sorted by order and signer.
type Snapshot []types.SignerRecord

func newSnapshot(records []types.SignerRecord) Snapshot {
	s := make(Snapshot, len(records))
	copy(s, records)
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Order != s[j].Order {
			return s[i].Order < s[j].Order
		}
		return s[i].SignerID < s[j].SignerID
	})
	return s
}

// Record returns the record of signer.
func (s Snapshot) Record(signerID string) (types.SignerRecord, bool) {
	for _, r := range s {
		if r.SignerID == signerID {
			return r, true
		}
	}
	return types.SignerRecord{}, false
}

// AllSigned returns true when there are records and all of them are signed.
func (s Snapshot) AllSigned() bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !r.Signed {
			return false
		}
	}
	return true
}

// ready returns true when signers of the given order may sign.
func (s Snapshot) ready(order int) bool {
	if order <= 1 {
		return true
	}
	for _, r := range s {
		if r.Order == order-1 && !r.Signed {
			return false
		}
	}
	return true
}

func (s Snapshot) pendingAt(order int) bool {
	for _, r := range s {
		if r.Order == order && !r.Signed {
			return true
		}
	}
	return false
}

// CanSign returns whether the signer may sign now. A signer that already signed may "sign" again,
// which the ledger treats as a no-op.
func (s Snapshot) CanSign(signerID string) (bool, error) {
	record, ok := s.Record(signerID)
	if !ok {
		return false, fmt.Errorf("%w: %s", types.ErrNotAssigned, signerID)
	}
	if record.Signed {
		return true, nil
	}
	return s.ready(record.Order), nil
}

// NextSigner returns who is expected to sign next: the unsigned signer with the lowest non-zero order,
// otherwise an unsigned order 0 signer other than the owner, otherwise the owner.
// It never notifies anyone.
func (s Snapshot) NextSigner(owner string) (string, error) {
	if len(s) == 0 {
		return "", fmt.Errorf("%w: no signers assigned", types.ErrNotFound)
	}
	if s.AllSigned() {
		return "", ErrAllSigned
	}
	for _, r := range s {
		if !r.Signed && r.Order > 0 {
			return r.SignerID, nil
		}
	}
	for _, r := range s {
		if !r.Signed && r.SignerID != owner {
			return r.SignerID, nil
		}
	}
	return owner, nil
}

// TargetKind tells what a notification wave is about.
type TargetKind int

const (
	// TargetsNone means nobody has to be notified
	TargetsNone TargetKind = iota
	// TargetsTurn means the recipients may sign now
	TargetsTurn
	// TargetsComplete means all signatures are collected, the recipient is the owner
	TargetsComplete
)

// Targets are the users to notify after a signature was recorded.
type Targets struct {
	Kind       TargetKind
	Recipients []string
}

// NotifyTargets determines who has to be notified after a signer of justSignedOrder signed.
// When everyone signed, only the owner is notified. Signing at order 0 never notifies anyone else.
// The next order is only notified when every signer of the just signed order is done.
func (s Snapshot) NotifyTargets(justSignedOrder int, owner string) Targets {
	if s.AllSigned() {
		return Targets{Kind: TargetsComplete, Recipients: []string{owner}}
	}
	if justSignedOrder == 0 || s.pendingAt(justSignedOrder) {
		return Targets{Kind: TargetsNone}
	}

	next := -1
	for _, r := range s {
		if !r.Signed && r.Order > 1 && (next == -1 || r.Order < next) {
			next = r.Order
		}
	}
	if next == -1 || !s.ready(next) {
		return Targets{Kind: TargetsNone}
	}

	targets := Targets{Kind: TargetsTurn}
	for _, r := range s {
		if r.Order == next && !r.Signed {
			targets.Recipients = append(targets.Recipients, r.SignerID)
		}
	}
	return targets
}
