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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nuts-foundation/nuts-cosign/pkg/lock"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// ErrInvalidOrder is returned when a negative signing order is given.
var ErrInvalidOrder = errors.New("signing order must not be negative")

// Ledger keeps track of who has to sign which document in which order.
// Mutations on a single document are serialized.
type Ledger struct {
	store types.SignerStore
	locks *lock.Keyed
}

// Transition is the result of recording a signature.
type Transition struct {
	// Record is the signer's record after signing, its Order is the order the signer signed at
	Record types.SignerRecord
	// AlreadySigned is true when the signer had signed before, nothing was changed
	AlreadySigned bool
	// Snapshot of the document after signing
	Snapshot Snapshot
}

// New creates a Ledger on top of the given store.
func New(store types.SignerStore) *Ledger {
	return &Ledger{store: store, locks: lock.NewKeyed()}
}

// Snapshot returns all signer records of the document.
func (l *Ledger) Snapshot(ctx context.Context, documentID string) (Snapshot, error) {
	records, err := l.store.SignerRecords(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return newSnapshot(records), nil
}

// UpsertSigner assigns signer to the document. An existing record only gets its order updated
// when order is given, a new record gets order 0 when none is given.
// It returns the resulting record and whether it was created.
func (l *Ledger) UpsertSigner(ctx context.Context, documentID, signerID string, order *int) (types.SignerRecord, bool, error) {
	if order != nil && *order < 0 {
		return types.SignerRecord{}, false, ErrInvalidOrder
	}
	unlock := l.locks.Lock(documentID)
	defer unlock()

	snapshot, err := l.Snapshot(ctx, documentID)
	if err != nil {
		return types.SignerRecord{}, false, err
	}
	record, exists := snapshot.Record(signerID)
	if exists {
		if order == nil || *order == record.Order {
			return record, false, nil
		}
		record.Order = *order
	} else {
		record = types.SignerRecord{DocumentID: documentID, SignerID: signerID}
		if order != nil {
			record.Order = *order
		}
	}
	if err := l.store.SaveSignerRecord(ctx, record); err != nil {
		return types.SignerRecord{}, false, err
	}
	return record, !exists, nil
}

// MarkSigned records the signature of signer. The signer must be assigned and all signers of the
// previous order must have signed. commit is called before the record is saved, when it fails
// nothing is recorded. commit is not called when the signer already signed.
func (l *Ledger) MarkSigned(ctx context.Context, documentID, signerID string, at time.Time, commit func(ctx context.Context) error) (*Transition, error) {
	unlock := l.locks.Lock(documentID)
	defer unlock()

	snapshot, err := l.Snapshot(ctx, documentID)
	if err != nil {
		return nil, err
	}
	record, ok := snapshot.Record(signerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s for document %s", types.ErrNotAssigned, signerID, documentID)
	}
	if record.Signed {
		return &Transition{Record: record, AlreadySigned: true, Snapshot: snapshot}, nil
	}
	if !snapshot.ready(record.Order) {
		return nil, types.ErrOrderNotReady
	}

	if commit != nil {
		if err := commit(ctx); err != nil {
			return nil, err
		}
	}

	signedAt := at
	record.Signed = true
	record.SignedAt = &signedAt
	if err := l.store.SaveSignerRecord(ctx, record); err != nil {
		return nil, err
	}

	after := make(Snapshot, len(snapshot))
	copy(after, snapshot)
	for i := range after {
		if after[i].SignerID == signerID {
			after[i] = record
		}
	}
	return &Transition{Record: record, Snapshot: after}, nil
}
