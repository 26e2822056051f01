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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

func record(signer string, order int, signed bool) types.SignerRecord {
	r := types.SignerRecord{DocumentID: "doc", SignerID: signer, Order: order, Signed: signed}
	if signed {
		at := time.Now()
		r.SignedAt = &at
	}
	return r
}

func TestSnapshot_CanSign(t *testing.T) {
	snapshot := newSnapshot([]types.SignerRecord{
		record("b", 2, false),
		record("owner", 0, false),
		record("a", 1, false),
	})

	t.Run("ok - order 0 and 1 can always sign", func(t *testing.T) {
		for _, signer := range []string{"owner", "a"} {
			ready, err := snapshot.CanSign(signer)
			require.NoError(t, err)
			assert.True(t, ready, signer)
		}
	})

	t.Run("ok - order 2 waits for order 1", func(t *testing.T) {
		ready, err := snapshot.CanSign("b")
		require.NoError(t, err)
		assert.False(t, ready)

		signed := newSnapshot([]types.SignerRecord{record("a", 1, true), record("b", 2, false)})
		ready, err = signed.CanSign("b")
		require.NoError(t, err)
		assert.True(t, ready)
	})

	t.Run("ok - signed signers may sign again", func(t *testing.T) {
		signed := newSnapshot([]types.SignerRecord{record("a", 1, false), record("b", 2, true)})
		ready, err := signed.CanSign("b")
		require.NoError(t, err)
		assert.True(t, ready)
	})

	t.Run("error - not assigned", func(t *testing.T) {
		_, err := snapshot.CanSign("stranger")
		assert.True(t, errors.Is(err, types.ErrNotAssigned))
	})
}

func TestSnapshot_sorted(t *testing.T) {
	snapshot := newSnapshot([]types.SignerRecord{record("c", 2, false), record("b", 1, false), record("a", 1, false), record("o", 0, false)})

	var signers []string
	for _, r := range snapshot {
		signers = append(signers, r.SignerID)
	}
	assert.Equal(t, []string{"o", "a", "b", "c"}, signers)
}

func TestSnapshot_NextSigner(t *testing.T) {
	t.Run("ok - lowest unsigned non-zero order", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("owner", 0, false), record("a", 1, true), record("b", 2, false), record("c", 3, false)})
		next, err := snapshot.NextSigner("owner")
		require.NoError(t, err)
		assert.Equal(t, "b", next)
	})

	t.Run("ok - order 0 signer other than the owner", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("owner", 0, false), record("x", 0, false), record("a", 1, true)})
		next, err := snapshot.NextSigner("owner")
		require.NoError(t, err)
		assert.Equal(t, "x", next)
	})

	t.Run("ok - owner last", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("owner", 0, false), record("a", 1, true)})
		next, err := snapshot.NextSigner("owner")
		require.NoError(t, err)
		assert.Equal(t, "owner", next)
	})

	t.Run("error - all signed", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("owner", 0, true), record("a", 1, true)})
		_, err := snapshot.NextSigner("owner")
		assert.True(t, errors.Is(err, ErrAllSigned))
	})

	t.Run("error - no signers", func(t *testing.T) {
		_, err := Snapshot{}.NextSigner("owner")
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestSnapshot_NotifyTargets(t *testing.T) {
	t.Run("ok - next order when the signed order is done", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("owner", 0, false), record("a", 1, true), record("b", 2, false), record("c", 2, false), record("d", 3, false)})

		targets := snapshot.NotifyTargets(1, "owner")

		assert.Equal(t, TargetsTurn, targets.Kind)
		assert.Equal(t, []string{"b", "c"}, targets.Recipients)
	})

	t.Run("ok - nobody while the signed order has pending signers", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("a", 1, true), record("c", 1, false), record("b", 2, false)})

		targets := snapshot.NotifyTargets(1, "owner")

		assert.Equal(t, TargetsNone, targets.Kind)
		assert.Empty(t, targets.Recipients)
	})

	t.Run("ok - order 0 notifies nobody", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("owner", 0, true), record("a", 1, true), record("b", 2, false)})

		targets := snapshot.NotifyTargets(0, "owner")

		assert.Equal(t, TargetsNone, targets.Kind)
	})

	t.Run("ok - completion notifies the owner only", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("owner", 0, true), record("a", 1, true), record("b", 2, true)})

		for _, order := range []int{0, 1, 2} {
			targets := snapshot.NotifyTargets(order, "owner")
			assert.Equal(t, TargetsComplete, targets.Kind)
			assert.Equal(t, []string{"owner"}, targets.Recipients)
		}
	})

	t.Run("ok - nothing left above order 1", func(t *testing.T) {
		snapshot := newSnapshot([]types.SignerRecord{record("owner", 0, false), record("a", 1, true), record("b", 2, true)})

		targets := snapshot.NotifyTargets(2, "owner")

		assert.Equal(t, TargetsNone, targets.Kind)
	})
}
