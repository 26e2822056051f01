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

package dummy

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nuts-foundation/nuts-cosign/pkg/services/smartid"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

var errNotEnabled = errors.New("not allowed in strict mode")

// Dummy is an identity provider that confirms every request, unless you try to use it in strict mode.
// Its signatures are not verifiable by anyone.
type Dummy struct {
	InStrictMode bool
	// Delay simulates the time a user needs to confirm on the mobile device
	Delay time.Duration

	mu         sync.Mutex
	identities map[string]types.ResolvedIdentity
}

var _ types.IdentityProvider = (*Dummy)(nil)

// Register makes the dummy resolve claims of the identity's semantics identifier to identity.
// Unregistered claims resolve to a generated test person.
func (d *Dummy) Register(identity types.ResolvedIdentity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.identities == nil {
		d.identities = map[string]types.ResolvedIdentity{}
	}
	d.identities[identity.ID] = identity
}

func (d *Dummy) StartAuthentication(_ context.Context, _ types.IdentityClaim) (types.AuthChallenge, error) {
	if d.InStrictMode {
		return types.AuthChallenge{}, errNotEnabled
	}
	hash, err := smartid.RandomHash()
	if err != nil {
		return types.AuthChallenge{}, err
	}
	return types.AuthChallenge{Challenge: hash, VerificationCode: smartid.VerificationCode(hash)}, nil
}

func (d *Dummy) CompleteAuthentication(ctx context.Context, claim types.IdentityClaim, _ []byte) (*types.ResolvedIdentity, error) {
	if d.InStrictMode {
		return nil, errNotEnabled
	}
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if identity, ok := d.identities[claim.SemanticsIdentifier()]; ok {
		return &identity, nil
	}
	return &types.ResolvedIdentity{
		ID:           claim.SemanticsIdentifier(),
		GivenName:    "TEST",
		Surname:      "TESTER",
		Country:      claim.Country,
		IdentityCode: claim.NationalID,
	}, nil
}

func (d *Dummy) StartSigning(_ context.Context, documentHash []byte, claim types.IdentityClaim) (types.SigningChallenge, error) {
	if d.InStrictMode {
		return types.SigningChallenge{}, errNotEnabled
	}
	return types.SigningChallenge{
		Challenge:        documentHash,
		VerificationCode: smartid.VerificationCode(documentHash),
		DocumentRef:      fmt.Sprintf("%s-DUMMY-Q", claim.SemanticsIdentifier()),
	}, nil
}

func (d *Dummy) CompleteSigning(ctx context.Context, challenge types.SigningChallenge) ([]byte, error) {
	if d.InStrictMode {
		return nil, errNotEnabled
	}
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, []byte(challenge.DocumentRef))
	mac.Write(challenge.Challenge)
	return mac.Sum(nil), nil
}

func (d *Dummy) wait(ctx context.Context) error {
	if d.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(d.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
