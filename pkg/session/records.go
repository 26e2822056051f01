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

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// ErrInvalidSession is returned when a session is constructed with missing fields.
var ErrInvalidSession = errors.New("invalid session")

// AuthenticationSession is a started authentication awaiting confirmation by the user.
type AuthenticationSession struct {
	claim            types.IdentityClaim
	challenge        []byte
	verificationCode string
	createdAt        time.Time
}

// NewAuthenticationSession validates and creates an AuthenticationSession.
func NewAuthenticationSession(claim types.IdentityClaim, challenge types.AuthChallenge, createdAt time.Time) (AuthenticationSession, error) {
	if claim.Country == "" || claim.NationalID == "" {
		return AuthenticationSession{}, fmt.Errorf("%w: missing identity claim", ErrInvalidSession)
	}
	if len(challenge.Challenge) == 0 {
		return AuthenticationSession{}, fmt.Errorf("%w: missing challenge", ErrInvalidSession)
	}
	if challenge.VerificationCode == "" {
		return AuthenticationSession{}, fmt.Errorf("%w: missing verification code", ErrInvalidSession)
	}
	return AuthenticationSession{
		claim:            claim,
		challenge:        append([]byte(nil), challenge.Challenge...),
		verificationCode: challenge.VerificationCode,
		createdAt:        createdAt,
	}, nil
}

func (s AuthenticationSession) Claim() types.IdentityClaim {
	return s.claim
}

func (s AuthenticationSession) VerificationCode() string {
	return s.verificationCode
}

// Target tells where a signed container ends up.
type Target struct {
	// DocumentID of the stored container which is signed, empty when a new container is built
	DocumentID string
	// Name of the container document
	Name string
}

// SigningSession is a started signature awaiting confirmation by the user.
type SigningSession struct {
	signerID  string
	claim     types.IdentityClaim
	challenge types.SigningChallenge
	handle    types.ContainerHandle
	target    Target
	createdAt time.Time
}

// NewSigningSession validates and creates a SigningSession.
func NewSigningSession(signerID string, claim types.IdentityClaim, challenge types.SigningChallenge, handle types.ContainerHandle, target Target, createdAt time.Time) (SigningSession, error) {
	if signerID == "" {
		return SigningSession{}, fmt.Errorf("%w: missing signer", ErrInvalidSession)
	}
	if handle == nil {
		return SigningSession{}, fmt.Errorf("%w: missing container", ErrInvalidSession)
	}
	if len(challenge.Challenge) == 0 || challenge.VerificationCode == "" {
		return SigningSession{}, fmt.Errorf("%w: incomplete signing challenge", ErrInvalidSession)
	}
	if target.Name == "" {
		return SigningSession{}, fmt.Errorf("%w: missing container name", ErrInvalidSession)
	}
	return SigningSession{
		signerID:  signerID,
		claim:     claim,
		challenge: challenge,
		handle:    handle,
		target:    target,
		createdAt: createdAt,
	}, nil
}

func (s SigningSession) SignerID() string {
	return s.signerID
}

func (s SigningSession) VerificationCode() string {
	return s.challenge.VerificationCode
}

func (s SigningSession) Target() Target {
	return s.target
}

// SigningOutcome is the signed container produced by a completed signing session.
type SigningOutcome struct {
	SignerID string
	Target   Target
	// Content is the finalized container
	Content []byte
	// Signature is the raw signature over Digest
	Signature []byte
	Digest    []byte
	SignedAt  time.Time
}

// IsNew returns true when the container was built for this signature and is not stored yet.
func (o SigningOutcome) IsNew() bool {
	return o.Target.DocumentID == ""
}
