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
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pkgErrors "github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg/lock"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// DefaultSigningTimeout is the time a user gets to confirm a signature on the mobile device.
const DefaultSigningTimeout = 20 * time.Second

// NowFunc is used to store a function that returns the current time. This can be changed when you want to mock the current time.
var NowFunc = time.Now

// Config bounds the lifetime of sessions.
type Config struct {
	// SigningTimeout bounds CompleteSigning, measured from its invocation
	SigningTimeout time.Duration
	// AuthenticationTimeout bounds CompleteAuthentication, zero leaves it to the provider
	AuthenticationTimeout time.Duration
	// TTL is how long a started session may wait for completion, zero means forever
	TTL time.Duration
}

// Manager holds at most one authentication and one signing session per context.
type Manager struct {
	provider  types.IdentityProvider
	container types.DocumentContainer
	config    Config

	starts *lock.Keyed

	mu       sync.Mutex
	contexts map[string]*slots
}

type slots struct {
	auth        *AuthenticationSession
	authExpires time.Time
	sign        *SigningSession
	signExpires time.Time
}

func (s *slots) empty() bool {
	return s.auth == nil && s.sign == nil
}

// NewManager creates a Manager. A zero SigningTimeout is replaced by DefaultSigningTimeout.
func NewManager(provider types.IdentityProvider, container types.DocumentContainer, config Config) *Manager {
	if config.SigningTimeout <= 0 {
		config.SigningTimeout = DefaultSigningTimeout
	}
	return &Manager{
		provider:  provider,
		container: container,
		config:    config,
		starts:    lock.NewKeyed(),
		contexts:  map[string]*slots{},
	}
}

// SigningTimeout returns the bound applied to CompleteSigning.
func (m *Manager) SigningTimeout() time.Duration {
	return m.config.SigningTimeout
}

// StartAuthentication starts authenticating the claimed identity and returns the verification code
// to display. Any previous authentication session of the context is discarded.
func (m *Manager) StartAuthentication(ctx context.Context, contextID string, claim types.IdentityClaim) (string, error) {
	unlock := m.starts.Lock(contextID)
	defer unlock()

	m.update(contextID, func(s *slots) { s.auth = nil })

	challenge, err := m.provider.StartAuthentication(ctx, claim)
	if err != nil {
		return "", classify(err)
	}
	session, err := NewAuthenticationSession(claim, challenge, NowFunc())
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrProviderInvalidResponse, err)
	}

	m.update(contextID, func(s *slots) {
		s.auth = &session
		s.authExpires = m.expiry()
	})
	logging.Log().Debugf("authentication session started for context %s", contextID)
	return session.VerificationCode(), nil
}

// CompleteAuthentication waits for the user to confirm the pending authentication of the context.
// The session is consumed whatever the outcome.
func (m *Manager) CompleteAuthentication(ctx context.Context, contextID string) (*types.ResolvedIdentity, error) {
	var session *AuthenticationSession
	m.update(contextID, func(s *slots) {
		if s.auth != nil && !expired(s.authExpires) {
			session = s.auth
		}
		s.auth = nil
	})
	if session == nil {
		return nil, types.ErrNoActiveSession
	}

	result, err := await(ctx, m.config.AuthenticationTimeout, func(ctx context.Context) (interface{}, error) {
		return m.provider.CompleteAuthentication(ctx, session.claim, session.challenge)
	})
	if err != nil {
		return nil, classify(err)
	}
	identity, ok := result.(*types.ResolvedIdentity)
	if !ok || identity == nil || identity.ID == "" {
		return nil, fmt.Errorf("%w: no identity resolved", types.ErrProviderInvalidResponse)
	}
	return identity, nil
}

// StartSigning prepares a container for the documents and starts a signing session for it.
// A single document which already is a container is signed as is, otherwise a new container
// wrapping all documents is built. Any previous signing session of the context is discarded.
func (m *Manager) StartSigning(ctx context.Context, contextID, signerID string, claim types.IdentityClaim, documents []types.Document) (string, error) {
	if len(documents) == 0 {
		return "", fmt.Errorf("%w: no documents to sign", types.ErrNotFound)
	}
	unlock := m.starts.Lock(contextID)
	defer unlock()

	m.update(contextID, func(s *slots) { s.sign = nil })

	handle, target, err := m.prepare(documents)
	if err != nil {
		return "", err
	}
	challenge, err := m.provider.StartSigning(ctx, handle.Digest(), claim)
	if err != nil {
		return "", classify(err)
	}
	session, err := NewSigningSession(signerID, claim, challenge, handle, target, NowFunc())
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrProviderInvalidResponse, err)
	}

	m.update(contextID, func(s *slots) {
		s.sign = &session
		s.signExpires = m.expiry()
	})
	logging.Log().Debugf("signing session started for context %s, container %s", contextID, target.Name)
	return session.VerificationCode(), nil
}

func (m *Manager) prepare(documents []types.Document) (types.ContainerHandle, Target, error) {
	if len(documents) == 1 && documents[0].IsContainer() {
		handle, err := m.container.FromExisting(documents[0].Content)
		if err != nil {
			return nil, Target{}, pkgErrors.Wrapf(err, "unable to open container %s", documents[0].ID)
		}
		return handle, Target{DocumentID: documents[0].ID, Name: documents[0].Name}, nil
	}

	files := make([]types.ContainerFile, len(documents))
	for i, d := range documents {
		files[i] = types.ContainerFile{Name: d.Name, Content: d.Content}
	}
	handle, err := m.container.Build(files)
	if err != nil {
		return nil, Target{}, pkgErrors.Wrap(err, "unable to build container")
	}
	return handle, Target{Name: types.ContainerName(documents[0].Name)}, nil
}

// CompleteSigning waits, at most SigningTimeout, for the user to confirm the pending signature of the
// context and returns the finalized container. The session is consumed whatever the outcome; on timeout
// the provider call is abandoned.
func (m *Manager) CompleteSigning(ctx context.Context, contextID string) (*SigningOutcome, error) {
	var session *SigningSession
	m.update(contextID, func(s *slots) {
		if s.sign != nil && !expired(s.signExpires) {
			session = s.sign
		}
		s.sign = nil
	})
	if session == nil {
		return nil, types.ErrNoActiveSession
	}

	result, err := await(ctx, m.config.SigningTimeout, func(ctx context.Context) (interface{}, error) {
		return m.provider.CompleteSigning(ctx, session.challenge)
	})
	if err != nil {
		return nil, classify(err)
	}
	signature, ok := result.([]byte)
	if !ok || len(signature) == 0 {
		return nil, fmt.Errorf("%w: empty signature", types.ErrProviderInvalidResponse)
	}

	content, err := m.container.Finalize(session.handle, signature)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "unable to finalize container")
	}
	return &SigningOutcome{
		SignerID:  session.signerID,
		Target:    session.target,
		Content:   content,
		Signature: signature,
		Digest:    session.handle.Digest(),
		SignedAt:  NowFunc(),
	}, nil
}

// Countersign adds the signature of the outcome to current, the content of its container as stored now.
// Signatures added after the session was started are kept. It fails with ErrConflict when current no
// longer holds the files that were signed.
func (m *Manager) Countersign(outcome SigningOutcome, current []byte) ([]byte, error) {
	handle, err := m.container.FromExisting(current)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "unable to open container %s", outcome.Target.DocumentID)
	}
	if !bytes.Equal(handle.Digest(), outcome.Digest) {
		return nil, fmt.Errorf("%w: files of %s changed", types.ErrConflict, outcome.Target.DocumentID)
	}
	content, err := m.container.Finalize(handle, outcome.Signature)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "unable to finalize container")
	}
	return content, nil
}

// update runs fn on the slots of the context and drops the context when both slots are empty.
// Expired contexts are pruned on the way.
func (m *Manager) update(contextID string, fn func(s *slots)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.contexts[contextID]
	if !ok {
		s = &slots{}
		m.contexts[contextID] = s
	}
	fn(s)
	m.prune()
}

// Prune drops expired sessions of all contexts and returns the number of contexts left.
func (m *Manager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	return len(m.contexts)
}

func (m *Manager) prune() {
	for id, other := range m.contexts {
		if other.auth != nil && expired(other.authExpires) {
			other.auth = nil
		}
		if other.sign != nil && expired(other.signExpires) {
			other.sign = nil
		}
		if other.empty() {
			delete(m.contexts, id)
		}
	}
}

func (m *Manager) expiry() time.Time {
	if m.config.TTL <= 0 {
		return time.Time{}
	}
	return NowFunc().Add(m.config.TTL)
}

func expired(expires time.Time) bool {
	return !expires.IsZero() && NowFunc().After(expires)
}

type awaitResult struct {
	value interface{}
	err   error
}

// await runs call in its own goroutine and waits for it, or for ctx bounded by timeout to end.
// When waiting ends first the call is left running, its result is discarded.
func await(ctx context.Context, timeout time.Duration, call func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	done := make(chan awaitResult, 1)
	go func() {
		value, err := call(ctx)
		done <- awaitResult{value: value, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no response within %s", types.ErrTimeout, timeout)
		}
		return nil, ctx.Err()
	}
}

// providerError carries the message of a provider failure without exposing the provider's error type.
type providerError struct {
	kind    error
	message string
}

func (e providerError) Error() string {
	return e.message
}

func (e providerError) Unwrap() error {
	return e.kind
}

// classify translates any error of the identity provider into the error taxonomy.
func classify(err error) error {
	for _, kind := range []error{types.ErrTimeout, types.ErrProviderDeclined, types.ErrProviderTimeout, types.ErrProviderUnavailable, types.ErrProviderInvalidResponse} {
		if errors.Is(err, kind) {
			return providerError{kind: kind, message: err.Error()}
		}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return providerError{kind: types.ErrTimeout, message: err.Error()}
	}
	return providerError{kind: types.ErrProviderUnavailable, message: fmt.Sprintf("%s: %s", types.ErrProviderUnavailable, err)}
}
