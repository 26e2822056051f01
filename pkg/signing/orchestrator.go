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

package signing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg/access"
	"github.com/nuts-foundation/nuts-cosign/pkg/ledger"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/notifier"
	"github.com/nuts-foundation/nuts-cosign/pkg/session"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// NowFunc is used to store a function that returns the current time. This can be changed when you want to mock the current time.
var NowFunc = time.Now

const (
	msgAuthenticated  = "Authentication successful"
	msgSigned         = "Signing successful"
	msgAlreadySigned  = "Document was already signed by this user"
	msgNoAuthSession  = "Authentication session not initiated"
	msgNoSignSession  = "Signing session not initiated"
	msgInternal       = "An unexpected error occurred"
	msgTimeoutPattern = "Signature service timed out after %d seconds"
)

// AuthenticationResult is the outcome of ConfirmAuthentication.
type AuthenticationResult struct {
	Authenticated bool
	Message       string
	Kind          types.Kind
	User          *types.User
}

// SigningResult is the outcome of ConfirmSignature.
type SigningResult struct {
	Signed  bool
	Message string
	Kind    types.Kind
	// DocumentID of the signed container
	DocumentID    string
	SignedAt      *time.Time
	AlreadySigned bool
}

// Orchestrator drives authentication and signing sessions and records their outcome.
// It is the only one recording signatures in the ledger.
type Orchestrator struct {
	repository types.Repository
	sessions   *session.Manager
	ledger     *ledger.Ledger
	messenger  notifier.Messenger
	access     access.Loader
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(repository types.Repository, sessions *session.Manager, signers *ledger.Ledger, messenger notifier.Messenger) *Orchestrator {
	return &Orchestrator{
		repository: repository,
		sessions:   sessions,
		ledger:     signers,
		messenger:  messenger,
		access:     access.Loader{Repository: repository},
	}
}

// RequestAuthentication starts authenticating the claimed identity in the given context
// and returns the verification code to show to the user.
func (o *Orchestrator) RequestAuthentication(ctx context.Context, contextID string, claim types.IdentityClaim) (string, error) {
	return o.sessions.StartAuthentication(ctx, contextID, claim)
}

// ConfirmAuthentication waits for the user to confirm the authentication and returns the local user,
// registering it on first use. Failures are reported in the result, the error is only set on internal failures.
func (o *Orchestrator) ConfirmAuthentication(ctx context.Context, contextID string) (AuthenticationResult, error) {
	identity, err := o.sessions.CompleteAuthentication(ctx, contextID)
	if err != nil {
		if errors.Is(err, types.ErrNoActiveSession) {
			return AuthenticationResult{Message: msgNoAuthSession, Kind: types.KindOf(err)}, nil
		}
		if types.KindOf(err) == "Internal" {
			return AuthenticationResult{}, err
		}
		logging.Log().WithError(err).Info("authentication failed")
		return AuthenticationResult{Message: message(err), Kind: types.KindOf(err)}, nil
	}

	user, err := o.registerOrFetch(ctx, *identity)
	if err != nil {
		return AuthenticationResult{}, err
	}
	return AuthenticationResult{Authenticated: true, Message: msgAuthenticated, User: user}, nil
}

func (o *Orchestrator) registerOrFetch(ctx context.Context, identity types.ResolvedIdentity) (*types.User, error) {
	user, err := o.repository.FindUser(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	created := types.User{
		ID:         identity.ID,
		Name:       DisplayName(identity.GivenName, identity.Surname),
		Country:    identity.Country,
		NationalID: identity.IdentityCode,
		CreatedAt:  NowFunc(),
	}
	err = o.repository.CreateUser(ctx, created)
	if errors.Is(err, types.ErrAlreadyExists) {
		// registered concurrently
		return o.repository.FindUser(ctx, identity.ID)
	}
	if err != nil {
		return nil, err
	}
	logging.Log().Infof("registered user %s", created.ID)
	return &created, nil
}

// DisplayName builds the name of a user from the given name and surname as known by the identity provider,
// which are usually in capitals.
func DisplayName(givenName, surname string) string {
	caser := cases.Title(language.Und)
	parts := []string{}
	for _, part := range []string{givenName, surname} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, caser.String(strings.ToLower(part)))
		}
	}
	return strings.Join(parts, " ")
}

// RequestSignature starts a signing session for the given documents and returns the verification code.
// The signer must be able to read every document. When a single, already stored container is signed,
// the signer must be allowed to sign it now.
func (o *Orchestrator) RequestSignature(ctx context.Context, contextID, signerID string, documentIDs []string) (string, error) {
	if len(documentIDs) == 0 {
		return "", fmt.Errorf("%w: no documents selected", types.ErrNotFound)
	}
	signer, err := o.repository.FindUser(ctx, signerID)
	if err != nil {
		return "", err
	}
	claim, err := signer.Claim()
	if err != nil {
		return "", err
	}

	documents := make([]types.Document, 0, len(documentIDs))
	for _, id := range documentIDs {
		facts, err := o.access.Document(ctx, signerID, id)
		if err != nil {
			return "", err
		}
		if err := access.Require(signerID, access.Read, facts); err != nil {
			return "", err
		}
		documents = append(documents, *facts.Document)
	}

	if len(documents) == 1 && documents[0].IsContainer() && documents[0].Owner != signerID {
		snapshot, err := o.ledger.Snapshot(ctx, documents[0].ID)
		if err != nil {
			return "", err
		}
		ready, err := snapshot.CanSign(signerID)
		if err != nil {
			return "", err
		}
		if !ready {
			return "", types.ErrOrderNotReady
		}
	}

	return o.sessions.StartSigning(ctx, contextID, signerID, claim, documents)
}

// ConfirmSignature waits for the user to confirm the pending signature, stores the signed container and
// records the signature. Failures are reported in the result, the error is only set on internal failures.
func (o *Orchestrator) ConfirmSignature(ctx context.Context, contextID, signerID string) (SigningResult, error) {
	outcome, err := o.sessions.CompleteSigning(ctx, contextID)
	if err != nil {
		return o.failed(err)
	}
	if outcome.SignerID != signerID {
		return SigningResult{Message: "Signing session belongs to another user", Kind: types.KindOf(types.ErrForbidden)}, nil
	}

	documentID, transition, err := o.record(ctx, *outcome)
	if err != nil {
		return o.failed(err)
	}

	result := SigningResult{Signed: true, Message: msgSigned, DocumentID: documentID, SignedAt: transition.Record.SignedAt}
	if transition.AlreadySigned {
		result.AlreadySigned = true
		result.Message = msgAlreadySigned
		return result, nil
	}
	o.notify(ctx, documentID, transition)
	return result, nil
}

func (o *Orchestrator) failed(err error) (SigningResult, error) {
	kind := types.KindOf(err)
	switch {
	case errors.Is(err, types.ErrNoActiveSession):
		return SigningResult{Message: msgNoSignSession, Kind: kind}, nil
	case errors.Is(err, types.ErrTimeout):
		return SigningResult{Message: fmt.Sprintf(msgTimeoutPattern, int(o.sessions.SigningTimeout().Seconds())), Kind: kind}, nil
	case kind == "Internal":
		logging.Log().WithError(err).Error("signing failed")
		return SigningResult{}, fmt.Errorf("%w: %v", types.ErrInternal, err)
	}
	logging.Log().WithError(err).Info("signing failed")
	return SigningResult{Message: message(err), Kind: kind}, nil
}

// record stores the signed container and marks the signer signed. A container built for this signature
// becomes a new document of the signer, otherwise the signature is added to the stored container.
func (o *Orchestrator) record(ctx context.Context, outcome session.SigningOutcome) (string, *ledger.Transition, error) {
	if outcome.IsNew() {
		return o.recordNew(ctx, outcome)
	}

	document, err := o.repository.FindDocument(ctx, outcome.Target.DocumentID)
	if err != nil {
		return "", nil, err
	}
	if document.Owner == outcome.SignerID {
		owner := 0
		if _, _, err := o.ledger.UpsertSigner(ctx, document.ID, document.Owner, &owner); err != nil {
			return "", nil, err
		}
	}
	// the container is read again under the document lock, other signers may have signed since the session started
	transition, err := o.ledger.MarkSigned(ctx, document.ID, outcome.SignerID, outcome.SignedAt, func(ctx context.Context) error {
		current, err := o.repository.FindDocument(ctx, document.ID)
		if err != nil {
			return err
		}
		content, err := o.sessions.Countersign(outcome, current.Content)
		if err != nil {
			return err
		}
		current.Content = content
		return o.repository.UpdateDocument(ctx, *current)
	})
	return document.ID, transition, err
}

// recordNew stores the container as a new document signed by its owner. The document is removed again
// when the signature cannot be recorded.
func (o *Orchestrator) recordNew(ctx context.Context, outcome session.SigningOutcome) (string, *ledger.Transition, error) {
	document := types.Document{
		ID:        uuid.New().String(),
		Name:      outcome.Target.Name,
		Content:   outcome.Content,
		Owner:     outcome.SignerID,
		CreatedAt: outcome.SignedAt,
	}
	if err := o.repository.CreateDocument(ctx, document); err != nil {
		return "", nil, err
	}
	owner := 0
	_, _, err := o.ledger.UpsertSigner(ctx, document.ID, document.Owner, &owner)
	var transition *ledger.Transition
	if err == nil {
		transition, err = o.ledger.MarkSigned(ctx, document.ID, document.Owner, outcome.SignedAt, nil)
	}
	if err != nil {
		if deleteErr := o.repository.DeleteDocument(ctx, document.ID); deleteErr != nil {
			logging.Log().WithError(deleteErr).Errorf("unable to remove unsigned container %s", document.ID)
		}
		return "", nil, err
	}
	return document.ID, transition, nil
}

func (o *Orchestrator) notify(ctx context.Context, documentID string, transition *ledger.Transition) {
	document, err := o.repository.FindDocument(ctx, documentID)
	if err != nil {
		logging.Log().WithError(err).Warnf("unable to notify signers of %s", documentID)
		return
	}
	targets := transition.Snapshot.NotifyTargets(transition.Record.Order, document.Owner)
	vars := map[string]string{notifier.DocumentAttr: document.Name}
	switch targets.Kind {
	case ledger.TargetsTurn:
		o.messenger.Send(ctx, targets.Recipients, notifier.YourTurn, vars)
	case ledger.TargetsComplete:
		o.messenger.Send(ctx, targets.Recipients, notifier.SigningComplete, vars)
	}
}

// message returns a human readable text for a failure. Provider failures carry their own message
// after the kind.
func message(err error) string {
	text := err.Error()
	if !types.IsProviderError(err) {
		return text
	}
	if i := strings.Index(text, ": "); i >= 0 {
		return text[i+2:]
	}
	return text
}
