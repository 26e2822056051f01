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

package documents

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-cosign/pkg/access"
	"github.com/nuts-foundation/nuts-cosign/pkg/ledger"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/notifier"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// Assignment assigns a user as signer. A nil Order keeps the order of an existing assignment.
type Assignment struct {
	UserID string
	Order  *int
}

// AssignSigners assigns signers to a document linked to a group of the user. A document which is not a
// container yet is wrapped into one, in place. Signers get read access when they lack it, the document
// owner always signs at order 0. New signers of order 0 and 1 are notified they can sign.
func (s *Service) AssignSigners(ctx context.Context, user, groupID, documentID string, assignments []Assignment) (ledger.Snapshot, error) {
	facts, err := s.access.GroupDocument(ctx, user, groupID, documentID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(user, access.AssignSigners, facts); err != nil {
		return nil, err
	}
	document := facts.Document
	if !document.IsContainer() {
		if document, err = s.containerize(ctx, *document); err != nil {
			return nil, err
		}
	}

	var notify []string
	for _, assignment := range assignments {
		if _, err := s.repository.FindUser(ctx, assignment.UserID); err != nil {
			return nil, err
		}
		if err := s.ensureReadable(ctx, user, document.ID, assignment.UserID); err != nil {
			return nil, err
		}
		order := assignment.Order
		if assignment.UserID == document.Owner {
			zero := 0
			order = &zero
		}
		record, created, err := s.ledger.UpsertSigner(ctx, document.ID, assignment.UserID, order)
		if err != nil {
			return nil, err
		}
		if created && record.Order <= 1 {
			notify = append(notify, record.SignerID)
		}
	}
	s.messenger.Send(ctx, notify, notifier.SentForSigning, map[string]string{notifier.DocumentAttr: document.Name})
	return s.ledger.Snapshot(ctx, document.ID)
}

func (s *Service) containerize(ctx context.Context, document types.Document) (*types.Document, error) {
	handle, err := s.container.Build([]types.ContainerFile{{Name: document.Name, Content: document.Content}})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to wrap document %s", document.ID)
	}
	content, err := s.container.Encode(handle)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to wrap document %s", document.ID)
	}
	document.Name = types.ContainerName(document.Name)
	document.Content = content
	if err := s.repository.UpdateDocument(ctx, document); err != nil {
		return nil, err
	}
	return &document, nil
}

func (s *Service) ensureReadable(ctx context.Context, grantor, documentID, signer string) error {
	facts, err := s.access.Document(ctx, signer, documentID)
	if err != nil {
		return err
	}
	decision, err := access.Evaluate(signer, access.Read, facts)
	if err != nil || decision.Allowed {
		return err
	}
	err = s.repository.CreateGrant(ctx, types.AccessGrant{DocumentID: documentID, Grantee: signer, Grantor: grantor, GrantedAt: NowFunc()})
	if errors.Is(err, types.ErrAlreadyExists) {
		return nil
	}
	return err
}

// Signatures returns the signer records of a document, only for the owner of the group it is linked to.
func (s *Service) Signatures(ctx context.Context, user, groupID, documentID string) (ledger.Snapshot, error) {
	facts, err := s.access.GroupDocument(ctx, user, groupID, documentID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(user, access.ViewSignatures, facts); err != nil {
		return nil, err
	}
	return s.ledger.Snapshot(ctx, documentID)
}

// NextSigner returns who is expected to sign a document the user can read next.
func (s *Service) NextSigner(ctx context.Context, user, documentID string) (string, error) {
	facts, err := s.access.Document(ctx, user, documentID)
	if err != nil {
		return "", err
	}
	if err := access.Require(user, access.Read, facts); err != nil {
		return "", err
	}
	snapshot, err := s.ledger.Snapshot(ctx, documentID)
	if err != nil {
		return "", err
	}
	return snapshot.NextSigner(facts.Document.Owner)
}
