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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nuts-foundation/nuts-cosign/pkg/access"
	"github.com/nuts-foundation/nuts-cosign/pkg/ledger"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/notifier"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// ErrTooLarge is returned when an uploaded document exceeds the maximum upload size.
var ErrTooLarge = errors.New("document too large")

// ErrInvalidName is returned when a document or group has no name.
var ErrInvalidName = errors.New("invalid name")

// NowFunc is used to store a function that returns the current time. This can be changed when you want to mock the current time.
var NowFunc = time.Now

// Service manages documents, their shares, groups and signer assignments on behalf of users.
// Every operation is checked against the access rules.
type Service struct {
	repository types.Repository
	ledger     *ledger.Ledger
	container  types.DocumentContainer
	messenger  notifier.Messenger
	access     access.Loader
	// MaxUploadSize in bytes, zero means unlimited
	MaxUploadSize int64
}

// NewService creates a Service.
func NewService(repository types.Repository, signers *ledger.Ledger, container types.DocumentContainer, messenger notifier.Messenger, maxUploadSize int64) *Service {
	return &Service{
		repository:    repository,
		ledger:        signers,
		container:     container,
		messenger:     messenger,
		access:        access.Loader{Repository: repository},
		MaxUploadSize: maxUploadSize,
	}
}

// Upload stores a new document owned by the uploader.
func (s *Service) Upload(ctx context.Context, uploader, name string, content []byte) (*types.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: document name is required", ErrInvalidName)
	}
	if s.MaxUploadSize > 0 && int64(len(content)) > s.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(content), s.MaxUploadSize)
	}
	if _, err := s.repository.FindUser(ctx, uploader); err != nil {
		return nil, err
	}
	document := types.Document{
		ID:        uuid.New().String(),
		Name:      name,
		Content:   content,
		Owner:     uploader,
		CreatedAt: NowFunc(),
	}
	if err := s.repository.CreateDocument(ctx, document); err != nil {
		return nil, err
	}
	return &document, nil
}

// Document returns the document, including its content, when the user may read it.
func (s *Service) Document(ctx context.Context, user, documentID string) (*types.Document, error) {
	facts, err := s.access.Document(ctx, user, documentID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(user, access.Read, facts); err != nil {
		return nil, err
	}
	return facts.Document, nil
}

// Delete removes a document of the user.
func (s *Service) Delete(ctx context.Context, user, documentID string) error {
	facts, err := s.access.Document(ctx, user, documentID)
	if err != nil {
		return err
	}
	if err := access.Require(user, access.DeleteDocument, facts); err != nil {
		return err
	}
	return s.repository.DeleteDocument(ctx, documentID)
}

// Owned returns the documents uploaded by the user.
func (s *Service) Owned(ctx context.Context, user string) ([]types.Document, error) {
	return s.repository.DocumentsByOwner(ctx, user)
}

// SharedWith returns the documents of others the user can read, through a grant or a group.
func (s *Service) SharedWith(ctx context.Context, user string) ([]types.Document, error) {
	var ids []string
	grants, err := s.repository.GrantsOfUser(ctx, user)
	if err != nil {
		return nil, err
	}
	for _, g := range grants {
		ids = append(ids, g.DocumentID)
	}
	memberships, err := s.repository.MembershipsOf(ctx, user)
	if err != nil {
		return nil, err
	}
	for _, m := range memberships {
		links, err := s.repository.LinksOfGroup(ctx, m.GroupID)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			ids = append(ids, l.DocumentID)
		}
	}

	seen := map[string]bool{}
	var result []types.Document
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		document, err := s.repository.FindDocument(ctx, id)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if document.Owner != user {
			result = append(result, *document)
		}
	}
	return result, nil
}

// Share grants the grantee read access to a document of the grantor and notifies the grantee.
func (s *Service) Share(ctx context.Context, grantor, documentID, grantee string) (*types.AccessGrant, error) {
	facts, err := s.access.Document(ctx, grantor, documentID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(grantor, access.Share, facts); err != nil {
		return nil, err
	}
	if grantee == facts.Document.Owner {
		return nil, fmt.Errorf("%w: owner already has access", types.ErrAlreadyExists)
	}
	if _, err := s.repository.FindUser(ctx, grantee); err != nil {
		return nil, err
	}
	grant := types.AccessGrant{DocumentID: documentID, Grantee: grantee, Grantor: grantor, GrantedAt: NowFunc()}
	if err := s.repository.CreateGrant(ctx, grant); err != nil {
		return nil, err
	}
	s.messenger.Send(ctx, []string{grantee}, notifier.DocumentShared, map[string]string{
		notifier.DocumentAttr: facts.Document.Name,
		notifier.GrantorAttr:  grantor,
	})
	return &grant, nil
}

// Revoke removes the grant of grantee and notifies the grantee. The document owner and the grantor may revoke.
func (s *Service) Revoke(ctx context.Context, user, documentID, grantee string) error {
	facts, err := s.access.Grant(ctx, user, documentID, grantee)
	if err != nil {
		return err
	}
	if err := access.Require(user, access.Revoke, facts); err != nil {
		return err
	}
	if err := s.repository.DeleteGrant(ctx, documentID, grantee); err != nil {
		return err
	}
	s.messenger.Send(ctx, []string{grantee}, notifier.AccessRevoked, map[string]string{notifier.DocumentAttr: facts.Document.Name})
	return nil
}

// Grants returns all grants of a document, only for its owner.
func (s *Service) Grants(ctx context.Context, user, documentID string) ([]types.AccessGrant, error) {
	facts, err := s.access.Document(ctx, user, documentID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(user, access.Share, facts); err != nil {
		return nil, err
	}
	return facts.Grants, nil
}
