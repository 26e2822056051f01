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

	"github.com/google/uuid"

	"github.com/nuts-foundation/nuts-cosign/pkg/access"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/notifier"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// CreateGroup creates a group owned by the user, who becomes its first member.
func (s *Service) CreateGroup(ctx context.Context, owner, name string) (*types.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidName)
	}
	if _, err := s.repository.FindUser(ctx, owner); err != nil {
		return nil, err
	}
	now := NowFunc()
	group := types.Group{ID: uuid.New().String(), Name: name, Owner: owner, CreatedAt: now}
	if err := s.repository.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	if err := s.repository.AddMember(ctx, types.GroupMembership{GroupID: group.ID, UserID: owner, AddedAt: now}); err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup deletes a group of the user. Documents, grants and signer records are kept.
func (s *Service) DeleteGroup(ctx context.Context, user, groupID string) error {
	facts, err := s.access.Group(ctx, user, groupID, "")
	if err != nil {
		return err
	}
	if err := access.Require(user, access.DeleteGroup, facts); err != nil {
		return err
	}
	return s.repository.DeleteGroup(ctx, groupID)
}

// Groups returns the groups the user is a member of.
func (s *Service) Groups(ctx context.Context, user string) ([]types.Group, error) {
	memberships, err := s.repository.MembershipsOf(ctx, user)
	if err != nil {
		return nil, err
	}
	groups := make([]types.Group, 0, len(memberships))
	for _, m := range memberships {
		group, err := s.repository.FindGroup(ctx, m.GroupID)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, nil
}

// Members returns the members of a group the user is a member of.
func (s *Service) Members(ctx context.Context, user, groupID string) ([]types.GroupMembership, error) {
	facts, err := s.access.Group(ctx, user, groupID, "")
	if err != nil {
		return nil, err
	}
	if err := access.Require(user, access.ViewGroup, facts); err != nil {
		return nil, err
	}
	return s.repository.MembersOf(ctx, groupID)
}

// AddMembers adds users to a group of the user and notifies the ones that were not a member yet.
func (s *Service) AddMembers(ctx context.Context, user, groupID string, userIDs []string) error {
	facts, err := s.access.Group(ctx, user, groupID, "")
	if err != nil {
		return err
	}
	if err := access.Require(user, access.AddMember, facts); err != nil {
		return err
	}
	var added []string
	for _, id := range userIDs {
		if _, err := s.repository.FindUser(ctx, id); err != nil {
			return err
		}
		err := s.repository.AddMember(ctx, types.GroupMembership{GroupID: groupID, UserID: id, AddedAt: NowFunc()})
		if errors.Is(err, types.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return err
		}
		added = append(added, id)
	}
	s.messenger.Send(ctx, added, notifier.AddedToGroup, map[string]string{notifier.GroupAttr: facts.Group.Name})
	return nil
}

// RemoveMembers removes users from a group of the user. The owner cannot be removed.
func (s *Service) RemoveMembers(ctx context.Context, user, groupID string, userIDs []string) error {
	for _, id := range userIDs {
		facts, err := s.access.Group(ctx, user, groupID, id)
		if err != nil {
			return err
		}
		if err := access.Require(user, access.RemoveMember, facts); err != nil {
			return err
		}
		if err := s.repository.RemoveMember(ctx, groupID, id); err != nil {
			return err
		}
	}
	return nil
}

// Leave removes the user from a group and notifies the group owner. The owner cannot leave.
func (s *Service) Leave(ctx context.Context, user, groupID string) error {
	facts, err := s.access.Group(ctx, user, groupID, user)
	if err != nil {
		return err
	}
	if err := access.Require(user, access.LeaveGroup, facts); err != nil {
		return err
	}
	if err := s.repository.RemoveMember(ctx, groupID, user); err != nil {
		return err
	}
	s.messenger.Send(ctx, []string{facts.Group.Owner}, notifier.LeftGroup, map[string]string{
		notifier.UserAttr:  user,
		notifier.GroupAttr: facts.Group.Name,
	})
	return nil
}

// UploadToGroup stores a new document of the user and links it to a group the user is a member of.
func (s *Service) UploadToGroup(ctx context.Context, user, groupID, name string, content []byte) (*types.Document, error) {
	facts, err := s.access.Group(ctx, user, groupID, "")
	if err != nil {
		return nil, err
	}
	if err := access.Require(user, access.ViewGroup, facts); err != nil {
		return nil, err
	}
	document, err := s.Upload(ctx, user, name, content)
	if err != nil {
		return nil, err
	}
	link := types.GroupDocumentLink{GroupID: groupID, DocumentID: document.ID, AddedBy: user, AddedAt: NowFunc()}
	if err := s.repository.LinkDocument(ctx, link); err != nil {
		return nil, err
	}
	return document, nil
}

// AddDocuments links documents the user can read to a group the user is a member of.
func (s *Service) AddDocuments(ctx context.Context, user, groupID string, documentIDs []string) error {
	for _, id := range documentIDs {
		facts, err := s.access.GroupDocument(ctx, user, groupID, id)
		if err != nil {
			return err
		}
		if err := access.Require(user, access.LinkDocument, facts); err != nil {
			return err
		}
		err = s.repository.LinkDocument(ctx, types.GroupDocumentLink{GroupID: groupID, DocumentID: id, AddedBy: user, AddedAt: NowFunc()})
		if err != nil && !errors.Is(err, types.ErrAlreadyExists) {
			return err
		}
	}
	return nil
}

// RemoveDocument unlinks a document from a group.
func (s *Service) RemoveDocument(ctx context.Context, user, groupID, documentID string) error {
	facts, err := s.access.GroupDocument(ctx, user, groupID, documentID)
	if err != nil {
		return err
	}
	if err := access.Require(user, access.RemoveFromGroup, facts); err != nil {
		return err
	}
	return s.repository.UnlinkDocument(ctx, groupID, documentID)
}

// GroupDocuments returns the documents linked to a group the user is a member of.
func (s *Service) GroupDocuments(ctx context.Context, user, groupID string) ([]types.Document, error) {
	facts, err := s.access.Group(ctx, user, groupID, "")
	if err != nil {
		return nil, err
	}
	if err := access.Require(user, access.ViewGroup, facts); err != nil {
		return nil, err
	}
	links, err := s.repository.LinksOfGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	documents := make([]types.Document, 0, len(links))
	for _, l := range links {
		document, err := s.repository.FindDocument(ctx, l.DocumentID)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *document)
	}
	return documents, nil
}
