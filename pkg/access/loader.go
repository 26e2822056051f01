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

package access

import (
	"context"
	"errors"

	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// Loader collects Facts from a repository. Absent entities are left nil so Evaluate can report them.
type Loader struct {
	Repository types.Repository
}

// Document loads the facts about a document as seen by user.
func (l Loader) Document(ctx context.Context, user, documentID string) (Facts, error) {
	facts := Facts{}
	if err := l.withDocument(ctx, &facts, documentID); err != nil {
		return facts, err
	}
	return facts, l.withUserGroups(ctx, &facts, user)
}

// Grant loads the facts about a document and the grant of grantee.
func (l Loader) Grant(ctx context.Context, user, documentID, grantee string) (Facts, error) {
	facts, err := l.Document(ctx, user, documentID)
	if err != nil {
		return facts, err
	}
	for i := range facts.Grants {
		if facts.Grants[i].Grantee == grantee {
			facts.Grant = &facts.Grants[i]
		}
	}
	return facts, nil
}

// Group loads the facts about a group. target is the user a member action is about, it may be empty.
func (l Loader) Group(ctx context.Context, user, groupID, target string) (Facts, error) {
	facts := Facts{Target: target}
	if err := l.withGroup(ctx, &facts, groupID); err != nil {
		return facts, err
	}
	return facts, l.withUserGroups(ctx, &facts, user)
}

// GroupDocument loads the facts about a document within a group.
func (l Loader) GroupDocument(ctx context.Context, user, groupID, documentID string) (Facts, error) {
	facts := Facts{}
	if err := l.withGroup(ctx, &facts, groupID); err != nil {
		return facts, err
	}
	if err := l.withDocument(ctx, &facts, documentID); err != nil {
		return facts, err
	}
	return facts, l.withUserGroups(ctx, &facts, user)
}

func (l Loader) withDocument(ctx context.Context, facts *Facts, documentID string) error {
	document, err := l.Repository.FindDocument(ctx, documentID)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	facts.Document = document
	if facts.Grants, err = l.Repository.GrantsOfDocument(ctx, documentID); err != nil {
		return err
	}
	links, err := l.Repository.LinksOfDocument(ctx, documentID)
	if err != nil {
		return err
	}
	for _, link := range links {
		facts.LinkedGroups = append(facts.LinkedGroups, link.GroupID)
	}
	return nil
}

func (l Loader) withGroup(ctx context.Context, facts *Facts, groupID string) error {
	group, err := l.Repository.FindGroup(ctx, groupID)
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	facts.Group = group
	return nil
}

func (l Loader) withUserGroups(ctx context.Context, facts *Facts, user string) error {
	memberships, err := l.Repository.MembershipsOf(ctx, user)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		facts.UserGroups = append(facts.UserGroups, m.GroupID)
	}
	return nil
}
