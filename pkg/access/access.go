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
	"fmt"

	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// Action is something a user wants to do with a document or group.
type Action string

const (
	Read            Action = "read"
	Share           Action = "share"
	Revoke          Action = "revoke"
	DeleteDocument  Action = "deleteDocument"
	DeleteGroup     Action = "deleteGroup"
	ViewGroup       Action = "viewGroup"
	AddMember       Action = "addMember"
	RemoveMember    Action = "removeMember"
	LeaveGroup      Action = "leaveGroup"
	LinkDocument    Action = "linkDocument"
	RemoveFromGroup Action = "removeFromGroup"
	AssignSigners   Action = "assignSigners"
	ViewSignatures  Action = "viewSignatures"
)

// Reason explains a Decision.
type Reason string

const (
	ReasonOwner          Reason = "owner"
	ReasonGrantee        Reason = "grantee"
	ReasonGrantor        Reason = "grantor"
	ReasonGroupMember    Reason = "group member"
	ReasonGroupOwner     Reason = "group owner"
	ReasonUploader       Reason = "uploader and group member"
	ReasonNoAccess       Reason = "no access to document"
	ReasonNotOwner       Reason = "not the document owner"
	ReasonNotGrantor     Reason = "not the owner or grantor of the grant"
	ReasonNotGroupOwner  Reason = "not the group owner"
	ReasonNotMember      Reason = "not a group member"
	ReasonOwnerImmutable Reason = "the group owner cannot be removed or leave"
	ReasonNotLinked      Reason = "document is not linked to the group"
	ReasonUnknownAction  Reason = "unknown action"
)

// Decision is the outcome of an evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err returns nil when allowed, an error wrapping types.ErrForbidden otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", types.ErrForbidden, d.Reason)
}

func allow(reason Reason) Decision {
	return Decision{Allowed: true, Reason: reason}
}

func deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Facts is a snapshot of everything needed to evaluate an action.
// Fields which are irrelevant for the action may be left empty.
type Facts struct {
	Document *types.Document
	Group    *types.Group
	// Grant is the specific grant a revoke is about
	Grant *types.AccessGrant
	// Grants are all grants of Document
	Grants []types.AccessGrant
	// LinkedGroups are the ids of the groups Document is linked to
	LinkedGroups []string
	// UserGroups are the ids of the groups the acting user is a member of
	UserGroups []string
	// Target is the user a member action is about
	Target string
}

func (f Facts) memberOf(groupID string) bool {
	return contains(f.UserGroups, groupID)
}

func (f Facts) linkedTo(groupID string) bool {
	return contains(f.LinkedGroups, groupID)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// Evaluate decides whether user may perform action given the facts. It has no side effects.
// It only returns an error (types.ErrNotFound) when an entity required for the action is absent.
func Evaluate(user string, action Action, facts Facts) (Decision, error) {
	switch action {
	case Read, Share, Revoke, DeleteDocument:
		if facts.Document == nil {
			return Decision{}, fmt.Errorf("%w: document", types.ErrNotFound)
		}
	case DeleteGroup, ViewGroup, AddMember, RemoveMember, LeaveGroup:
		if facts.Group == nil {
			return Decision{}, fmt.Errorf("%w: group", types.ErrNotFound)
		}
	case LinkDocument, RemoveFromGroup, AssignSigners, ViewSignatures:
		if facts.Group == nil {
			return Decision{}, fmt.Errorf("%w: group", types.ErrNotFound)
		}
		if facts.Document == nil {
			return Decision{}, fmt.Errorf("%w: document", types.ErrNotFound)
		}
	default:
		return deny(ReasonUnknownAction), nil
	}

	switch action {
	case Read:
		return canRead(user, facts), nil
	case Share, DeleteDocument:
		if facts.Document.Owner == user {
			return allow(ReasonOwner), nil
		}
		return deny(ReasonNotOwner), nil
	case Revoke:
		if facts.Grant == nil {
			return Decision{}, fmt.Errorf("%w: grant", types.ErrNotFound)
		}
		if facts.Document.Owner == user {
			return allow(ReasonOwner), nil
		}
		if facts.Grant.Grantor == user {
			return allow(ReasonGrantor), nil
		}
		return deny(ReasonNotGrantor), nil
	case DeleteGroup, AddMember:
		return groupOwner(user, facts), nil
	case RemoveMember:
		if facts.Target == facts.Group.Owner {
			return deny(ReasonOwnerImmutable), nil
		}
		return groupOwner(user, facts), nil
	case ViewGroup:
		if facts.memberOf(facts.Group.ID) {
			return allow(ReasonGroupMember), nil
		}
		return deny(ReasonNotMember), nil
	case LeaveGroup:
		if facts.Group.Owner == user {
			return deny(ReasonOwnerImmutable), nil
		}
		if facts.memberOf(facts.Group.ID) {
			return allow(ReasonGroupMember), nil
		}
		return deny(ReasonNotMember), nil
	case LinkDocument:
		if !facts.memberOf(facts.Group.ID) {
			return deny(ReasonNotMember), nil
		}
		return canRead(user, facts), nil
	case RemoveFromGroup:
		if facts.Group.Owner == user {
			return allow(ReasonGroupOwner), nil
		}
		if facts.Document.Owner == user && facts.memberOf(facts.Group.ID) {
			return allow(ReasonUploader), nil
		}
		return deny(ReasonNotGroupOwner), nil
	case AssignSigners, ViewSignatures:
		if facts.Group.Owner != user {
			return deny(ReasonNotGroupOwner), nil
		}
		if !facts.linkedTo(facts.Group.ID) {
			return deny(ReasonNotLinked), nil
		}
		return allow(ReasonGroupOwner), nil
	}
	return deny(ReasonUnknownAction), nil
}

func canRead(user string, facts Facts) Decision {
	if facts.Document.Owner == user {
		return allow(ReasonOwner)
	}
	for _, grant := range facts.Grants {
		if grant.Grantee == user {
			return allow(ReasonGrantee)
		}
	}
	for _, groupID := range facts.LinkedGroups {
		if facts.memberOf(groupID) {
			return allow(ReasonGroupMember)
		}
	}
	return deny(ReasonNoAccess)
}

func groupOwner(user string, facts Facts) Decision {
	if facts.Group.Owner == user {
		return allow(ReasonGroupOwner)
	}
	return deny(ReasonNotGroupOwner)
}

// Require evaluates the action and returns an error when it is not allowed.
func Require(user string, action Action, facts Facts) error {
	decision, err := Evaluate(user, action, facts)
	if err != nil {
		return err
	}
	return decision.Err()
}
