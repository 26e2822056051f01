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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-cosign/pkg/storage/memory"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

var document = &types.Document{ID: "doc", Name: "contract.pdf", Owner: "owner"}
var group = &types.Group{ID: "group", Name: "board", Owner: "chair"}

func TestEvaluate_Read(t *testing.T) {
	t.Run("ok - owner", func(t *testing.T) {
		decision, err := Evaluate("owner", Read, Facts{Document: document})
		require.NoError(t, err)
		assert.Equal(t, Decision{Allowed: true, Reason: ReasonOwner}, decision)
	})

	t.Run("ok - grantee", func(t *testing.T) {
		facts := Facts{Document: document, Grants: []types.AccessGrant{{DocumentID: "doc", Grantee: "reader", Grantor: "owner"}}}
		decision, err := Evaluate("reader", Read, facts)
		require.NoError(t, err)
		assert.Equal(t, ReasonGrantee, decision.Reason)
		assert.True(t, decision.Allowed)
	})

	t.Run("ok - member of a linked group", func(t *testing.T) {
		facts := Facts{Document: document, LinkedGroups: []string{"group"}, UserGroups: []string{"other", "group"}}
		decision, err := Evaluate("member", Read, facts)
		require.NoError(t, err)
		assert.Equal(t, ReasonGroupMember, decision.Reason)
		assert.True(t, decision.Allowed)
	})

	t.Run("ok - denied without relation", func(t *testing.T) {
		facts := Facts{Document: document, LinkedGroups: []string{"group"}, UserGroups: []string{"other"}}
		decision, err := Evaluate("stranger", Read, facts)
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.True(t, errors.Is(decision.Err(), types.ErrForbidden))
	})

	t.Run("error - document not found", func(t *testing.T) {
		_, err := Evaluate("owner", Read, Facts{})
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestEvaluate_documentOwnerActions(t *testing.T) {
	for _, action := range []Action{Share, DeleteDocument} {
		t.Run(string(action), func(t *testing.T) {
			decision, _ := Evaluate("owner", action, Facts{Document: document})
			assert.True(t, decision.Allowed)

			facts := Facts{Document: document, Grants: []types.AccessGrant{{Grantee: "reader"}}}
			decision, _ = Evaluate("reader", action, facts)
			assert.False(t, decision.Allowed)
			assert.Equal(t, ReasonNotOwner, decision.Reason)
		})
	}
}

func TestEvaluate_Revoke(t *testing.T) {
	grant := &types.AccessGrant{DocumentID: "doc", Grantee: "reader", Grantor: "owner"}

	t.Run("ok - owner", func(t *testing.T) {
		decision, err := Evaluate("owner", Revoke, Facts{Document: document, Grant: grant})
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
	})

	t.Run("ok - grantor", func(t *testing.T) {
		byOther := &types.AccessGrant{DocumentID: "doc", Grantee: "reader", Grantor: "delegate"}
		decision, err := Evaluate("delegate", Revoke, Facts{Document: document, Grant: byOther})
		require.NoError(t, err)
		assert.Equal(t, ReasonGrantor, decision.Reason)
	})

	t.Run("ok - denied for the grantee", func(t *testing.T) {
		decision, err := Evaluate("reader", Revoke, Facts{Document: document, Grant: grant})
		require.NoError(t, err)
		assert.False(t, decision.Allowed)
	})

	t.Run("error - grant not found", func(t *testing.T) {
		_, err := Evaluate("owner", Revoke, Facts{Document: document})
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestEvaluate_groups(t *testing.T) {
	member := Facts{Group: group, UserGroups: []string{"group"}}

	t.Run("ok - only the owner manages the group", func(t *testing.T) {
		for _, action := range []Action{DeleteGroup, AddMember} {
			decision, _ := Evaluate("chair", action, member)
			assert.True(t, decision.Allowed, action)
			decision, _ = Evaluate("member", action, member)
			assert.False(t, decision.Allowed, action)
		}
	})

	t.Run("ok - members view the group", func(t *testing.T) {
		decision, _ := Evaluate("member", ViewGroup, member)
		assert.True(t, decision.Allowed)
		decision, _ = Evaluate("stranger", ViewGroup, Facts{Group: group})
		assert.False(t, decision.Allowed)
	})

	t.Run("ok - the owner can not be removed", func(t *testing.T) {
		facts := Facts{Group: group, UserGroups: []string{"group"}, Target: "chair"}
		decision, _ := Evaluate("chair", RemoveMember, facts)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonOwnerImmutable, decision.Reason)

		facts.Target = "member"
		decision, _ = Evaluate("chair", RemoveMember, facts)
		assert.True(t, decision.Allowed)
	})

	t.Run("ok - the owner can not leave", func(t *testing.T) {
		decision, _ := Evaluate("chair", LeaveGroup, member)
		assert.False(t, decision.Allowed)
		decision, _ = Evaluate("member", LeaveGroup, member)
		assert.True(t, decision.Allowed)
		decision, _ = Evaluate("stranger", LeaveGroup, Facts{Group: group})
		assert.False(t, decision.Allowed)
	})

	t.Run("error - group not found", func(t *testing.T) {
		_, err := Evaluate("chair", ViewGroup, Facts{})
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestEvaluate_groupDocuments(t *testing.T) {
	t.Run("ok - members link documents they can read", func(t *testing.T) {
		facts := Facts{Group: group, Document: document, UserGroups: []string{"group"}}
		decision, _ := Evaluate("owner", LinkDocument, facts)
		assert.True(t, decision.Allowed)

		decision, _ = Evaluate("member", LinkDocument, facts)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonNoAccess, decision.Reason)

		decision, _ = Evaluate("owner", LinkDocument, Facts{Group: group, Document: document})
		assert.Equal(t, ReasonNotMember, decision.Reason)
	})

	t.Run("ok - group owner or uploading member removes", func(t *testing.T) {
		facts := Facts{Group: group, Document: document, UserGroups: []string{"group"}, LinkedGroups: []string{"group"}}
		decision, _ := Evaluate("chair", RemoveFromGroup, facts)
		assert.Equal(t, ReasonGroupOwner, decision.Reason)
		decision, _ = Evaluate("owner", RemoveFromGroup, facts)
		assert.Equal(t, ReasonUploader, decision.Reason)
		decision, _ = Evaluate("member", RemoveFromGroup, facts)
		assert.False(t, decision.Allowed)
	})

	t.Run("ok - signers are managed by the group owner for linked documents", func(t *testing.T) {
		linked := Facts{Group: group, Document: document, LinkedGroups: []string{"group"}}
		for _, action := range []Action{AssignSigners, ViewSignatures} {
			decision, _ := Evaluate("chair", action, linked)
			assert.True(t, decision.Allowed, action)
			decision, _ = Evaluate("owner", action, linked)
			assert.Equal(t, ReasonNotGroupOwner, decision.Reason, action)
			decision, _ = Evaluate("chair", action, Facts{Group: group, Document: document})
			assert.Equal(t, ReasonNotLinked, decision.Reason, action)
		}
	})

	t.Run("error - document not found", func(t *testing.T) {
		_, err := Evaluate("chair", AssignSigners, Facts{Group: group})
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestEvaluate_unknownAction(t *testing.T) {
	decision, err := Evaluate("owner", Action("fly"), Facts{Document: document})
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonUnknownAction, decision.Reason)
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require("owner", Read, Facts{Document: document}))
	assert.True(t, errors.Is(Require("stranger", Read, Facts{Document: document}), types.ErrForbidden))
	assert.True(t, errors.Is(Require("owner", Read, Facts{}), types.ErrNotFound))
}

func TestLoader(t *testing.T) {
	ctx := context.Background()
	repository := memory.NewRepository()
	now := time.Now()
	require.NoError(t, repository.CreateDocument(ctx, *document))
	require.NoError(t, repository.CreateGroup(ctx, *group))
	require.NoError(t, repository.AddMember(ctx, types.GroupMembership{GroupID: "group", UserID: "member", AddedAt: now}))
	require.NoError(t, repository.LinkDocument(ctx, types.GroupDocumentLink{GroupID: "group", DocumentID: "doc", AddedBy: "owner", AddedAt: now}))
	require.NoError(t, repository.CreateGrant(ctx, types.AccessGrant{DocumentID: "doc", Grantee: "reader", Grantor: "owner", GrantedAt: now}))
	loader := Loader{Repository: repository}

	t.Run("ok - document", func(t *testing.T) {
		facts, err := loader.Document(ctx, "member", "doc")
		require.NoError(t, err)
		assert.Equal(t, "doc", facts.Document.ID)
		assert.Equal(t, []string{"group"}, facts.LinkedGroups)
		assert.Equal(t, []string{"group"}, facts.UserGroups)
		assert.Len(t, facts.Grants, 1)
		assert.NoError(t, Require("member", Read, facts))
	})

	t.Run("ok - grant", func(t *testing.T) {
		facts, err := loader.Grant(ctx, "owner", "doc", "reader")
		require.NoError(t, err)
		require.NotNil(t, facts.Grant)
		assert.Equal(t, "reader", facts.Grant.Grantee)
	})

	t.Run("ok - absent entities are left empty", func(t *testing.T) {
		facts, err := loader.GroupDocument(ctx, "member", "unknown", "unknown")
		require.NoError(t, err)
		assert.Nil(t, facts.Group)
		assert.Nil(t, facts.Document)
		assert.True(t, errors.Is(Require("member", AssignSigners, facts), types.ErrNotFound))
	})
}
