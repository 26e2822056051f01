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
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-cosign/pkg/ledger"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/asice"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/notifier"
	"github.com/nuts-foundation/nuts-cosign/pkg/storage/memory"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

const (
	owner = "PNOEE-30303039914"
	userA = "PNOEE-30303039903"
	userB = "PNOEE-30303039816"
	userC = "PNOLT-30303039914"
)

type testContext struct {
	ctx        context.Context
	repository *memory.Repository
	service    *Service
}

func createContext(t *testing.T) testContext {
	ctx := context.Background()
	repository := memory.NewRepository()
	for _, id := range []string{owner, userA, userB, userC} {
		require.NoError(t, repository.CreateUser(ctx, types.User{ID: id, Name: id}))
	}
	messenger := notifier.Messenger{
		Notifier: notifier.Store{Notifications: repository},
		Renderer: notifier.NewRenderer("", nil),
	}
	service := NewService(repository, ledger.New(repository), asice.Container{}, messenger, 1024)
	return testContext{ctx: ctx, repository: repository, service: service}
}

func (c testContext) texts(t *testing.T, user string) []string {
	notifications, err := c.repository.NotificationsOf(c.ctx, user)
	require.NoError(t, err)
	var texts []string
	for _, n := range notifications {
		texts = append(texts, n.Text)
	}
	return texts
}

func (c testContext) group(t *testing.T, members ...string) *types.Group {
	group, err := c.service.CreateGroup(c.ctx, owner, "board")
	require.NoError(t, err)
	require.NoError(t, c.service.AddMembers(c.ctx, owner, group.ID, members))
	return group
}

func TestService_Upload(t *testing.T) {
	c := createContext(t)

	t.Run("ok", func(t *testing.T) {
		document, err := c.service.Upload(c.ctx, owner, " contract.pdf ", []byte("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "contract.pdf", document.Name)
		assert.Equal(t, owner, document.Owner)

		owned, err := c.service.Owned(c.ctx, owner)
		require.NoError(t, err)
		assert.Len(t, owned, 1)
	})

	t.Run("error - no name", func(t *testing.T) {
		_, err := c.service.Upload(c.ctx, owner, " ", []byte("%PDF"))
		assert.True(t, errors.Is(err, ErrInvalidName))
	})

	t.Run("error - too large", func(t *testing.T) {
		_, err := c.service.Upload(c.ctx, owner, "large.bin", make([]byte, 1025))
		assert.True(t, errors.Is(err, ErrTooLarge))
	})

	t.Run("error - unknown uploader", func(t *testing.T) {
		_, err := c.service.Upload(c.ctx, "PNOEE-1", "contract.pdf", []byte("%PDF"))
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestService_Share(t *testing.T) {
	c := createContext(t)
	document, err := c.service.Upload(c.ctx, owner, "contract.pdf", []byte("%PDF"))
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		grant, err := c.service.Share(c.ctx, owner, document.ID, userA)
		require.NoError(t, err)
		assert.Equal(t, owner, grant.Grantor)

		read, err := c.service.Document(c.ctx, userA, document.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), read.Content)

		shared, err := c.service.SharedWith(c.ctx, userA)
		require.NoError(t, err)
		require.Len(t, shared, 1)
		assert.Equal(t, document.ID, shared[0].ID)

		assert.Contains(t, c.texts(t, userA), "A file named 'contract.pdf' has been shared with you by user ID '"+owner+"'.")
	})

	t.Run("ok - owner lists grants", func(t *testing.T) {
		grants, err := c.service.Grants(c.ctx, owner, document.ID)
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})

	t.Run("error - grantee can not share", func(t *testing.T) {
		_, err := c.service.Share(c.ctx, userA, document.ID, userB)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("error - share with the owner", func(t *testing.T) {
		_, err := c.service.Share(c.ctx, owner, document.ID, owner)
		assert.True(t, errors.Is(err, types.ErrAlreadyExists))
	})

	t.Run("error - no access without a grant", func(t *testing.T) {
		_, err := c.service.Document(c.ctx, userB, document.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("ok - revoke", func(t *testing.T) {
		require.NoError(t, c.service.Revoke(c.ctx, owner, document.ID, userA))
		_, err := c.service.Document(c.ctx, userA, document.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))
		assert.Contains(t, c.texts(t, userA), "Your access to the file 'contract.pdf' has been revoked.")
	})

	t.Run("error - revoke without a grant notifies nobody", func(t *testing.T) {
		before := len(c.texts(t, userB))
		err := c.service.Revoke(c.ctx, owner, document.ID, userB)
		assert.Error(t, err)
		assert.Len(t, c.texts(t, userB), before)
	})

	t.Run("error - delete by another user", func(t *testing.T) {
		err := c.service.Delete(c.ctx, userA, document.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("ok - delete", func(t *testing.T) {
		require.NoError(t, c.service.Delete(c.ctx, owner, document.ID))
		_, err := c.service.Document(c.ctx, owner, document.ID)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestService_groups(t *testing.T) {
	t.Run("ok - owner is the first member", func(t *testing.T) {
		c := createContext(t)
		group, err := c.service.CreateGroup(c.ctx, owner, "board")
		require.NoError(t, err)

		members, err := c.service.Members(c.ctx, owner, group.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, owner, members[0].UserID)
	})

	t.Run("ok - only new members are notified", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)
		require.NoError(t, c.service.AddMembers(c.ctx, owner, group.ID, []string{userA, userB}))

		assert.Len(t, c.texts(t, userA), 1)
		assert.Equal(t, []string{"You have been added to the group 'board'."}, c.texts(t, userB))
		groups, err := c.service.Groups(c.ctx, userB)
		require.NoError(t, err)
		assert.Len(t, groups, 1)
	})

	t.Run("ok - leaving notifies the owner", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)
		require.NoError(t, c.service.Leave(c.ctx, userA, group.ID))

		assert.Equal(t, []string{"User with ID '" + userA + "' has left your group 'board'."}, c.texts(t, owner))
		_, err := c.service.Members(c.ctx, userA, group.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("error - owner can not leave or be removed", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)

		assert.True(t, errors.Is(c.service.Leave(c.ctx, owner, group.ID), types.ErrForbidden))
		assert.True(t, errors.Is(c.service.RemoveMembers(c.ctx, owner, group.ID, []string{owner}), types.ErrForbidden))
	})

	t.Run("error - members can not add members", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)

		err := c.service.AddMembers(c.ctx, userA, group.ID, []string{userB})
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("error - empty name", func(t *testing.T) {
		c := createContext(t)
		_, err := c.service.CreateGroup(c.ctx, owner, "")
		assert.True(t, errors.Is(err, ErrInvalidName))
	})

	t.Run("ok - group documents are readable by members", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)
		document, err := c.service.UploadToGroup(c.ctx, userA, group.ID, "minutes.txt", []byte("minutes"))
		require.NoError(t, err)

		documents, err := c.service.GroupDocuments(c.ctx, owner, group.ID)
		require.NoError(t, err)
		require.Len(t, documents, 1)
		_, err = c.service.Document(c.ctx, owner, document.ID)
		assert.NoError(t, err)
		shared, err := c.service.SharedWith(c.ctx, owner)
		require.NoError(t, err)
		assert.Len(t, shared, 1)

		require.NoError(t, c.service.RemoveDocument(c.ctx, userA, group.ID, document.ID))
		_, err = c.service.Document(c.ctx, owner, document.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("error - linking a document the user can not read", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)
		document, err := c.service.Upload(c.ctx, userB, "private.txt", []byte("private"))
		require.NoError(t, err)

		err = c.service.AddDocuments(c.ctx, userA, group.ID, []string{document.ID})
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("ok - deleting a group keeps documents", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t)
		document, err := c.service.UploadToGroup(c.ctx, owner, group.ID, "minutes.txt", []byte("minutes"))
		require.NoError(t, err)

		require.NoError(t, c.service.DeleteGroup(c.ctx, owner, group.ID))
		_, err = c.service.Document(c.ctx, owner, document.ID)
		assert.NoError(t, err)
	})
}

func TestService_AssignSigners(t *testing.T) {
	one, two := 1, 2

	t.Run("ok", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)
		document, err := c.service.UploadToGroup(c.ctx, owner, group.ID, "contract.pdf", []byte("%PDF"))
		require.NoError(t, err)

		snapshot, err := c.service.AssignSigners(c.ctx, owner, group.ID, document.ID, []Assignment{
			{UserID: owner, Order: &two},
			{UserID: userA, Order: &one},
			{UserID: userC, Order: &two},
		})
		require.NoError(t, err)

		require.Len(t, snapshot, 3)
		assert.Equal(t, owner, snapshot[0].SignerID)
		assert.Equal(t, 0, snapshot[0].Order)
		assert.Equal(t, userA, snapshot[1].SignerID)
		assert.Equal(t, userC, snapshot[2].SignerID)

		wrapped, err := c.service.Document(c.ctx, userC, document.ID)
		require.NoError(t, err, "signers get read access")
		assert.Equal(t, "contract.asice", wrapped.Name)
		assert.True(t, bytes.HasPrefix(wrapped.Content, []byte("PK")))

		sent := "A file named 'contract.asice' has been sent to you for signing."
		assert.Contains(t, c.texts(t, userA), sent)
		assert.NotContains(t, c.texts(t, userC), sent)

		next, err := c.service.NextSigner(c.ctx, userA, document.ID)
		require.NoError(t, err)
		assert.Equal(t, userA, next)

		records, err := c.service.Signatures(c.ctx, owner, group.ID, document.ID)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("ok - reassigning keeps records", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)
		document, err := c.service.UploadToGroup(c.ctx, owner, group.ID, "contract.asice", []byte("PK"))
		require.NoError(t, err)

		_, err = c.service.AssignSigners(c.ctx, owner, group.ID, document.ID, []Assignment{{UserID: userA, Order: &one}})
		require.NoError(t, err)
		snapshot, err := c.service.AssignSigners(c.ctx, owner, group.ID, document.ID, []Assignment{{UserID: userA}})
		require.NoError(t, err)

		require.Len(t, snapshot, 1)
		assert.Equal(t, 1, snapshot[0].Order)
		assert.Len(t, c.texts(t, userA), 2, "added to group and sent for signing once")
	})

	t.Run("error - only the group owner assigns", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t, userA)
		document, err := c.service.UploadToGroup(c.ctx, userA, group.ID, "contract.pdf", []byte("%PDF"))
		require.NoError(t, err)

		_, err = c.service.AssignSigners(c.ctx, userA, group.ID, document.ID, []Assignment{{UserID: userA}})
		assert.True(t, errors.Is(err, types.ErrForbidden))
		_, err = c.service.Signatures(c.ctx, userA, group.ID, document.ID)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("error - negative order", func(t *testing.T) {
		c := createContext(t)
		group := c.group(t)
		document, err := c.service.UploadToGroup(c.ctx, owner, group.ID, "contract.asice", []byte("PK"))
		require.NoError(t, err)
		negative := -1

		_, err = c.service.AssignSigners(c.ctx, owner, group.ID, document.ID, []Assignment{{UserID: userA, Order: &negative}})
		assert.True(t, errors.Is(err, ledger.ErrInvalidOrder))
	})

	t.Run("error - no signers assigned", func(t *testing.T) {
		c := createContext(t)
		document, err := c.service.Upload(c.ctx, owner, "contract.pdf", []byte("%PDF"))
		require.NoError(t, err)

		_, err = c.service.NextSigner(c.ctx, owner, document.ID)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}
