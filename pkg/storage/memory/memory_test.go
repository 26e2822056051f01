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

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

func TestRepository_users(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()
	user := types.User{ID: "PNOEE-30303039914", Name: "Test Tester", Country: "EE", NationalID: "30303039914"}

	t.Run("ok", func(t *testing.T) {
		require.NoError(t, r.CreateUser(ctx, user))
		found, err := r.FindUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, *found)
	})

	t.Run("error - duplicate", func(t *testing.T) {
		assert.True(t, errors.Is(r.CreateUser(ctx, user), types.ErrAlreadyExists))
	})

	t.Run("error - not found", func(t *testing.T) {
		_, err := r.FindUser(ctx, "unknown")
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestRepository_documents(t *testing.T) {
	ctx := context.Background()

	t.Run("ok - content is copied", func(t *testing.T) {
		r := NewRepository()
		content := []byte("hello")
		require.NoError(t, r.CreateDocument(ctx, types.Document{ID: "doc", Name: "a.txt", Content: content, Owner: "owner"}))
		content[0] = 'j'

		found, _ := r.FindDocument(ctx, "doc")
		assert.Equal(t, "hello", string(found.Content))
	})

	t.Run("ok - update keeps the owner", func(t *testing.T) {
		r := NewRepository()
		require.NoError(t, r.CreateDocument(ctx, types.Document{ID: "doc", Name: "a.txt", Owner: "owner"}))

		require.NoError(t, r.UpdateDocument(ctx, types.Document{ID: "doc", Name: "a.asice", Content: []byte("zip"), Owner: "thief"}))

		found, _ := r.FindDocument(ctx, "doc")
		assert.Equal(t, "owner", found.Owner)
		assert.Equal(t, "a.asice", found.Name)
	})

	t.Run("ok - owned documents in upload order", func(t *testing.T) {
		r := NewRepository()
		now := time.Now()
		require.NoError(t, r.CreateDocument(ctx, types.Document{ID: "2", Owner: "owner", CreatedAt: now.Add(time.Minute)}))
		require.NoError(t, r.CreateDocument(ctx, types.Document{ID: "1", Owner: "owner", CreatedAt: now}))
		require.NoError(t, r.CreateDocument(ctx, types.Document{ID: "3", Owner: "other", CreatedAt: now}))

		documents, err := r.DocumentsByOwner(ctx, "owner")
		require.NoError(t, err)
		require.Len(t, documents, 2)
		assert.Equal(t, "1", documents[0].ID)
		assert.Equal(t, "2", documents[1].ID)
	})

	t.Run("ok - delete cascades", func(t *testing.T) {
		r := NewRepository()
		require.NoError(t, r.CreateDocument(ctx, types.Document{ID: "doc", Owner: "owner"}))
		require.NoError(t, r.CreateGroup(ctx, types.Group{ID: "group", Owner: "owner"}))
		require.NoError(t, r.LinkDocument(ctx, types.GroupDocumentLink{GroupID: "group", DocumentID: "doc"}))
		require.NoError(t, r.CreateGrant(ctx, types.AccessGrant{DocumentID: "doc", Grantee: "reader"}))
		require.NoError(t, r.SaveSignerRecord(ctx, types.SignerRecord{DocumentID: "doc", SignerID: "reader", Order: 1}))

		require.NoError(t, r.DeleteDocument(ctx, "doc"))

		grants, _ := r.GrantsOfUser(ctx, "reader")
		links, _ := r.LinksOfGroup(ctx, "group")
		records, _ := r.SignerRecords(ctx, "doc")
		assert.Empty(t, grants)
		assert.Empty(t, links)
		assert.Empty(t, records)
	})

	t.Run("error - update unknown", func(t *testing.T) {
		r := NewRepository()
		assert.True(t, errors.Is(r.UpdateDocument(ctx, types.Document{ID: "doc"}), types.ErrNotFound))
	})
}

func TestRepository_groups(t *testing.T) {
	ctx := context.Background()

	t.Run("ok - delete removes memberships and links, not documents", func(t *testing.T) {
		r := NewRepository()
		require.NoError(t, r.CreateDocument(ctx, types.Document{ID: "doc", Owner: "owner"}))
		require.NoError(t, r.CreateGroup(ctx, types.Group{ID: "group", Owner: "owner"}))
		require.NoError(t, r.AddMember(ctx, types.GroupMembership{GroupID: "group", UserID: "owner"}))
		require.NoError(t, r.LinkDocument(ctx, types.GroupDocumentLink{GroupID: "group", DocumentID: "doc"}))

		require.NoError(t, r.DeleteGroup(ctx, "group"))

		memberships, _ := r.MembershipsOf(ctx, "owner")
		links, _ := r.LinksOfDocument(ctx, "doc")
		assert.Empty(t, memberships)
		assert.Empty(t, links)
		_, err := r.FindDocument(ctx, "doc")
		assert.NoError(t, err)
	})

	t.Run("error - duplicate member", func(t *testing.T) {
		r := NewRepository()
		require.NoError(t, r.CreateGroup(ctx, types.Group{ID: "group", Owner: "owner"}))
		require.NoError(t, r.AddMember(ctx, types.GroupMembership{GroupID: "group", UserID: "a"}))

		err := r.AddMember(ctx, types.GroupMembership{GroupID: "group", UserID: "a"})

		assert.True(t, errors.Is(err, types.ErrAlreadyExists))
	})

	t.Run("error - member of unknown group", func(t *testing.T) {
		r := NewRepository()
		err := r.AddMember(ctx, types.GroupMembership{GroupID: "group", UserID: "a"})
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("error - remove unknown member", func(t *testing.T) {
		r := NewRepository()
		require.NoError(t, r.CreateGroup(ctx, types.Group{ID: "group", Owner: "owner"}))
		assert.True(t, errors.Is(r.RemoveMember(ctx, "group", "a"), types.ErrNotFound))
	})
}

func TestRepository_SaveSignerRecord(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()
	at := time.Now()
	require.NoError(t, r.SaveSignerRecord(ctx, types.SignerRecord{DocumentID: "doc", SignerID: "a", Order: 1, Signed: true, SignedAt: &at}))

	require.NoError(t, r.SaveSignerRecord(ctx, types.SignerRecord{DocumentID: "doc", SignerID: "a", Order: 2}))

	records, _ := r.SignerRecords(ctx, "doc")
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Order)
	assert.True(t, records[0].Signed)
	assert.Equal(t, at, *records[0].SignedAt)
}

func TestRepository_notifications(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()
	now := time.Now()
	require.NoError(t, r.CreateNotification(ctx, types.Notification{ID: "1", RecipientID: "a", Text: "old", CreatedAt: now}))
	require.NoError(t, r.CreateNotification(ctx, types.Notification{ID: "2", RecipientID: "a", Text: "new", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, r.CreateNotification(ctx, types.Notification{ID: "3", RecipientID: "b", Text: "other", CreatedAt: now}))

	notifications, err := r.NotificationsOf(ctx, "a")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "new", notifications[0].Text)

	require.NoError(t, r.SetNotificationRead(ctx, "1", true))
	found, _ := r.FindNotification(ctx, "1")
	assert.True(t, found.IsRead)
	assert.True(t, errors.Is(r.SetNotificationRead(ctx, "unknown", true), types.ErrNotFound))
}

func TestRepository_problemReports(t *testing.T) {
	ctx := context.Background()
	r := NewRepository()
	require.NoError(t, r.CreateProblemReport(ctx, types.ProblemReport{ID: "1", ReporterID: "a", Text: "code not shown"}))
	require.NoError(t, r.CreateProblemReport(ctx, types.ProblemReport{ID: "2", ReporterID: "b", Text: "other"}))

	t.Run("ok", func(t *testing.T) {
		reports, err := r.ProblemReportsBy(ctx, "a")
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "code not shown", reports[0].Text)
	})

	t.Run("error - duplicate", func(t *testing.T) {
		err := r.CreateProblemReport(ctx, types.ProblemReport{ID: "1", ReporterID: "a"})
		assert.True(t, errors.Is(err, types.ErrAlreadyExists))
	})
}
