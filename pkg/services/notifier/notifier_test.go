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

package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-cosign/mock"
	"github.com/nuts-foundation/nuts-cosign/pkg/storage/memory"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

func fixedNow(t *testing.T) {
	now := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })
}

func TestRenderer_Render(t *testing.T) {
	fixedNow(t)

	t.Run("ok", func(t *testing.T) {
		text, err := NewRenderer("", nil).Render(DocumentShared, map[string]string{DocumentAttr: "contract.pdf", GrantorAttr: "PNOEE-30303039914"})
		require.NoError(t, err)
		assert.Equal(t, "A file named 'contract.pdf' has been shared with you by user ID 'PNOEE-30303039914'.", text)
	})

	t.Run("ok - names are not escaped", func(t *testing.T) {
		text, err := NewRenderer("", nil).Render(YourTurn, map[string]string{DocumentAttr: "Smith & <Sons>.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "It's your turn to sign the file 'Smith & <Sons>.pdf'.", text)
	})

	t.Run("ok - completion date in the configured zone", func(t *testing.T) {
		tallinnSummer := time.FixedZone("EEST", 3*60*60)
		text, err := NewRenderer("en_US", tallinnSummer).Render(SigningComplete, map[string]string{DocumentAttr: "contract.asice"})
		require.NoError(t, err)
		assert.Equal(t, "All required signatures have been collected for the file 'contract.asice' on Monday, 1 June 2020 15:00.", text)
	})

	t.Run("error - unknown message", func(t *testing.T) {
		_, err := NewRenderer("", nil).Render(Message("unknown"), nil)
		assert.Error(t, err)
	})
}

func TestMessenger_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("ok - every recipient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		notifier := mock.NewMockNotifier(ctrl)
		notifier.EXPECT().Emit(ctx, "a", "You have been added to the group 'board'.")
		notifier.EXPECT().Emit(ctx, "b", "You have been added to the group 'board'.")

		Messenger{Notifier: notifier, Renderer: NewRenderer("", nil)}.Send(ctx, []string{"a", "b"}, AddedToGroup, map[string]string{GroupAttr: "board"})
	})

	t.Run("ok - render failures are not delivered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		notifier := mock.NewMockNotifier(ctrl)

		Messenger{Notifier: notifier, Renderer: NewRenderer("", nil)}.Send(ctx, []string{"a"}, Message("unknown"), nil)
	})
}

func TestStore_Emit(t *testing.T) {
	fixedNow(t)
	ctx := context.Background()
	repository := memory.NewRepository()

	Store{Notifications: repository}.Emit(ctx, "a", "hello")

	notifications, err := repository.NotificationsOf(ctx, "a")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "hello", notifications[0].Text)
	assert.False(t, notifications[0].IsRead)
	assert.NotEmpty(t, notifications[0].ID)
}

func TestInbox_MarkRead(t *testing.T) {
	ctx := context.Background()
	repository := memory.NewRepository()
	require.NoError(t, repository.CreateNotification(ctx, types.Notification{ID: "n1", RecipientID: "a", Text: "hello"}))
	inbox := Inbox{Notifications: repository}

	t.Run("ok - read and unread", func(t *testing.T) {
		require.NoError(t, inbox.MarkRead(ctx, "a", "n1", true))
		notifications, _ := inbox.List(ctx, "a")
		assert.True(t, notifications[0].IsRead)

		require.NoError(t, inbox.MarkRead(ctx, "a", "n1", false))
		notifications, _ = inbox.List(ctx, "a")
		assert.False(t, notifications[0].IsRead)
	})

	t.Run("error - notification of another user", func(t *testing.T) {
		err := inbox.MarkRead(ctx, "b", "n1", true)
		assert.True(t, errors.Is(err, types.ErrForbidden))
	})

	t.Run("error - unknown", func(t *testing.T) {
		err := inbox.MarkRead(ctx, "a", "n2", true)
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}
