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
	"fmt"

	"github.com/google/uuid"

	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// Store is a Notifier that stores notifications so users can read them from their inbox.
type Store struct {
	Notifications types.NotificationStore
}

var _ types.Notifier = Store{}

// Emit stores the notification. Failures are logged, not returned.
func (s Store) Emit(ctx context.Context, recipientID string, text string) {
	notification := types.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Text:        text,
		CreatedAt:   NowFunc(),
	}
	if err := s.Notifications.CreateNotification(ctx, notification); err != nil {
		logging.Log().WithError(err).Warnf("unable to store notification for %s", recipientID)
	}
}

// Messenger renders messages and hands them to a Notifier.
type Messenger struct {
	Notifier types.Notifier
	Renderer Renderer
}

// Send renders the message and emits it to every recipient. Delivery is best effort.
func (m Messenger) Send(ctx context.Context, recipients []string, message Message, vars map[string]string) {
	if len(recipients) == 0 {
		return
	}
	text, err := m.Renderer.Render(message, vars)
	if err != nil {
		logging.Log().WithError(err).Errorf("unable to render message %s", message)
		return
	}
	for _, recipient := range recipients {
		m.Notifier.Emit(ctx, recipient, text)
	}
}

// Inbox gives users access to their own notifications.
type Inbox struct {
	Notifications types.NotificationStore
}

// List returns the notifications of the user, newest first.
func (i Inbox) List(ctx context.Context, userID string) ([]types.Notification, error) {
	return i.Notifications.NotificationsOf(ctx, userID)
}

// MarkRead marks a notification of the user read or unread.
func (i Inbox) MarkRead(ctx context.Context, userID, notificationID string, read bool) error {
	notification, err := i.Notifications.FindNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.RecipientID != userID {
		return fmt.Errorf("%w: notification of another user", types.ErrForbidden)
	}
	return i.Notifications.SetNotificationRead(ctx, notificationID, read)
}
