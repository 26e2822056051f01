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
	"fmt"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/goodsign/monday"
)

const timeLayout = "Monday, 2 January 2006 15:04"

// Template attributes
const (
	DocumentAttr = "document"
	GrantorAttr  = "grantor"
	GroupAttr    = "group"
	UserAttr     = "user"
	DateAttr     = "date"
)

// Message identifies a notification text.
type Message string

const (
	DocumentShared  Message = "document_shared"
	AccessRevoked   Message = "access_revoked"
	AddedToGroup    Message = "added_to_group"
	LeftGroup       Message = "left_group"
	SentForSigning  Message = "sent_for_signing"
	YourTurn        Message = "your_turn"
	SigningComplete Message = "signing_complete"
)

// NowFunc is used to store a function that returns the current time. This can be changed when you want to mock the current time.
var NowFunc = time.Now

// StandardTemplates contains the mustache template of every message.
var StandardTemplates = map[Message]string{
	DocumentShared:  "A file named '{{{document}}}' has been shared with you by user ID '{{{grantor}}}'.",
	AccessRevoked:   "Your access to the file '{{{document}}}' has been revoked.",
	AddedToGroup:    "You have been added to the group '{{{group}}}'.",
	LeftGroup:       "User with ID '{{{user}}}' has left your group '{{{group}}}'.",
	SentForSigning:  "A file named '{{{document}}}' has been sent to you for signing.",
	YourTurn:        "It's your turn to sign the file '{{{document}}}'.",
	SigningComplete: "All required signatures have been collected for the file '{{{document}}}' on {{{date}}}.",
}

// Renderer renders messages. The date attribute is always set to the current time.
type Renderer struct {
	Templates map[Message]string
	Locale    monday.Locale
	Location  *time.Location
}

// NewRenderer returns a Renderer for the StandardTemplates in the given locale and time zone.
func NewRenderer(locale string, location *time.Location) Renderer {
	if location == nil {
		location = time.UTC
	}
	if locale == "" {
		locale = string(monday.LocaleEnUS)
	}
	return Renderer{Templates: StandardTemplates, Locale: monday.Locale(locale), Location: location}
}

// Render renders the message with the given attributes.
func (r Renderer) Render(message Message, vars map[string]string) (string, error) {
	template, ok := r.Templates[message]
	if !ok {
		return "", fmt.Errorf("unknown message %s", message)
	}
	attributes := map[string]string{}
	for k, v := range vars {
		attributes[k] = v
	}
	attributes[DateAttr] = monday.Format(NowFunc().In(r.Location), timeLayout, r.Locale)
	return mustache.Render(template, attributes)
}
