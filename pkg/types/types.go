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

package types

import (
	"path/filepath"
	"strings"
	"time"
)

// ContainerExtension is the file extension of documents stored in the signature container format.
const ContainerExtension = ".asice"

// User is a local account, registered on first successful authentication.
type User struct {
	// ID is the stable identifier of the external identity, e.g. PNOEE-30303039914
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Country    string    `json:"country"`
	NationalID string    `json:"nationalId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Claim returns the identity claim which can be presented to the identity provider for this user.
func (u User) Claim() (IdentityClaim, error) {
	return NewIdentityClaim(u.Country, u.NationalID)
}

// Document is an uploaded file. The owner never changes after creation.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   []byte    `json:"-"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsContainer returns true when the document already is a signature container.
func (d Document) IsContainer() bool {
	return strings.HasSuffix(strings.ToLower(d.Name), ContainerExtension)
}

// ContainerName derives the name of a container from the name of the (first) file it wraps.
func ContainerName(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ContainerExtension
}

// Group is a set of users sharing documents. The owner is always a member.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupMembership associates a user with a group. It is the only place membership is recorded.
type GroupMembership struct {
	GroupID string    `json:"groupId"`
	UserID  string    `json:"userId"`
	AddedAt time.Time `json:"addedAt"`
}

// GroupDocumentLink associates a document with a group.
type GroupDocumentLink struct {
	GroupID    string    `json:"groupId"`
	DocumentID string    `json:"documentId"`
	AddedBy    string    `json:"addedBy"`
	AddedAt    time.Time `json:"addedAt"`
}

// AccessGrant is an explicit share of a document outside of group membership.
type AccessGrant struct {
	DocumentID string    `json:"documentId"`
	Grantee    string    `json:"grantee"`
	Grantor    string    `json:"grantor"`
	GrantedAt  time.Time `json:"grantedAt"`
}

// SignerRecord registers a user as a signer of a document.
// Orders 0 and 1 may sign at any time, order n > 1 waits for all signers of order n-1.
type SignerRecord struct {
	DocumentID string     `json:"documentId"`
	SignerID   string     `json:"signerId"`
	Order      int        `json:"order"`
	Signed     bool       `json:"signed"`
	SignedAt   *time.Time `json:"signedAt,omitempty"`
}

// Notification is a message for a single user.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	Text        string    `json:"text"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProblemReport is a free text problem description sent in by a user.
type ProblemReport struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporterId"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
