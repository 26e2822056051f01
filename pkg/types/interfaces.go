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
	"context"
)

// AuthChallenge is returned by the identity provider when an authentication session is started.
type AuthChallenge struct {
	// Challenge is the random material the user confirms
	Challenge []byte
	// VerificationCode is displayed to the user so the right request is confirmed on the mobile device
	VerificationCode string
}

// SigningChallenge is returned by the identity provider when a signing session is started.
type SigningChallenge struct {
	// Challenge is the hash the provider will sign
	Challenge        []byte
	VerificationCode string
	// DocumentRef identifies the signing certificate holder at the provider
	DocumentRef string
}

// IdentityProvider performs authentication and signing through an out-of-band confirmation by the user.
// Complete calls block until the user confirmed, declined or the provider gave up.
type IdentityProvider interface {
	StartAuthentication(ctx context.Context, claim IdentityClaim) (AuthChallenge, error)
	CompleteAuthentication(ctx context.Context, claim IdentityClaim, challenge []byte) (*ResolvedIdentity, error)
	StartSigning(ctx context.Context, documentHash []byte, claim IdentityClaim) (SigningChallenge, error)
	CompleteSigning(ctx context.Context, challenge SigningChallenge) ([]byte, error)
}

// ContainerFile is a named file wrapped in a container.
type ContainerFile struct {
	Name    string
	Content []byte
}

// ContainerHandle is a container which is prepared for signing.
type ContainerHandle interface {
	// Digest returns the hash which has to be signed
	Digest() []byte
	FileNames() []string
}

// DocumentContainer creates tamper-evident containers holding files and their signatures.
type DocumentContainer interface {
	Build(files []ContainerFile) (ContainerHandle, error)
	FromExisting(content []byte) (ContainerHandle, error)
	Finalize(handle ContainerHandle, signature []byte) ([]byte, error)
	// Encode returns the container as is, without adding a signature
	Encode(handle ContainerHandle) ([]byte, error)
}

// Notifier delivers a text to a user. Delivery is best effort.
type Notifier interface {
	Emit(ctx context.Context, recipientID string, text string)
}

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	FindUser(ctx context.Context, id string) (*User, error)
}

// DocumentStore persists documents.
type DocumentStore interface {
	CreateDocument(ctx context.Context, document Document) error
	FindDocument(ctx context.Context, id string) (*Document, error)
	// UpdateDocument replaces name and content, the owner is never changed
	UpdateDocument(ctx context.Context, document Document) error
	DeleteDocument(ctx context.Context, id string) error
	DocumentsByOwner(ctx context.Context, owner string) ([]Document, error)
}

// GroupStore persists groups, their members and their documents.
type GroupStore interface {
	CreateGroup(ctx context.Context, group Group) error
	FindGroup(ctx context.Context, id string) (*Group, error)
	DeleteGroup(ctx context.Context, id string) error
	AddMember(ctx context.Context, membership GroupMembership) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	MembersOf(ctx context.Context, groupID string) ([]GroupMembership, error)
	MembershipsOf(ctx context.Context, userID string) ([]GroupMembership, error)
	LinkDocument(ctx context.Context, link GroupDocumentLink) error
	UnlinkDocument(ctx context.Context, groupID, documentID string) error
	LinksOfGroup(ctx context.Context, groupID string) ([]GroupDocumentLink, error)
	LinksOfDocument(ctx context.Context, documentID string) ([]GroupDocumentLink, error)
}

// GrantStore persists access grants.
type GrantStore interface {
	CreateGrant(ctx context.Context, grant AccessGrant) error
	DeleteGrant(ctx context.Context, documentID, grantee string) error
	GrantsOfDocument(ctx context.Context, documentID string) ([]AccessGrant, error)
	GrantsOfUser(ctx context.Context, grantee string) ([]AccessGrant, error)
}

// SignerStore persists signer records, at most one per (document, signer).
type SignerStore interface {
	// SaveSignerRecord inserts or replaces the record of the signer, a signed record stays signed
	SaveSignerRecord(ctx context.Context, record SignerRecord) error
	SignerRecords(ctx context.Context, documentID string) ([]SignerRecord, error)
}

// NotificationStore persists notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notification Notification) error
	FindNotification(ctx context.Context, id string) (*Notification, error)
	NotificationsOf(ctx context.Context, recipientID string) ([]Notification, error)
	SetNotificationRead(ctx context.Context, id string, read bool) error
}

// ProblemReportStore persists problem reports.
type ProblemReportStore interface {
	CreateProblemReport(ctx context.Context, report ProblemReport) error
	ProblemReportsBy(ctx context.Context, reporterID string) ([]ProblemReport, error)
}

// Repository is the persistence needed by the engine.
type Repository interface {
	UserStore
	DocumentStore
	GroupStore
	GrantStore
	SignerStore
	NotificationStore
	ProblemReportStore
}
