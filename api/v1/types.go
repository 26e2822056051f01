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

package v1

import "time"

// AuthenticationRequest is the claimed identity of the user.
type AuthenticationRequest struct {
	Country    string `json:"country"`
	NationalId string `json:"nationalId"`
}

// SessionStarted is returned when an authentication or signing session is started.
type SessionStarted struct {
	ContextId        string `json:"contextId"`
	VerificationCode string `json:"verificationCode"`
}

// User defines model for User.
type User struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	Country    string    `json:"country"`
	NationalId string    `json:"nationalId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuthenticationResult is returned after the user confirmed the authentication.
type AuthenticationResult struct {
	Message string `json:"message"`
	// Token is the bearer token for all other calls
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SigningRequest lists the documents to sign in one signature.
type SigningRequest struct {
	DocumentIds []string `json:"documentIds"`
}

// SigningResult is returned after the user confirmed the signature.
type SigningResult struct {
	Message       string     `json:"message"`
	DocumentId    string     `json:"documentId"`
	SignedAt      *time.Time `json:"signedAt,omitempty"`
	AlreadySigned bool       `json:"alreadySigned"`
}

// Document defines model for Document, the content is downloaded separately.
type Document struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	Container bool      `json:"container"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserIds defines model for a list of users.
type UserIds struct {
	UserIds []string `json:"userIds"`
}

// DocumentIds defines model for a list of documents.
type DocumentIds struct {
	DocumentIds []string `json:"documentIds"`
}

// Share defines model for Share.
type Share struct {
	DocumentId string    `json:"documentId"`
	Grantee    string    `json:"grantee"`
	Grantor    string    `json:"grantor"`
	GrantedAt  time.Time `json:"grantedAt"`
}

// GroupRequest defines model for GroupRequest.
type GroupRequest struct {
	Name string `json:"name"`
}

// Group defines model for Group.
type Group struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member defines model for Member.
type Member struct {
	UserId  string    `json:"userId"`
	AddedAt time.Time `json:"addedAt"`
}

// SignerAssignment assigns a signer, without order an existing order is kept or 1 is used.
type SignerAssignment struct {
	UserId string `json:"userId"`
	Order  *int   `json:"order,omitempty"`
}

// SignersRequest defines model for SignersRequest.
type SignersRequest struct {
	Signers []SignerAssignment `json:"signers"`
}

// SignerRecord defines model for SignerRecord.
type SignerRecord struct {
	UserId   string     `json:"userId"`
	Order    int        `json:"order"`
	Signed   bool       `json:"signed"`
	SignedAt *time.Time `json:"signedAt,omitempty"`
}

// NextSigner defines model for NextSigner.
type NextSigner struct {
	UserId string `json:"userId"`
}

// Notification defines model for Notification.
type Notification struct {
	Id        string    `json:"id"`
	Text      string    `json:"text"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationUpdate defines model for NotificationUpdate.
type NotificationUpdate struct {
	Read bool `json:"read"`
}

// ProblemReportRequest defines model for ProblemReportRequest.
type ProblemReportRequest struct {
	Text string `json:"text"`
}

// ProblemReport defines model for ProblemReport.
type ProblemReport struct {
	Id        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
