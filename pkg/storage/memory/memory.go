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
	"fmt"
	"sort"
	"sync"

	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// Repository keeps everything in memory. It is meant for development and tests,
// data is lost when the process stops.
type Repository struct {
	mu            sync.RWMutex
	users         map[string]types.User
	documents     map[string]types.Document
	groups        map[string]types.Group
	memberships   []types.GroupMembership
	links         []types.GroupDocumentLink
	grants        []types.AccessGrant
	signers       map[string][]types.SignerRecord
	notifications map[string]types.Notification
	reports       []types.ProblemReport
}

var _ types.Repository = (*Repository)(nil)

// NewRepository creates an empty in-memory Repository.
func NewRepository() *Repository {
	return &Repository{
		users:         map[string]types.User{},
		documents:     map[string]types.Document{},
		groups:        map[string]types.Group{},
		signers:       map[string][]types.SignerRecord{},
		notifications: map[string]types.Notification{},
	}
}

func notFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", types.ErrNotFound, what, id)
}

func alreadyExists(what, id string) error {
	return fmt.Errorf("%w: %s %s", types.ErrAlreadyExists, what, id)
}

func (r *Repository) CreateUser(_ context.Context, user types.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return alreadyExists("user", user.ID)
	}
	r.users[user.ID] = user
	return nil
}

func (r *Repository) FindUser(_ context.Context, id string) (*types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &user, nil
}

func copyDocument(d types.Document) types.Document {
	d.Content = append([]byte(nil), d.Content...)
	return d
}

func (r *Repository) CreateDocument(_ context.Context, document types.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.documents[document.ID]; ok {
		return alreadyExists("document", document.ID)
	}
	r.documents[document.ID] = copyDocument(document)
	return nil
}

func (r *Repository) FindDocument(_ context.Context, id string) (*types.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	document, ok := r.documents[id]
	if !ok {
		return nil, notFound("document", id)
	}
	document = copyDocument(document)
	return &document, nil
}

func (r *Repository) UpdateDocument(_ context.Context, document types.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.documents[document.ID]
	if !ok {
		return notFound("document", document.ID)
	}
	current.Name = document.Name
	current.Content = append([]byte(nil), document.Content...)
	r.documents[document.ID] = current
	return nil
}

// DeleteDocument removes the document together with its grants, links and signer records.
func (r *Repository) DeleteDocument(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.documents[id]; !ok {
		return notFound("document", id)
	}
	delete(r.documents, id)
	delete(r.signers, id)
	r.grants = filterGrants(r.grants, func(g types.AccessGrant) bool { return g.DocumentID != id })
	r.links = filterLinks(r.links, func(l types.GroupDocumentLink) bool { return l.DocumentID != id })
	return nil
}

func (r *Repository) DocumentsByOwner(_ context.Context, owner string) ([]types.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []types.Document
	for _, d := range r.documents {
		if d.Owner == owner {
			result = append(result, copyDocument(d))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *Repository) CreateGroup(_ context.Context, group types.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[group.ID]; ok {
		return alreadyExists("group", group.ID)
	}
	r.groups[group.ID] = group
	return nil
}

func (r *Repository) FindGroup(_ context.Context, id string) (*types.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	group, ok := r.groups[id]
	if !ok {
		return nil, notFound("group", id)
	}
	return &group, nil
}

// DeleteGroup removes the group, its memberships and document links. Documents stay.
func (r *Repository) DeleteGroup(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[id]; !ok {
		return notFound("group", id)
	}
	delete(r.groups, id)
	r.memberships = filterMemberships(r.memberships, func(m types.GroupMembership) bool { return m.GroupID != id })
	r.links = filterLinks(r.links, func(l types.GroupDocumentLink) bool { return l.GroupID != id })
	return nil
}

func (r *Repository) AddMember(_ context.Context, membership types.GroupMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[membership.GroupID]; !ok {
		return notFound("group", membership.GroupID)
	}
	for _, m := range r.memberships {
		if m.GroupID == membership.GroupID && m.UserID == membership.UserID {
			return alreadyExists("member", membership.UserID)
		}
	}
	r.memberships = append(r.memberships, membership)
	return nil
}

func (r *Repository) RemoveMember(_ context.Context, groupID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.memberships)
	r.memberships = filterMemberships(r.memberships, func(m types.GroupMembership) bool {
		return m.GroupID != groupID || m.UserID != userID
	})
	if len(r.memberships) == before {
		return notFound("member", userID)
	}
	return nil
}

func (r *Repository) MembersOf(_ context.Context, groupID string) ([]types.GroupMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterMemberships(r.memberships, func(m types.GroupMembership) bool { return m.GroupID == groupID }), nil
}

func (r *Repository) MembershipsOf(_ context.Context, userID string) ([]types.GroupMembership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterMemberships(r.memberships, func(m types.GroupMembership) bool { return m.UserID == userID }), nil
}

func (r *Repository) LinkDocument(_ context.Context, link types.GroupDocumentLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[link.GroupID]; !ok {
		return notFound("group", link.GroupID)
	}
	if _, ok := r.documents[link.DocumentID]; !ok {
		return notFound("document", link.DocumentID)
	}
	for _, l := range r.links {
		if l.GroupID == link.GroupID && l.DocumentID == link.DocumentID {
			return alreadyExists("link", link.DocumentID)
		}
	}
	r.links = append(r.links, link)
	return nil
}

func (r *Repository) UnlinkDocument(_ context.Context, groupID, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.links)
	r.links = filterLinks(r.links, func(l types.GroupDocumentLink) bool {
		return l.GroupID != groupID || l.DocumentID != documentID
	})
	if len(r.links) == before {
		return notFound("link", documentID)
	}
	return nil
}

func (r *Repository) LinksOfGroup(_ context.Context, groupID string) ([]types.GroupDocumentLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterLinks(r.links, func(l types.GroupDocumentLink) bool { return l.GroupID == groupID }), nil
}

func (r *Repository) LinksOfDocument(_ context.Context, documentID string) ([]types.GroupDocumentLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterLinks(r.links, func(l types.GroupDocumentLink) bool { return l.DocumentID == documentID }), nil
}

func (r *Repository) CreateGrant(_ context.Context, grant types.AccessGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.grants {
		if g.DocumentID == grant.DocumentID && g.Grantee == grant.Grantee {
			return alreadyExists("grant", grant.Grantee)
		}
	}
	r.grants = append(r.grants, grant)
	return nil
}

func (r *Repository) DeleteGrant(_ context.Context, documentID, grantee string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.grants)
	r.grants = filterGrants(r.grants, func(g types.AccessGrant) bool {
		return g.DocumentID != documentID || g.Grantee != grantee
	})
	if len(r.grants) == before {
		return notFound("grant", grantee)
	}
	return nil
}

func (r *Repository) GrantsOfDocument(_ context.Context, documentID string) ([]types.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterGrants(r.grants, func(g types.AccessGrant) bool { return g.DocumentID == documentID }), nil
}

func (r *Repository) GrantsOfUser(_ context.Context, grantee string) ([]types.AccessGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filterGrants(r.grants, func(g types.AccessGrant) bool { return g.Grantee == grantee }), nil
}

func (r *Repository) SaveSignerRecord(_ context.Context, record types.SignerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.signers[record.DocumentID]
	for i, existing := range records {
		if existing.SignerID == record.SignerID {
			if existing.Signed && !record.Signed {
				record.Signed = true
				record.SignedAt = existing.SignedAt
			}
			records[i] = record
			return nil
		}
	}
	r.signers[record.DocumentID] = append(records, record)
	return nil
}

func (r *Repository) SignerRecords(_ context.Context, documentID string) ([]types.SignerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]types.SignerRecord(nil), r.signers[documentID]...), nil
}

func (r *Repository) CreateNotification(_ context.Context, notification types.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notifications[notification.ID]; ok {
		return alreadyExists("notification", notification.ID)
	}
	r.notifications[notification.ID] = notification
	return nil
}

func (r *Repository) FindNotification(_ context.Context, id string) (*types.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	notification, ok := r.notifications[id]
	if !ok {
		return nil, notFound("notification", id)
	}
	return &notification, nil
}

func (r *Repository) NotificationsOf(_ context.Context, recipientID string) ([]types.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []types.Notification
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *Repository) SetNotificationRead(_ context.Context, id string, read bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification, ok := r.notifications[id]
	if !ok {
		return notFound("notification", id)
	}
	notification.IsRead = read
	r.notifications[id] = notification
	return nil
}

func filterMemberships(in []types.GroupMembership, keep func(types.GroupMembership) bool) []types.GroupMembership {
	var out []types.GroupMembership
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func filterLinks(in []types.GroupDocumentLink, keep func(types.GroupDocumentLink) bool) []types.GroupDocumentLink {
	var out []types.GroupDocumentLink
	for _, l := range in {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func filterGrants(in []types.AccessGrant, keep func(types.AccessGrant) bool) []types.AccessGrant {
	var out []types.AccessGrant
	for _, g := range in {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out
}

func (r *Repository) CreateProblemReport(_ context.Context, report types.ProblemReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reports {
		if existing.ID == report.ID {
			return alreadyExists("problem report", report.ID)
		}
	}
	r.reports = append(r.reports, report)
	return nil
}

func (r *Repository) ProblemReportsBy(_ context.Context, reporterID string) ([]types.ProblemReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []types.ProblemReport
	for _, report := range r.reports {
		if report.ReporterID == reporterID {
			result = append(result, report)
		}
	}
	return result, nil
}
