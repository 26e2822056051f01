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

import (
	"github.com/nuts-foundation/nuts-cosign/pkg/ledger"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

func toUser(u types.User) User {
	return User{Id: u.ID, Name: u.Name, Country: u.Country, NationalId: u.NationalID, CreatedAt: u.CreatedAt}
}

func toDocument(d types.Document) Document {
	return Document{
		Id:        d.ID,
		Name:      d.Name,
		Owner:     d.Owner,
		Container: d.IsContainer(),
		Size:      len(d.Content),
		CreatedAt: d.CreatedAt,
	}
}

func toDocuments(documents []types.Document) []Document {
	answer := make([]Document, 0, len(documents))
	for _, d := range documents {
		answer = append(answer, toDocument(d))
	}
	return answer
}

func toShares(grants []types.AccessGrant) []Share {
	answer := make([]Share, 0, len(grants))
	for _, g := range grants {
		answer = append(answer, Share{DocumentId: g.DocumentID, Grantee: g.Grantee, Grantor: g.Grantor, GrantedAt: g.GrantedAt})
	}
	return answer
}

func toGroup(g types.Group) Group {
	return Group{Id: g.ID, Name: g.Name, Owner: g.Owner, CreatedAt: g.CreatedAt}
}

func toSignerRecords(snapshot ledger.Snapshot) []SignerRecord {
	answer := make([]SignerRecord, 0, len(snapshot))
	for _, r := range snapshot {
		answer = append(answer, SignerRecord{UserId: r.SignerID, Order: r.Order, Signed: r.Signed, SignedAt: r.SignedAt})
	}
	return answer
}
