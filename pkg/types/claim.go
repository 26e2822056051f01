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
	"fmt"
	"regexp"
	"strings"
)

var countryPattern = regexp.MustCompile(`^(EE|LV|LT)$`)
var nationalIDPattern = regexp.MustCompile(`^([0-9]{11}|[0-9]{6}-[0-9]{5})$`)

// IdentityClaim is what a user claims to be before authentication: a country and a national identity number.
type IdentityClaim struct {
	Country    string `json:"country"`
	NationalID string `json:"nationalId"`
}

// NewIdentityClaim validates and returns an IdentityClaim.
func NewIdentityClaim(country, nationalID string) (IdentityClaim, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	nationalID = strings.TrimSpace(nationalID)
	if !countryPattern.MatchString(country) {
		return IdentityClaim{}, fmt.Errorf("%w: unsupported country '%s'", ErrInvalidClaim, country)
	}
	if !nationalIDPattern.MatchString(nationalID) {
		return IdentityClaim{}, fmt.Errorf("%w: malformed national identity number", ErrInvalidClaim)
	}
	return IdentityClaim{Country: country, NationalID: nationalID}, nil
}

// SemanticsIdentifier returns the ETSI semantics identifier of the natural person, e.g. PNOEE-30303039914.
func (c IdentityClaim) SemanticsIdentifier() string {
	return fmt.Sprintf("PNO%s-%s", c.Country, c.NationalID)
}

// ResolvedIdentity is the identity as confirmed by the identity provider.
type ResolvedIdentity struct {
	// ID is stable for a natural person and used as local user id
	ID           string
	GivenName    string
	Surname      string
	Country      string
	IdentityCode string
}
