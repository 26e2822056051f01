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
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const bearerPrefix = "bearer "

const tokenIssuer = "nuts-cosign"

// ErrInvalidToken is returned when a bearer token is missing, malformed, expired or not issued by this server.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated user of a request together with the context its sessions live in.
type Principal struct {
	UserID    string
	ContextID string
}

// TokenIssuer creates and checks the bearer tokens handed out after authentication.
type TokenIssuer struct {
	Secret   []byte
	Validity time.Duration
	// NowFunc returns the current time, replaceable in tests
	NowFunc func() time.Time
}

func (t TokenIssuer) now() time.Time {
	if t.NowFunc != nil {
		return t.NowFunc()
	}
	return time.Now()
}

// Issue returns a signed token for the principal.
func (t TokenIssuer) Issue(principal Principal) (string, error) {
	now := t.now()
	claims := jwt.StandardClaims{
		Subject:   principal.UserID,
		Id:        principal.ContextID,
		Issuer:    tokenIssuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(t.Validity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	if err != nil {
		return "", errors.Wrap(err, "could not sign token")
	}
	return signed, nil
}

// Parse checks the token and returns its principal.
func (t TokenIssuer) Parse(tokenString string) (*Principal, error) {
	claims := jwt.StandardClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}, SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	now := t.now().Unix()
	if !claims.VerifyExpiresAt(now, true) {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}
	if !claims.VerifyIssuer(tokenIssuer, true) || claims.Subject == "" || claims.Id == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}
	return &Principal{UserID: claims.Subject, ContextID: claims.Id}, nil
}

// FromHeader parses the bearer token of an Authorization header.
func (t TokenIssuer) FromHeader(authorization string) (*Principal, error) {
	if len(authorization) == 0 {
		return nil, fmt.Errorf("%w: no authorization header given", ErrInvalidToken)
	}
	if strings.Index(strings.ToLower(authorization), bearerPrefix) != 0 {
		return nil, fmt.Errorf("%w: authorization does not contain bearer token", ErrInvalidToken)
	}
	return t.Parse(authorization[len(bearerPrefix):])
}
