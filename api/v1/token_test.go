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
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	now := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := TokenIssuer{Secret: []byte("secret"), Validity: time.Hour, NowFunc: func() time.Time { return now }}
	principal := Principal{UserID: "PNOEE-30303039914", ContextID: "c1"}

	t.Run("ok", func(t *testing.T) {
		token, err := issuer.Issue(principal)
		require.NoError(t, err)

		parsed, err := issuer.FromHeader("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, principal, *parsed)
	})

	t.Run("error - expired", func(t *testing.T) {
		token, _ := issuer.Issue(principal)
		later := issuer
		later.NowFunc = func() time.Time { return now.Add(2 * time.Hour) }

		_, err := later.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("error - other secret", func(t *testing.T) {
		token, _ := issuer.Issue(principal)
		other := issuer
		other.Secret = []byte("other")

		_, err := other.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("error - other issuer", func(t *testing.T) {
		claims := jwt.StandardClaims{Subject: principal.UserID, Id: principal.ContextID, Issuer: "someone", ExpiresAt: now.Add(time.Hour).Unix()}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))

		_, err := issuer.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("error - missing context", func(t *testing.T) {
		token, _ := issuer.Issue(Principal{UserID: principal.UserID})

		_, err := issuer.Parse(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("error - no bearer", func(t *testing.T) {
		_, err := issuer.FromHeader("")
		assert.True(t, errors.Is(err, ErrInvalidToken))

		_, err = issuer.FromHeader("Basic dXNlcjpwYXNz")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}
