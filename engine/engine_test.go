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

package engine

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-cosign/pkg"
)

func testInstance(t *testing.T) *pkg.Sign {
	config := pkg.DefaultConfig()
	config.TokenSecret = "secret"
	sign := pkg.NewSignInstance(config)
	require.NoError(t, sign.Configure())
	t.Cleanup(sign.Shutdown)
	return sign
}

func Test_initEcho(t *testing.T) {
	e := initEcho(testInstance(t))

	t.Run("ok - authentication is public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/session", strings.NewReader(`{"country":"EE","nationalId":"30303039914"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("error - documents need a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/documents", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func Test_loginCmd(t *testing.T) {
	server := httptest.NewServer(initEcho(testInstance(t)))
	defer server.Close()

	t.Run("ok", func(t *testing.T) {
		config := pkg.DefaultConfig()
		config.Address = server.URL
		command := loginCmd(pkg.NewSignInstance(config))
		out := new(bytes.Buffer)
		command.SetOut(out)
		command.SetArgs([]string{"--id", "30303039914"})

		require.NoError(t, command.Execute())

		assert.Contains(t, out.String(), "Verification code: ")
		assert.Contains(t, out.String(), "welcome Test Tester")
	})

	t.Run("error - invalid identity", func(t *testing.T) {
		config := pkg.DefaultConfig()
		config.Address = server.URL
		command := loginCmd(pkg.NewSignInstance(config))
		command.SetOut(new(bytes.Buffer))
		command.SetErr(new(bytes.Buffer))
		command.SetArgs([]string{"--country", "NL", "--id", "30303039914"})

		assert.Error(t, command.Execute())
	})
}

func TestNewCoSignEngine(t *testing.T) {
	e := NewCoSignEngine()

	assert.Equal(t, "cosign", e.ConfigKey)
	assert.NotNil(t, e.Routes)

	names := []string{}
	for _, c := range e.Cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"server", "login"}, names)
}

func Test_flagSet(t *testing.T) {
	flags := flagSet()

	address, err := flags.GetString(pkg.ConfAddress)
	require.NoError(t, err)
	assert.Equal(t, "localhost:1323", address)
	provider, _ := flags.GetString(pkg.ConfProvider)
	assert.Equal(t, pkg.ProviderDummy, provider)
	timeout, _ := flags.GetDuration(pkg.ConfSigningTimeout)
	assert.Equal(t, pkg.DefaultConfig().SigningTimeout, timeout)
}
