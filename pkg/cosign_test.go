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

package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_Configure(t *testing.T) {
	t.Run("ok - defaults", func(t *testing.T) {
		sign := NewSignInstance(DefaultConfig())
		require.NoError(t, sign.Configure())
		defer sign.Shutdown()

		assert.NotNil(t, sign.Orchestrator())
		assert.NotNil(t, sign.Documents())
		assert.Len(t, sign.TokenSecret(), 32, "generated secret")
		assert.Equal(t, int64(10*1000*1000), sign.Documents().MaxUploadSize)
	})

	t.Run("ok - only once", func(t *testing.T) {
		sign := NewSignInstance(DefaultConfig())
		require.NoError(t, sign.Configure())
		secret := sign.TokenSecret()
		require.NoError(t, sign.Configure())

		assert.Equal(t, secret, sign.TokenSecret())
	})

	t.Run("ok - client mode builds nothing", func(t *testing.T) {
		config := DefaultConfig()
		config.Mode = ClientMode
		sign := NewSignInstance(config)

		require.NoError(t, sign.Configure())
		assert.Nil(t, sign.Orchestrator())
	})

	t.Run("ok - configured secret", func(t *testing.T) {
		config := DefaultConfig()
		config.TokenSecret = "secret"
		sign := NewSignInstance(config)

		require.NoError(t, sign.Configure())
		assert.Equal(t, []byte("secret"), sign.TokenSecret())
	})

	t.Run("error - invalid upload size", func(t *testing.T) {
		config := DefaultConfig()
		config.MaxUploadSize = "lots"

		assert.Error(t, NewSignInstance(config).Configure())
	})

	t.Run("error - unknown time zone", func(t *testing.T) {
		config := DefaultConfig()
		config.Timezone = "Mars/Olympus_Mons"

		assert.Error(t, NewSignInstance(config).Configure())
	})

	t.Run("ok - smartid provider without trust store", func(t *testing.T) {
		config := DefaultConfig()
		config.Provider = ProviderSmartID
		sign := NewSignInstance(config)
		require.NoError(t, sign.Configure())
		defer sign.Shutdown()

		assert.NotNil(t, sign.Reports().Reports)
		assert.NotNil(t, sign.Users())
	})

	t.Run("error - unreadable trust store", func(t *testing.T) {
		config := DefaultConfig()
		config.Provider = ProviderSmartID
		config.SmartID.TrustStore = "testdata/missing.pem"

		err := NewSignInstance(config).Configure()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to read trust store")
	})
}

func TestConfig_validate(t *testing.T) {
	t.Run("ok - defaults", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().validate())
	})

	t.Run("error - unknown provider", func(t *testing.T) {
		config := DefaultConfig()
		config.Provider = "mobileid"
		assert.EqualError(t, config.validate(), `unknown provider "mobileid"`)
	})

	t.Run("error - smartid without host", func(t *testing.T) {
		config := DefaultConfig()
		config.Provider = ProviderSmartID
		config.SmartID.HostURL = ""
		assert.Error(t, config.validate())
	})

	t.Run("error - smartid in strict mode needs a trust store", func(t *testing.T) {
		config := DefaultConfig()
		config.Provider = ProviderSmartID
		config.StrictMode = true
		config.TokenSecret = "secret"
		assert.EqualError(t, config.validate(), "smartid.trustStore is required for the smartid provider in strict mode")

		config.SmartID.TrustStore = "roots.pem"
		assert.NoError(t, config.validate())
	})

	t.Run("error - postgres without url", func(t *testing.T) {
		config := DefaultConfig()
		config.Storage = StoragePostgres
		assert.EqualError(t, config.validate(), "databaseUrl is required for postgres storage")
	})

	t.Run("error - unknown storage", func(t *testing.T) {
		config := DefaultConfig()
		config.Storage = "disk"
		assert.Error(t, config.validate())
	})

	t.Run("error - strict mode needs a token secret", func(t *testing.T) {
		config := DefaultConfig()
		config.StrictMode = true
		assert.EqualError(t, config.validate(), "tokenSecret is required in strict mode")

		config.TokenSecret = "secret"
		assert.NoError(t, config.validate())
	})
}
