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

package cmd

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-cosign/engine"
	"github.com/nuts-foundation/nuts-cosign/pkg"
)

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.AddFlagSet(engine.NewCoSignEngine().FlagSet)
	flags.String(confConfigFile, "", "")
	return flags
}

func Test_loadConfig(t *testing.T) {
	t.Run("ok - defaults", func(t *testing.T) {
		config := pkg.Config{}
		require.NoError(t, loadConfig(viper.New(), testFlags(), &config))

		assert.Equal(t, pkg.DefaultConfig(), config)
	})

	t.Run("ok - flags before environment", func(t *testing.T) {
		t.Setenv("COSIGN_PROVIDER", "smartid")
		t.Setenv("COSIGN_ADDRESS", "localhost:1")
		flags := testFlags()
		require.NoError(t, flags.Set(pkg.ConfAddress, ":8080"))
		config := pkg.Config{}

		require.NoError(t, loadConfig(viper.New(), flags, &config))

		assert.Equal(t, pkg.ProviderSmartID, config.Provider)
		assert.Equal(t, ":8080", config.Address)
	})

	t.Run("ok - config file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "cosign.yaml")
		require.NoError(t, ioutil.WriteFile(file, []byte("tokenValidity: 2h\nsmartid:\n  relyingPartyName: TEST\n"), 0600))
		flags := testFlags()
		require.NoError(t, flags.Set(confConfigFile, file))
		config := pkg.Config{}

		require.NoError(t, loadConfig(viper.New(), flags, &config))

		assert.Equal(t, 2*time.Hour, config.TokenValidity)
		assert.Equal(t, "TEST", config.SmartID.RelyingPartyName)
		assert.Equal(t, pkg.DefaultConfig().SmartID.HostURL, config.SmartID.HostURL)
	})

	t.Run("error - missing config file", func(t *testing.T) {
		flags := testFlags()
		require.NoError(t, flags.Set(confConfigFile, filepath.Join(t.TempDir(), "missing.yaml")))

		assert.Error(t, loadConfig(viper.New(), flags, &pkg.Config{}))
	})
}

func Test_printConfig(t *testing.T) {
	v := viper.New()
	v.Set(pkg.ConfAddress, "localhost:1323")
	v.Set(pkg.ConfTokenSecret, "secret")
	out := new(bytes.Buffer)

	printConfig(v, out)

	assert.Equal(t, "address: localhost:1323\ntokensecret: ********\n", out.String())
}
