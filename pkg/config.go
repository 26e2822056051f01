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
	"time"

	"github.com/docker/go-units"
	"github.com/pkg/errors"
)

// Config keys, used as flag names and viper keys
const (
	ConfAddress               = "address"
	ConfMode                  = "mode"
	ConfStrict                = "strictmode"
	ConfProvider              = "provider"
	ConfStorage               = "storage"
	ConfDatabaseURL           = "databaseUrl"
	ConfSigningTimeout        = "signingTimeout"
	ConfAuthenticationTimeout = "authenticationTimeout"
	ConfSessionTTL            = "sessionTtl"
	ConfTokenSecret           = "tokenSecret"
	ConfTokenValidity         = "tokenValidity"
	ConfMaxUploadSize         = "maxUploadSize"
	ConfLocale                = "locale"
	ConfTimezone              = "timezone"
	ConfSmartIDHostURL        = "smartid.hostUrl"
	ConfSmartIDRPUUID         = "smartid.relyingPartyUuid"
	ConfSmartIDRPName         = "smartid.relyingPartyName"
	ConfSmartIDLevel          = "smartid.certificateLevel"
	ConfSmartIDTrustStore     = "smartid.trustStore"
)

// Engine modes
const (
	ServerMode = "server"
	ClientMode = "client"
)

// Supported identity providers
const (
	ProviderDummy   = "dummy"
	ProviderSmartID = "smartid"
)

// Supported storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// SmartIDConfig holds the relying party settings for the Smart-ID provider.
type SmartIDConfig struct {
	HostURL          string
	RelyingPartyUUID string
	RelyingPartyName string
	CertificateLevel string
	// TrustStore is a PEM file with the certificates authentication certificates must chain up to
	TrustStore string
}

// Config holds all the configuration params
type Config struct {
	// Address to bind the http server to. Default localhost:1323
	Address string
	Mode    string
	// StrictMode refuses the dummy provider
	StrictMode            bool
	Provider              string
	SmartID               SmartIDConfig
	Storage               string
	DatabaseURL           string
	SigningTimeout        time.Duration
	AuthenticationTimeout time.Duration
	SessionTTL            time.Duration
	TokenSecret           string
	TokenValidity         time.Duration
	// MaxUploadSize in human readable form, like 10MB
	MaxUploadSize string
	Locale        string
	Timezone      string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Address:        "localhost:1323",
		Mode:           ServerMode,
		Provider:       ProviderDummy,
		Storage:        StorageMemory,
		SigningTimeout: 20 * time.Second,
		SessionTTL:     5 * time.Minute,
		TokenValidity:  time.Hour,
		MaxUploadSize:  "10MB",
		Locale:         "en_US",
		Timezone:       "UTC",
		SmartID: SmartIDConfig{
			HostURL:          "https://sid.demo.sk.ee/smart-id-rp/v2",
			RelyingPartyUUID: "00000000-0000-0000-0000-000000000000",
			RelyingPartyName: "DEMO",
			CertificateLevel: "QUALIFIED",
		},
	}
}

func (c Config) uploadLimit() (int64, error) {
	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", ConfMaxUploadSize)
	}
	return size, nil
}

func (c Config) location() (*time.Location, error) {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", ConfTimezone)
	}
	return location, nil
}

func (c Config) validate() error {
	switch c.Provider {
	case ProviderDummy:
	case ProviderSmartID:
		if c.SmartID.HostURL == "" {
			return errors.Errorf("%s is required for the %s provider", ConfSmartIDHostURL, ProviderSmartID)
		}
		if c.StrictMode && c.SmartID.TrustStore == "" {
			return errors.Errorf("%s is required for the %s provider in strict mode", ConfSmartIDTrustStore, ProviderSmartID)
		}
	default:
		return errors.Errorf("unknown provider %q", c.Provider)
	}
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.Errorf("%s is required for %s storage", ConfDatabaseURL, StoragePostgres)
		}
	default:
		return errors.Errorf("unknown storage %q", c.Storage)
	}
	if c.TokenSecret == "" && c.StrictMode {
		return errors.Errorf("%s is required in strict mode", ConfTokenSecret)
	}
	return nil
}
