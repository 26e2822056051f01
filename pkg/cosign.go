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
	"context"
	"crypto/rand"
	"sync"

	"github.com/jasonlvhit/gocron"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg/ledger"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/asice"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/documents"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/dummy"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/notifier"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/reports"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/smartid"
	"github.com/nuts-foundation/nuts-cosign/pkg/session"
	"github.com/nuts-foundation/nuts-cosign/pkg/signing"
	"github.com/nuts-foundation/nuts-cosign/pkg/storage/memory"
	"github.com/nuts-foundation/nuts-cosign/pkg/storage/postgres"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// SignClient is the interface the API layer uses to reach the engine.
type SignClient interface {
	Orchestrator() *signing.Orchestrator
	Documents() *documents.Service
	Inbox() notifier.Inbox
	Reports() reports.Desk
	Users() types.UserStore
	TokenSecret() []byte
	Config() Config
}

// Sign is the co-sign engine. It wires storage, the identity provider and the services together.
type Sign struct {
	config     Config
	configOnce sync.Once
	configDone bool

	repository   types.Repository
	closer       func()
	stopSweeper  chan bool
	orchestrator *signing.Orchestrator
	documents    *documents.Service
	inbox        notifier.Inbox
	reports      reports.Desk
	tokenSecret  []byte
}

var _ SignClient = (*Sign)(nil)

var instance *Sign
var oneBackend sync.Once

// SignInstance returns the singleton engine, configured with the defaults until the configuration is injected.
func SignInstance() *Sign {
	oneBackend.Do(func() {
		instance = NewSignInstance(DefaultConfig())
	})
	return instance
}

// NewSignInstance creates an unconfigured engine with the given configuration.
func NewSignInstance(config Config) *Sign {
	return &Sign{config: config}
}

// ConfigRef returns the configuration so it can be filled before Configure is called.
func (s *Sign) ConfigRef() *Config {
	return &s.config
}

// Config returns a copy of the configuration.
func (s *Sign) Config() Config {
	return s.config
}

// Configure builds all components. It only does something the first time it is called.
// In client mode nothing is built.
func (s *Sign) Configure() (err error) {
	s.configOnce.Do(func() {
		if s.config.Mode == ClientMode {
			s.configDone = true
			return
		}
		if err = s.config.validate(); err != nil {
			return
		}
		err = s.configure()
		s.configDone = err == nil
	})
	return err
}

func (s *Sign) configure() error {
	maxUploadSize, err := s.config.uploadLimit()
	if err != nil {
		return err
	}
	location, err := s.config.location()
	if err != nil {
		return err
	}
	if s.tokenSecret, err = s.secret(); err != nil {
		return err
	}
	provider, err := s.provider()
	if err != nil {
		return err
	}
	if err = s.openRepository(); err != nil {
		return err
	}

	container := asice.Container{}
	messenger := notifier.Messenger{
		Notifier: notifier.Store{Notifications: s.repository},
		Renderer: notifier.NewRenderer(s.config.Locale, location),
	}
	signers := ledger.New(s.repository)
	sessions := session.NewManager(provider, container, session.Config{
		SigningTimeout:        s.config.SigningTimeout,
		AuthenticationTimeout: s.config.AuthenticationTimeout,
		TTL:                   s.config.SessionTTL,
	})

	if s.config.SessionTTL > 0 {
		s.stopSweeper = sweep(sessions)
	}

	s.orchestrator = signing.NewOrchestrator(s.repository, sessions, signers, messenger)
	s.documents = documents.NewService(s.repository, signers, container, messenger, maxUploadSize)
	s.inbox = notifier.Inbox{Notifications: s.repository}
	s.reports = reports.Desk{Reports: s.repository}
	logging.Log().Infof("configured with %s provider and %s storage", s.config.Provider, s.config.Storage)
	return nil
}

func (s *Sign) openRepository() error {
	switch s.config.Storage {
	case StoragePostgres:
		repository, err := postgres.Connect(context.Background(), s.config.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "unable to open storage")
		}
		s.repository = repository
		s.closer = repository.Close
	default:
		s.repository = memory.NewRepository()
		s.closer = func() {}
	}
	return nil
}

func (s *Sign) provider() (types.IdentityProvider, error) {
	if s.config.Provider != ProviderSmartID {
		return &dummy.Dummy{InStrictMode: s.config.StrictMode}, nil
	}
	config := smartid.Config{
		HostURL:          s.config.SmartID.HostURL,
		RelyingPartyUUID: s.config.SmartID.RelyingPartyUUID,
		RelyingPartyName: s.config.SmartID.RelyingPartyName,
		CertificateLevel: s.config.SmartID.CertificateLevel,
		RetryMax:         2,
	}
	if s.config.SmartID.TrustStore != "" {
		roots, err := smartid.LoadTrustStore(s.config.SmartID.TrustStore)
		if err != nil {
			return nil, err
		}
		config.Roots = roots
	} else {
		logging.Log().Warnf("no %s configured, Smart-ID certificates are not checked against a trust store", ConfSmartIDTrustStore)
	}
	return smartid.NewClient(config), nil
}

func (s *Sign) secret() ([]byte, error) {
	if s.config.TokenSecret != "" {
		return []byte(s.config.TokenSecret), nil
	}
	logging.Log().Warnf("no %s configured, tokens will not survive a restart", ConfTokenSecret)
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, errors.Wrap(err, "unable to generate token secret")
	}
	return secret, nil
}

// sweep drops expired sessions every minute, so contexts which are never used again do not linger.
func sweep(sessions *session.Manager) chan bool {
	scheduler := gocron.NewScheduler()
	scheduler.Every(1).Minute().Do(func() {
		left := sessions.Prune()
		logging.Log().Tracef("pruned sessions, %d contexts left", left)
	})
	return scheduler.Start()
}

// Shutdown stops the session sweeper and releases the storage.
func (s *Sign) Shutdown() {
	if s.stopSweeper != nil {
		close(s.stopSweeper)
		s.stopSweeper = nil
	}
	if s.closer != nil {
		s.closer()
	}
}

func (s *Sign) Orchestrator() *signing.Orchestrator {
	return s.orchestrator
}

func (s *Sign) Documents() *documents.Service {
	return s.documents
}

func (s *Sign) Inbox() notifier.Inbox {
	return s.inbox
}

func (s *Sign) Reports() reports.Desk {
	return s.reports
}

// Users returns the store of registered users.
func (s *Sign) Users() types.UserStore {
	return s.repository
}

func (s *Sign) TokenSecret() []byte {
	return s.tokenSecret
}
