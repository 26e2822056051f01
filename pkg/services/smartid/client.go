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

package smartid

import (
	"bytes"
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

const (
	stateComplete     = "COMPLETE"
	endResultOK       = "OK"
	interactionPIN    = "displayTextAndPIN"
	hashTypeAuth      = "SHA512"
	hashTypeSignature = "SHA256"
	statusMaintenance = 580
)

var (
	oidGivenName    = asn1.ObjectIdentifier{2, 5, 4, 42}
	oidSurname      = asn1.ObjectIdentifier{2, 5, 4, 4}
	oidSerialNumber = asn1.ObjectIdentifier{2, 5, 4, 5}
)

// Config contains the relying party settings for the Smart-ID service.
type Config struct {
	HostURL          string
	RelyingPartyUUID string
	RelyingPartyName string
	CertificateLevel string
	// AuthenticationText and SigningText are shown on the mobile device, at most 60 characters
	AuthenticationText string
	SigningText        string
	// PollTimeout is the long poll timeout of a single session status request
	PollTimeout time.Duration
	RetryMax    int
	// Roots the authentication certificate must chain up to, the chain is not checked when nil
	Roots *x509.CertPool
}

// Client is an IdentityProvider talking to the Smart-ID relying party REST API (v2).
// An authentication is only accepted when the returned certificate signed the challenge. Without
// Roots the certificate itself is trusted as sent by the Smart-ID service over TLS.
type Client struct {
	config Config
	http   *retryablehttp.Client
}

var _ types.IdentityProvider = (*Client)(nil)

// NewClient creates a Client. Transport errors and 5xx responses are retried RetryMax times.
func NewClient(config Config) *Client {
	if config.PollTimeout <= 0 {
		config.PollTimeout = 30 * time.Second
	}
	if config.CertificateLevel == "" {
		config.CertificateLevel = "QUALIFIED"
	}
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = config.RetryMax
	httpClient.Logger = logging.Log()
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient.HTTPClient.Timeout = config.PollTimeout + 10*time.Second
	return &Client{config: config, http: httpClient}
}

type interaction struct {
	Type          string `json:"type"`
	DisplayText60 string `json:"displayText60,omitempty"`
}

type sessionRequest struct {
	RelyingPartyUUID         string        `json:"relyingPartyUUID"`
	RelyingPartyName         string        `json:"relyingPartyName"`
	CertificateLevel         string        `json:"certificateLevel,omitempty"`
	Hash                     string        `json:"hash,omitempty"`
	HashType                 string        `json:"hashType,omitempty"`
	AllowedInteractionsOrder []interaction `json:"allowedInteractionsOrder,omitempty"`
}

type sessionResponse struct {
	SessionID string `json:"sessionID"`
}

type sessionStatus struct {
	State  string `json:"state"`
	Result struct {
		EndResult      string `json:"endResult"`
		DocumentNumber string `json:"documentNumber"`
	} `json:"result"`
	Signature *struct {
		Value     string `json:"value"`
		Algorithm string `json:"algorithm"`
	} `json:"signature"`
	Cert *struct {
		Value            string `json:"value"`
		CertificateLevel string `json:"certificateLevel"`
	} `json:"cert"`
}

// StartAuthentication creates the random challenge and its verification code. Nothing is sent yet,
// the session at Smart-ID is created when the authentication is completed.
func (c *Client) StartAuthentication(_ context.Context, _ types.IdentityClaim) (types.AuthChallenge, error) {
	hash, err := RandomHash()
	if err != nil {
		return types.AuthChallenge{}, errors.Wrap(err, "unable to generate authentication hash")
	}
	return types.AuthChallenge{Challenge: hash, VerificationCode: VerificationCode(hash)}, nil
}

// CompleteAuthentication sends the authentication request to the user's device and waits for the result.
func (c *Client) CompleteAuthentication(ctx context.Context, claim types.IdentityClaim, challenge []byte) (*types.ResolvedIdentity, error) {
	request := c.request(challenge, hashTypeAuth, c.config.AuthenticationText)
	status, err := c.run(ctx, "/authentication/etsi/"+claim.SemanticsIdentifier(), request)
	if err != nil {
		return nil, err
	}
	if status.Cert == nil {
		return nil, fmt.Errorf("%w: authentication response without certificate", types.ErrProviderInvalidResponse)
	}
	if !levelSatisfies(status.Cert.CertificateLevel, c.config.CertificateLevel) {
		return nil, fmt.Errorf("%w: Certificate Level Mismatch", types.ErrProviderInvalidResponse)
	}
	if status.Signature == nil {
		return nil, fmt.Errorf("%w: authentication response without signature", types.ErrProviderInvalidResponse)
	}
	certificate, err := parseCertificate(status.Cert.Value)
	if err != nil {
		return nil, err
	}
	if err := verifySignature(certificate, challenge, status.Signature.Value); err != nil {
		return nil, err
	}
	if err := c.verifyChain(certificate); err != nil {
		return nil, err
	}
	return identityFromCertificate(certificate, claim), nil
}

// StartSigning selects the signing certificate of the claimed person and returns the verification code
// of the hash. The signature itself is requested when the signing is completed.
func (c *Client) StartSigning(ctx context.Context, documentHash []byte, claim types.IdentityClaim) (types.SigningChallenge, error) {
	request := sessionRequest{
		RelyingPartyUUID: c.config.RelyingPartyUUID,
		RelyingPartyName: c.config.RelyingPartyName,
		CertificateLevel: c.config.CertificateLevel,
	}
	status, err := c.run(ctx, "/certificatechoice/etsi/"+claim.SemanticsIdentifier(), request)
	if err != nil {
		return types.SigningChallenge{}, err
	}
	if status.Result.DocumentNumber == "" {
		return types.SigningChallenge{}, fmt.Errorf("%w: certificate choice without document number", types.ErrProviderInvalidResponse)
	}
	return types.SigningChallenge{
		Challenge:        documentHash,
		VerificationCode: VerificationCode(documentHash),
		DocumentRef:      status.Result.DocumentNumber,
	}, nil
}

// CompleteSigning sends the signature request to the user's device and waits for the signature.
func (c *Client) CompleteSigning(ctx context.Context, challenge types.SigningChallenge) ([]byte, error) {
	request := c.request(challenge.Challenge, hashTypeSignature, c.config.SigningText)
	status, err := c.run(ctx, "/signature/document/"+challenge.DocumentRef, request)
	if err != nil {
		return nil, err
	}
	if status.Signature == nil {
		return nil, fmt.Errorf("%w: signature response without signature", types.ErrProviderInvalidResponse)
	}
	signature, err := base64.StdEncoding.DecodeString(status.Signature.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed signature: %v", types.ErrProviderInvalidResponse, err)
	}
	return signature, nil
}

func (c *Client) request(hash []byte, hashType, displayText string) sessionRequest {
	return sessionRequest{
		RelyingPartyUUID:         c.config.RelyingPartyUUID,
		RelyingPartyName:         c.config.RelyingPartyName,
		CertificateLevel:         c.config.CertificateLevel,
		Hash:                     base64.StdEncoding.EncodeToString(hash),
		HashType:                 hashType,
		AllowedInteractionsOrder: []interaction{{Type: interactionPIN, DisplayText60: displayText}},
	}
}

// run starts a session at path and polls it until it is complete.
func (c *Client) run(ctx context.Context, path string, request sessionRequest) (*sessionStatus, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	response := sessionResponse{}
	if err := c.do(ctx, http.MethodPost, path, body, &response); err != nil {
		return nil, err
	}
	if response.SessionID == "" {
		return nil, fmt.Errorf("%w: no session id", types.ErrProviderInvalidResponse)
	}

	pollPath := fmt.Sprintf("/session/%s?timeoutMs=%d", response.SessionID, c.config.PollTimeout.Milliseconds())
	for {
		status := sessionStatus{}
		if err := c.do(ctx, http.MethodGet, pollPath, nil, &status); err != nil {
			return nil, err
		}
		if status.State == stateComplete {
			if err := endResultError(status.Result.EndResult); err != nil {
				return nil, err
			}
			return &status, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, target interface{}) error {
	var rawBody interface{}
	if body != nil {
		rawBody = bytes.NewReader(body)
	}
	request, err := retryablehttp.NewRequest(method, strings.TrimSuffix(c.config.HostURL, "/")+path, rawBody)
	if err != nil {
		return err
	}
	request = request.WithContext(ctx)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", types.ErrProviderUnavailable, err)
	}
	defer response.Body.Close()

	if err := statusError(response.StatusCode); err != nil {
		return err
	}
	data, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrProviderUnavailable, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: SID internal error (Unprocessable Smart-ID response)", types.ErrProviderInvalidResponse)
	}
	return nil
}

func statusError(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: User account was not found", types.ErrProviderUnavailable)
	case status == 471 || status == 472:
		return fmt.Errorf("%w: User account is not usable", types.ErrProviderUnavailable)
	case status == statusMaintenance:
		return fmt.Errorf("%w: Server is under maintenance", types.ErrProviderUnavailable)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: relying party not authorized (status %d)", types.ErrProviderUnavailable, status)
	default:
		return fmt.Errorf("%w: unexpected status %d", types.ErrProviderUnavailable, status)
	}
}

func endResultError(endResult string) error {
	switch {
	case endResult == endResultOK:
		return nil
	case strings.HasPrefix(endResult, "USER_REFUSED"):
		return fmt.Errorf("%w: User refused", types.ErrProviderDeclined)
	case endResult == "WRONG_VC":
		return fmt.Errorf("%w: User selected wrong verification code", types.ErrProviderDeclined)
	case endResult == "TIMEOUT":
		return fmt.Errorf("%w: Session Timeout", types.ErrProviderTimeout)
	case endResult == "DOCUMENT_UNUSABLE":
		return fmt.Errorf("%w: Document Unusable", types.ErrProviderUnavailable)
	case endResult == "REQUIRED_INTERACTION_NOT_SUPPORTED_BY_APP":
		return fmt.Errorf("%w: Required interaction not supported by app", types.ErrProviderUnavailable)
	default:
		return fmt.Errorf("%w: SID internal error (Unprocessable Smart-ID response)", types.ErrProviderInvalidResponse)
	}
}

var certificateLevels = map[string]int{"ADVANCED": 1, "QUALIFIED": 2}

func levelSatisfies(actual, requested string) bool {
	return certificateLevels[actual] >= certificateLevels[requested]
}

// LoadTrustStore reads the PEM encoded certificates in path.
func LoadTrustStore(path string) (*x509.CertPool, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read trust store")
	}
	roots := x509.NewCertPool()
	if !roots.AppendCertsFromPEM(data) {
		return nil, errors.Errorf("no certificates in trust store %s", path)
	}
	return roots, nil
}

func parseCertificate(encoded string) (*x509.Certificate, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed certificate: %v", types.ErrProviderInvalidResponse, err)
	}
	certificate, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed certificate: %v", types.ErrProviderInvalidResponse, err)
	}
	return certificate, nil
}

// verifySignature checks the signature of the certificate over the SHA-512 hash.
func verifySignature(certificate *x509.Certificate, hash []byte, encoded string) error {
	signature, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: malformed signature: %v", types.ErrProviderInvalidResponse, err)
	}
	switch key := certificate.PublicKey.(type) {
	case *rsa.PublicKey:
		err = rsa.VerifyPKCS1v15(key, crypto.SHA512, hash, signature)
	case *ecdsa.PublicKey:
		if !ecdsa.VerifyASN1(key, hash, signature) {
			err = errors.New("verification failed")
		}
	default:
		err = fmt.Errorf("unsupported key type %T", key)
	}
	if err != nil {
		return fmt.Errorf("%w: invalid authentication signature: %v", types.ErrProviderInvalidResponse, err)
	}
	return nil
}

func (c *Client) verifyChain(certificate *x509.Certificate) error {
	if c.config.Roots == nil {
		return nil
	}
	_, err := certificate.Verify(x509.VerifyOptions{
		Roots:     c.config.Roots,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		return fmt.Errorf("%w: untrusted certificate: %v", types.ErrProviderInvalidResponse, err)
	}
	return nil
}

func identityFromCertificate(certificate *x509.Certificate, claim types.IdentityClaim) *types.ResolvedIdentity {
	identity := &types.ResolvedIdentity{Country: claim.Country}
	for _, name := range certificate.Subject.Names {
		value, _ := name.Value.(string)
		switch {
		case name.Type.Equal(oidGivenName):
			identity.GivenName = value
		case name.Type.Equal(oidSurname):
			identity.Surname = value
		case name.Type.Equal(oidSerialNumber):
			identity.ID = value
		}
	}
	if len(certificate.Subject.Country) > 0 {
		identity.Country = certificate.Subject.Country[0]
	}
	if identity.ID == "" {
		identity.ID = claim.SemanticsIdentifier()
	}
	identity.IdentityCode = identity.ID[strings.LastIndex(identity.ID, "-")+1:]
	return identity
}
