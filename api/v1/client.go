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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-cosign/logging"
)

// HttpClient talks to a remote co-sign server.
type HttpClient struct {
	ServerAddress string
	Timeout       time.Duration
	// Token is sent as bearer token when set
	Token string
}

func (c HttpClient) client() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = logging.Log()
	client.RetryMax = 2
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if c.Timeout > 0 {
		client.HTTPClient.Timeout = c.Timeout
	}
	return client
}

func (c HttpClient) url(path string) string {
	address := c.ServerAddress
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		address = "http://" + address
	}
	return strings.TrimSuffix(address, "/") + path
}

// StartAuthentication starts authenticating the given identity in a new context.
func (c HttpClient) StartAuthentication(ctx context.Context, country, nationalID string) (*SessionStarted, error) {
	result := new(SessionStarted)
	err := c.do(ctx, http.MethodPost, "/v1/auth/session", "", AuthenticationRequest{Country: country, NationalId: nationalID}, http.StatusCreated, result)
	return result, err
}

// ConfirmAuthentication waits for the user to confirm the authentication of the context.
func (c HttpClient) ConfirmAuthentication(ctx context.Context, contextID string) (*AuthenticationResult, error) {
	result := new(AuthenticationResult)
	err := c.do(ctx, http.MethodPost, "/v1/auth/session/confirm", contextID, nil, http.StatusOK, result)
	return result, err
}

// StartSigning starts signing the given documents, the client must carry a token.
func (c HttpClient) StartSigning(ctx context.Context, documentIDs []string) (*SessionStarted, error) {
	result := new(SessionStarted)
	err := c.do(ctx, http.MethodPost, "/v1/sign/session", "", SigningRequest{DocumentIds: documentIDs}, http.StatusCreated, result)
	return result, err
}

// ConfirmSigning waits for the user to confirm the signature.
func (c HttpClient) ConfirmSigning(ctx context.Context) (*SigningResult, error) {
	result := new(SigningResult)
	err := c.do(ctx, http.MethodPost, "/v1/sign/session/confirm", "", nil, http.StatusOK, result)
	return result, err
}

func (c HttpClient) do(ctx context.Context, method, path, contextID string, body interface{}, expected int, target interface{}) error {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return err
		}
	}
	request, err := retryablehttp.NewRequest(method, c.url(path), bytes.NewReader(data))
	if err != nil {
		return err
	}
	request = request.WithContext(ctx)
	request.Header.Set("Content-Type", "application/json")
	if contextID != "" {
		request.Header.Set(ContextIDHeader, contextID)
	}
	if c.Token != "" {
		request.Header.Set("Authorization", "Bearer "+c.Token)
	}

	response, err := c.client().Do(request)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", path)
	}
	defer response.Body.Close()
	responseData, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return err
	}
	if response.StatusCode != expected {
		return fmt.Errorf("server returned HTTP %d (expected: %d), response: %s", response.StatusCode, expected, string(responseData))
	}
	return json.Unmarshal(responseData, target)
}
