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
	"context"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg"
	"github.com/nuts-foundation/nuts-cosign/pkg/ledger"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/documents"
	"github.com/nuts-foundation/nuts-cosign/pkg/services/reports"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// ContextIDHeader carries the id of the client context sessions are kept in
const ContextIDHeader = "X-Context-Id"

const uploadField = "file"

// Wrapper bridges the http handlers and the co-sign engine.
type Wrapper struct {
	Sign pkg.SignClient
}

var _ ServerInterface = (*Wrapper)(nil)

func (w Wrapper) tokens() TokenIssuer {
	return TokenIssuer{Secret: w.Sign.TokenSecret(), Validity: w.Sign.Config().TokenValidity}
}

func (w Wrapper) principal(ctx echo.Context) (*Principal, error) {
	principal, err := w.tokens().FromHeader(ctx.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		logging.Log().WithError(err).Debug("rejected request")
		return nil, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return principal, nil
}

// StartAuthentication starts an authentication session in the context given by the X-Context-Id header.
// A new context is created when the header is absent.
func (w Wrapper) StartAuthentication(ctx echo.Context, params StartAuthenticationParams) error {
	request := new(AuthenticationRequest)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	claim, err := types.NewIdentityClaim(request.Country, request.NationalId)
	if err != nil {
		return httpError(err)
	}
	contextID := uuid.New().String()
	if params.XContextId != nil && *params.XContextId != "" {
		contextID = *params.XContextId
	}

	code, err := w.Sign.Orchestrator().RequestAuthentication(ctx.Request().Context(), contextID, claim)
	if err != nil {
		return httpError(err)
	}
	ctx.Response().Header().Set(ContextIDHeader, contextID)
	return ctx.JSON(http.StatusCreated, SessionStarted{ContextId: contextID, VerificationCode: code})
}

// ConfirmAuthentication blocks until the user confirmed the authentication and returns a bearer token bound to the context.
func (w Wrapper) ConfirmAuthentication(ctx echo.Context, params ConfirmAuthenticationParams) error {
	if params.XContextId == nil || *params.XContextId == "" {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("missing %s header", ContextIDHeader))
	}
	contextID := *params.XContextId

	result, err := w.Sign.Orchestrator().ConfirmAuthentication(ctx.Request().Context(), contextID)
	if err != nil {
		return httpError(err)
	}
	if !result.Authenticated {
		return echo.NewHTTPError(statusOf(result.Kind), result.Message)
	}
	token, err := w.tokens().Issue(Principal{UserID: result.User.ID, ContextID: contextID})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, AuthenticationResult{Message: result.Message, Token: token, User: toUser(*result.User)})
}

// StartSigning starts a signing session for the given documents.
func (w Wrapper) StartSigning(ctx echo.Context) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	request := new(SigningRequest)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	code, err := w.Sign.Orchestrator().RequestSignature(ctx.Request().Context(), principal.ContextID, principal.UserID, request.DocumentIds)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, SessionStarted{ContextId: principal.ContextID, VerificationCode: code})
}

// ConfirmSigning blocks until the user confirmed the signature and returns the signed document.
func (w Wrapper) ConfirmSigning(ctx echo.Context) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	result, err := w.Sign.Orchestrator().ConfirmSignature(ctx.Request().Context(), principal.ContextID, principal.UserID)
	if err != nil {
		return httpError(err)
	}
	if !result.Signed {
		return echo.NewHTTPError(statusOf(result.Kind), result.Message)
	}
	return ctx.JSON(http.StatusOK, SigningResult{
		Message:       result.Message,
		DocumentId:    result.DocumentID,
		SignedAt:      result.SignedAt,
		AlreadySigned: result.AlreadySigned,
	})
}

func (w Wrapper) ListOwnedDocuments(ctx echo.Context) error {
	return w.listDocuments(ctx, w.Sign.Documents().Owned)
}

func (w Wrapper) ListSharedDocuments(ctx echo.Context) error {
	return w.listDocuments(ctx, w.Sign.Documents().SharedWith)
}

func (w Wrapper) listDocuments(ctx echo.Context, list func(ctx context.Context, user string) ([]types.Document, error)) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	documents, err := list(ctx.Request().Context(), principal.UserID)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, toDocuments(documents))
}

// UploadDocument stores the multipart file of the request as a new document.
func (w Wrapper) UploadDocument(ctx echo.Context) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	name, content, err := readUpload(ctx)
	if err != nil {
		return err
	}
	document, err := w.Sign.Documents().Upload(ctx.Request().Context(), principal.UserID, name, content)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, toDocument(*document))
}

func (w Wrapper) GetDocument(ctx echo.Context, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	document, err := w.Sign.Documents().Document(ctx.Request().Context(), principal.UserID, id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, toDocument(*document))
}

func (w Wrapper) DeleteDocument(ctx echo.Context, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	if err := w.Sign.Documents().Delete(ctx.Request().Context(), principal.UserID, id); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetDocumentContent returns the raw content as attachment.
func (w Wrapper) GetDocumentContent(ctx echo.Context, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	document, err := w.Sign.Documents().Document(ctx.Request().Context(), principal.UserID, id)
	if err != nil {
		return httpError(err)
	}
	contentType := echo.MIMEOctetStream
	if document.IsContainer() {
		contentType = "application/vnd.etsi.asic-e+zip"
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", document.Name))
	return ctx.Blob(http.StatusOK, contentType, document.Content)
}

func (w Wrapper) ListShares(ctx echo.Context, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	grants, err := w.Sign.Documents().Grants(ctx.Request().Context(), principal.UserID, id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, toShares(grants))
}

// ShareDocument gives every user in the request read access. It stops at the first failure.
func (w Wrapper) ShareDocument(ctx echo.Context, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	request := new(UserIds)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	var grants []types.AccessGrant
	for _, grantee := range request.UserIds {
		grant, err := w.Sign.Documents().Share(ctx.Request().Context(), principal.UserID, id, grantee)
		if err != nil {
			return httpError(err)
		}
		grants = append(grants, *grant)
	}
	return ctx.JSON(http.StatusCreated, toShares(grants))
}

func (w Wrapper) RevokeShare(ctx echo.Context, id string, userId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	if err := w.Sign.Documents().Revoke(ctx.Request().Context(), principal.UserID, id, userId); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (w Wrapper) GetNextSigner(ctx echo.Context, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	next, err := w.Sign.Documents().NextSigner(ctx.Request().Context(), principal.UserID, id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, NextSigner{UserId: next})
}

func (w Wrapper) ListGroups(ctx echo.Context) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	groups, err := w.Sign.Documents().Groups(ctx.Request().Context(), principal.UserID)
	if err != nil {
		return httpError(err)
	}
	answer := make([]Group, 0, len(groups))
	for _, g := range groups {
		answer = append(answer, toGroup(g))
	}
	return ctx.JSON(http.StatusOK, answer)
}

func (w Wrapper) CreateGroup(ctx echo.Context) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	request := new(GroupRequest)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	group, err := w.Sign.Documents().CreateGroup(ctx.Request().Context(), principal.UserID, request.Name)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, toGroup(*group))
}

func (w Wrapper) DeleteGroup(ctx echo.Context, groupId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	if err := w.Sign.Documents().DeleteGroup(ctx.Request().Context(), principal.UserID, groupId); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (w Wrapper) ListMembers(ctx echo.Context, groupId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	members, err := w.Sign.Documents().Members(ctx.Request().Context(), principal.UserID, groupId)
	if err != nil {
		return httpError(err)
	}
	answer := make([]Member, 0, len(members))
	for _, m := range members {
		answer = append(answer, Member{UserId: m.UserID, AddedAt: m.AddedAt})
	}
	return ctx.JSON(http.StatusOK, answer)
}

func (w Wrapper) AddMembers(ctx echo.Context, groupId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	request := new(UserIds)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	if err := w.Sign.Documents().AddMembers(ctx.Request().Context(), principal.UserID, groupId, request.UserIds); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (w Wrapper) RemoveMember(ctx echo.Context, groupId string, userId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	if err := w.Sign.Documents().RemoveMembers(ctx.Request().Context(), principal.UserID, groupId, []string{userId}); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (w Wrapper) LeaveGroup(ctx echo.Context, groupId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	if err := w.Sign.Documents().Leave(ctx.Request().Context(), principal.UserID, groupId); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (w Wrapper) ListGroupDocuments(ctx echo.Context, groupId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	documents, err := w.Sign.Documents().GroupDocuments(ctx.Request().Context(), principal.UserID, groupId)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, toDocuments(documents))
}

func (w Wrapper) AddGroupDocuments(ctx echo.Context, groupId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	request := new(DocumentIds)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	if err := w.Sign.Documents().AddDocuments(ctx.Request().Context(), principal.UserID, groupId, request.DocumentIds); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (w Wrapper) UploadGroupDocument(ctx echo.Context, groupId string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	name, content, err := readUpload(ctx)
	if err != nil {
		return err
	}
	document, err := w.Sign.Documents().UploadToGroup(ctx.Request().Context(), principal.UserID, groupId, name, content)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, toDocument(*document))
}

func (w Wrapper) RemoveGroupDocument(ctx echo.Context, groupId string, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	if err := w.Sign.Documents().RemoveDocument(ctx.Request().Context(), principal.UserID, groupId, id); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AssignSigners assigns the signers in the request and returns all signer records of the document.
func (w Wrapper) AssignSigners(ctx echo.Context, groupId string, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	request := new(SignersRequest)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	assignments := make([]documents.Assignment, 0, len(request.Signers))
	for _, s := range request.Signers {
		assignments = append(assignments, documents.Assignment{UserID: s.UserId, Order: s.Order})
	}
	snapshot, err := w.Sign.Documents().AssignSigners(ctx.Request().Context(), principal.UserID, groupId, id, assignments)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, toSignerRecords(snapshot))
}

func (w Wrapper) ListSignatures(ctx echo.Context, groupId string, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	snapshot, err := w.Sign.Documents().Signatures(ctx.Request().Context(), principal.UserID, groupId, id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, toSignerRecords(snapshot))
}

func (w Wrapper) ListNotifications(ctx echo.Context) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	notifications, err := w.Sign.Inbox().List(ctx.Request().Context(), principal.UserID)
	if err != nil {
		return httpError(err)
	}
	answer := make([]Notification, 0, len(notifications))
	for _, n := range notifications {
		answer = append(answer, Notification{Id: n.ID, Text: n.Text, Read: n.IsRead, CreatedAt: n.CreatedAt})
	}
	return ctx.JSON(http.StatusOK, answer)
}

func (w Wrapper) MarkNotification(ctx echo.Context, id string) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	request := new(NotificationUpdate)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	if err := w.Sign.Inbox().MarkRead(ctx.Request().Context(), principal.UserID, id, request.Read); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetUser returns a registered user, e.g. to check who a document is shared with.
func (w Wrapper) GetUser(ctx echo.Context, userId string) error {
	if _, err := w.principal(ctx); err != nil {
		return err
	}
	user, err := w.Sign.Users().FindUser(ctx.Request().Context(), userId)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, toUser(*user))
}

func (w Wrapper) ReportProblem(ctx echo.Context) error {
	principal, err := w.principal(ctx)
	if err != nil {
		return err
	}
	request := new(ProblemReportRequest)
	if err := ctx.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Could not parse request body: %s", err))
	}
	report, err := w.Sign.Reports().Report(ctx.Request().Context(), principal.UserID, request.Text)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, ProblemReport{Id: report.ID, Text: report.Text, CreatedAt: report.CreatedAt})
}

func readUpload(ctx echo.Context) (string, []byte, error) {
	header, err := ctx.FormFile(uploadField)
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("missing %s: %s", uploadField, err))
	}
	file, err := header.Open()
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to open upload")
	}
	defer file.Close()
	content, err := ioutil.ReadAll(file)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to read upload")
	}
	return header.Filename, content, nil
}

// statusOf maps an error kind to the http status code
func statusOf(kind types.Kind) int {
	switch kind {
	case types.KindOf(types.ErrNotFound):
		return http.StatusNotFound
	case types.KindOf(types.ErrForbidden):
		return http.StatusForbidden
	case types.KindOf(types.ErrAlreadyExists), types.KindOf(types.ErrNotAssigned),
		types.KindOf(types.ErrOrderNotReady), types.KindOf(types.ErrNoActiveSession), types.KindOf(types.ErrConflict):
		return http.StatusConflict
	case types.KindOf(types.ErrInvalidClaim):
		return http.StatusBadRequest
	case types.KindOf(types.ErrTimeout):
		return http.StatusGatewayTimeout
	case types.KindOf(types.ErrProviderDeclined), types.KindOf(types.ErrProviderTimeout),
		types.KindOf(types.ErrProviderUnavailable), types.KindOf(types.ErrProviderInvalidResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// httpError converts engine errors to echo http errors, unknown errors are passed on as is
func httpError(err error) error {
	switch {
	case errors.Is(err, documents.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, documents.ErrInvalidName), errors.Is(err, ledger.ErrInvalidOrder), errors.Is(err, reports.ErrInvalidReport):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrAllSigned):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	status := statusOf(types.KindOf(err))
	if status == http.StatusInternalServerError {
		logging.Log().WithError(err).Error("request failed")
		return err
	}
	return echo.NewHTTPError(status, err.Error())
}
