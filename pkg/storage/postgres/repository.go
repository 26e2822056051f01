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

package postgres

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// registers the pgx5:// scheme
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Repository stores everything in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

var _ types.Repository = (*Repository)(nil)

// Connect migrates the database at url to the latest schema and returns a Repository using it.
func Connect(ctx context.Context, url string) (*Repository, error) {
	if err := Migrate(url); err != nil {
		return nil, err
	}
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Wrap(err, "invalid database url")
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create database pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "unable to reach database")
	}
	return &Repository{pool: pool}, nil
}

// Close closes all connections.
func (r *Repository) Close() {
	r.pool.Close()
}

// Migrate applies all pending migrations.
func Migrate(url string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "unable to load migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, migrationURL(url))
	if err != nil {
		return errors.Wrap(err, "unable to initialize migrations")
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "unable to migrate database")
	}
	version, _, _ := m.Version()
	logging.Log().Infof("database schema at version %d", version)
	return nil
}

// migrationURL rewrites a postgres url to the scheme of the pgx/v5 migrate driver.
func migrationURL(url string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(url, scheme) {
			return "pgx5://" + strings.TrimPrefix(url, scheme)
		}
	}
	return url
}

// mapError translates driver errors to the error taxonomy.
func mapError(err error, what, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", types.ErrNotFound, what, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s %s", types.ErrAlreadyExists, what, id)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s references unknown %s", types.ErrNotFound, what, pgErr.ConstraintName)
		}
	}
	return errors.Wrapf(err, "%s %s", what, id)
}

// exec runs a statement that must affect a row.
func (r *Repository) exec(ctx context.Context, what, id, sql string, args ...interface{}) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, what, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", types.ErrNotFound, what, id)
	}
	return nil
}

func (r *Repository) CreateUser(ctx context.Context, user types.User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, name, country, national_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Country, user.NationalID, user.CreatedAt)
	return mapError(err, "user", user.ID)
}

func (r *Repository) FindUser(ctx context.Context, id string) (*types.User, error) {
	user := types.User{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, country, national_id, created_at FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Name, &user.Country, &user.NationalID, &user.CreatedAt)
	if err != nil {
		return nil, mapError(err, "user", id)
	}
	return &user, nil
}

func (r *Repository) CreateDocument(ctx context.Context, document types.Document) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO documents (id, name, content, owner_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		document.ID, document.Name, document.Content, document.Owner, document.CreatedAt)
	return mapError(err, "document", document.ID)
}

func (r *Repository) FindDocument(ctx context.Context, id string) (*types.Document, error) {
	document := types.Document{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, content, owner_id, created_at FROM documents WHERE id = $1`, id).
		Scan(&document.ID, &document.Name, &document.Content, &document.Owner, &document.CreatedAt)
	if err != nil {
		return nil, mapError(err, "document", id)
	}
	return &document, nil
}

func (r *Repository) UpdateDocument(ctx context.Context, document types.Document) error {
	return r.exec(ctx, "document", document.ID, `UPDATE documents SET name = $2, content = $3 WHERE id = $1`,
		document.ID, document.Name, document.Content)
}

func (r *Repository) DeleteDocument(ctx context.Context, id string) error {
	return r.exec(ctx, "document", id, `DELETE FROM documents WHERE id = $1`, id)
}

func (r *Repository) DocumentsByOwner(ctx context.Context, owner string) ([]types.Document, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, content, owner_id, created_at FROM documents WHERE owner_id = $1 ORDER BY created_at`, owner)
	if err != nil {
		return nil, mapError(err, "documents of", owner)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.Document, error) {
		d := types.Document{}
		err := row.Scan(&d.ID, &d.Name, &d.Content, &d.Owner, &d.CreatedAt)
		return d, err
	})
}

func (r *Repository) CreateGroup(ctx context.Context, group types.Group) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO groups (id, name, owner_id, created_at) VALUES ($1, $2, $3, $4)`,
		group.ID, group.Name, group.Owner, group.CreatedAt)
	return mapError(err, "group", group.ID)
}

func (r *Repository) FindGroup(ctx context.Context, id string) (*types.Group, error) {
	group := types.Group{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, owner_id, created_at FROM groups WHERE id = $1`, id).
		Scan(&group.ID, &group.Name, &group.Owner, &group.CreatedAt)
	if err != nil {
		return nil, mapError(err, "group", id)
	}
	return &group, nil
}

func (r *Repository) DeleteGroup(ctx context.Context, id string) error {
	return r.exec(ctx, "group", id, `DELETE FROM groups WHERE id = $1`, id)
}

func (r *Repository) AddMember(ctx context.Context, membership types.GroupMembership) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO group_memberships (group_id, user_id, added_at) VALUES ($1, $2, $3)`,
		membership.GroupID, membership.UserID, membership.AddedAt)
	return mapError(err, "member", membership.UserID)
}

func (r *Repository) RemoveMember(ctx context.Context, groupID, userID string) error {
	return r.exec(ctx, "member", userID, `DELETE FROM group_memberships WHERE group_id = $1 AND user_id = $2`, groupID, userID)
}

func (r *Repository) memberships(ctx context.Context, column, value string) ([]types.GroupMembership, error) {
	rows, err := r.pool.Query(ctx, `SELECT group_id, user_id, added_at FROM group_memberships WHERE `+column+` = $1 ORDER BY added_at`, value)
	if err != nil {
		return nil, mapError(err, "memberships of", value)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.GroupMembership, error) {
		m := types.GroupMembership{}
		err := row.Scan(&m.GroupID, &m.UserID, &m.AddedAt)
		return m, err
	})
}

func (r *Repository) MembersOf(ctx context.Context, groupID string) ([]types.GroupMembership, error) {
	return r.memberships(ctx, "group_id", groupID)
}

func (r *Repository) MembershipsOf(ctx context.Context, userID string) ([]types.GroupMembership, error) {
	return r.memberships(ctx, "user_id", userID)
}

func (r *Repository) LinkDocument(ctx context.Context, link types.GroupDocumentLink) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO group_documents (group_id, document_id, added_by, added_at) VALUES ($1, $2, $3, $4)`,
		link.GroupID, link.DocumentID, link.AddedBy, link.AddedAt)
	return mapError(err, "link", link.DocumentID)
}

func (r *Repository) UnlinkDocument(ctx context.Context, groupID, documentID string) error {
	return r.exec(ctx, "link", documentID, `DELETE FROM group_documents WHERE group_id = $1 AND document_id = $2`, groupID, documentID)
}

func (r *Repository) links(ctx context.Context, column, value string) ([]types.GroupDocumentLink, error) {
	rows, err := r.pool.Query(ctx, `SELECT group_id, document_id, added_by, added_at FROM group_documents WHERE `+column+` = $1 ORDER BY added_at`, value)
	if err != nil {
		return nil, mapError(err, "links of", value)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.GroupDocumentLink, error) {
		l := types.GroupDocumentLink{}
		err := row.Scan(&l.GroupID, &l.DocumentID, &l.AddedBy, &l.AddedAt)
		return l, err
	})
}

func (r *Repository) LinksOfGroup(ctx context.Context, groupID string) ([]types.GroupDocumentLink, error) {
	return r.links(ctx, "group_id", groupID)
}

func (r *Repository) LinksOfDocument(ctx context.Context, documentID string) ([]types.GroupDocumentLink, error) {
	return r.links(ctx, "document_id", documentID)
}

func (r *Repository) CreateGrant(ctx context.Context, grant types.AccessGrant) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO access_grants (document_id, grantee_id, grantor_id, granted_at) VALUES ($1, $2, $3, $4)`,
		grant.DocumentID, grant.Grantee, grant.Grantor, grant.GrantedAt)
	return mapError(err, "grant", grant.Grantee)
}

func (r *Repository) DeleteGrant(ctx context.Context, documentID, grantee string) error {
	return r.exec(ctx, "grant", grantee, `DELETE FROM access_grants WHERE document_id = $1 AND grantee_id = $2`, documentID, grantee)
}

func (r *Repository) grants(ctx context.Context, column, value string) ([]types.AccessGrant, error) {
	rows, err := r.pool.Query(ctx, `SELECT document_id, grantee_id, grantor_id, granted_at FROM access_grants WHERE `+column+` = $1 ORDER BY granted_at`, value)
	if err != nil {
		return nil, mapError(err, "grants of", value)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.AccessGrant, error) {
		g := types.AccessGrant{}
		err := row.Scan(&g.DocumentID, &g.Grantee, &g.Grantor, &g.GrantedAt)
		return g, err
	})
}

func (r *Repository) GrantsOfDocument(ctx context.Context, documentID string) ([]types.AccessGrant, error) {
	return r.grants(ctx, "document_id", documentID)
}

func (r *Repository) GrantsOfUser(ctx context.Context, grantee string) ([]types.AccessGrant, error) {
	return r.grants(ctx, "grantee_id", grantee)
}

// SaveSignerRecord upserts the record. The signed flag never goes back to false.
func (r *Repository) SaveSignerRecord(ctx context.Context, record types.SignerRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO signer_records (document_id, signer_id, signer_order, signed, signed_at) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_id, signer_id) DO UPDATE SET
			signer_order = EXCLUDED.signer_order,
			signed = signer_records.signed OR EXCLUDED.signed,
			signed_at = COALESCE(signer_records.signed_at, EXCLUDED.signed_at)`,
		record.DocumentID, record.SignerID, record.Order, record.Signed, record.SignedAt)
	return mapError(err, "signer", record.SignerID)
}

func (r *Repository) SignerRecords(ctx context.Context, documentID string) ([]types.SignerRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT document_id, signer_id, signer_order, signed, signed_at FROM signer_records WHERE document_id = $1`, documentID)
	if err != nil {
		return nil, mapError(err, "signers of", documentID)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.SignerRecord, error) {
		s := types.SignerRecord{}
		err := row.Scan(&s.DocumentID, &s.SignerID, &s.Order, &s.Signed, &s.SignedAt)
		return s, err
	})
}

func (r *Repository) CreateNotification(ctx context.Context, notification types.Notification) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO notifications (id, recipient_id, text, is_read, created_at) VALUES ($1, $2, $3, $4, $5)`,
		notification.ID, notification.RecipientID, notification.Text, notification.IsRead, notification.CreatedAt)
	return mapError(err, "notification", notification.ID)
}

func (r *Repository) FindNotification(ctx context.Context, id string) (*types.Notification, error) {
	n := types.Notification{}
	err := r.pool.QueryRow(ctx, `SELECT id, recipient_id, text, is_read, created_at FROM notifications WHERE id = $1`, id).
		Scan(&n.ID, &n.RecipientID, &n.Text, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, mapError(err, "notification", id)
	}
	return &n, nil
}

func (r *Repository) NotificationsOf(ctx context.Context, recipientID string) ([]types.Notification, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, recipient_id, text, is_read, created_at FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC`, recipientID)
	if err != nil {
		return nil, mapError(err, "notifications of", recipientID)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.Notification, error) {
		n := types.Notification{}
		err := row.Scan(&n.ID, &n.RecipientID, &n.Text, &n.IsRead, &n.CreatedAt)
		return n, err
	})
}

func (r *Repository) SetNotificationRead(ctx context.Context, id string, read bool) error {
	return r.exec(ctx, "notification", id, `UPDATE notifications SET is_read = $2 WHERE id = $1`, id, read)
}

func (r *Repository) CreateProblemReport(ctx context.Context, report types.ProblemReport) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO problem_reports (id, reporter_id, text, created_at) VALUES ($1, $2, $3, $4)`,
		report.ID, report.ReporterID, report.Text, report.CreatedAt)
	return mapError(err, "problem report", report.ID)
}

func (r *Repository) ProblemReportsBy(ctx context.Context, reporterID string) ([]types.ProblemReport, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, reporter_id, text, created_at FROM problem_reports WHERE reporter_id = $1 ORDER BY created_at`, reporterID)
	if err != nil {
		return nil, mapError(err, "problem reports of", reporterID)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.ProblemReport, error) {
		p := types.ProblemReport{}
		err := row.Scan(&p.ID, &p.ReporterID, &p.Text, &p.CreatedAt)
		return p, err
	})
}
