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

package reports

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-cosign/pkg/storage/memory"
)

func TestDesk_Report(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	t.Run("ok", func(t *testing.T) {
		repository := memory.NewRepository()
		desk := Desk{Reports: repository}

		report, err := desk.Report(ctx, "PNOEE-30303039914", "  code was not shown  ")

		require.NoError(t, err)
		assert.Equal(t, "code was not shown", report.Text)
		assert.Equal(t, now, report.CreatedAt)
		stored, err := repository.ProblemReportsBy(ctx, "PNOEE-30303039914")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, report.ID, stored[0].ID)
	})

	t.Run("error - empty", func(t *testing.T) {
		_, err := Desk{Reports: memory.NewRepository()}.Report(ctx, "a", " \n")
		assert.True(t, errors.Is(err, ErrInvalidReport))
	})

	t.Run("error - too long", func(t *testing.T) {
		_, err := Desk{Reports: memory.NewRepository()}.Report(ctx, "a", strings.Repeat("x", MaxTextLength+1))
		assert.True(t, errors.Is(err, ErrInvalidReport))
	})
}
