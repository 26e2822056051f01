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
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nuts-foundation/nuts-cosign/logging"
	"github.com/nuts-foundation/nuts-cosign/pkg/types"
)

// MaxTextLength is the maximum number of characters of a report.
const MaxTextLength = 4000

// ErrInvalidReport is returned when a report is empty or too long.
var ErrInvalidReport = errors.New("invalid problem report")

// NowFunc is used to store a function that returns the current time. This can be changed when you want to mock the current time.
var NowFunc = time.Now

// Desk stores problem reports of users.
type Desk struct {
	Reports types.ProblemReportStore
}

// Report stores the problem description of the reporter.
func (d Desk) Report(ctx context.Context, reporterID, text string) (*types.ProblemReport, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrInvalidReport)
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, fmt.Errorf("%w: more than %d characters", ErrInvalidReport, MaxTextLength)
	}
	report := types.ProblemReport{
		ID:         uuid.New().String(),
		ReporterID: reporterID,
		Text:       text,
		CreatedAt:  NowFunc(),
	}
	if err := d.Reports.CreateProblemReport(ctx, report); err != nil {
		return nil, err
	}
	logging.Log().Infof("problem report %s received from %s", report.ID, reporterID)
	return &report, nil
}
