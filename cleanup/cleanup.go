// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cleanup

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/danielhkuo/quizhost/cliparse"
	"github.com/danielhkuo/quizhost/models"
)

// Sweeper is the part of lobby.Service the cleanup command drives
type Sweeper interface {
	StaleCandidates(ctx context.Context, inactivity time.Duration) ([]models.StaleCandidate, error)
	Cleanup(ctx context.Context, inactivity time.Duration) (int64, error)
}

var (
	heading = color.New(color.FgCyan)
	warn    = color.New(color.FgYellow)
	success = color.New(color.FgGreen)
)

// Run marks waiting candidates without a heartbeat for cfg.InactivityTimeout
// as no longer waiting and reports what it did to w. With cfg.DryRun set it
// only reports. It returns the number of entries affected (or that would be).
func Run(ctx context.Context, w io.Writer, svc Sweeper, cfg cliparse.CleanupConfig) (int64, error) {
	stale, err := svc.StaleCandidates(ctx, cfg.InactivityTimeout)
	if err != nil {
		return 0, fmt.Errorf("failed to list inactive candidates: %w", err)
	}

	heading.Fprintf(w, "\nInactive waiting candidates (no heartbeat for %s)\n", cfg.InactivityTimeout)

	if len(stale) == 0 {
		success.Fprintln(w, "No inactive candidates found.")
		return 0, nil
	}

	writeTable(w, stale, time.Now())

	if cfg.DryRun {
		warn.Fprintf(w, "Dry run: would mark %d candidate(s) as not waiting.\n", len(stale))
		return int64(len(stale)), nil
	}

	n, err := svc.Cleanup(ctx, cfg.InactivityTimeout)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up candidates: %w", err)
	}

	success.Fprintf(w, "Marked %d candidate(s) as not waiting.\n", n)
	return n, nil
}

func writeTable(w io.Writer, stale []models.StaleCandidate, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Event", "Round", "Candidate", "Last Active", "Idle"})

	for _, c := range stale {
		table.Append([]string{
			c.EventName,
			strconv.Itoa(c.RoundNumber),
			c.CandidateName,
			c.LastActive.Format(time.DateTime),
			now.Sub(c.LastActive).Round(time.Second).String(),
		})
	}

	table.Render()
}
