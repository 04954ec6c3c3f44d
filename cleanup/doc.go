// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cleanup implements the one-shot waiting room cleanup command.

	quizhost cleanup -d quizhost.db --inactivity-timeout 60s --dry-run

Candidates still marked as waiting in a round that has not started, with no
heartbeat for the inactivity timeout, are marked as no longer waiting. The
affected entries are printed as a table first; --dry-run stops there.

The server runs the same sweep periodically, so the command is only needed
when the background sweeper is disabled.
*/
package cleanup
