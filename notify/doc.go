// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers organizer notifications.

Telegram implements lobby.Notifier by posting to the Bot API sendMessage
method:

	POST {api}/bot{token}/sendMessage
	{"chat_id": "...", "text": "..."}

Notifications are best effort. The caller bounds each call with a context
deadline and only logs failures.
*/
package notify
