// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides access code, record ID, and organizer key utilities.

# Access Codes

A round's access code is the shared secret candidates type to join the
waiting room. It is 6 characters drawn from A-Z and 0-9 using crypto/rand:

	code, err := auth.GenerateAccessCode()

Codes are regenerated every time hosting starts. No uniqueness check is made
across rounds; with 36^6 possible codes collisions are accepted as negligible.

Candidate input is normalized before lookup:

	code := auth.NormalizeAccessCode(" ab12cd ") // "AB12CD"

# Organizer Key

Organizer routes are gated by a single key supplied through configuration
(ORGANIZER_KEY). Keys are compared in constant time:

	err := auth.ValidateOrganizerKey(r.Header.Get("X-Organizer-Key"), cfg.OrganizerKey)

# ID Generation

Records use random UUIDs:

	id := auth.NewID()
	id, err := auth.ParseID(r.PathValue("id")) // rejects malformed IDs
*/
package auth
