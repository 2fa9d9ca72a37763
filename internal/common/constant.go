package common

import "time"

// SessionCookieName is the http-only cookie carrying the session credential.
const SessionCookieName = "token"

// SessionCookieMaxAge is the lifetime of the session cookie (one year).
const SessionCookieMaxAge = 365 * 24 * time.Hour

// ResetTokenBytes is the number of random bytes in a password reset token
// before hex encoding (40 hex characters).
const ResetTokenBytes = 20

// ResetTokenValidity is how long an issued reset token may be redeemed.
const ResetTokenValidity = time.Hour
