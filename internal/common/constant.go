// Package common contains shared constants and sentinel errors used across
// storefront components.
package common

// SessionCookieName is the cookie carrying the signed admin session token.
const SessionCookieName = "session_token"

// IdempotencyKeyHeaderName is the optional request header clients use to make
// checkout retries safe.
const IdempotencyKeyHeaderName = "Idempotency-Key"

// RoleAdmin is the only role a User may hold.
const RoleAdmin = "admin"

// EnvironmentProduction disables cause strings in error responses.
const EnvironmentProduction = "production"
