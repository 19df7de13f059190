package application

import "expvar"

// Counters published on /api/debug/vars.
var (
	registrations    = expvar.NewInt("auth_registrations")
	logins           = expvar.NewInt("auth_logins")
	loginFailures    = expvar.NewInt("auth_login_failures")
	profileUpserts   = expvar.NewInt("profile_upserts")
	accountDeletions = expvar.NewInt("account_deletions")
)
