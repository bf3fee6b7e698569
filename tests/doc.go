// Package tests runs the keywords against real browsers.
//
// The tests need the playwright driver and browsers installed (playbot
// install) and only run when PLAYBOT_E2E is set. PLAYBOT_E2E_BROWSERS is a
// comma separated list of the backends to test, chromium by default.
package tests
