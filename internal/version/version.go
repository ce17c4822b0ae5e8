// Package version provides centralized version information for the thinkmap
// monorepo. The thinkmapd server and the thinkmapctl client are versioned
// independently so the authoring client can ship without a server release.
// All versions follow semantic versioning (semver) conventions.

package version

// ThinkmapdVersion holds the current thinkmapd server version.
// Format: major.minor.patch[-prerelease][+build]
const ThinkmapdVersion = "0.1.0-dev"

// ThinkmapctlVersion holds the current thinkmapctl client version.
// Sent in the User-Agent header of every API request.
// Format: major.minor.patch[-prerelease][+build]
const ThinkmapctlVersion = "0.1.0-dev"
