// Package version reports the zipsync version and build metadata.
//
// Values injected at build time take precedence:
//
//	-ldflags "-X github.com/dendrascience/zipsync/version.Version=v1.0.0 -X github.com/dendrascience/zipsync/version.Commit=abc123 -X github.com/dendrascience/zipsync/version.Date=2026-01-01T00:00:00Z"
//
// Without them the module version and VCS settings recorded by the go
// command are used, and development builds report "development". Get
// returns the resolved Info; its String method is what --version prints.
package version
