package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "full",
			info: Info{Version: "v1.2.3", Commit: "0123456789abcdef", Date: "2026-01-01T00:00:00Z"},
			want: "v1.2.3 (0123456, built 2026-01-01T00:00:00Z)",
		},
		{
			name: "no date",
			info: Info{Version: "v1.2.3", Commit: "0123456789abcdef", Date: unknown},
			want: "v1.2.3 (0123456)",
		},
		{
			name: "dirty",
			info: Info{Version: "v1.2.3", Commit: "0123456789abcdef", Date: unknown, Modified: true},
			want: "v1.2.3 (0123456+dirty)",
		},
		{
			name: "short commit",
			info: Info{Version: "v1.2.3", Commit: "abc", Date: "2026-01-01T00:00:00Z"},
			want: "v1.2.3",
		},
		{
			name: "unknown commit",
			info: Info{Version: "development", Commit: unknown, Date: unknown},
			want: "development",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestInfo_Fill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2026-02-02T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	var i Info
	i.fill(bi)
	assert.Equal(t, Info{Version: "v0.4.0", Commit: "fedcba9876543210", Date: "2026-02-02T00:00:00Z", Modified: true}, i)

	stamped := Info{Version: "v9.9.9", Commit: "1111111111", Date: "then"}
	stamped.fill(bi)
	assert.Equal(t, "v9.9.9", stamped.Version)
	assert.Equal(t, "1111111111", stamped.Commit)
	assert.Equal(t, "then", stamped.Date)

	devel := Info{}
	devel.fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Empty(t, devel.Version)
}

func TestGet_Ldflags(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = "v1.0.0", "abcdef0123456", "2026-03-03T00:00:00Z"

	info := Get()
	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "abcdef0123456", info.Commit)
	assert.Equal(t, "2026-03-03T00:00:00Z", info.Date)
}

func TestGet_Fallbacks(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.Date)
}
