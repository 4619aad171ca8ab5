package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool { return &v }

func TestModuleOptions_Merged(t *testing.T) {
	tests := []struct {
		name   string
		module ModuleOptions
		global GlobalOptions
		want   ModuleOptions
	}{
		{
			name:   "empty global leaves module options untouched",
			module: ModuleOptions{MaxThreads: 4, Diagnostics: true},
			global: GlobalOptions{},
			want:   ModuleOptions{MaxThreads: 4, Diagnostics: true},
		},
		{
			name:   "diagnostics flags are OR-combined",
			module: ModuleOptions{Diagnostics: false, InternalDiagnostics: true},
			global: GlobalOptions{Diagnostics: true, InternalDiagnostics: false},
			want:   ModuleOptions{Diagnostics: true, InternalDiagnostics: true},
		},
		{
			name:   "global parallel override replaces module opt-out",
			module: ModuleOptions{ParallelizeModule: boolPtr(false)},
			global: GlobalOptions{Parallel: boolPtr(true)},
			want:   ModuleOptions{ParallelizeModule: boolPtr(true)},
		},
		{
			name:   "unset global parallel keeps module choice",
			module: ModuleOptions{ParallelizeModule: boolPtr(false)},
			global: GlobalOptions{},
			want:   ModuleOptions{ParallelizeModule: boolPtr(false)},
		},
		{
			name:   "global max threads replaces module value",
			module: ModuleOptions{MaxThreads: 4},
			global: GlobalOptions{MaxThreads: 8},
			want:   ModuleOptions{MaxThreads: 8},
		},
		{
			name:   "global long-running threshold replaces module value",
			module: ModuleOptions{LongRunning: time.Minute},
			global: GlobalOptions{LongRunning: 30 * time.Second},
			want:   ModuleOptions{LongRunning: 30 * time.Second},
		},
		{
			name:   "stop-on-fail and serialize are OR-combined",
			module: ModuleOptions{StopOnFail: true},
			global: GlobalOptions{SerializeTokens: true},
			want:   ModuleOptions{StopOnFail: true, SerializeTokens: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.module.Merged(tt.global)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModuleOptions_MergedIsIdempotent(t *testing.T) {
	module := ModuleOptions{MaxThreads: 4, Diagnostics: true, ParallelizeModule: boolPtr(false)}
	global := GlobalOptions{Parallel: boolPtr(true), MaxThreads: 8, StopOnFail: true}

	once := module.Merged(global)
	twice := once.Merged(global)
	assert.Equal(t, once, twice)
}

func TestModuleOptions_WantsParallel(t *testing.T) {
	assert.True(t, ModuleOptions{}.WantsParallel(), "unset should default to parallel")
	assert.True(t, ModuleOptions{ParallelizeModule: boolPtr(true)}.WantsParallel())
	assert.False(t, ModuleOptions{ParallelizeModule: boolPtr(false)}.WantsParallel())
}

func TestSummary_Valid(t *testing.T) {
	assert.True(t, Summary{Total: 5, Failed: 2, Skipped: 2, Errored: 1}.Valid())
	assert.True(t, Summary{}.Valid())
	assert.False(t, Summary{Total: 2, Failed: 2, Skipped: 1}.Valid())
}

func TestSummary_FailedAndErrored(t *testing.T) {
	s := Summary{Total: 10, Failed: 3, Skipped: 2, Errored: 1}
	assert.Equal(t, 4, s.FailedAndErrored())
}
