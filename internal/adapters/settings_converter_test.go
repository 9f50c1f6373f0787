package adapters

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depman/internal/ports"
	"depman/internal/types"
)

func TestSettingsConverterModes(t *testing.T) {
	resolvers := []ports.ResolverPort{
		NewFileResolverAdapter("local", t.TempDir(), ""),
		NewFileResolverAdapter("debs", t.TempDir(), types.VersionSchemeDebian),
	}
	converter := NewSettingsConverterAdapter("/cache", true, []types.ChecksumAlgorithm{types.ChecksumSHA256})

	resolve := converter.ConvertForResolve(resolvers)
	assert.Equal(t, types.EngineModeResolve, resolve.Mode)
	assert.Equal(t, []string{"local", "debs"}, resolve.ResolverNames)
	assert.Equal(t, "/cache", resolve.CacheDir)
	assert.False(t, resolve.Overwrite)
	assert.Empty(t, resolve.Checksums)
	assert.Equal(t, types.VersionSchemeDebian, resolve.VersionScheme("debs"))
	assert.Equal(t, types.VersionSchemeSemver, resolve.VersionScheme("unknown"))

	publish := converter.ConvertForPublish(resolvers)
	assert.Equal(t, types.EngineModePublish, publish.Mode)
	assert.Empty(t, publish.CacheDir)
	assert.True(t, publish.Overwrite)
	assert.Equal(t, []types.ChecksumAlgorithm{types.ChecksumSHA256}, publish.Checksums)
	assert.Equal(t, types.DefaultDependencyConfiguration, publish.DefaultDependencyConfiguration)
}

func TestSettingsConverterBuildsFreshSettings(t *testing.T) {
	converter := NewSettingsConverterAdapter("", false, []types.ChecksumAlgorithm{types.ChecksumSHA1})
	first := converter.ConvertForPublish(nil)
	first.Checksums[0] = types.ChecksumMD5
	first.ResolverNames = append(first.ResolverNames, "mutated")

	second := converter.ConvertForPublish(nil)
	assert.Equal(t, []types.ChecksumAlgorithm{types.ChecksumSHA1}, second.Checksums)
	assert.Empty(t, second.ResolverNames)
}

func TestParseChecksums(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []types.ChecksumAlgorithm
		code   errbuilder.ErrCode
	}{
		{name: "empty", values: nil, want: nil},
		{name: "normalized", values: []string{" SHA1", "md5", "sha1", ""}, want: []types.ChecksumAlgorithm{types.ChecksumSHA1, types.ChecksumMD5}},
		{name: "unsupported", values: []string{"crc32"}, code: errbuilder.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChecksums(tt.values)
			if tt.code != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.code, errbuilder.CodeOf(err))
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("checksums mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
