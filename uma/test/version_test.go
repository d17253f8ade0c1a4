package uma_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
)

func TestParseVersion(t *testing.T) {
	version, err := uma.ParseVersion("1.0")
	require.NoError(t, err)
	require.Equal(t, 1, version.Major)
	require.Equal(t, 0, version.Minor)
	require.Equal(t, "1.0", version.String())

	version, err = uma.ParseVersion("10.123")
	require.NoError(t, err)
	require.Equal(t, 10, version.Major)
	require.Equal(t, 123, version.Minor)
}

func TestParseVersionRejectsMalformed(t *testing.T) {
	for _, malformed := range []string{"1", "1.0.0", "1.", ".1", "a.b", "1.b", ""} {
		_, err := uma.ParseVersion(malformed)
		require.Error(t, err, "expected %q to be rejected", malformed)
		requireUmaErrorCode(t, err, generated.InvalidInput)
	}
}

func TestIsVersionSupported(t *testing.T) {
	require.True(t, uma.IsVersionSupported("1.0"))
	require.True(t, uma.IsVersionSupported("0.3"))
	require.False(t, uma.IsVersionSupported("10.0"))
	require.False(t, uma.IsVersionSupported("banana"))
}

func TestSelectLowerVersion(t *testing.T) {
	selected, err := uma.SelectLowerVersion("1.0", "0.3")
	require.NoError(t, err)
	require.Equal(t, "0.3", *selected)

	selected, err = uma.SelectLowerVersion("0.3", "1.0")
	require.NoError(t, err)
	require.Equal(t, "0.3", *selected)

	// The result is always one of the inputs, compared major then minor.
	selected, err = uma.SelectLowerVersion("1.5", "1.2")
	require.NoError(t, err)
	require.Equal(t, "1.2", *selected)

	selected, err = uma.SelectLowerVersion("1.0", "1.0")
	require.NoError(t, err)
	require.Equal(t, "1.0", *selected)
}

func TestSelectHighestSupportedVersion(t *testing.T) {
	selected := uma.SelectHighestSupportedVersion([]int{0, 1})
	require.NotNil(t, selected)
	require.Equal(t, uma.UmaProtocolVersion, *selected)

	selected = uma.SelectHighestSupportedVersion([]int{0})
	require.NotNil(t, selected)
	require.Equal(t, "0.3", *selected)

	selected = uma.SelectHighestSupportedVersion([]int{10, 11})
	require.Nil(t, selected)
}

func TestUnsupportedVersionErrorResponse(t *testing.T) {
	err := uma.UnsupportedVersionError{
		UnsupportedVersion:     "10.0",
		SupportedMajorVersions: []int{0, 1},
	}
	require.Equal(t, 412, err.ToHttpStatusCode())
	body, jsonErr := err.ToJSON()
	require.NoError(t, jsonErr)
	require.Contains(t, body, "\"code\":\"UNSUPPORTED_UMA_VERSION\"")

	majorVersions, parseErr := uma.GetSupportedMajorVersionsFromErrorResponseBody([]byte(body))
	require.NoError(t, parseErr)
	require.Equal(t, []int{0, 1}, majorVersions)
}
