package githubactions

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInput(t *testing.T) {
	env := mapEnv(map[string]string{
		"INPUT_API-TOKEN":       "  secret  ",
		"INPUT_STOP-ON-FAILURE": "true",
		"INPUT_MY_INPUT":        "spaced",
	})

	assert.Equal(t, "secret", GetInput(env, "api-token"))
	assert.Equal(t, "spaced", GetInput(env, "my input"))
	assert.Equal(t, "", GetInput(env, "missing"))
}

func TestGetBoolInput(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"", false, false},
		{"true", true, false},
		{"True", true, false},
		{"TRUE", true, false},
		{"false", false, false},
		{"FALSE", false, false},
		{"yes", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := GetBoolInput(mapEnv(map[string]string{"INPUT_STOP-ON-FAILURE": tt.value}), "stop-on-failure")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputs_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	var stdout bytes.Buffer
	out := NewOutputs(mapEnv(map[string]string{"GITHUB_OUTPUT": path}), &stdout)

	require.NoError(t, out.Set("prediction", "true"))
	require.NoError(t, out.Set("probability", "0.91"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^prediction<<(ghadelimiter_[0-9a-f-]+)\ntrue\n(ghadelimiter_[0-9a-f-]+)\nprobability<<(ghadelimiter_[0-9a-f-]+)\n0\.91\n(ghadelimiter_[0-9a-f-]+)\n$`)
	m := pattern.FindStringSubmatch(string(data))
	require.NotNil(t, m, "unexpected output file: %q", data)
	assert.Equal(t, m[1], m[2])
	assert.Equal(t, m[3], m[4])
	assert.Empty(t, stdout.String())

	v, ok := out.Get("prediction")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestOutputs_LegacyCommand(t *testing.T) {
	var stdout bytes.Buffer
	out := NewOutputs(mapEnv(nil), &stdout)

	require.NoError(t, out.Set("prediction", "unknown"))

	assert.Equal(t, "::set-output name=prediction::unknown\n", stdout.String())
}

func TestAppendSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	env := mapEnv(map[string]string{"GITHUB_STEP_SUMMARY": path})

	require.NoError(t, AppendSummary(env, "# one\n"))
	require.NoError(t, AppendSummary(env, "# two\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# one\n# two\n", string(data))

	assert.NoError(t, AppendSummary(mapEnv(nil), "ignored"))
}
