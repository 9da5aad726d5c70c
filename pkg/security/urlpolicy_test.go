package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewURLPolicy_InvalidPattern(t *testing.T) {
	_, err := NewURLPolicy([]string{"https://[broken"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid allowed pattern")

	_, err = NewURLPolicy(nil, []string{"https://[broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid denied pattern")
}

func TestURLPolicy_SchemeRestrictions(t *testing.T) {
	policy, err := NewURLPolicy(nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name      string
		url       string
		expectErr bool
	}{
		{name: "https allowed", url: "https://example.com/page", expectErr: false},
		{name: "http allowed", url: "http://localhost:3000/mobile-test", expectErr: false},
		{name: "file refused", url: "file:///etc/passwd", expectErr: true},
		{name: "javascript refused", url: "javascript:alert(1)", expectErr: true},
		{name: "chrome refused", url: "chrome://settings", expectErr: true},
		{name: "no host", url: "https://", expectErr: true},
		{name: "relative", url: "/just/a/path", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Check(tt.url)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestURLPolicy_DenyTakesPrecedence(t *testing.T) {
	policy, err := NewURLPolicy(
		[]string{"https://example.com/*"},
		[]string{"https://example.com/admin*"},
	)
	require.NoError(t, err)

	assert.NoError(t, policy.Check("https://example.com/public"))

	err = policy.Check("https://example.com/admin/users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked by the configured access policy")
}

func TestURLPolicy_EmptyAllowListAllowsAll(t *testing.T) {
	policy, err := NewURLPolicy(nil, []string{"*evil.example*"})
	require.NoError(t, err)

	assert.NoError(t, policy.Check("https://anything.example.org"))
	assert.Error(t, policy.Check("https://evil.example/login"))
}

func TestURLPolicy_AllowListRestricts(t *testing.T) {
	policy, err := NewURLPolicy([]string{"http://localhost:*", "https://*.example.com/*"}, nil)
	require.NoError(t, err)

	assert.NoError(t, policy.Check("http://localhost:3000/app"))
	assert.NoError(t, policy.Check("https://docs.example.com/guide"))
	assert.Error(t, policy.Check("https://other.org/"))
}
