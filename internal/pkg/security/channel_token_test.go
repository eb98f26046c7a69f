package security

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelTokenRoundTrip(t *testing.T) {
	token, err := GenerateChannelToken("chan-1", time.Hour, "secret")
	require.NoError(t, err)

	claims, err := VerifyChannelToken(token, "chan-1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "chan-1", claims.ChannelID)
}

func TestChannelTokenRejectsWrongChannel(t *testing.T) {
	token, err := GenerateChannelToken("chan-1", time.Hour, "secret")
	require.NoError(t, err)

	_, err = VerifyChannelToken(token, "chan-2", "secret")
	assert.Error(t, err)
}

func TestChannelTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateChannelToken("chan-1", time.Hour, "secret")
	require.NoError(t, err)

	_, err = VerifyChannelToken(token, "chan-1", "other")
	assert.Error(t, err)
}

func TestChannelTokenRejectsExpired(t *testing.T) {
	token, err := GenerateChannelToken("chan-1", -time.Minute, "secret")
	require.NoError(t, err)

	_, err = VerifyChannelToken(token, "chan-1", "secret")
	assert.ErrorContains(t, err, "expired")
}

func TestChannelTokenRejectsTampering(t *testing.T) {
	token, err := GenerateChannelToken("chan-1", time.Hour, "secret")
	require.NoError(t, err)

	parts := strings.SplitN(token, ".", 2)
	tampered := parts[0] + "x." + parts[1]
	_, err = VerifyChannelToken(tampered, "chan-1", "secret")
	assert.Error(t, err)

	_, err = VerifyChannelToken("not-a-token", "chan-1", "secret")
	assert.Error(t, err)

	_, err = VerifyChannelToken(token, "chan-1", "")
	assert.Error(t, err)
}
