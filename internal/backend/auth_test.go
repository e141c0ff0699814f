package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	s, err := NewSigner("secret")
	require.NoError(t, err)

	token, err := s.Sign("device-42")
	require.NoError(t, err)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "device-42", id)
}

func TestSignerRejectsExpired(t *testing.T) {
	s, err := NewSigner("secret")
	require.NoError(t, err)

	issued := time.Now().Add(-time.Hour)
	s.now = func() time.Time { return issued }
	token, err := s.Sign("device-42")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.Error(t, err)
}

func TestSignerRejectsOtherSecret(t *testing.T) {
	a, err := NewSigner("one")
	require.NoError(t, err)
	b, err := NewSigner("two")
	require.NoError(t, err)

	token, err := a.Sign("device-42")
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.Error(t, err)
	_, err = b.Verify("garbage")
	assert.Error(t, err)
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("")
	assert.Error(t, err)
}
