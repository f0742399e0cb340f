package vault

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-encryption-secret")

func TestCodec_RoundTrip(t *testing.T) {
	codec := Codec{}
	key := cryptox.DeriveKey("user-a", secret)

	cases := []models.VaultFields{
		{Title: "Example", Password: "p4ss"},
		{Title: "Mail", Username: "me@example.com", URL: "https://mail.example.com", Password: "x", Notes: "2FA on"},
		{Title: "unicode ✓", Password: "пароль", Notes: "line1\nline2"},
	}

	for _, in := range cases {
		envelope, err := codec.Encode(in, key)
		require.NoError(t, err)
		assert.NotContains(t, envelope, in.Password)

		out, err := codec.Decode(envelope, key)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestCodec_CrossUserIsolation(t *testing.T) {
	codec := Codec{}
	in := models.VaultFields{Title: "Bank", Password: "hunter2"}

	envelope, err := codec.Encode(in, cryptox.DeriveKey("user-a", secret))
	require.NoError(t, err)

	out, err := codec.Decode(envelope, cryptox.DeriveKey("user-b", secret))
	require.Error(t, err)
	assert.Equal(t, models.VaultFields{}, out)

	var de *DecodeError
	assert.True(t, errors.As(err, &de))
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestCodec_Decode_Corrupted(t *testing.T) {
	codec := Codec{}
	key := cryptox.DeriveKey("user-a", secret)

	for _, envelope := range []string{"", "not-base64!!", "AAAA", "c29tZXRoaW5nIGxvbmcgZW5vdWdoIHRvIGJlIGEgbm9uY2UgYW5kIHRhZw=="} {
		_, err := codec.Decode(envelope, key)
		assert.ErrorIs(t, err, ErrDecode, "envelope %q", envelope)
	}
}

func TestCodec_Decode_NonJSONPlaintext(t *testing.T) {
	key := cryptox.DeriveKey("user-a", secret)

	envelope, err := cryptox.EncryptEntry("just a string", key)
	require.NoError(t, err)

	_, err = Codec{}.Decode(envelope, key)
	assert.ErrorIs(t, err, ErrDecode)
}
