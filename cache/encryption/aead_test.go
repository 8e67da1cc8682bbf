package encryption

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
)

func TestValidate(t *testing.T) {
	a, err := NewTestAEAD()
	require.NoError(t, err)

	assert.NoError(t, Validate(a))
}

func TestNewAEADFromFile(t *testing.T) {
	handle, err := keyset.NewHandle(aead.AES256GCMKeyTemplate())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = insecurecleartextkeyset.Write(handle, keyset.NewJSONWriter(&buf))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keyset.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	a, err := NewAEADFromFile(path)
	require.NoError(t, err)

	ciphertext, err := a.Encrypt([]byte("payload"), []byte("aad"))
	require.NoError(t, err)

	plaintext, err := a.Decrypt(ciphertext, []byte("aad"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), plaintext)
}

func TestNewAEADFromFile_MissingFile(t *testing.T) {
	_, err := NewAEADFromFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorContains(t, err, "reading keyset file")
}

func TestNewAEADFromFile_InvalidKeyset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyset.json")
	require.NoError(t, os.WriteFile(path, []byte("not a keyset"), 0o600))

	_, err := NewAEADFromFile(path)
	assert.ErrorContains(t, err, "parsing keyset file")
}

func TestReadKeysetFromSecretsManager_InvalidURI(t *testing.T) {
	ctx := t.Context()

	_, err := readKeysetFromSecretsManager(ctx, "s3://bucket/keyset")
	assert.ErrorContains(t, err, "must start with")

	_, err = readKeysetFromSecretsManager(ctx, "aws-secretsmanager://")
	assert.ErrorContains(t, err, "secret name is empty")
}
