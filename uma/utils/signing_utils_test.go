package utils_test

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
	umaerrors "github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/utils"
)

func TestSignAndVerifyPayload(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	payload := []byte("receiver@vasp2.com|12345|1690497968")

	signature, err := utils.SignPayload(payload, privateKey.Serialize())
	require.NoError(t, err)
	err = utils.VerifySignature(payload, *signature, privateKey.PubKey().SerializeUncompressed())
	require.NoError(t, err)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	signature, err := utils.SignPayload([]byte("original payload"), privateKey.Serialize())
	require.NoError(t, err)

	err = utils.VerifySignature([]byte("tampered payload"), *signature, privateKey.PubKey().SerializeUncompressed())
	require.Error(t, err)
	var umaErr *umaerrors.UmaError
	require.ErrorAs(t, err, &umaErr)
	require.Equal(t, generated.InvalidSignature, umaErr.ErrorCode)
}

func TestVerifyRejectsGarbageSignature(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	err = utils.VerifySignature([]byte("payload"), "not-hex", privateKey.PubKey().SerializeUncompressed())
	require.Error(t, err)
	var umaErr *umaerrors.UmaError
	require.ErrorAs(t, err, &umaErr)
	require.Equal(t, generated.InvalidSignature, umaErr.ErrorCode)
}

func TestVerifyRejectsInvalidPubkey(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	signature, err := utils.SignPayload([]byte("payload"), privateKey.Serialize())
	require.NoError(t, err)
	err = utils.VerifySignature([]byte("payload"), *signature, []byte{0x01, 0x02})
	require.Error(t, err)
	var umaErr *umaerrors.UmaError
	require.ErrorAs(t, err, &umaErr)
	require.Equal(t, generated.InvalidPubkeyFormat, umaErr.ErrorCode)
}

func TestIsDomainLocalhost(t *testing.T) {
	require.True(t, utils.IsDomainLocalhost("localhost"))
	require.True(t, utils.IsDomainLocalhost("localhost:8080"))
	require.True(t, utils.IsDomainLocalhost("127.0.0.1"))
	require.True(t, utils.IsDomainLocalhost("myvasp.local"))
	require.True(t, utils.IsDomainLocalhost("myvasp.internal:8080"))
	require.False(t, utils.IsDomainLocalhost("vasp2.com"))
	require.False(t, utils.IsDomainLocalhost("localhost.evil.com"))
}
