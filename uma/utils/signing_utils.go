package utils

import (
	"crypto"
	"crypto/rand"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
)

// SignPayloadToBytes signs sha256(payload) with the given secp256k1 private
// key and returns the DER-encoded signature bytes.
func SignPayloadToBytes(payload []byte, privateKeyBytes []byte) ([]byte, error) {
	privateKey := secp256k1.PrivKeyFromBytes(privateKeyBytes)
	hash := crypto.SHA256.New()
	if _, err := hash.Write(payload); err != nil {
		return nil, err
	}
	hashedPayload := hash.Sum(nil)
	signature, err := privateKey.ToECDSA().Sign(rand.Reader, hashedPayload, crypto.SHA256)
	if err != nil {
		return nil, &errors.UmaError{
			Reason:    err.Error(),
			ErrorCode: generated.InternalError,
		}
	}
	return signature, nil
}

// SignPayload signs sha256(payload) and returns the signature hex-encoded,
// which is the form carried in protocol messages.
func SignPayload(payload []byte, privateKeyBytes []byte) (*string, error) {
	signature, err := SignPayloadToBytes(payload, privateKeyBytes)
	if err != nil {
		return nil, err
	}
	signatureString := hex.EncodeToString(signature)
	return &signatureString, nil
}

// VerifySignature verifies a hex-encoded DER signature over sha256(payload)
// against the given serialized secp256k1 public key. A failed verification
// is an error value, never a panic.
func VerifySignature(payload []byte, signature string, otherVaspPubKey []byte) error {
	decodedSignature, err := hex.DecodeString(signature)
	if err != nil {
		return &errors.UmaError{
			Reason:    "invalid signature encoding: " + err.Error(),
			ErrorCode: generated.InvalidSignature,
		}
	}
	return VerifySignatureBytes(payload, decodedSignature, otherVaspPubKey)
}

// VerifySignatureBytes is VerifySignature for raw DER signature bytes.
func VerifySignatureBytes(payload []byte, signature []byte, otherVaspPubKey []byte) error {
	parsedSignature, err := secpecdsa.ParseDERSignature(signature)
	if err != nil {
		return &errors.UmaError{
			Reason:    "invalid signature encoding: " + err.Error(),
			ErrorCode: generated.InvalidSignature,
		}
	}
	pubKey, err := secp256k1.ParsePubKey(otherVaspPubKey)
	if err != nil {
		return &errors.UmaError{
			Reason:    "invalid public key: " + err.Error(),
			ErrorCode: generated.InvalidPubkeyFormat,
		}
	}
	hash := crypto.SHA256.New()
	if _, err = hash.Write(payload); err != nil {
		return err
	}
	hashedPayload := hash.Sum(nil)
	if !parsedSignature.Verify(hashedPayload, pubKey) {
		return &errors.UmaError{
			Reason:    "invalid uma signature",
			ErrorCode: generated.InvalidSignature,
		}
	}
	return nil
}
