package protocol

import (
	"encoding/hex"
	"encoding/json"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/utils"
)

// PubKeyResponse is sent from a VASP to another VASP to provide its public keys.
// It is the response to GET requests at `/.well-known/lnurlpubkey`.
type PubKeyResponse struct {
	// SigningCertChain is the PEM-encoded certificate chain used to verify signatures from a VASP, ordered
	// leaf to root.
	SigningCertChain *string
	// EncryptionCertChain is the PEM-encoded certificate chain used to encrypt TR info sent to a VASP, ordered
	// leaf to root.
	EncryptionCertChain *string
	// SigningPubKeyHex is used to verify signatures from a VASP. Hex-encoded in string format.
	SigningPubKeyHex *string
	// EncryptionPubKeyHex is used to encrypt TR info sent to a VASP. Hex-encoded in string format.
	EncryptionPubKeyHex *string
	// ExpirationTimestamp [Optional] Seconds since epoch at which these pub keys must be refreshed.
	// They can be safely cached until this expiration (or forever if null).
	ExpirationTimestamp *int64
}

// SigningPubKey prefers the certificate chain's leaf key over the bare hex
// key, since the chain is the authenticated source when both are present.
func (r *PubKeyResponse) SigningPubKey() ([]byte, error) {
	if r.SigningCertChain != nil {
		publicKey, err := utils.ExtractPubkeyFromPemCertificateChain(r.SigningCertChain)
		if err != nil {
			return nil, err
		}
		return publicKey.SerializeUncompressed(), nil
	}
	if r.SigningPubKeyHex == nil {
		return nil, &errors.UmaError{
			Reason:    "signingPubKey is not set",
			ErrorCode: generated.InvalidPubkeyFormat,
		}
	}
	publicKey, err := hex.DecodeString(*r.SigningPubKeyHex)
	if err != nil {
		return nil, &errors.UmaError{
			Reason:    "invalid signingPubKey: " + err.Error(),
			ErrorCode: generated.InvalidPubkeyFormat,
		}
	}
	return publicKey, nil
}

// EncryptionPubKey prefers the certificate chain's leaf key over the bare hex
// key, mirroring SigningPubKey.
func (r *PubKeyResponse) EncryptionPubKey() ([]byte, error) {
	if r.EncryptionCertChain != nil {
		publicKey, err := utils.ExtractPubkeyFromPemCertificateChain(r.EncryptionCertChain)
		if err != nil {
			return nil, err
		}
		return publicKey.SerializeUncompressed(), nil
	}
	if r.EncryptionPubKeyHex == nil {
		return nil, &errors.UmaError{
			Reason:    "encryptionPubKey is not set",
			ErrorCode: generated.InvalidPubkeyFormat,
		}
	}
	publicKey, err := hex.DecodeString(*r.EncryptionPubKeyHex)
	if err != nil {
		return nil, &errors.UmaError{
			Reason:    "invalid encryptionPubKey: " + err.Error(),
			ErrorCode: generated.InvalidPubkeyFormat,
		}
	}
	return publicKey, nil
}

// pubKeyResponseJson is the wire form: certificate chains travel as lists of
// hex-encoded DER certificates.
type pubKeyResponseJson struct {
	SigningCertChain    *[]string `json:"signingCertChain,omitempty"`
	EncryptionCertChain *[]string `json:"encryptionCertChain,omitempty"`
	SigningPubKeyHex    *string   `json:"signingPubKey,omitempty"`
	EncryptionPubKeyHex *string   `json:"encryptionPubKey,omitempty"`
	ExpirationTimestamp *int64    `json:"expirationTimestamp,omitempty"`
}

func (r *PubKeyResponse) MarshalJSON() ([]byte, error) {
	wire := pubKeyResponseJson{
		SigningPubKeyHex:    r.SigningPubKeyHex,
		EncryptionPubKeyHex: r.EncryptionPubKeyHex,
		ExpirationTimestamp: r.ExpirationTimestamp,
	}
	if r.SigningCertChain != nil {
		signingCertChain, err := utils.ConvertPemCertificateChainToHexEncodedDer(r.SigningCertChain)
		if err != nil {
			return nil, err
		}
		wire.SigningCertChain = &signingCertChain
	}
	if r.EncryptionCertChain != nil {
		encryptionCertChain, err := utils.ConvertPemCertificateChainToHexEncodedDer(r.EncryptionCertChain)
		if err != nil {
			return nil, err
		}
		wire.EncryptionCertChain = &encryptionCertChain
	}
	return json.Marshal(&wire)
}

func (r *PubKeyResponse) UnmarshalJSON(data []byte) error {
	var wire pubKeyResponseJson
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	signingCertChain, err := utils.ConvertHexEncodedDerToPemCertChain(wire.SigningCertChain)
	if err != nil {
		return err
	}
	encryptionCertChain, err := utils.ConvertHexEncodedDerToPemCertChain(wire.EncryptionCertChain)
	if err != nil {
		return err
	}
	r.SigningCertChain = signingCertChain
	r.EncryptionCertChain = encryptionCertChain
	r.SigningPubKeyHex = wire.SigningPubKeyHex
	r.EncryptionPubKeyHex = wire.EncryptionPubKeyHex
	r.ExpirationTimestamp = wire.ExpirationTimestamp
	return nil
}
