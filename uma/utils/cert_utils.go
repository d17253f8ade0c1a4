package utils

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"math/big"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
)

// ExtractPubkeyFromPemCertificateChain returns the public key embedded in the
// leaf certificate of a PEM-encoded chain. The chain is walked with raw ASN.1
// because crypto/x509 refuses secp256k1 subject public keys.
func ExtractPubkeyFromPemCertificateChain(certChain *string) (*secp256k1.PublicKey, error) {
	if certChain == nil {
		return nil, &errors.UmaError{
			Reason:    "certificate chain is nil",
			ErrorCode: generated.CertChainInvalid,
		}
	}
	block, _ := pem.Decode([]byte(*certChain))
	if block == nil {
		return nil, &errors.UmaError{
			Reason:    "failed to parse certificate chain PEM",
			ErrorCode: generated.CertChainInvalid,
		}
	}
	asn1Data := block.Bytes

	var certs []*certificate
	for len(asn1Data) > 0 {
		cert := new(certificate)
		var err error
		asn1Data, err = asn1.Unmarshal(asn1Data, cert)
		if err != nil {
			return nil, &errors.UmaError{
				Reason:    "failed to parse certificate: " + err.Error(),
				ErrorCode: generated.CertChainInvalid,
			}
		}
		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, &errors.UmaError{
			Reason:    "empty certificate chain",
			ErrorCode: generated.CertChainInvalid,
		}
	}

	return parseToSecp256k1PublicKey(&certs[0].TBSCertificate.PublicKey)
}

// ConvertPemCertificateChainToHexEncodedDer converts a PEM chain to the list
// of hex-encoded DER certificates used on the wire. A nil chain converts to
// an empty list.
func ConvertPemCertificateChainToHexEncodedDer(certChain *string) ([]string, error) {
	if certChain == nil {
		return []string{}, nil
	}
	var hexDerCerts []string
	rest := []byte(*certChain)
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		hexDerCerts = append(hexDerCerts, hex.EncodeToString(block.Bytes))
	}
	if len(hexDerCerts) == 0 {
		return nil, &errors.UmaError{
			Reason:    "failed to parse certificate chain PEM",
			ErrorCode: generated.CertChainInvalid,
		}
	}
	return hexDerCerts, nil
}

// ConvertHexEncodedDerToPemCertChain is the inverse of
// ConvertPemCertificateChainToHexEncodedDer. An empty or nil list converts
// back to a nil chain.
func ConvertHexEncodedDerToPemCertChain(hexDerCerts *[]string) (*string, error) {
	if hexDerCerts == nil || len(*hexDerCerts) == 0 {
		return nil, nil
	}
	var pemChain string
	for _, hexDerCert := range *hexDerCerts {
		derCert, err := hex.DecodeString(hexDerCert)
		if err != nil {
			return nil, &errors.UmaError{
				Reason:    "invalid hex-encoded certificate: " + err.Error(),
				ErrorCode: generated.CertChainInvalid,
			}
		}
		pemChain += string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derCert}))
	}
	return &pemChain, nil
}

func parseToSecp256k1PublicKey(keyData *publicKeyInfo) (*secp256k1.PublicKey, error) {
	asn1Data := keyData.PublicKey.RightAlign()
	pubKey, err := secp256k1.ParsePubKey(asn1Data)
	if err != nil {
		return nil, &errors.UmaError{
			Reason:    "invalid certificate public key: " + err.Error(),
			ErrorCode: generated.InvalidPubkeyFormat,
		}
	}
	return pubKey, nil
}

// Minimal X.509 structure, parsed manually for curve tolerance.
type certificate struct {
	Raw                asn1.RawContent
	TBSCertificate     tbsCertificate
	SignatureAlgorithm pkix.AlgorithmIdentifier
	SignatureValue     asn1.BitString
}

type tbsCertificate struct {
	Raw                asn1.RawContent
	Version            int `asn1:"optional,explicit,default:0,tag:0"`
	SerialNumber       *big.Int
	SignatureAlgorithm pkix.AlgorithmIdentifier
	Issuer             asn1.RawValue
	Validity           validity
	Subject            asn1.RawValue
	PublicKey          publicKeyInfo
	UniqueId           asn1.BitString   `asn1:"optional,tag:1"`
	SubjectUniqueId    asn1.BitString   `asn1:"optional,tag:2"`
	Extensions         []pkix.Extension `asn1:"optional,explicit,tag:3"`
}

type publicKeyInfo struct {
	Raw       asn1.RawContent
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

type validity struct {
	NotBefore, NotAfter time.Time
}
