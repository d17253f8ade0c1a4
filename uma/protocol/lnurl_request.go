package protocol

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/utils"
)

// LnurlpRequest is the first request in the UMA protocol.
// It is sent by the VASP that is sending the payment to find out information about the receiver.
//
// This is the loose form: every UMA-specific field is optional so that plain
// LNURL queries from non-UMA counterparties still parse. Use AsUmaRequest to
// get the strict form.
type LnurlpRequest struct {
	// ReceiverAddress is the address of the user at VASP2 that is receiving the payment.
	ReceiverAddress string
	// Nonce is a random string that is used to prevent replay attacks.
	Nonce *string
	// Signature is the hex-encoded signature of sha256(ReceiverAddress|Nonce|Timestamp).
	Signature *string
	// IsSubjectToTravelRule indicates VASP1 is a financial institution that requires travel rule information.
	IsSubjectToTravelRule *bool
	// VaspDomain is the domain of the VASP that is sending the payment. It will be used by VASP2 to fetch the public keys of VASP1.
	VaspDomain *string
	// Timestamp is the unix timestamp of when the request was sent. Used in the signature.
	Timestamp *time.Time
	// UmaVersion is the version of the UMA protocol that VASP1 prefers to use for this transaction.
	UmaVersion *string
	// BackingSignatures is a list of backing VASP attestations over the same signable payload as Signature.
	BackingSignatures *[]BackingSignature
}

// AsUmaRequest returns the request as an UmaLnurlpRequest if it is a valid UMA request, otherwise it returns nil.
// This is useful for validation and avoiding nil pointer dereferences.
func (q *LnurlpRequest) AsUmaRequest() *UmaLnurlpRequest {
	if !q.IsUmaRequest() {
		return nil
	}
	return &UmaLnurlpRequest{
		LnurlpRequest:         *q,
		ReceiverAddress:       q.ReceiverAddress,
		Nonce:                 *q.Nonce,
		Signature:             *q.Signature,
		IsSubjectToTravelRule: q.IsSubjectToTravelRule != nil && *q.IsSubjectToTravelRule,
		VaspDomain:            *q.VaspDomain,
		Timestamp:             *q.Timestamp,
		UmaVersion:            *q.UmaVersion,
	}
}

// IsUmaRequest returns true if the request is a valid UMA request, otherwise, if any fields are missing, it returns false.
func (q *LnurlpRequest) IsUmaRequest() bool {
	return q.VaspDomain != nil && q.Nonce != nil && q.Signature != nil && q.Timestamp != nil && q.UmaVersion != nil
}

func (q *LnurlpRequest) EncodeToUrl() (*url.URL, error) {
	receiverAddressParts := strings.Split(q.ReceiverAddress, "@")
	if len(receiverAddressParts) != 2 {
		return nil, &errors.UmaError{
			Reason:    "invalid receiver address",
			ErrorCode: generated.InvalidInput,
		}
	}
	scheme := "https"
	if utils.IsDomainLocalhost(receiverAddressParts[1]) {
		scheme = "http"
	}
	lnurlpUrl := url.URL{
		Scheme: scheme,
		Host:   receiverAddressParts[1],
		Path:   fmt.Sprintf("/.well-known/lnurlp/%s", receiverAddressParts[0]),
	}
	queryParams := lnurlpUrl.Query()
	if q.IsUmaRequest() {
		queryParams.Add("signature", *q.Signature)
		queryParams.Add("vaspDomain", *q.VaspDomain)
		queryParams.Add("nonce", *q.Nonce)
		isSubjectToTravelRule := q.IsSubjectToTravelRule != nil && *q.IsSubjectToTravelRule
		queryParams.Add("isSubjectToTravelRule", strconv.FormatBool(isSubjectToTravelRule))
		queryParams.Add("timestamp", strconv.FormatInt(q.Timestamp.Unix(), 10))
		queryParams.Add("umaVersion", *q.UmaVersion)
		if q.BackingSignatures != nil && len(*q.BackingSignatures) > 0 {
			queryParams.Add("backingSignatures", encodeBackingSignatures(*q.BackingSignatures))
		}
	}
	lnurlpUrl.RawQuery = queryParams.Encode()
	return &lnurlpUrl, nil
}

// encodeBackingSignatures joins URL-component-encoded "domain:signature"
// pairs with commas.
func encodeBackingSignatures(signatures []BackingSignature) string {
	pairs := make([]string, len(signatures))
	for i, signature := range signatures {
		pairs[i] = url.QueryEscape(signature.Domain + ":" + signature.Signature)
	}
	return strings.Join(pairs, ",")
}

// DecodeBackingSignatures parses the comma-joined backingSignatures query
// value. Each pair is split on the last colon: signatures are hex, while a
// domain may carry a colon in a non-standard port.
func DecodeBackingSignatures(encoded string) (*[]BackingSignature, error) {
	var signatures []BackingSignature
	for _, pair := range strings.Split(encoded, ",") {
		unescaped, err := url.QueryUnescape(pair)
		if err != nil {
			return nil, &errors.UmaError{
				Reason:    "invalid backing signature encoding: " + err.Error(),
				ErrorCode: generated.InvalidInput,
			}
		}
		lastColon := strings.LastIndex(unescaped, ":")
		if lastColon < 0 {
			return nil, &errors.UmaError{
				Reason:    "invalid backing signature pair: " + unescaped,
				ErrorCode: generated.InvalidInput,
			}
		}
		signatures = append(signatures, BackingSignature{
			Domain:    unescaped[:lastColon],
			Signature: unescaped[lastColon+1:],
		})
	}
	return &signatures, nil
}

// AppendBackingSignature signs the same canonical payload as the primary
// signature with a backing VASP's key and appends the attestation.
func (q *LnurlpRequest) AppendBackingSignature(signingPrivateKey []byte, domain string) error {
	signablePayload, err := q.SignablePayload()
	if err != nil {
		return err
	}
	signature, err := utils.SignPayload(signablePayload, signingPrivateKey)
	if err != nil {
		return err
	}
	if q.BackingSignatures == nil {
		q.BackingSignatures = &[]BackingSignature{}
	}
	*q.BackingSignatures = append(*q.BackingSignatures, BackingSignature{
		Domain:    domain,
		Signature: *signature,
	})
	return nil
}

// UmaLnurlpRequest is the strict form of LnurlpRequest: every UMA field is
// guaranteed present.
type UmaLnurlpRequest struct {
	LnurlpRequest
	// ReceiverAddress is the address of the user at VASP2 that is receiving the payment.
	ReceiverAddress string
	// Nonce is a random string that is used to prevent replay attacks.
	Nonce string
	// Signature is the hex-encoded signature of sha256(ReceiverAddress|Nonce|Timestamp).
	Signature string
	// IsSubjectToTravelRule indicates VASP1 is a financial institution that requires travel rule information.
	IsSubjectToTravelRule bool
	// VaspDomain is the domain of the VASP that is sending the payment. It will be used by VASP2 to fetch the public keys of VASP1.
	VaspDomain string
	// Timestamp is the unix timestamp of when the request was sent. Used in the signature.
	Timestamp time.Time
	// UmaVersion is the version of the UMA protocol that VASP1 prefers to use for this transaction.
	UmaVersion string
}

// SignablePayload is ReceiverAddress|Nonce|Timestamp. Unlike the response
// payloads, it is not lower-cased.
func (q *LnurlpRequest) SignablePayload() ([]byte, error) {
	if q.Timestamp == nil || q.Nonce == nil {
		return nil, &errors.UmaError{
			Reason:    "timestamp and nonce are required for signing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	payloadString := strings.Join([]string{q.ReceiverAddress, *q.Nonce, strconv.FormatInt(q.Timestamp.Unix(), 10)}, "|")
	return []byte(payloadString), nil
}
