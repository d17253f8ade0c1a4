package protocol

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
)

// PayeeData is the data that the payer wants to know about the payee. It can be any json data.
type PayeeData map[string]interface{}

// Compliance decodes the reserved "compliance" field, returning nil (not an
// error) when it is absent.
func (p *PayeeData) Compliance() (*CompliancePayeeData, error) {
	if p == nil {
		return nil, nil
	}
	if compliance, ok := (*p)["compliance"]; ok {
		if complianceMap, ok := compliance.(map[string]interface{}); ok {
			complianceJson, err := json.Marshal(complianceMap)
			if err != nil {
				return nil, err
			}
			var complianceData CompliancePayeeData
			err = json.Unmarshal(complianceJson, &complianceData)
			if err != nil {
				return nil, err
			}
			return &complianceData, nil
		}
	}
	return nil, nil
}

func (p *PayeeData) Identifier() *string {
	if p == nil {
		return nil
	}
	if identifier, ok := (*p)["identifier"]; ok {
		if identifierString, ok := identifier.(string); ok {
			return &identifierString
		}
	}
	return nil
}

type CompliancePayeeData struct {
	// NodePubKey is the public key of the receiver's node if known.
	NodePubKey *string `json:"nodePubKey,omitempty"`
	// Utxos is a list of UTXOs of channels over which the receiver will likely receive the payment.
	Utxos []string `json:"utxos"`
	// UtxoCallback is the URL that the sender VASP will call to send UTXOs of the channel that the sender used to send the payment once it completes.
	UtxoCallback *string `json:"utxoCallback,omitempty"`
	// Signature is the hex-encoded signature of sha256(PayerIdentifier|PayeeIdentifier|Nonce|Timestamp).
	// Note: This field is optional for UMA v0.X backwards-compatibility. It is required for UMA v1.X.
	Signature *string `json:"signature,omitempty"`
	// SignatureNonce is a random string that is used to prevent replay attacks.
	// Note: This field is optional for UMA v0.X backwards-compatibility. It is required for UMA v1.X.
	SignatureNonce *string `json:"signatureNonce,omitempty"`
	// SignatureTimestamp is the unix timestamp (in seconds since epoch) of when the request was sent. Used in the signature.
	// Note: This field is optional for UMA v0.X backwards-compatibility. It is required for UMA v1.X.
	SignatureTimestamp *int64 `json:"signatureTimestamp,omitempty"`
	// BackingSignatures is a list of attestations by backing VASPs over the same signable payload as Signature.
	BackingSignatures *[]BackingSignature `json:"backingSignatures,omitempty"`
}

func (c *CompliancePayeeData) AsMap() (map[string]interface{}, error) {
	complianceJson, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var complianceMap map[string]interface{}
	err = json.Unmarshal(complianceJson, &complianceMap)
	if err != nil {
		return nil, err
	}
	return complianceMap, nil
}

// SignablePayload builds the canonical payload committed to by Signature and
// every backing signature. The payload is lower-cased before encoding.
func (c *CompliancePayeeData) SignablePayload(payerIdentifier string, payeeIdentifier string) ([]byte, error) {
	if c == nil {
		return nil, &errors.UmaError{
			Reason:    "compliance data is missing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	if c.SignatureNonce == nil || c.SignatureTimestamp == nil {
		return nil, &errors.UmaError{
			Reason:    "compliance data is missing signature nonce or timestamp. Is this a v0.X response?",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	payloadString := strings.Join([]string{
		payerIdentifier,
		payeeIdentifier,
		*c.SignatureNonce,
		strconv.FormatInt(*c.SignatureTimestamp, 10),
	}, "|")
	return []byte(strings.ToLower(payloadString)), nil
}
