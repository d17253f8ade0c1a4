package protocol

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/utils"
)

// PayRequest is the request sent by the sender to the receiver to retrieve an invoice.
type PayRequest struct {
	// SendingAmountCurrencyCode is the currency code of the `amount` field. `nil` indicates that `amount` is in
	// millisatoshis as in LNURL without LUD-21. If this is not `nil`, then `amount` is in the smallest unit of the
	// specified currency (e.g. cents for USD). This currency code can be any currency which the receiver can quote.
	// However, there are two most common scenarios for UMA:
	//
	// 1. If the sender wants the receiver to receive a specific amount in their receiving
	// currency, then this field should be the same as `receiving_currency_code`. This is useful
	// for cases where the sender wants to ensure that the receiver receives a specific amount
	// in that destination currency, regardless of the exchange rate, for example, when paying
	// for some goods or services in a foreign currency.
	//
	// 2. If the sender has a specific amount in their own currency that they would like to send,
	// then this field should be left as `nil` to indicate that the amount is in millisatoshis.
	// This will lock the sent amount on the sender side, and the receiver will receive the
	// equivalent amount in their receiving currency.
	SendingAmountCurrencyCode *string `json:"sendingAmountCurrencyCode"`
	// ReceivingCurrencyCode is the ISO 3-digit currency code that the receiver will receive for this payment. Defaults
	// to amount being specified in msats if this is not provided.
	ReceivingCurrencyCode *string `json:"convert"`
	// Amount is the amount that the receiver will receive for this payment in the smallest unit of the specified
	// currency (i.e. cents for USD) if `SendingAmountCurrencyCode` is not `nil`. Otherwise, it is the amount in
	// millisatoshis.
	Amount int64 `json:"amount"`
	// PayerData is the data that the sender will send to the receiver to identify themselves. Required for UMA, as is
	// the `compliance` field in the `payerData` object.
	PayerData *PayerData `json:"payerData"`
	// RequestedPayeeData is the data that the sender is requesting about the payee.
	RequestedPayeeData *CounterPartyDataOptions `json:"payeeData"`
	// Comment is a comment that the sender would like to include with the payment. This can only be included
	// if the receiver included the `commentAllowed` field in the lnurlp response. The length of
	// the comment must be less than or equal to the value of `commentAllowed`.
	Comment *string `json:"comment"`
	// UmaMajorVersion is the major version of the UMA protocol negotiated for this request. It selects the wire
	// layout and is not serialized itself.
	UmaMajorVersion int `json:"umaMajorVersion"`
}

// IsUmaRequest returns true if the request is a valid UMA request, otherwise, if any fields are missing, it returns false.
func (p *PayRequest) IsUmaRequest() bool {
	if p.PayerData == nil {
		return false
	}

	compliance, err := p.PayerData.Compliance()
	if err != nil {
		return false
	}

	return compliance != nil && p.PayerData.Identifier() != nil
}

// v1 multiplexes the amount and its currency into one delimited string field.
type v1PayRequest struct {
	Amount    string                   `json:"amount"`
	Convert   *string                  `json:"convert,omitempty"`
	PayerData *PayerData               `json:"payerData,omitempty"`
	PayeeData *CounterPartyDataOptions `json:"payeeData,omitempty"`
	Comment   *string                  `json:"comment,omitempty"`
}

// v0 uses a numeric amount and a flat currency field.
type v0PayRequest struct {
	CurrencyCode *string                  `json:"currency,omitempty"`
	Amount       int64                    `json:"amount"`
	PayerData    *PayerData               `json:"payerData,omitempty"`
	PayeeData    *CounterPartyDataOptions `json:"payeeData,omitempty"`
	Comment      *string                  `json:"comment,omitempty"`
}

func (p *PayRequest) MarshalJSON() ([]byte, error) {
	if p.UmaMajorVersion == 0 {
		return json.Marshal(&v0PayRequest{
			CurrencyCode: p.ReceivingCurrencyCode,
			Amount:       p.Amount,
			PayerData:    p.PayerData,
			PayeeData:    p.RequestedPayeeData,
			Comment:      p.Comment,
		})
	}
	amount := strconv.FormatInt(p.Amount, 10)
	if p.SendingAmountCurrencyCode != nil {
		amount = fmt.Sprintf("%s.%s", amount, *p.SendingAmountCurrencyCode)
	}
	return json.Marshal(&v1PayRequest{
		Amount:    amount,
		Convert:   p.ReceivingCurrencyCode,
		PayerData: p.PayerData,
		PayeeData: p.RequestedPayeeData,
		Comment:   p.Comment,
	})
}

// UnmarshalJSON dispatches on the layout by probing for the v0-only flat
// "currency" key (or a numeric amount, which only v0 produces) before
// falling back to v1 parsing.
func (p *PayRequest) UnmarshalJSON(data []byte) error {
	var rawReq map[string]interface{}
	if err := json.Unmarshal(data, &rawReq); err != nil {
		return err
	}
	_, hasV0Currency := rawReq["currency"]
	_, amountIsNumeric := rawReq["amount"].(float64)
	if hasV0Currency || amountIsNumeric {
		var v0 v0PayRequest
		if err := json.Unmarshal(data, &v0); err != nil {
			return err
		}
		p.UmaMajorVersion = 0
		p.ReceivingCurrencyCode = v0.CurrencyCode
		p.SendingAmountCurrencyCode = v0.CurrencyCode
		p.Amount = v0.Amount
		p.PayerData = v0.PayerData
		p.RequestedPayeeData = v0.PayeeData
		p.Comment = v0.Comment
		return nil
	}

	var v1 v1PayRequest
	if err := json.Unmarshal(data, &v1); err != nil {
		return err
	}
	amount, sendingCurrencyCode, err := ParseAmountField(v1.Amount)
	if err != nil {
		return err
	}
	p.UmaMajorVersion = 1
	p.Amount = amount
	p.SendingAmountCurrencyCode = sendingCurrencyCode
	p.ReceivingCurrencyCode = v1.Convert
	p.PayerData = v1.PayerData
	p.RequestedPayeeData = v1.PayeeData
	p.Comment = v1.Comment
	return nil
}

// ParseAmountField splits a v1 amount string on the first "." into the
// integer amount and the optional sending currency code. "100.USD" parses to
// (100, "USD"); "100" parses to (100, nil).
func ParseAmountField(amount string) (int64, *string, error) {
	amountParts := strings.SplitN(amount, ".", 2)
	parsedAmount, err := strconv.ParseInt(amountParts[0], 10, 64)
	if err != nil {
		return 0, nil, &errors.UmaError{
			Reason:    "invalid amount field: " + amount,
			ErrorCode: generated.InvalidInput,
		}
	}
	if len(amountParts) == 2 && len(amountParts[1]) > 0 {
		return parsedAmount, &amountParts[1], nil
	}
	return parsedAmount, nil, nil
}

func (p *PayRequest) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// EncodeAsUrlParams flattens the JSON form into URL query values for
// GET-style payreq callbacks. String fields become plain values; structured
// fields are embedded as JSON.
func (p *PayRequest) EncodeAsUrlParams() (*url.Values, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	jsonMap := make(map[string]interface{})
	if err = json.Unmarshal(jsonBytes, &jsonMap); err != nil {
		return nil, err
	}
	payReqParams := url.Values{}
	for key, value := range jsonMap {
		if valueString, ok := value.(string); ok {
			payReqParams.Add(key, valueString)
			continue
		}
		valueBytes, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		payReqParams.Add(key, string(valueBytes))
	}
	return &payReqParams, nil
}

// SignablePayload is PayerIdentifier|Nonce|Timestamp (from the compliance
// payer data), lower-cased.
func (p *PayRequest) SignablePayload() ([]byte, error) {
	if p.PayerData == nil {
		return nil, &errors.UmaError{
			Reason:    "payer data is missing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	senderAddress := p.PayerData.Identifier()
	if senderAddress == nil || *senderAddress == "" {
		return nil, &errors.UmaError{
			Reason:    "payer data identifier is missing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	complianceData, err := p.PayerData.Compliance()
	if err != nil {
		return nil, err
	}
	if complianceData == nil {
		return nil, &errors.UmaError{
			Reason:    "compliance payer data is missing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	payloadString := strings.Join([]string{
		*senderAddress,
		complianceData.SignatureNonce,
		strconv.FormatInt(complianceData.SignatureTimestamp, 10),
	}, "|")
	return []byte(strings.ToLower(payloadString)), nil
}

// AppendBackingSignature signs the same canonical payload as the primary
// signature with a backing VASP's key and appends the attestation to the
// compliance payer data.
func (p *PayRequest) AppendBackingSignature(signingPrivateKey []byte, domain string) error {
	complianceData, err := p.PayerData.Compliance()
	if err != nil {
		return err
	}
	if complianceData == nil {
		return &errors.UmaError{
			Reason:    "compliance payer data is missing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	signablePayload, err := p.SignablePayload()
	if err != nil {
		return err
	}
	signature, err := utils.SignPayload(signablePayload, signingPrivateKey)
	if err != nil {
		return err
	}
	if complianceData.BackingSignatures == nil {
		complianceData.BackingSignatures = &[]BackingSignature{}
	}
	*complianceData.BackingSignatures = append(*complianceData.BackingSignatures, BackingSignature{
		Domain:    domain,
		Signature: *signature,
	})
	complianceMap, err := complianceData.AsMap()
	if err != nil {
		return err
	}
	(*p.PayerData)["compliance"] = complianceMap
	return nil
}
