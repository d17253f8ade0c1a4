package protocol

import (
	"encoding/json"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/utils"
)

// PayReqResponse is the response sent by the receiver to the sender to provide an invoice.
type PayReqResponse struct {
	// EncodedInvoice is the BOLT11 invoice that the sender will pay.
	EncodedInvoice string `json:"pr"`
	// Routes is usually just an empty list from legacy LNURL, which was replaced by route hints in the BOLT11 invoice.
	Routes []Route `json:"routes"`
	// PaymentInfo is information about the payment that the receiver will receive. Includes
	// final currency-related information for the payment. Required for UMA.
	PaymentInfo *PayReqResponsePaymentInfo `json:"converted,omitempty"`
	// PayeeData The data about the receiver that the sending VASP requested in the payreq request.
	// Required for UMA.
	PayeeData *PayeeData `json:"payeeData,omitempty"`
	// Disposable This field may be used by a WALLET to decide whether the initial LNURL link will
	// be stored locally for later reuse or erased. If disposable is null, it should be
	// interpreted as true, so if SERVICE intends its LNURL links to be stored it must
	// return `disposable: false`. UMA should always return `disposable: false`. See LUD-11.
	Disposable *bool `json:"disposable,omitempty"`
	// SuccessAction defines a struct which can be stored and shown to the user on payment success. See LUD-09.
	SuccessAction *map[string]string `json:"successAction,omitempty"`
	// UmaMajorVersion is the major version of the UMA protocol negotiated for this payment. It
	// selects the wire layout and is not serialized itself.
	UmaMajorVersion int `json:"umaMajorVersion"`
}

type Route struct {
	Pubkey string `json:"pubkey"`
	Path   []struct {
		Pubkey   string `json:"pubkey"`
		Fee      int64  `json:"fee"`
		Msatoshi int64  `json:"msatoshi"`
		Channel  string `json:"channel"`
	} `json:"path"`
}

type PayReqResponsePaymentInfo struct {
	// Amount is the amount that the receiver will receive in the receiving currency not including fees. The amount is
	//    specified in the smallest unit of the currency (eg. cents for USD).
	Amount *int64 `json:"amount,omitempty"`
	// CurrencyCode is the currency code that the receiver will receive for this payment.
	CurrencyCode string `json:"currencyCode"`
	// Decimals is the number of digits after the decimal point for the receiving currency. For example, in USD, by
	// convention, there are 2 digits for cents - $5.95. In this case, `Decimals` would be 2. This should align with the
	// currency's `Decimals` field in the LNURLP response. It is included here for convenience. See
	// [UMAD-04](https://github.com/uma-universal-money-address/protocol/blob/main/umad-04-lnurlp-response.md) for
	// details, edge cases, and examples.
	Decimals int `json:"decimals"`
	// Multiplier is the conversion rate. It is the number of millisatoshis that the receiver will receive for 1 unit of
	//    the specified currency (eg: cents in USD). In this context, this is just for convenience. The conversion rate
	//    is also baked into the invoice amount itself. Specifically:
	//    `invoiceAmount = Amount * Multiplier + ExchangeFeesMillisatoshi`
	Multiplier float64 `json:"multiplier"`
	// ExchangeFeesMillisatoshi is the fees charged (in millisats) by the receiving VASP for this transaction. This is
	// separate from the Multiplier.
	ExchangeFeesMillisatoshi int64 `json:"fee"`
}

type v0PayReqResponsePaymentInfo struct {
	CurrencyCode             string  `json:"currencyCode"`
	Decimals                 int     `json:"decimals"`
	Multiplier               float64 `json:"multiplier"`
	ExchangeFeesMillisatoshi int64   `json:"exchangeFeesMillisatoshi"`
}

type v0PayReqResponseCompliance struct {
	NodePubKey   *string  `json:"nodePubKey,omitempty"`
	Utxos        []string `json:"utxos"`
	UtxoCallback *string  `json:"utxoCallback,omitempty"`
}

type v0PayReqResponse struct {
	EncodedInvoice string                       `json:"pr"`
	Routes         []Route                      `json:"routes"`
	PaymentInfo    *v0PayReqResponsePaymentInfo `json:"paymentInfo,omitempty"`
	Compliance     *v0PayReqResponseCompliance  `json:"compliance,omitempty"`
	Disposable     *bool                        `json:"disposable,omitempty"`
	SuccessAction  *map[string]string           `json:"successAction,omitempty"`
}

type v1PayReqResponse struct {
	EncodedInvoice string                     `json:"pr"`
	Routes         []Route                    `json:"routes"`
	PaymentInfo    *PayReqResponsePaymentInfo `json:"converted,omitempty"`
	PayeeData      *PayeeData                 `json:"payeeData,omitempty"`
	Disposable     *bool                      `json:"disposable,omitempty"`
	SuccessAction  *map[string]string         `json:"successAction,omitempty"`
}

func (p *PayReqResponse) IsUmaResponse() bool {
	if p.PaymentInfo == nil || p.PayeeData == nil {
		return false
	}
	compliance, err := p.PayeeData.Compliance()
	if err != nil {
		return false
	}
	return compliance != nil
}

func (p *PayReqResponse) MarshalJSON() ([]byte, error) {
	if p.UmaMajorVersion == 0 {
		var v0PaymentInfo *v0PayReqResponsePaymentInfo
		if p.PaymentInfo != nil {
			v0PaymentInfo = &v0PayReqResponsePaymentInfo{
				CurrencyCode:             p.PaymentInfo.CurrencyCode,
				Decimals:                 p.PaymentInfo.Decimals,
				Multiplier:               p.PaymentInfo.Multiplier,
				ExchangeFeesMillisatoshi: p.PaymentInfo.ExchangeFeesMillisatoshi,
			}
		}
		var compliance *v0PayReqResponseCompliance
		if p.PayeeData != nil {
			complianceData, err := p.PayeeData.Compliance()
			if err != nil {
				return nil, err
			}
			if complianceData != nil {
				compliance = &v0PayReqResponseCompliance{
					NodePubKey:   complianceData.NodePubKey,
					Utxos:        complianceData.Utxos,
					UtxoCallback: complianceData.UtxoCallback,
				}
			}
		}
		return json.Marshal(&v0PayReqResponse{
			EncodedInvoice: p.EncodedInvoice,
			Routes:         p.Routes,
			PaymentInfo:    v0PaymentInfo,
			Compliance:     compliance,
			Disposable:     p.Disposable,
			SuccessAction:  p.SuccessAction,
		})
	}
	return json.Marshal(&v1PayReqResponse{
		EncodedInvoice: p.EncodedInvoice,
		Routes:         p.Routes,
		PaymentInfo:    p.PaymentInfo,
		PayeeData:      p.PayeeData,
		Disposable:     p.Disposable,
		SuccessAction:  p.SuccessAction,
	})
}

// UnmarshalJSON dispatches on the layout by probing for the v0-only
// top-level "paymentInfo" key before falling back to v1 parsing. The v0
// top-level compliance block is folded into payee data so that callers see
// one shape regardless of version.
func (p *PayReqResponse) UnmarshalJSON(data []byte) error {
	var rawResponse map[string]interface{}
	if err := json.Unmarshal(data, &rawResponse); err != nil {
		return err
	}
	if _, hasV0PaymentInfo := rawResponse["paymentInfo"]; hasV0PaymentInfo {
		var v0 v0PayReqResponse
		if err := json.Unmarshal(data, &v0); err != nil {
			return err
		}
		p.UmaMajorVersion = 0
		p.EncodedInvoice = v0.EncodedInvoice
		p.Routes = v0.Routes
		p.Disposable = v0.Disposable
		p.SuccessAction = v0.SuccessAction
		if v0.PaymentInfo != nil {
			p.PaymentInfo = &PayReqResponsePaymentInfo{
				CurrencyCode:             v0.PaymentInfo.CurrencyCode,
				Decimals:                 v0.PaymentInfo.Decimals,
				Multiplier:               v0.PaymentInfo.Multiplier,
				ExchangeFeesMillisatoshi: v0.PaymentInfo.ExchangeFeesMillisatoshi,
			}
		}
		if v0.Compliance != nil {
			complianceData := CompliancePayeeData{
				NodePubKey:   v0.Compliance.NodePubKey,
				Utxos:        v0.Compliance.Utxos,
				UtxoCallback: v0.Compliance.UtxoCallback,
			}
			complianceMap, err := complianceData.AsMap()
			if err != nil {
				return err
			}
			p.PayeeData = &PayeeData{"compliance": complianceMap}
		}
		return nil
	}

	var v1 v1PayReqResponse
	if err := json.Unmarshal(data, &v1); err != nil {
		return err
	}
	p.UmaMajorVersion = 1
	p.EncodedInvoice = v1.EncodedInvoice
	p.Routes = v1.Routes
	p.PaymentInfo = v1.PaymentInfo
	p.PayeeData = v1.PayeeData
	p.Disposable = v1.Disposable
	p.SuccessAction = v1.SuccessAction
	return nil
}

// SignablePayload is PayerIdentifier|PayeeIdentifier|Nonce|Timestamp (from
// the compliance payee data), lower-cased.
func (p *PayReqResponse) SignablePayload(payerIdentifier string, payeeIdentifier string) ([]byte, error) {
	complianceData, err := p.PayeeData.Compliance()
	if err != nil {
		return nil, err
	}
	if complianceData == nil {
		return nil, &errors.UmaError{
			Reason:    "compliance payee data is missing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	return complianceData.SignablePayload(payerIdentifier, payeeIdentifier)
}

// AppendBackingSignature signs the same canonical payload as the primary
// signature with a backing VASP's key and appends the attestation to the
// compliance payee data.
func (p *PayReqResponse) AppendBackingSignature(
	signingPrivateKey []byte,
	domain string,
	payerIdentifier string,
	payeeIdentifier string,
) error {
	complianceData, err := p.PayeeData.Compliance()
	if err != nil {
		return err
	}
	if complianceData == nil {
		return &errors.UmaError{
			Reason:    "compliance payee data is missing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	signablePayload, err := complianceData.SignablePayload(payerIdentifier, payeeIdentifier)
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
	(*p.PayeeData)["compliance"] = complianceMap
	return nil
}
