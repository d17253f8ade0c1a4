package protocol

import (
	"github.com/decred/dcrd/bech32"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/utils"
)

// InvoiceCurrency is the currency in which an UMA invoice is denominated.
type InvoiceCurrency struct {
	// Code is the ISO 4217 (if applicable) currency code (eg. "USD"). For cryptocurrencies, this will  be a ticker
	// symbol, such as BTC for Bitcoin.
	Code string `tlv:"0"`
	// Name is the full display name of the currency (eg. US Dollars).
	Name string `tlv:"1"`
	// Symbol is the symbol of the currency (eg. $ for USD).
	Symbol string `tlv:"2"`
	// Decimals is the number of digits after the decimal point for display on the sender side.
	Decimals uint8 `tlv:"3"`
}

func (c *InvoiceCurrency) MarshalTLV() ([]byte, error) {
	return utils.MarshalTLV(c)
}

func (c *InvoiceCurrency) UnmarshalTLV(data []byte) error {
	return utils.UnmarshalTLV(c, data)
}

// UmaInvoice is a standalone payment request generated by the receiver, to be
// paid by any sender. It travels as a bech32 string with HRP "uma".
type UmaInvoice struct {
	// ReceiverUma is the UMA address of the receiver.
	ReceiverUma string `tlv:"0"`
	// InvoiceUUID is the unique identifier of the invoice.
	InvoiceUUID string `tlv:"1"`
	// Amount is the amount of the invoice in the smallest unit of ReceivingCurrency.
	Amount uint64 `tlv:"2"`
	// ReceivingCurrency is the currency of the invoice.
	ReceivingCurrency InvoiceCurrency `tlv:"3"`
	// Expiration is the unix timestamp at which the invoice expires.
	Expiration uint64 `tlv:"4"`
	// IsSubjectToTravelRule indicates whether the receiving VASP is a financial institution that requires travel rule information.
	IsSubjectToTravelRule bool `tlv:"5"`
	// RequiredPayerData is the data about the payer that the receiving VASP requires.
	RequiredPayerData *CounterPartyDataOptions `tlv:"6"`
	// UmaVersions is a comma-separated list of UMA versions that the receiving VASP supports.
	UmaVersions string `tlv:"7"`
	// CommentCharsAllowed is the number of characters that the sender can include in the comment field of the pay request.
	CommentCharsAllowed *int `tlv:"8"`
	// SenderUma is the UMA address of the sender when the invoice is addressed to a specific counterparty.
	SenderUma *string `tlv:"9"`
	// MaxNumPayments is the maximum number of times the invoice can be paid.
	MaxNumPayments *int `tlv:"10"`
	// KycStatus indicates whether the receiver is KYC verified by the receiving VASP.
	KycStatus *KycStatus `tlv:"11"`
	// Callback is the URL that the sending VASP will call to send the PayRequest.
	Callback string `tlv:"12"`
	// Signature is the DER-encoded signature over the TLV serialization of all other fields.
	Signature *[]byte `tlv:"100"`
}

func (i *UmaInvoice) MarshalTLV() ([]byte, error) {
	return utils.MarshalTLV(i)
}

func (i *UmaInvoice) UnmarshalTLV(data []byte) error {
	return utils.UnmarshalTLV(i, data)
}

// ToBech32String encodes the signed invoice as a bech32 string with HRP
// "uma". The invoice must already carry its signature.
func (i *UmaInvoice) ToBech32String() (string, error) {
	if i.Signature == nil {
		return "", &errors.UmaError{
			Reason:    "invoice must be signed before encoding",
			ErrorCode: generated.InvalidInvoice,
		}
	}
	tlvBytes, err := i.MarshalTLV()
	if err != nil {
		return "", err
	}
	conv, err := bech32.ConvertBits(tlvBytes, 8, 5, true)
	if err != nil {
		return "", &errors.UmaError{
			Reason:    "failed to convert invoice bits: " + err.Error(),
			ErrorCode: generated.InvalidInvoice,
		}
	}
	encoded, err := bech32.Encode("uma", conv)
	if err != nil {
		return "", &errors.UmaError{
			Reason:    "failed to bech32-encode invoice: " + err.Error(),
			ErrorCode: generated.InvalidInvoice,
		}
	}
	return encoded, nil
}

// FromBech32String decodes a bech32-encoded UMA invoice. A checksum or
// charset failure reports InvalidInvoice; a malformed TLV stream inside a
// valid bech32 envelope reports InvalidRequestFormat; a valid stream missing
// mandatory fields reports MissingRequiredUmaParameters.
func FromBech32String(bech32Str string) (*UmaInvoice, error) {
	// DecodeNoLimit because TLV invoices routinely exceed the 90-character
	// limit BIP-173 imposes on segwit addresses.
	hrp, data, err := bech32.DecodeNoLimit(bech32Str)
	if err != nil {
		return nil, &errors.UmaError{
			Reason:    "invalid bech32 encoding: " + err.Error(),
			ErrorCode: generated.InvalidInvoice,
		}
	}
	if hrp != "uma" {
		return nil, &errors.UmaError{
			Reason:    "invalid invoice prefix: " + hrp,
			ErrorCode: generated.InvalidInvoice,
		}
	}
	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, &errors.UmaError{
			Reason:    "failed to convert invoice bits: " + err.Error(),
			ErrorCode: generated.InvalidInvoice,
		}
	}
	var invoice UmaInvoice
	if err := invoice.UnmarshalTLV(conv); err != nil {
		return nil, err
	}
	return &invoice, nil
}
