package protocol

import (
	"sort"
	"strings"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
)

type CounterPartyDataOption struct {
	Mandatory bool `json:"mandatory"`
}

// CounterPartyDataOptions describes which fields a vasp needs to know about the sender or receiver. Used for payerData
// and payeeData.
type CounterPartyDataOptions map[string]CounterPartyDataOption

type CounterPartyDataField string

const (
	CounterPartyDataFieldIdentifier    CounterPartyDataField = "identifier"
	CounterPartyDataFieldName          CounterPartyDataField = "name"
	CounterPartyDataFieldEmail         CounterPartyDataField = "email"
	CounterPartyDataFieldCountryCode   CounterPartyDataField = "countryCode"
	CounterPartyDataFieldCompliance    CounterPartyDataField = "compliance"
	CounterPartyDataFieldAccountNumber CounterPartyDataField = "accountNumber"
)

func (c CounterPartyDataField) String() string {
	return string(c)
}

// MarshalBytes encodes the options as a sorted, comma-joined list of
// "field:flag" pairs (flag is 1 for mandatory), which is the form embedded in
// TLV invoices.
func (c *CounterPartyDataOptions) MarshalBytes() ([]byte, error) {
	pairs := make([]string, 0, len(*c))
	for field, option := range *c {
		flag := "0"
		if option.Mandatory {
			flag = "1"
		}
		pairs = append(pairs, field+":"+flag)
	}
	sort.Strings(pairs)
	return []byte(strings.Join(pairs, ",")), nil
}

func (c *CounterPartyDataOptions) UnmarshalBytes(data []byte) error {
	*c = CounterPartyDataOptions{}
	if len(data) == 0 {
		return nil
	}
	for _, pair := range strings.Split(string(data), ",") {
		parts := strings.Split(pair, ":")
		if len(parts) != 2 {
			return &errors.UmaError{
				Reason:    "invalid counterparty data options encoding: " + pair,
				ErrorCode: generated.InvalidRequestFormat,
			}
		}
		(*c)[parts[0]] = CounterPartyDataOption{Mandatory: parts[1] == "1"}
	}
	return nil
}
