package protocol

import "encoding/json"

// KycStatus describes whether a VASP has KYC information about one side of a
// payment.
type KycStatus int

const (
	KycStatusUnknown KycStatus = iota
	KycStatusNotVerified
	KycStatusPending
	KycStatusVerified
)

func (k KycStatus) String() string {
	switch k {
	case KycStatusNotVerified:
		return "NOT_VERIFIED"
	case KycStatusPending:
		return "PENDING"
	case KycStatusVerified:
		return "VERIFIED"
	default:
		return "UNKNOWN"
	}
}

func (k KycStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *KycStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	k.fromString(s)
	return nil
}

func (k KycStatus) MarshalBytes() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *KycStatus) UnmarshalBytes(data []byte) error {
	k.fromString(string(data))
	return nil
}

func (k *KycStatus) fromString(s string) {
	switch s {
	case "NOT_VERIFIED":
		*k = KycStatusNotVerified
	case "PENDING":
		*k = KycStatusPending
	case "VERIFIED":
		*k = KycStatusVerified
	default:
		*k = KycStatusUnknown
	}
}
