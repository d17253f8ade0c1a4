package utils

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
)

// BytesCodable is an interface for types that can be marshaled to and unmarshaled from bytes.
type BytesCodable interface {
	MarshalBytes() ([]byte, error)
	UnmarshalBytes([]byte) error
}

// TLVCodable is an interface for types that can be marshaled to and unmarshaled from TLV.
type TLVCodable interface {
	MarshalTLV() ([]byte, error)
	UnmarshalTLV([]byte) error
}

// MarshalTLV marshals a struct to TLV. Every field carrying a "tlv" struct
// tag is encoded as [tag:1][length:1][value:length] and the records are
// concatenated with no padding or terminator. Nil pointer fields are
// omitted. Numeric values are written big-endian in the smallest of 1, 2, 4
// or 8 bytes that fits; strings are raw UTF-8; booleans are a single 0 or 1
// byte; nested structs must implement TLVCodable or BytesCodable.
func MarshalTLV(v interface{}) ([]byte, error) {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("marshal requires a pointer to a struct")
	}

	val = reflect.Indirect(val)
	typ := val.Type()

	var encodeValue func(field reflect.Value) ([]byte, error)
	encodeValue = func(field reflect.Value) ([]byte, error) {
		// A type's own codec wins over its underlying kind so that named
		// types (enums, option maps) control their wire form.
		if field.Kind() != reflect.Ptr && field.CanAddr() {
			pointer := field.Addr().Interface()
			if coder, ok := pointer.(TLVCodable); ok {
				return coder.MarshalTLV()
			} else if coder, ok := pointer.(BytesCodable); ok {
				return coder.MarshalBytes()
			}
		}
		switch field.Kind() {
		case reflect.String:
			return []byte(field.String()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return encodeTlvInt(field.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return encodeTlvUint(field.Uint()), nil
		case reflect.Bool:
			if field.Bool() {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		case reflect.Ptr:
			if field.IsNil() {
				return nil, nil
			}
			return encodeValue(reflect.Indirect(field))
		case reflect.Slice:
			return field.Bytes(), nil
		default:
			pointer := field.Addr().Interface()
			if coder, ok := pointer.(TLVCodable); ok {
				return coder.MarshalTLV()
			} else if coder, ok := pointer.(BytesCodable); ok {
				return coder.MarshalBytes()
			}
			return nil, fmt.Errorf("unsupported type %s", field.Kind())
		}
	}

	var result []byte
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		tag := typ.Field(i).Tag.Get("tlv")
		if tag == "" {
			continue
		}
		tlv, err := strconv.Atoi(tag)
		if err != nil {
			return nil, err
		}

		content, err := encodeValue(field)
		if err != nil {
			return nil, err
		}
		if content == nil {
			continue
		}
		if len(content) > 255 {
			return nil, &errors.UmaError{
				Reason:    fmt.Sprintf("value for tlv tag %d exceeds 255 bytes", tlv),
				ErrorCode: generated.InvalidRequestFormat,
			}
		}
		result = append(result, byte(tlv))
		result = append(result, byte(len(content)))
		result = append(result, content...)
	}
	return result, nil
}

// UnmarshalTLV unmarshals a struct from TLV. Records may appear in any
// order. Numeric decoding is width-polymorphic: the value width is taken
// from each record's own length byte rather than from the field type. After
// all records are applied, every required field (any tagged field that is
// not a pointer) must have been seen; the returned error lists all missing
// fields at once.
func UnmarshalTLV(v interface{}, data []byte) error {
	records := make(map[byte][]byte)
	for i := 0; i < len(data); {
		if i+2 > len(data) {
			return &errors.UmaError{
				Reason:    fmt.Sprintf("incomplete tlv record at position %d", i),
				ErrorCode: generated.InvalidRequestFormat,
			}
		}

		t := data[i]
		l := data[i+1]

		if i+2+int(l) > len(data) {
			return &errors.UmaError{
				Reason:    fmt.Sprintf("incomplete value for tag %d at position %d", t, i),
				ErrorCode: generated.InvalidRequestFormat,
			}
		}

		records[t] = data[i+2 : i+2+int(l)]
		i += 2 + int(l)
	}

	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal requires a pointer to a struct")
	}
	val = reflect.Indirect(val)

	var decodeValue func(field reflect.Value, value []byte) error
	decodeValue = func(field reflect.Value, value []byte) error {
		if field.Kind() != reflect.Ptr && field.CanAddr() {
			pointer := field.Addr().Interface()
			if coder, ok := pointer.(TLVCodable); ok {
				return coder.UnmarshalTLV(value)
			} else if coder, ok := pointer.(BytesCodable); ok {
				return coder.UnmarshalBytes(value)
			}
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(string(value))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			i, err := decodeTlvInt(value)
			if err != nil {
				return err
			}
			field.SetInt(i)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u, err := decodeTlvUint(value)
			if err != nil {
				return err
			}
			field.SetUint(u)
		case reflect.Bool:
			if len(value) != 1 {
				return &errors.UmaError{
					Reason:    "boolean tlv value must be a single byte",
					ErrorCode: generated.InvalidRequestFormat,
				}
			}
			field.SetBool(value[0] != 0)
		case reflect.Ptr:
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			return decodeValue(field.Elem(), value)
		case reflect.Slice:
			field.SetBytes(value)
		default:
			pointer := field.Addr().Interface()
			if coder, ok := pointer.(TLVCodable); ok {
				return coder.UnmarshalTLV(value)
			} else if coder, ok := pointer.(BytesCodable); ok {
				return coder.UnmarshalBytes(value)
			}
			return fmt.Errorf("unsupported type %s", field.Kind())
		}
		return nil
	}

	var missingFields []string
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		structField := val.Type().Field(i)
		tag := structField.Tag.Get("tlv")
		if tag == "" {
			continue
		}
		tlv, err := strconv.Atoi(tag)
		if err != nil {
			return err
		}

		content, ok := records[byte(tlv)]
		if !ok {
			if field.Kind() != reflect.Ptr {
				missingFields = append(missingFields, structField.Name)
			}
			continue
		}

		if err = decodeValue(field, content); err != nil {
			return err
		}
	}

	if len(missingFields) > 0 {
		sort.Strings(missingFields)
		return &errors.UmaError{
			Reason:    "missing required tlv fields: " + strings.Join(missingFields, ", "),
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}

	return nil
}

func encodeTlvUint(u uint64) []byte {
	width := 1
	switch {
	case u > 0xFFFFFFFF:
		width = 8
	case u > 0xFFFF:
		width = 4
	case u > 0xFF:
		width = 2
	}
	out := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = byte(u)
		u >>= 8
	}
	return out
}

func encodeTlvInt(i int64) []byte {
	if i < 0 {
		// Negative values always take the full 8-byte two's complement form.
		out := make([]byte, 8)
		u := uint64(i)
		for j := 7; j >= 0; j-- {
			out[j] = byte(u)
			u >>= 8
		}
		return out
	}
	return encodeTlvUint(uint64(i))
}

func decodeTlvUint(value []byte) (uint64, error) {
	if len(value) == 0 || len(value) > 8 {
		return 0, &errors.UmaError{
			Reason:    fmt.Sprintf("invalid numeric tlv width %d", len(value)),
			ErrorCode: generated.InvalidRequestFormat,
		}
	}
	var u uint64
	for _, b := range value {
		u = u<<8 | uint64(b)
	}
	return u, nil
}

func decodeTlvInt(value []byte) (int64, error) {
	u, err := decodeTlvUint(value)
	if err != nil {
		return 0, err
	}
	// Widths under 8 bytes are always non-negative; a full 8-byte value
	// reinterprets as two's complement.
	return int64(u), nil
}
