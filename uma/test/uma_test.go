package uma_test

import (
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	eciesgo "github.com/ecies/go/v2"
	"github.com/stretchr/testify/require"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma"
	umaerrors "github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
	umaprotocol "github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/protocol"
)

func TestParse(t *testing.T) {
	timeSec := int64(1690497968)
	expectedTime := time.Unix(timeSec, 0)
	expectedQuery := umaprotocol.LnurlpRequest{
		ReceiverAddress:       "bob@vasp2.com",
		Signature:             stringPtr("signature"),
		IsSubjectToTravelRule: boolPtr(true),
		Nonce:                 stringPtr("12345"),
		Timestamp:             &expectedTime,
		VaspDomain:            stringPtr("vasp1.com"),
		UmaVersion:            stringPtr("1.0"),
	}
	urlString := "https://vasp2.com/.well-known/lnurlp/bob?signature=signature&nonce=12345&vaspDomain=vasp1.com&umaVersion=1.0&isSubjectToTravelRule=true&timestamp=" + strconv.FormatInt(timeSec, 10)
	urlObj, _ := url.Parse(urlString)
	query, err := uma.ParseLnurlpRequest(*urlObj)
	if err != nil || query == nil {
		t.Fatalf("Parse(%s) failed: %s", urlObj, err)
	}
	require.Equal(t, expectedQuery, *query)
}

func TestIsUmaQueryValid(t *testing.T) {
	urlString := "https://vasp2.com/.well-known/lnurlp/bob?signature=signature&nonce=12345&vaspDomain=vasp1.com&umaVersion=1.0&isSubjectToTravelRule=true&timestamp=12345678"
	urlObj, _ := url.Parse(urlString)
	require.True(t, uma.IsUmaLnurlpQuery(*urlObj))
}

func TestIsUmaQueryMissingParams(t *testing.T) {
	urlString := "https://vasp2.com/.well-known/lnurlp/bob?nonce=12345&vaspDomain=vasp1.com&umaVersion=1.0&isSubjectToTravelRule=true&timestamp=12345678"
	urlObj, _ := url.Parse(urlString)
	require.False(t, uma.IsUmaLnurlpQuery(*urlObj))

	urlString = "https://vasp2.com/.well-known/lnurlp/bob?signature=signature&vaspDomain=vasp1.com&umaVersion=1.0&isSubjectToTravelRule=true&timestamp=12345678"
	urlObj, _ = url.Parse(urlString)
	require.False(t, uma.IsUmaLnurlpQuery(*urlObj))

	urlString = "https://vasp2.com/.well-known/lnurlp/bob"
	urlObj, _ = url.Parse(urlString)
	require.False(t, uma.IsUmaLnurlpQuery(*urlObj))
}

func TestIsUmaQueryUnsupportedVersion(t *testing.T) {
	// An unsupported version is still an UMA query so that the receiver can
	// respond with its supported versions instead of treating it as LNURL.
	urlString := "https://vasp2.com/.well-known/lnurlp/bob?signature=signature&nonce=12345&vaspDomain=vasp1.com&umaVersion=10.0&isSubjectToTravelRule=true&timestamp=12345678"
	urlObj, _ := url.Parse(urlString)
	require.True(t, uma.IsUmaLnurlpQuery(*urlObj))

	query, err := uma.ParseLnurlpRequest(*urlObj)
	require.Nil(t, query)
	var unsupportedVersionError uma.UnsupportedVersionError
	require.ErrorAs(t, err, &unsupportedVersionError)
	require.Equal(t, "10.0", unsupportedVersionError.UnsupportedVersion)
	require.Contains(t, unsupportedVersionError.SupportedMajorVersions, 1)
	require.Equal(t, 412, unsupportedVersionError.ToHttpStatusCode())
}

func TestSignAndVerifyLnurlpRequest(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	queryUrl, err := uma.GetSignedLnurlpRequestUrl(privateKey.Serialize(), "$bob@vasp2.com", "vasp1.com", true, nil)
	require.NoError(t, err)
	query, err := uma.ParseLnurlpRequest(*queryUrl)
	require.NoError(t, err)
	require.Equal(t, query.UmaVersion, stringPtr(uma.UmaProtocolVersion))
	err = uma.VerifyUmaLnurlpQuerySignature(*query.AsUmaRequest(), getPubKeyResponse(privateKey), getNonceCache())
	require.NoError(t, err)
}

func TestSignAndVerifyLnurlpRequestReplay(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	queryUrl, err := uma.GetSignedLnurlpRequestUrl(privateKey.Serialize(), "$bob@vasp2.com", "vasp1.com", true, nil)
	require.NoError(t, err)
	query, err := uma.ParseLnurlpRequest(*queryUrl)
	require.NoError(t, err)
	nonceCache := getNonceCache()
	err = uma.VerifyUmaLnurlpQuerySignature(*query.AsUmaRequest(), getPubKeyResponse(privateKey), nonceCache)
	require.NoError(t, err)
	err = uma.VerifyUmaLnurlpQuerySignature(*query.AsUmaRequest(), getPubKeyResponse(privateKey), nonceCache)
	require.Error(t, err)
	requireUmaErrorCode(t, err, generated.InvalidNonce)
}

func TestSignAndVerifyLnurlpRequestOldTimestamp(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	queryUrl, err := uma.GetSignedLnurlpRequestUrl(privateKey.Serialize(), "$bob@vasp2.com", "vasp1.com", true, nil)
	require.NoError(t, err)
	query, err := uma.ParseLnurlpRequest(*queryUrl)
	require.NoError(t, err)
	nonceCache := uma.NewInMemoryNonceCache(time.Now().Add(time.Hour))
	err = uma.VerifyUmaLnurlpQuerySignature(*query.AsUmaRequest(), getPubKeyResponse(privateKey), nonceCache)
	require.Error(t, err)
	requireUmaErrorCode(t, err, generated.InvalidNonce)
}

func TestVerifyLnurlpRequestInvalidSignature(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	queryUrl, err := uma.GetSignedLnurlpRequestUrl(privateKey.Serialize(), "$bob@vasp2.com", "vasp1.com", true, nil)
	require.NoError(t, err)
	query, err := uma.ParseLnurlpRequest(*queryUrl)
	require.NoError(t, err)
	otherKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	err = uma.VerifyUmaLnurlpQuerySignature(*query.AsUmaRequest(), getPubKeyResponse(otherKey), getNonceCache())
	require.Error(t, err)
	requireUmaErrorCode(t, err, generated.InvalidSignature)
}

func TestVerifyLnurlpRequestTamperedPayload(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	queryUrl, err := uma.GetSignedLnurlpRequestUrl(privateKey.Serialize(), "$bob@vasp2.com", "vasp1.com", true, nil)
	require.NoError(t, err)
	query, err := uma.ParseLnurlpRequest(*queryUrl)
	require.NoError(t, err)
	query.ReceiverAddress = "$mallory@vasp2.com"
	err = uma.VerifyUmaLnurlpQuerySignature(*query.AsUmaRequest(), getPubKeyResponse(privateKey), getNonceCache())
	require.Error(t, err)
	requireUmaErrorCode(t, err, generated.InvalidSignature)
}

func TestLnurlpRequestBackingSignatures(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	backingVaspKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	queryUrl, err := uma.GetSignedLnurlpRequestUrl(privateKey.Serialize(), "$bob@vasp2.com", "vasp1.com", true, nil)
	require.NoError(t, err)
	query, err := uma.ParseLnurlpRequest(*queryUrl)
	require.NoError(t, err)
	err = query.AppendBackingSignature(backingVaspKey.Serialize(), "backingvasp.com")
	require.NoError(t, err)
	signedUrl, err := query.EncodeToUrl()
	require.NoError(t, err)

	parsedQuery, err := uma.ParseLnurlpRequest(*signedUrl)
	require.NoError(t, err)
	require.NotNil(t, parsedQuery.BackingSignatures)
	require.Len(t, *parsedQuery.BackingSignatures, 1)

	cache := uma.NewInMemoryPublicKeyCache()
	backingVaspPubKeyResponse := getPubKeyResponse(backingVaspKey)
	cache.AddPublicKeyForVasp("backingvasp.com", &backingVaspPubKeyResponse)
	err = uma.VerifyUmaLnurlpQueryBackingSignatures(*parsedQuery.AsUmaRequest(), cache)
	require.NoError(t, err)
}

func TestLnurlpResponseSignAndVerify(t *testing.T) {
	senderSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	request := createLnurlpRequest(t, senderSigningPrivateKey.Serialize())
	metadata, err := createMetadataForBob()
	require.NoError(t, err)
	response, err := uma.GetLnurlpResponse(
		request,
		bytesPtr(receiverSigningPrivateKey.Serialize()),
		boolPtr(true),
		"https://vasp2.com/api/lnurl/payreq/$bob",
		metadata,
		1,
		10_000_000,
		&umaprotocol.CounterPartyDataOptions{
			"name":  umaprotocol.CounterPartyDataOption{Mandatory: false},
			"email": umaprotocol.CounterPartyDataOption{Mandatory: false},
		},
		&[]umaprotocol.Currency{
			{
				Code:                "USD",
				Name:                "US Dollar",
				Symbol:              "$",
				MillisatoshiPerUnit: 34_150,
				Convertible: umaprotocol.ConvertibleCurrency{
					MinSendable: 1,
					MaxSendable: 10_000_000,
				},
				Decimals: 2,
			},
		},
		kycStatusPtr(umaprotocol.KycStatusVerified),
		nil,
		nil,
	)
	require.NoError(t, err)
	responseJson, err := json.Marshal(response)
	require.NoError(t, err)

	response, err = uma.ParseLnurlpResponse(responseJson)
	require.NoError(t, err)
	require.True(t, response.IsUmaResponse())
	err = uma.VerifyUmaLnurlpResponseSignature(*response.AsUmaResponse(), getPubKeyResponse(receiverSigningPrivateKey), getNonceCache())
	require.NoError(t, err)
}

func TestLnurlpResponseVersionNegotiation(t *testing.T) {
	senderSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	request := createLnurlpRequest(t, senderSigningPrivateKey.Serialize())
	request.UmaVersion = stringPtr("0.3")
	metadata, err := createMetadataForBob()
	require.NoError(t, err)
	currencies := []umaprotocol.Currency{
		{
			Code:                "USD",
			Name:                "US Dollar",
			Symbol:              "$",
			MillisatoshiPerUnit: 34_150,
			Convertible:         umaprotocol.ConvertibleCurrency{MinSendable: 1, MaxSendable: 10_000_000},
			Decimals:            2,
		},
	}
	response, err := uma.GetLnurlpResponse(
		request,
		bytesPtr(receiverSigningPrivateKey.Serialize()),
		boolPtr(true),
		"https://vasp2.com/api/lnurl/payreq/$bob",
		metadata,
		1,
		10_000_000,
		nil,
		&currencies,
		kycStatusPtr(umaprotocol.KycStatusVerified),
		nil,
		nil,
	)
	require.NoError(t, err)
	// The response takes the lower of the two versions.
	require.Equal(t, stringPtr("0.3"), response.UmaVersion)

	responseJson, err := json.Marshal(response)
	require.NoError(t, err)
	// v0 currencies are serialized with a flat sendable range.
	require.Contains(t, string(responseJson), "\"minSendable\":1")
}

func TestPayRequestSignAndVerify(t *testing.T) {
	senderSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverEncryptionPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	trInfo := "some fake travel rule info"
	payreq, err := uma.GetUmaPayRequest(
		1000,
		receiverEncryptionPrivateKey.PubKey().SerializeUncompressed(),
		senderSigningPrivateKey.Serialize(),
		"USD",
		true,
		"$alice@vasp1.com",
		nil,
		nil,
		&trInfo,
		nil,
		umaprotocol.KycStatusVerified,
		nil,
		nil,
		"/api/lnurl/utxocallback?txid=1234",
		nil,
		nil,
	)
	require.NoError(t, err)
	require.True(t, payreq.IsUmaRequest())

	payreqJson, err := json.Marshal(payreq)
	require.NoError(t, err)
	payreq, err = uma.ParsePayRequest(payreqJson)
	require.NoError(t, err)
	require.Equal(t, 1, payreq.UmaMajorVersion)
	err = uma.VerifyPayReqSignature(payreq, getPubKeyResponse(senderSigningPrivateKey), getNonceCache())
	require.NoError(t, err)

	complianceData, err := payreq.PayerData.Compliance()
	require.NoError(t, err)
	require.NotNil(t, complianceData)
	encryptedTrInfo := complianceData.EncryptedTravelRuleInfo
	require.NotNil(t, encryptedTrInfo)

	encryptedTrInfoBytes, err := hex.DecodeString(*encryptedTrInfo)
	require.NoError(t, err)
	eciesPrivKey := eciesgo.NewPrivateKeyFromBytes(receiverEncryptionPrivateKey.Serialize())
	decryptedTrInfo, err := eciesgo.Decrypt(eciesPrivKey, encryptedTrInfoBytes)
	require.NoError(t, err)
	require.Equal(t, trInfo, string(decryptedTrInfo))
}

func TestPayRequestQueryParamRoundtrip(t *testing.T) {
	senderSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverEncryptionPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	payreq, err := uma.GetUmaPayRequest(
		1000,
		receiverEncryptionPrivateKey.PubKey().SerializeUncompressed(),
		senderSigningPrivateKey.Serialize(),
		"USD",
		true,
		"$alice@vasp1.com",
		nil,
		nil,
		nil,
		nil,
		umaprotocol.KycStatusVerified,
		nil,
		nil,
		"/api/lnurl/utxocallback?txid=1234",
		nil,
		nil,
	)
	require.NoError(t, err)

	params, err := payreq.EncodeAsUrlParams()
	require.NoError(t, err)
	parsedPayreq, err := uma.ParsePayRequestFromQueryParams(*params)
	require.NoError(t, err)
	require.Equal(t, payreq, parsedPayreq)
}

func TestV0PayRequestLayout(t *testing.T) {
	payerData := umaprotocol.PayerData{"identifier": "$alice@vasp1.com"}
	payreq := umaprotocol.PayRequest{
		ReceivingCurrencyCode: stringPtr("USD"),
		Amount:                1000,
		PayerData:             &payerData,
		UmaMajorVersion:       0,
	}
	payreqJson, err := json.Marshal(&payreq)
	require.NoError(t, err)
	require.Contains(t, string(payreqJson), "\"currency\":\"USD\"")
	require.Contains(t, string(payreqJson), "\"amount\":1000")

	parsed, err := uma.ParsePayRequest(payreqJson)
	require.NoError(t, err)
	require.Equal(t, 0, parsed.UmaMajorVersion)
	require.Equal(t, int64(1000), parsed.Amount)
	require.Equal(t, stringPtr("USD"), parsed.ReceivingCurrencyCode)
}

func TestV1PayRequestAmountField(t *testing.T) {
	payerData := umaprotocol.PayerData{"identifier": "$alice@vasp1.com"}
	payreq := umaprotocol.PayRequest{
		SendingAmountCurrencyCode: stringPtr("USD"),
		ReceivingCurrencyCode:     stringPtr("USD"),
		Amount:                    1000,
		PayerData:                 &payerData,
		UmaMajorVersion:           1,
	}
	payreqJson, err := json.Marshal(&payreq)
	require.NoError(t, err)
	require.Contains(t, string(payreqJson), "\"amount\":\"1000.USD\"")

	parsed, err := uma.ParsePayRequest(payreqJson)
	require.NoError(t, err)
	require.Equal(t, 1, parsed.UmaMajorVersion)
	require.Equal(t, int64(1000), parsed.Amount)
	require.Equal(t, stringPtr("USD"), parsed.SendingAmountCurrencyCode)
}

type FakeInvoiceCreator struct{}

func (f *FakeInvoiceCreator) CreateInvoice(int64, string) (*string, error) {
	encodedInvoice := "lntb100n1p0z9j"
	return &encodedInvoice, nil
}

func TestPayReqResponseSignAndVerify(t *testing.T) {
	senderSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverEncryptionPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	payreq, err := uma.GetUmaPayRequest(
		1000,
		receiverEncryptionPrivateKey.PubKey().SerializeUncompressed(),
		senderSigningPrivateKey.Serialize(),
		"USD",
		true,
		"$alice@vasp1.com",
		nil,
		nil,
		nil,
		nil,
		umaprotocol.KycStatusVerified,
		nil,
		nil,
		"/api/lnurl/utxocallback?txid=1234",
		nil,
		nil,
	)
	require.NoError(t, err)
	metadata, err := createMetadataForBob()
	require.NoError(t, err)

	payreqResponse, err := uma.GetPayReqResponse(
		*payreq,
		&FakeInvoiceCreator{},
		metadata,
		stringPtr("USD"),
		intPtr(2),
		float64Ptr(34_150),
		int64Ptr(100_000),
		&[]string{"abcdef12345"},
		nil,
		stringPtr("/api/lnurl/utxocallback?txid=1234"),
		nil,
		bytesPtr(receiverSigningPrivateKey.Serialize()),
		stringPtr("$bob@vasp2.com"),
		nil,
		nil,
	)
	require.NoError(t, err)
	require.True(t, payreqResponse.IsUmaResponse())
	require.NotNil(t, payreqResponse.PaymentInfo.Amount)
	require.Equal(t, payreq.Amount, *payreqResponse.PaymentInfo.Amount)

	responseJson, err := json.Marshal(payreqResponse)
	require.NoError(t, err)
	payreqResponse, err = uma.ParsePayReqResponse(responseJson)
	require.NoError(t, err)
	err = uma.VerifyPayReqResponseSignature(
		payreqResponse,
		getPubKeyResponse(receiverSigningPrivateKey),
		getNonceCache(),
		"$alice@vasp1.com",
		"$bob@vasp2.com",
	)
	require.NoError(t, err)
}

func TestPayReqResponseBackingSignatures(t *testing.T) {
	senderSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverEncryptionPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	backingVaspKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	payreq, err := uma.GetUmaPayRequest(
		1000,
		receiverEncryptionPrivateKey.PubKey().SerializeUncompressed(),
		senderSigningPrivateKey.Serialize(),
		"USD",
		true,
		"$alice@vasp1.com",
		nil,
		nil,
		nil,
		nil,
		umaprotocol.KycStatusVerified,
		nil,
		nil,
		"/api/lnurl/utxocallback?txid=1234",
		nil,
		nil,
	)
	require.NoError(t, err)
	err = payreq.AppendBackingSignature(backingVaspKey.Serialize(), "backingvasp.com")
	require.NoError(t, err)

	cache := uma.NewInMemoryPublicKeyCache()
	backingVaspPubKeyResponse := getPubKeyResponse(backingVaspKey)
	cache.AddPublicKeyForVasp("backingvasp.com", &backingVaspPubKeyResponse)
	err = uma.VerifyPayReqBackingSignatures(payreq, cache)
	require.NoError(t, err)

	metadata, err := createMetadataForBob()
	require.NoError(t, err)
	payreqResponse, err := uma.GetPayReqResponse(
		*payreq,
		&FakeInvoiceCreator{},
		metadata,
		stringPtr("USD"),
		intPtr(2),
		float64Ptr(34_150),
		int64Ptr(100_000),
		nil,
		nil,
		nil,
		nil,
		bytesPtr(receiverSigningPrivateKey.Serialize()),
		stringPtr("$bob@vasp2.com"),
		nil,
		nil,
	)
	require.NoError(t, err)
	err = payreqResponse.AppendBackingSignature(
		backingVaspKey.Serialize(), "backingvasp.com", "$alice@vasp1.com", "$bob@vasp2.com")
	require.NoError(t, err)
	err = uma.VerifyPayReqResponseBackingSignatures(payreqResponse, cache, "$alice@vasp1.com", "$bob@vasp2.com")
	require.NoError(t, err)
}

func TestMsatsAmountForCurrencyAmountPayReq(t *testing.T) {
	senderSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverEncryptionPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	// Amount in msats locked on the sender side.
	payreq, err := uma.GetUmaPayRequest(
		1_000_000,
		receiverEncryptionPrivateKey.PubKey().SerializeUncompressed(),
		senderSigningPrivateKey.Serialize(),
		"USD",
		false,
		"$alice@vasp1.com",
		nil,
		nil,
		nil,
		nil,
		umaprotocol.KycStatusVerified,
		nil,
		nil,
		"/api/lnurl/utxocallback?txid=1234",
		nil,
		nil,
	)
	require.NoError(t, err)
	require.Nil(t, payreq.SendingAmountCurrencyCode)
	metadata, err := createMetadataForBob()
	require.NoError(t, err)

	payreqResponse, err := uma.GetPayReqResponse(
		*payreq,
		&FakeInvoiceCreator{},
		metadata,
		stringPtr("USD"),
		intPtr(2),
		float64Ptr(24_150),
		int64Ptr(100_000),
		nil,
		nil,
		nil,
		nil,
		bytesPtr(receiverSigningPrivateKey.Serialize()),
		stringPtr("$bob@vasp2.com"),
		nil,
		nil,
	)
	require.NoError(t, err)
	require.NotNil(t, payreqResponse.PaymentInfo.Amount)
	// (1_000_000 - 100_000) / 24_150, rounded.
	require.Equal(t, int64(37), *payreqResponse.PaymentInfo.Amount)
}

func TestPayReqResponseCurrencyMismatch(t *testing.T) {
	senderSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverSigningPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	receiverEncryptionPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	payreq, err := uma.GetUmaPayRequest(
		1000,
		receiverEncryptionPrivateKey.PubKey().SerializeUncompressed(),
		senderSigningPrivateKey.Serialize(),
		"USD",
		true,
		"$alice@vasp1.com",
		nil,
		nil,
		nil,
		nil,
		umaprotocol.KycStatusVerified,
		nil,
		nil,
		"/api/lnurl/utxocallback?txid=1234",
		nil,
		nil,
	)
	require.NoError(t, err)
	metadata, err := createMetadataForBob()
	require.NoError(t, err)

	_, err = uma.GetPayReqResponse(
		*payreq,
		&FakeInvoiceCreator{},
		metadata,
		stringPtr("EUR"),
		intPtr(2),
		float64Ptr(34_150),
		int64Ptr(100_000),
		nil,
		nil,
		nil,
		nil,
		bytesPtr(receiverSigningPrivateKey.Serialize()),
		stringPtr("$bob@vasp2.com"),
		nil,
		nil,
	)
	require.Error(t, err)
	requireUmaErrorCode(t, err, generated.InvalidCurrency)
}

func TestV0PayReqResponseLayout(t *testing.T) {
	responseJson := []byte(`{
		"pr": "lntb100n1p0z9j",
		"routes": [],
		"paymentInfo": {
			"currencyCode": "USD",
			"decimals": 2,
			"multiplier": 34150,
			"exchangeFeesMillisatoshi": 100000
		},
		"compliance": {
			"nodePubKey": "02abcdef",
			"utxos": ["abcdef12345"],
			"utxoCallback": "/api/lnurl/utxocallback?txid=1234"
		}
	}`)
	response, err := uma.ParsePayReqResponse(responseJson)
	require.NoError(t, err)
	require.Equal(t, 0, response.UmaMajorVersion)
	require.Equal(t, "USD", response.PaymentInfo.CurrencyCode)
	require.Nil(t, response.PaymentInfo.Amount)
	complianceData, err := response.PayeeData.Compliance()
	require.NoError(t, err)
	require.NotNil(t, complianceData)
	require.Equal(t, []string{"abcdef12345"}, complianceData.Utxos)

	// Marshaling puts the compliance block back at the top level.
	reserialized, err := json.Marshal(response)
	require.NoError(t, err)
	require.Contains(t, string(reserialized), "\"paymentInfo\"")
	require.Contains(t, string(reserialized), "\"compliance\"")
}

func TestPostTransactionCallbackSignAndVerify(t *testing.T) {
	signingPrivateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	callback, err := uma.GetPostTransactionCallback(
		[]umaprotocol.UtxoWithAmount{{Utxo: "abcdef12345", Amount: 1000}},
		"vasp1.com",
		signingPrivateKey.Serialize(),
	)
	require.NoError(t, err)

	callbackJson, err := json.Marshal(callback)
	require.NoError(t, err)
	callback, err = uma.ParsePostTransactionCallback(callbackJson)
	require.NoError(t, err)
	err = uma.VerifyPostTransactionCallbackSignature(callback, getPubKeyResponse(signingPrivateKey), getNonceCache())
	require.NoError(t, err)
}

func TestFetchPublicKeyUsesCache(t *testing.T) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	cache := uma.NewInMemoryPublicKeyCache()
	pubKeyResponse := getPubKeyResponse(privateKey)
	cache.AddPublicKeyForVasp("vasp2.com", &pubKeyResponse)

	// The cached entry is served without touching the network.
	fetched, err := uma.FetchPublicKeyForVasp("vasp2.com", cache)
	require.NoError(t, err)
	require.Equal(t, &pubKeyResponse, fetched)
}

func TestGetVaspDomainFromUmaAddress(t *testing.T) {
	domain, err := uma.GetVaspDomainFromUmaAddress("$bob@vasp2.com")
	require.NoError(t, err)
	require.Equal(t, "vasp2.com", domain)

	_, err = uma.GetVaspDomainFromUmaAddress("bob.vasp2.com")
	require.Error(t, err)
	requireUmaErrorCode(t, err, generated.InvalidInput)
}

func createLnurlpRequest(t *testing.T, signingPrivateKey []byte) umaprotocol.LnurlpRequest {
	queryUrl, err := uma.GetSignedLnurlpRequestUrl(signingPrivateKey, "$bob@vasp2.com", "vasp1.com", true, nil)
	require.NoError(t, err)
	query, err := uma.ParseLnurlpRequest(*queryUrl)
	require.NoError(t, err)
	return *query
}

func createMetadataForBob() (string, error) {
	metadata := [][]string{
		{"text/plain", "Pay to vasp2.com user $bob"},
		{"text/identifier", "$bob@vasp2.com"},
	}
	jsonMetadata, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(jsonMetadata), nil
}

func getPubKeyResponse(privateKey *secp256k1.PrivateKey) umaprotocol.PubKeyResponse {
	pubKeyHex := hex.EncodeToString(privateKey.PubKey().SerializeUncompressed())
	return umaprotocol.PubKeyResponse{
		SigningPubKeyHex:    &pubKeyHex,
		EncryptionPubKeyHex: &pubKeyHex,
	}
}

func getNonceCache() uma.NonceCache {
	return uma.NewInMemoryNonceCache(time.Unix(0, 0))
}

func requireUmaErrorCode(t *testing.T, err error, code generated.ErrorCode) {
	t.Helper()
	var umaErr *umaerrors.UmaError
	require.ErrorAs(t, err, &umaErr)
	require.Equal(t, code, umaErr.ErrorCode)
}

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func int64Ptr(i int64) *int64 { return &i }

func float64Ptr(f float64) *float64 { return &f }

func bytesPtr(b []byte) *[]byte { return &b }

func kycStatusPtr(k umaprotocol.KycStatus) *umaprotocol.KycStatus { return &k }
