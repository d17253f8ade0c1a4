package uma

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	eciesgo "github.com/ecies/go/v2"
	"github.com/google/uuid"
	umaerrors "github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/protocol"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/utils"
)

// FetchPublicKeyForVasp fetches the public key for another VASP. If the public key is not in the cache, it will be
// fetched from the VASP's well-known endpoint and cached for future use until its advertised expiration.
//
// Args:
//
//	vaspDomain: the domain of the VASP.
//	cache: the PublicKeyCache cache to use. You can use the InMemoryPublicKeyCache struct, or implement your own
//	    persistent cache with any storage type.
func FetchPublicKeyForVasp(vaspDomain string, cache PublicKeyCache) (*protocol.PubKeyResponse, error) {
	return FetchPublicKeyForVaspWithFetcher(vaspDomain, cache, &HttpPublicKeyFetcher{})
}

// FetchPublicKeyForVaspWithFetcher is FetchPublicKeyForVasp with an injected
// fetcher, for non-HTTP transports or custom TLS setups.
func FetchPublicKeyForVaspWithFetcher(
	vaspDomain string,
	cache PublicKeyCache,
	fetcher PublicKeyFetcher,
) (*protocol.PubKeyResponse, error) {
	publicKey := cache.FetchPublicKeyForVasp(vaspDomain)
	if publicKey != nil {
		return publicKey, nil
	}

	publicKey, err := fetcher.FetchPublicKeys(vaspDomain)
	if err != nil {
		return nil, err
	}
	cache.AddPublicKeyForVasp(vaspDomain, publicKey)
	return publicKey, nil
}

// PublicKeyFetcher fetches a counterparty's published keys by domain.
type PublicKeyFetcher interface {
	FetchPublicKeys(vaspDomain string) (*protocol.PubKeyResponse, error)
}

// HttpPublicKeyFetcher fetches keys from the counterparty's
// `/.well-known/lnurlpubkey` endpoint over HTTPS (HTTP for localhost).
type HttpPublicKeyFetcher struct {
	// HttpClient is the client used for requests. Nil means http.DefaultClient.
	HttpClient *http.Client
}

func (f *HttpPublicKeyFetcher) FetchPublicKeys(vaspDomain string) (*protocol.PubKeyResponse, error) {
	scheme := "https://"
	if utils.IsDomainLocalhost(vaspDomain) {
		scheme = "http://"
	}
	client := f.HttpClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(scheme + vaspDomain + "/.well-known/lnurlpubkey")
	if err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "failed to fetch public keys: " + err.Error(),
			ErrorCode: generated.CounterpartyPubkeyFetchError,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &umaerrors.UmaError{
			Reason:    "invalid response from counterparty: " + resp.Status,
			ErrorCode: generated.CounterpartyPubkeyFetchError,
		}
	}

	responseBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "failed to read response body: " + err.Error(),
			ErrorCode: generated.CounterpartyPubkeyFetchError,
		}
	}

	var pubKeyResponse protocol.PubKeyResponse
	if err := json.Unmarshal(responseBodyBytes, &pubKeyResponse); err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "invalid public key response: " + err.Error(),
			ErrorCode: generated.CounterpartyPubkeyFetchError,
		}
	}
	return &pubKeyResponse, nil
}

// GetPubKeyResponse builds the response to serve at `/.well-known/lnurlpubkey`
// from this VASP's own PEM certificate chains.
func GetPubKeyResponse(
	signingCertChainPem string,
	encryptionCertChainPem string,
	expirationTimestamp *int64,
) (*protocol.PubKeyResponse, error) {
	signingPubKey, err := utils.ExtractPubkeyFromPemCertificateChain(&signingCertChainPem)
	if err != nil {
		return nil, err
	}
	encryptionPubKey, err := utils.ExtractPubkeyFromPemCertificateChain(&encryptionCertChainPem)
	if err != nil {
		return nil, err
	}
	signingPubKeyHex := hex.EncodeToString(signingPubKey.SerializeUncompressed())
	encryptionPubKeyHex := hex.EncodeToString(encryptionPubKey.SerializeUncompressed())
	return &protocol.PubKeyResponse{
		SigningCertChain:    &signingCertChainPem,
		EncryptionCertChain: &encryptionCertChainPem,
		SigningPubKeyHex:    &signingPubKeyHex,
		EncryptionPubKeyHex: &encryptionPubKeyHex,
		ExpirationTimestamp: expirationTimestamp,
	}, nil
}

// GenerateNonce generates a random nonce string for use in signatures.
func GenerateNonce() (*string, error) {
	randomBigInt, err := rand.Int(rand.Reader, big.NewInt(0xFFFFFFFF))
	if err != nil {
		return nil, err
	}
	nonce := randomBigInt.String()
	return &nonce, nil
}

// GetVaspDomainFromUmaAddress returns the domain part of an address like
// "$alice@vasp.com".
func GetVaspDomainFromUmaAddress(umaAddress string) (string, error) {
	addressParts := strings.Split(umaAddress, "@")
	if len(addressParts) != 2 {
		return "", &umaerrors.UmaError{
			Reason:    "invalid uma address: " + umaAddress,
			ErrorCode: generated.InvalidInput,
		}
	}
	return addressParts[1], nil
}

// GetSignedLnurlpRequestUrl creates a signed lnurlp request URL.
//
// Args:
//
//	signingPrivateKey: the private key of the VASP that is sending the payment. This will be used to sign the request.
//	receiverAddress: the address of the receiver of the payment (i.e. $bob@vasp2).
//	senderVaspDomain: the domain of the VASP that is sending the payment. It will be used by the receiver to fetch the
//	    public keys of the sender.
//	isSubjectToTravelRule: whether the sending VASP is a financial institution that requires travel rule information.
//	umaVersionOverride: the UMA version to use for this request. If not specified, the latest version will be used.
func GetSignedLnurlpRequestUrl(
	signingPrivateKey []byte,
	receiverAddress string,
	senderVaspDomain string,
	isSubjectToTravelRule bool,
	umaVersionOverride *string,
) (*url.URL, error) {
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}
	umaVersion := UmaProtocolVersion
	if umaVersionOverride != nil {
		umaVersion = *umaVersionOverride
	}
	now := time.Now()
	unsignedRequest := protocol.LnurlpRequest{
		ReceiverAddress:       receiverAddress,
		IsSubjectToTravelRule: &isSubjectToTravelRule,
		VaspDomain:            &senderVaspDomain,
		Timestamp:             &now,
		Nonce:                 nonce,
		UmaVersion:            &umaVersion,
	}
	signablePayload, err := unsignedRequest.SignablePayload()
	if err != nil {
		return nil, err
	}
	signature, err := utils.SignPayload(signablePayload, signingPrivateKey)
	if err != nil {
		return nil, err
	}
	unsignedRequest.Signature = signature

	return unsignedRequest.EncodeToUrl()
}

// IsUmaLnurlpQuery reports whether the URL is an UMA lnurlp request rather
// than a plain LNURL one. A version-mismatched UMA request still counts.
func IsUmaLnurlpQuery(url url.URL) bool {
	query, err := ParseLnurlpRequest(url)
	if err != nil {
		_, isUnsupportedVersionError := err.(UnsupportedVersionError)
		return isUnsupportedVersionError
	}
	return query.IsUmaRequest()
}

// ParseLnurlpRequest parses the message into an LnurlpRequest object.
//
// Args:
//
//	url: the full URL of the uma request.
func ParseLnurlpRequest(url url.URL) (*protocol.LnurlpRequest, error) {
	return ParseLnurlpRequestWithReceiverDomain(url, url.Host)
}

// ParseLnurlpRequestWithReceiverDomain is ParseLnurlpRequest for cases where
// the receiving VASP is behind a proxy and the public-facing domain differs
// from the one in the request URL.
func ParseLnurlpRequestWithReceiverDomain(requestUrl url.URL, receiverDomain string) (*protocol.LnurlpRequest, error) {
	query := requestUrl.Query()
	signature := query.Get("signature")
	vaspDomain := query.Get("vaspDomain")
	nonce := query.Get("nonce")
	isSubjectToTravelRule := query.Get("isSubjectToTravelRule")
	umaVersion := query.Get("umaVersion")
	timestamp := query.Get("timestamp")
	backingSignatures := query.Get("backingSignatures")
	var timestampAsTime *time.Time
	if timestamp != "" {
		timestampAsString, dateErr := strconv.ParseInt(timestamp, 10, 64)
		if dateErr != nil {
			return nil, &umaerrors.UmaError{
				Reason:    "invalid timestamp: " + dateErr.Error(),
				ErrorCode: generated.InvalidTimestamp,
			}
		}
		timestampAsTimeVal := time.Unix(timestampAsString, 0)
		timestampAsTime = &timestampAsTimeVal
	}

	if umaVersion != "" && !IsVersionSupported(umaVersion) {
		supportedMajorVersions := GetSupportedMajorVersions()
		supportedMajorVersionsList := make([]int, 0, len(supportedMajorVersions))
		for version := range supportedMajorVersions {
			supportedMajorVersionsList = append(supportedMajorVersionsList, version)
		}
		return nil, UnsupportedVersionError{
			UnsupportedVersion:     umaVersion,
			SupportedMajorVersions: supportedMajorVersionsList,
		}
	}

	pathParts := strings.Split(requestUrl.Path, "/")
	if len(pathParts) != 4 || pathParts[1] != ".well-known" || pathParts[2] != "lnurlp" {
		return nil, &umaerrors.UmaError{
			Reason:    "invalid uma request path: " + requestUrl.Path,
			ErrorCode: generated.ParseLnurlpRequestError,
		}
	}
	receiverAddress := pathParts[3] + "@" + receiverDomain

	var backingSignaturesList *[]protocol.BackingSignature
	if backingSignatures != "" {
		var err error
		backingSignaturesList, err = protocol.DecodeBackingSignatures(backingSignatures)
		if err != nil {
			return nil, err
		}
	}

	request := protocol.LnurlpRequest{
		ReceiverAddress:   receiverAddress,
		BackingSignatures: backingSignaturesList,
	}
	if vaspDomain != "" {
		request.VaspDomain = &vaspDomain
	}
	if nonce != "" {
		request.Nonce = &nonce
	}
	if signature != "" {
		request.Signature = &signature
	}
	if isSubjectToTravelRule != "" {
		isSubjectToTravelRuleBool := strings.ToLower(isSubjectToTravelRule) == "true"
		request.IsSubjectToTravelRule = &isSubjectToTravelRuleBool
	}
	if umaVersion != "" {
		request.UmaVersion = &umaVersion
	}
	request.Timestamp = timestampAsTime
	return &request, nil
}

// VerifyUmaLnurlpQuerySignature verifies the signature on an uma Lnurlp query based on the public key of the VASP
// making the request.
//
// Args:
//
//	query: the signed query to verify.
//	otherVaspPubKeyResponse: the PubKeyResponse of the VASP making this request.
//	nonceCache: the NonceCache cache to use to prevent replay attacks.
func VerifyUmaLnurlpQuerySignature(
	query protocol.UmaLnurlpRequest,
	otherVaspPubKeyResponse protocol.PubKeyResponse,
	nonceCache NonceCache,
) error {
	if err := nonceCache.CheckAndSaveNonce(query.Nonce, query.Timestamp); err != nil {
		return err
	}
	signablePayload, err := query.SignablePayload()
	if err != nil {
		return err
	}
	otherVaspSigningPubKey, err := otherVaspPubKeyResponse.SigningPubKey()
	if err != nil {
		return err
	}
	return utils.VerifySignature(signablePayload, query.Signature, otherVaspSigningPubKey)
}

// VerifyUmaLnurlpQueryBackingSignatures verifies the backing signatures on an UMA Lnurlp query. You may optionally
// call this function after VerifyUmaLnurlpQuerySignature to verify signatures from backing VASPs.
//
// Args:
//
//	query: the signed query to verify.
//	cache: the PublicKeyCache cache to use. You can use the InMemoryPublicKeyCache struct, or implement your own
//	    persistent cache with any storage type.
func VerifyUmaLnurlpQueryBackingSignatures(query protocol.UmaLnurlpRequest, cache PublicKeyCache) error {
	if query.BackingSignatures == nil {
		return nil
	}
	signablePayload, err := query.SignablePayload()
	if err != nil {
		return err
	}
	for _, backingSignature := range *query.BackingSignatures {
		backingVaspPubKeyResponse, err := FetchPublicKeyForVasp(backingSignature.Domain, cache)
		if err != nil {
			return err
		}
		backingVaspSigningPubKey, err := backingVaspPubKeyResponse.SigningPubKey()
		if err != nil {
			return err
		}
		if err := utils.VerifySignature(signablePayload, backingSignature.Signature, backingVaspSigningPubKey); err != nil {
			return err
		}
	}
	return nil
}

// GetLnurlpResponse builds the response to an lnurlp request. For UMA
// requests, every optional argument after encodedMetadata is required.
//
// Args:
//
//	request: the uma request.
//	privateKeyBytes: the private key of the VASP that is receiving the payment. This will be used to sign the response.
//	requiresTravelRuleInfo: whether the receiving VASP is a financial institution that requires travel rule information.
//	callback: the URL that the sending VASP will call to retrieve an invoice via a payreq.
//	encodedMetadata: the metadata that will be added to the invoice's metadata hash field.
//	minSendableSats: the minimum amount of sats that the receiver can receive.
//	maxSendableSats: the maximum amount of sats that the receiver can receive.
//	payerDataOptions: the data that the sender must send to the receiver to identify themselves.
//	currencyOptions: the currencies that the receiver can receive the payment in.
//	receiverKycStatus: whether the receiver is a KYC'd customer of the receiving VASP.
//	commentCharsAllowed: the number of characters that the sender can include in the comment field of the pay request.
//	nostrPubkey: the nostr pubkey of the receiver for nostr zaps (NIP-57).
func GetLnurlpResponse(
	request protocol.LnurlpRequest,
	privateKeyBytes *[]byte,
	requiresTravelRuleInfo *bool,
	callback string,
	encodedMetadata string,
	minSendableSats int64,
	maxSendableSats int64,
	payerDataOptions *protocol.CounterPartyDataOptions,
	currencyOptions *[]protocol.Currency,
	receiverKycStatus *protocol.KycStatus,
	commentCharsAllowed *int,
	nostrPubkey *string,
) (*protocol.LnurlpResponse, error) {
	isUmaRequest := request.IsUmaRequest()
	var complianceResponse *protocol.LnurlComplianceResponse
	var umaVersion *string
	if isUmaRequest {
		requiredUmaFields := map[string]interface{}{
			"privateKeyBytes":        privateKeyBytes,
			"requiresTravelRuleInfo": requiresTravelRuleInfo,
			"receiverKycStatus":      receiverKycStatus,
			"currencyOptions":        currencyOptions,
		}
		for fieldName, fieldValue := range requiredUmaFields {
			if isNilPointer(fieldValue) {
				return nil, &umaerrors.UmaError{
					Reason:    fieldName + " is required for uma response",
					ErrorCode: generated.MissingRequiredUmaParameters,
				}
			}
		}

		selectedVersion, err := SelectLowerVersion(*request.UmaVersion, UmaProtocolVersion)
		if err != nil {
			return nil, err
		}
		umaVersion = selectedVersion

		complianceResponse, err = getSignedLnurlpComplianceResponse(
			request, *privateKeyBytes, *requiresTravelRuleInfo, *receiverKycStatus)
		if err != nil {
			return nil, err
		}

		// UMA always requires the identifier and compliance payer data.
		if payerDataOptions == nil {
			payerDataOptions = &protocol.CounterPartyDataOptions{}
		}
		(*payerDataOptions)[protocol.CounterPartyDataFieldIdentifier.String()] = protocol.CounterPartyDataOption{Mandatory: true}
		(*payerDataOptions)[protocol.CounterPartyDataFieldCompliance.String()] = protocol.CounterPartyDataOption{Mandatory: true}

		umaMajorVersion, err := ParseVersion(*umaVersion)
		if err != nil {
			return nil, err
		}
		if currencyOptions != nil {
			for i := range *currencyOptions {
				(*currencyOptions)[i].UmaMajorVersion = umaMajorVersion.Major
			}
		}
	}

	return &protocol.LnurlpResponse{
		Tag:                 "payRequest",
		Callback:            callback,
		MinSendable:         minSendableSats * 1000,
		MaxSendable:         maxSendableSats * 1000,
		EncodedMetadata:     encodedMetadata,
		Currencies:          currencyOptions,
		RequiredPayerData:   payerDataOptions,
		Compliance:          complianceResponse,
		UmaVersion:          umaVersion,
		CommentCharsAllowed: commentCharsAllowed,
		NostrPubkey:         nostrPubkey,
		AllowsNostr:         boolPtrIfSet(nostrPubkey),
	}, nil
}

func boolPtrIfSet(nostrPubkey *string) *bool {
	if nostrPubkey == nil {
		return nil
	}
	allowsNostr := true
	return &allowsNostr
}

// isNilPointer guards against typed-nil pointers hiding inside the interface
// values of the required-field map.
func isNilPointer(value interface{}) bool {
	switch v := value.(type) {
	case *[]byte:
		return v == nil
	case *bool:
		return v == nil
	case *protocol.CounterPartyDataOptions:
		return v == nil
	case *protocol.KycStatus:
		return v == nil
	case *[]protocol.Currency:
		return v == nil
	default:
		return false
	}
}

func getSignedLnurlpComplianceResponse(
	query protocol.LnurlpRequest,
	privateKeyBytes []byte,
	isSubjectToTravelRule bool,
	receiverKycStatus protocol.KycStatus,
) (*protocol.LnurlComplianceResponse, error) {
	timestamp := time.Now().Unix()
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}
	payloadString := strings.ToLower(strings.Join([]string{
		query.ReceiverAddress,
		*nonce,
		strconv.FormatInt(timestamp, 10),
	}, "|"))
	signature, err := utils.SignPayload([]byte(payloadString), privateKeyBytes)
	if err != nil {
		return nil, err
	}
	return &protocol.LnurlComplianceResponse{
		KycStatus:             receiverKycStatus,
		Signature:             *signature,
		Nonce:                 *nonce,
		Timestamp:             timestamp,
		IsSubjectToTravelRule: isSubjectToTravelRule,
		ReceiverIdentifier:    query.ReceiverAddress,
	}, nil
}

// VerifyUmaLnurlpResponseSignature verifies the signature on an uma Lnurlp response based on the public key of the VASP
// making the request.
//
// Args:
//
//	response: the signed response to verify.
//	otherVaspPubKeyResponse: the PubKeyResponse of the VASP making this request.
//	nonceCache: the NonceCache cache to use to prevent replay attacks.
func VerifyUmaLnurlpResponseSignature(
	response protocol.UmaLnurlpResponse,
	otherVaspPubKeyResponse protocol.PubKeyResponse,
	nonceCache NonceCache,
) error {
	if err := nonceCache.CheckAndSaveNonce(response.Compliance.Nonce, time.Unix(response.Compliance.Timestamp, 0)); err != nil {
		return err
	}
	otherVaspSigningPubKey, err := otherVaspPubKeyResponse.SigningPubKey()
	if err != nil {
		return err
	}
	return utils.VerifySignature(response.SignablePayload(), response.Compliance.Signature, otherVaspSigningPubKey)
}

// VerifyUmaLnurlpResponseBackingSignatures verifies the backing signatures on an UMA Lnurlp response. You may
// optionally call this function after VerifyUmaLnurlpResponseSignature to verify signatures from backing VASPs.
func VerifyUmaLnurlpResponseBackingSignatures(response protocol.UmaLnurlpResponse, cache PublicKeyCache) error {
	if response.Compliance.BackingSignatures == nil {
		return nil
	}
	signablePayload := response.SignablePayload()
	for _, backingSignature := range *response.Compliance.BackingSignatures {
		backingVaspPubKeyResponse, err := FetchPublicKeyForVasp(backingSignature.Domain, cache)
		if err != nil {
			return err
		}
		backingVaspSigningPubKey, err := backingVaspPubKeyResponse.SigningPubKey()
		if err != nil {
			return err
		}
		if err := utils.VerifySignature(signablePayload, backingSignature.Signature, backingVaspSigningPubKey); err != nil {
			return err
		}
	}
	return nil
}

func ParseLnurlpResponse(bytes []byte) (*protocol.LnurlpResponse, error) {
	var response protocol.LnurlpResponse
	if err := json.Unmarshal(bytes, &response); err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "invalid lnurlp response: " + err.Error(),
			ErrorCode: generated.ParseLnurlpResponseError,
		}
	}
	return &response, nil
}

// GetUmaPayRequest creates a signed uma pay request using the most recent UMA version.
//
// Args:
//
//	amount: the amount of the payment in the smallest unit of the specified currency (i.e. cents for USD) if
//	    isAmountInReceivingCurrency is true. Otherwise, it is the amount in millisatoshis.
//	receiverEncryptionPubKey: the public key of the receiver that will be used to encrypt the travel rule information.
//	sendingVaspPrivateKey: the private key of the VASP that is sending the payment. This will be used to sign the request.
//	receivingCurrencyCode: the code of the currency that the receiver will receive for this payment.
//	isAmountInReceivingCurrency: whether the amount field is specified in the smallest unit of the receiving
//	    currency or in msats (if false).
//	payerIdentifier: the identifier of the sender. For example, $alice@vasp1.com
//	payerName: the name of the sender.
//	payerEmail: the email of the sender.
//	trInfo: the travel rule information. This will be encrypted before sending to the receiver.
//	trInfoFormat: the standardized format of the travel rule information (e.g. IVMS). Null indicates raw json or a
//	    custom format.
//	payerKycStatus: whether the sender is a KYC'd customer of the sending VASP.
//	payerUtxos: the list of UTXOs of the sender's channels that might be used to fund the payment.
//	payerNodePubKey: the public key of the sender's node if known.
//	utxoCallback: the URL that the receiver will call to send UTXOs of the channel that the receiver used to receive
//	    the payment once it completes.
//	requestedPayeeData: the payee data which the sender is requesting about the receiver.
//	comment: a comment that the sender would like to include with the payment. This can only be included
//	    if the receiver included the `commentAllowed` field in the lnurlp response. The length of
//	    the comment must be less than or equal to the value of `commentAllowed`.
func GetUmaPayRequest(
	amount int64,
	receiverEncryptionPubKey []byte,
	sendingVaspPrivateKey []byte,
	receivingCurrencyCode string,
	isAmountInReceivingCurrency bool,
	payerIdentifier string,
	payerName *string,
	payerEmail *string,
	trInfo *string,
	trInfoFormat *protocol.TravelRuleFormat,
	payerKycStatus protocol.KycStatus,
	payerUtxos *[]string,
	payerNodePubKey *string,
	utxoCallback string,
	requestedPayeeData *protocol.CounterPartyDataOptions,
	comment *string,
) (*protocol.PayRequest, error) {
	return GetUmaPayRequestWithVersion(
		amount,
		receiverEncryptionPubKey,
		sendingVaspPrivateKey,
		receivingCurrencyCode,
		isAmountInReceivingCurrency,
		payerIdentifier,
		payerName,
		payerEmail,
		trInfo,
		trInfoFormat,
		payerKycStatus,
		payerUtxos,
		payerNodePubKey,
		utxoCallback,
		requestedPayeeData,
		comment,
		MAJOR_VERSION,
	)
}

// GetUmaPayRequestWithVersion is GetUmaPayRequest for a specific negotiated
// major version, for backwards compatibility after version negotiation.
func GetUmaPayRequestWithVersion(
	amount int64,
	receiverEncryptionPubKey []byte,
	sendingVaspPrivateKey []byte,
	receivingCurrencyCode string,
	isAmountInReceivingCurrency bool,
	payerIdentifier string,
	payerName *string,
	payerEmail *string,
	trInfo *string,
	trInfoFormat *protocol.TravelRuleFormat,
	payerKycStatus protocol.KycStatus,
	payerUtxos *[]string,
	payerNodePubKey *string,
	utxoCallback string,
	requestedPayeeData *protocol.CounterPartyDataOptions,
	comment *string,
	umaMajorVersion int,
) (*protocol.PayRequest, error) {
	complianceData, err := getSignedCompliancePayerData(
		receiverEncryptionPubKey,
		sendingVaspPrivateKey,
		payerIdentifier,
		trInfo,
		trInfoFormat,
		payerKycStatus,
		payerUtxos,
		payerNodePubKey,
		utxoCallback,
	)
	if err != nil {
		return nil, err
	}
	complianceDataAsMap, err := complianceData.AsMap()
	if err != nil {
		return nil, err
	}
	payerData := protocol.PayerData{
		protocol.CounterPartyDataFieldIdentifier.String(): payerIdentifier,
		protocol.CounterPartyDataFieldCompliance.String(): complianceDataAsMap,
	}
	if payerName != nil {
		payerData[protocol.CounterPartyDataFieldName.String()] = *payerName
	}
	if payerEmail != nil {
		payerData[protocol.CounterPartyDataFieldEmail.String()] = *payerEmail
	}
	var sendingAmountCurrencyCode *string
	if isAmountInReceivingCurrency {
		sendingAmountCurrencyCode = &receivingCurrencyCode
	}
	return &protocol.PayRequest{
		SendingAmountCurrencyCode: sendingAmountCurrencyCode,
		ReceivingCurrencyCode:     &receivingCurrencyCode,
		Amount:                    amount,
		PayerData:                 &payerData,
		RequestedPayeeData:        requestedPayeeData,
		Comment:                   comment,
		UmaMajorVersion:           umaMajorVersion,
	}, nil
}

func getSignedCompliancePayerData(
	receiverEncryptionPubKeyBytes []byte,
	sendingVaspPrivateKeyBytes []byte,
	payerIdentifier string,
	trInfo *string,
	trInfoFormat *protocol.TravelRuleFormat,
	payerKycStatus protocol.KycStatus,
	payerUtxos *[]string,
	payerNodePubKey *string,
	utxoCallback string,
) (*protocol.CompliancePayerData, error) {
	timestamp := time.Now().Unix()
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}
	var encryptedTrInfo *string
	if trInfo != nil {
		encryptedTrInfo, err = encryptTrInfo(*trInfo, receiverEncryptionPubKeyBytes)
		if err != nil {
			return nil, err
		}
	}

	payloadString := strings.ToLower(strings.Join([]string{
		payerIdentifier,
		*nonce,
		strconv.FormatInt(timestamp, 10),
	}, "|"))
	signature, err := utils.SignPayload([]byte(payloadString), sendingVaspPrivateKeyBytes)
	if err != nil {
		return nil, err
	}

	return &protocol.CompliancePayerData{
		Utxos:                   payerUtxos,
		NodePubKey:              payerNodePubKey,
		KycStatus:               payerKycStatus,
		EncryptedTravelRuleInfo: encryptedTrInfo,
		TravelRuleFormat:        trInfoFormat,
		Signature:               *signature,
		SignatureNonce:          *nonce,
		SignatureTimestamp:      timestamp,
		UtxoCallback:            utxoCallback,
	}, nil
}

func encryptTrInfo(trInfo string, receiverEncryptionPubKey []byte) (*string, error) {
	pubKey, err := eciesgo.NewPublicKeyFromBytes(receiverEncryptionPubKey)
	if err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "invalid encryption public key: " + err.Error(),
			ErrorCode: generated.InvalidPubkeyFormat,
		}
	}

	encryptedTrInfoBytes, err := eciesgo.Encrypt(pubKey, []byte(trInfo))
	if err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "failed to encrypt travel rule info: " + err.Error(),
			ErrorCode: generated.InternalError,
		}
	}

	encryptedTrInfoHex := hex.EncodeToString(encryptedTrInfoBytes)
	return &encryptedTrInfoHex, nil
}

// ParsePayRequest parses the message into a PayRequest object.
//
// Args:
//
//	bytes: the raw bytes of the payreq request body.
func ParsePayRequest(bytes []byte) (*protocol.PayRequest, error) {
	var payreq protocol.PayRequest
	if err := json.Unmarshal(bytes, &payreq); err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "invalid pay request: " + err.Error(),
			ErrorCode: generated.ParsePayreqRequestError,
		}
	}
	return &payreq, nil
}

// ParsePayRequestFromQueryParams parses a PayRequest from the query
// parameters of a GET payreq callback, the inverse of
// PayRequest.EncodeAsUrlParams.
func ParsePayRequestFromQueryParams(query url.Values) (*protocol.PayRequest, error) {
	amountStr := query.Get("amount")
	if amountStr == "" {
		return nil, &umaerrors.UmaError{
			Reason:    "missing amount",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	amount, sendingAmountCurrencyCode, err := protocol.ParseAmountField(amountStr)
	if err != nil {
		return nil, err
	}

	payerDataStr := query.Get("payerData")
	var payerData *protocol.PayerData
	if payerDataStr != "" {
		if err := json.Unmarshal([]byte(payerDataStr), &payerData); err != nil {
			return nil, &umaerrors.UmaError{
				Reason:    "invalid payerData: " + err.Error(),
				ErrorCode: generated.ParsePayreqRequestError,
			}
		}
	}
	requestedPayeeDataStr := query.Get("payeeData")
	var requestedPayeeData *protocol.CounterPartyDataOptions
	if requestedPayeeDataStr != "" {
		if err := json.Unmarshal([]byte(requestedPayeeDataStr), &requestedPayeeData); err != nil {
			return nil, &umaerrors.UmaError{
				Reason:    "invalid payeeData: " + err.Error(),
				ErrorCode: generated.ParsePayreqRequestError,
			}
		}
	}
	var receivingCurrencyCode *string
	if convert := query.Get("convert"); convert != "" {
		receivingCurrencyCode = &convert
	}
	var comment *string
	if commentValue := query.Get("comment"); commentValue != "" {
		comment = &commentValue
	}

	return &protocol.PayRequest{
		SendingAmountCurrencyCode: sendingAmountCurrencyCode,
		ReceivingCurrencyCode:     receivingCurrencyCode,
		Amount:                    amount,
		PayerData:                 payerData,
		RequestedPayeeData:        requestedPayeeData,
		Comment:                   comment,
		UmaMajorVersion:           MAJOR_VERSION,
	}, nil
}

// VerifyPayReqSignature verifies the signature on an uma pay request based on the public key of the VASP making the
// request.
//
// Args:
//
//	query: the signed query to verify.
//	otherVaspPubKeyResponse: the PubKeyResponse of the VASP making this request.
//	nonceCache: the NonceCache cache to use to prevent replay attacks.
func VerifyPayReqSignature(
	query *protocol.PayRequest,
	otherVaspPubKeyResponse protocol.PubKeyResponse,
	nonceCache NonceCache,
) error {
	complianceData, err := query.PayerData.Compliance()
	if err != nil {
		return err
	}
	if complianceData == nil {
		return &umaerrors.UmaError{
			Reason:    "missing compliance data",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	if err := nonceCache.CheckAndSaveNonce(
		complianceData.SignatureNonce,
		time.Unix(complianceData.SignatureTimestamp, 0),
	); err != nil {
		return err
	}
	signablePayload, err := query.SignablePayload()
	if err != nil {
		return err
	}
	otherVaspSigningPubKey, err := otherVaspPubKeyResponse.SigningPubKey()
	if err != nil {
		return err
	}
	return utils.VerifySignature(signablePayload, complianceData.Signature, otherVaspSigningPubKey)
}

// VerifyPayReqBackingSignatures verifies the backing signatures on an UMA pay request. You may optionally call this
// function after VerifyPayReqSignature to verify signatures from backing VASPs.
func VerifyPayReqBackingSignatures(query *protocol.PayRequest, cache PublicKeyCache) error {
	complianceData, err := query.PayerData.Compliance()
	if err != nil {
		return err
	}
	if complianceData == nil || complianceData.BackingSignatures == nil {
		return nil
	}
	signablePayload, err := query.SignablePayload()
	if err != nil {
		return err
	}
	for _, backingSignature := range *complianceData.BackingSignatures {
		backingVaspPubKeyResponse, err := FetchPublicKeyForVasp(backingSignature.Domain, cache)
		if err != nil {
			return err
		}
		backingVaspSigningPubKey, err := backingVaspPubKeyResponse.SigningPubKey()
		if err != nil {
			return err
		}
		if err := utils.VerifySignature(signablePayload, backingSignature.Signature, backingVaspSigningPubKey); err != nil {
			return err
		}
	}
	return nil
}

// InvoiceCreator creates a Lightning invoice for the computed msats amount.
// The metadata string must be hashed into the invoice's description hash.
type InvoiceCreator interface {
	CreateInvoice(amountMsats int64, metadata string) (*string, error)
}

// GetPayReqResponse creates an uma pay request response with an encoded invoice.
//
// Args:
//
//	query: the uma pay request.
//	invoiceCreator: the InvoiceCreator interface which will be used to create the invoice.
//	metadata: the metadata that will be added to the invoice's metadata hash field.
//	receivingCurrencyCode: the code of the currency that the receiver will receive for this payment. Required for UMA.
//	receivingCurrencyDecimals: the number of digits after the decimal point for the receiving currency. Required for UMA.
//	conversionRate: millisats per smallest unit of the specified currency. Required for UMA.
//	receiverFeesMillisats: the fees charged (in millisats) by the receiving VASP for this transaction. This is separate
//	    from the conversion rate. Required for UMA.
//	receiverChannelUtxos: the list of UTXOs of the receiver's channels that might be used to fund the payment.
//	receiverNodePubKey: the public key of the receiver's node if known.
//	utxoCallback: the URL that the receiving VASP will call to send UTXOs of the channel that the receiver used to
//	    receive the payment once it completes.
//	payeeData: the payee data which was requested by the sender. Can be nil if no payee data was requested or is
//	    mandatory.
//	receivingVaspPrivateKey: the private key of the VASP that is receiving the payment. This will be used to sign the
//	    response. Required for UMA.
//	payeeIdentifier: the identifier of the receiver. For example, $bob@vasp2.com. Required for UMA.
//	disposable: whether the initial LNURL link can be reused. UMA should always set this to false.
//	successAction: an action that the wallet can show the user on payment success (see LUD-09).
func GetPayReqResponse(
	query protocol.PayRequest,
	invoiceCreator InvoiceCreator,
	metadata string,
	receivingCurrencyCode *string,
	receivingCurrencyDecimals *int,
	conversionRate *float64,
	receiverFeesMillisats *int64,
	receiverChannelUtxos *[]string,
	receiverNodePubKey *string,
	utxoCallback *string,
	payeeData *protocol.PayeeData,
	receivingVaspPrivateKey *[]byte,
	payeeIdentifier *string,
	disposable *bool,
	successAction *map[string]string,
) (*protocol.PayReqResponse, error) {
	if query.SendingAmountCurrencyCode != nil &&
		(receivingCurrencyCode == nil || *query.SendingAmountCurrencyCode != *receivingCurrencyCode) {
		return nil, &umaerrors.UmaError{
			Reason:    "the sending currency code in the pay request does not match the receiving currency code",
			ErrorCode: generated.InvalidCurrency,
		}
	}
	if receivingCurrencyCode != nil && (receivingCurrencyDecimals == nil || conversionRate == nil || receiverFeesMillisats == nil) {
		return nil, &umaerrors.UmaError{
			Reason:    "receivingCurrencyDecimals, conversionRate and receiverFeesMillisats are required when receivingCurrencyCode is set",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}

	rate := 1.0
	if conversionRate != nil {
		rate = *conversionRate
	}
	var fees int64
	if receiverFeesMillisats != nil {
		fees = *receiverFeesMillisats
	}

	isAmountInMsats := query.SendingAmountCurrencyCode == nil
	var msatsAmount int64
	var receivingCurrencyAmount int64
	if isAmountInMsats {
		msatsAmount = query.Amount
		receivingCurrencyAmount = int64(math.Round(float64(query.Amount-fees) / rate))
	} else {
		msatsAmount = int64(math.Round(float64(query.Amount)*rate)) + fees
		receivingCurrencyAmount = query.Amount
	}

	invoiceMetadata := metadata
	if query.PayerData != nil {
		payerDataJson, err := json.Marshal(query.PayerData)
		if err != nil {
			return nil, err
		}
		invoiceMetadata += string(payerDataJson)
	}
	encodedInvoice, err := invoiceCreator.CreateInvoice(msatsAmount, invoiceMetadata)
	if err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "failed to create invoice: " + err.Error(),
			ErrorCode: generated.InternalError,
		}
	}

	if query.IsUmaRequest() {
		if receivingVaspPrivateKey == nil || payeeIdentifier == nil {
			return nil, &umaerrors.UmaError{
				Reason:    "receivingVaspPrivateKey and payeeIdentifier are required for uma responses",
				ErrorCode: generated.MissingRequiredUmaParameters,
			}
		}
		complianceData, err := getSignedCompliancePayeeData(
			query,
			*receivingVaspPrivateKey,
			*payeeIdentifier,
			receiverChannelUtxos,
			receiverNodePubKey,
			utxoCallback,
		)
		if err != nil {
			return nil, err
		}
		complianceDataAsMap, err := complianceData.AsMap()
		if err != nil {
			return nil, err
		}
		if payeeData == nil {
			payeeData = &protocol.PayeeData{}
		}
		if _, hasIdentifier := (*payeeData)[protocol.CounterPartyDataFieldIdentifier.String()]; !hasIdentifier {
			(*payeeData)[protocol.CounterPartyDataFieldIdentifier.String()] = *payeeIdentifier
		}
		(*payeeData)[protocol.CounterPartyDataFieldCompliance.String()] = complianceDataAsMap
	}

	var paymentInfo *protocol.PayReqResponsePaymentInfo
	if receivingCurrencyCode != nil {
		amountPtr := &receivingCurrencyAmount
		if query.UmaMajorVersion == 0 {
			amountPtr = nil
		}
		paymentInfo = &protocol.PayReqResponsePaymentInfo{
			Amount:                   amountPtr,
			CurrencyCode:             *receivingCurrencyCode,
			Decimals:                 *receivingCurrencyDecimals,
			Multiplier:               rate,
			ExchangeFeesMillisatoshi: fees,
		}
	}

	return &protocol.PayReqResponse{
		EncodedInvoice:  *encodedInvoice,
		Routes:          []protocol.Route{},
		PaymentInfo:     paymentInfo,
		PayeeData:       payeeData,
		Disposable:      disposable,
		SuccessAction:   successAction,
		UmaMajorVersion: query.UmaMajorVersion,
	}, nil
}

func getSignedCompliancePayeeData(
	query protocol.PayRequest,
	receivingVaspPrivateKeyBytes []byte,
	payeeIdentifier string,
	receiverChannelUtxos *[]string,
	receiverNodePubKey *string,
	utxoCallback *string,
) (*protocol.CompliancePayeeData, error) {
	payerIdentifier := query.PayerData.Identifier()
	if payerIdentifier == nil {
		return nil, &umaerrors.UmaError{
			Reason:    "payer data identifier is missing",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	timestamp := time.Now().Unix()
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}
	utxos := []string{}
	if receiverChannelUtxos != nil {
		utxos = *receiverChannelUtxos
	}
	complianceData := protocol.CompliancePayeeData{
		NodePubKey:         receiverNodePubKey,
		Utxos:              utxos,
		UtxoCallback:       utxoCallback,
		SignatureNonce:     nonce,
		SignatureTimestamp: &timestamp,
	}
	signablePayload, err := complianceData.SignablePayload(*payerIdentifier, payeeIdentifier)
	if err != nil {
		return nil, err
	}
	signature, err := utils.SignPayload(signablePayload, receivingVaspPrivateKeyBytes)
	if err != nil {
		return nil, err
	}
	complianceData.Signature = signature
	return &complianceData, nil
}

// ParsePayReqResponse parses the message into a PayReqResponse object.
//
// Args:
//
//	bytes: the raw bytes of the payreq response body.
func ParsePayReqResponse(bytes []byte) (*protocol.PayReqResponse, error) {
	var response protocol.PayReqResponse
	if err := json.Unmarshal(bytes, &response); err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "invalid payreq response: " + err.Error(),
			ErrorCode: generated.ParsePayreqResponseError,
		}
	}
	return &response, nil
}

// VerifyPayReqResponseSignature verifies the signature on an uma pay request response based on the public key of the
// VASP making the request.
//
// Args:
//
//	response: the signed response to verify.
//	otherVaspPubKeyResponse: the PubKeyResponse of the VASP making this request.
//	nonceCache: the NonceCache cache to use to prevent replay attacks.
//	payerIdentifier: the identifier of the sender. For example, $alice@vasp1.com
//	payeeIdentifier: the identifier of the receiver. For example, $bob@vasp2.com
func VerifyPayReqResponseSignature(
	response *protocol.PayReqResponse,
	otherVaspPubKeyResponse protocol.PubKeyResponse,
	nonceCache NonceCache,
	payerIdentifier string,
	payeeIdentifier string,
) error {
	complianceData, err := response.PayeeData.Compliance()
	if err != nil {
		return err
	}
	if complianceData == nil {
		return &umaerrors.UmaError{
			Reason:    "missing compliance data",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	if response.UmaMajorVersion == 0 {
		return &umaerrors.UmaError{
			Reason:    "signatures aren't included in v0 responses. This version cannot be verified",
			ErrorCode: generated.InternalError,
		}
	}
	if complianceData.Signature == nil || complianceData.SignatureNonce == nil || complianceData.SignatureTimestamp == nil {
		return &umaerrors.UmaError{
			Reason:    "missing signature data",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	if err := nonceCache.CheckAndSaveNonce(
		*complianceData.SignatureNonce,
		time.Unix(*complianceData.SignatureTimestamp, 0),
	); err != nil {
		return err
	}
	signablePayload, err := complianceData.SignablePayload(payerIdentifier, payeeIdentifier)
	if err != nil {
		return err
	}
	otherVaspSigningPubKey, err := otherVaspPubKeyResponse.SigningPubKey()
	if err != nil {
		return err
	}
	return utils.VerifySignature(signablePayload, *complianceData.Signature, otherVaspSigningPubKey)
}

// VerifyPayReqResponseBackingSignatures verifies the backing signatures on an UMA pay request response. You may
// optionally call this function after VerifyPayReqResponseSignature to verify signatures from backing VASPs.
func VerifyPayReqResponseBackingSignatures(
	response *protocol.PayReqResponse,
	cache PublicKeyCache,
	payerIdentifier string,
	payeeIdentifier string,
) error {
	complianceData, err := response.PayeeData.Compliance()
	if err != nil {
		return err
	}
	if complianceData == nil || complianceData.BackingSignatures == nil {
		return nil
	}
	signablePayload, err := complianceData.SignablePayload(payerIdentifier, payeeIdentifier)
	if err != nil {
		return err
	}
	for _, backingSignature := range *complianceData.BackingSignatures {
		backingVaspPubKeyResponse, err := FetchPublicKeyForVasp(backingSignature.Domain, cache)
		if err != nil {
			return err
		}
		backingVaspSigningPubKey, err := backingVaspPubKeyResponse.SigningPubKey()
		if err != nil {
			return err
		}
		if err := utils.VerifySignature(signablePayload, backingSignature.Signature, backingVaspSigningPubKey); err != nil {
			return err
		}
	}
	return nil
}

// GetPostTransactionCallback creates a signed post transaction callback.
//
// Args:
//
//	utxos: UTXOs of the channels of the VASP initiating the callback.
//	vaspDomain: the domain of the VASP initiating the callback.
//	signingPrivateKey: the private key of the VASP initiating the callback. This will be used to sign the request.
func GetPostTransactionCallback(
	utxos []protocol.UtxoWithAmount,
	vaspDomain string,
	signingPrivateKey []byte,
) (*protocol.PostTransactionCallback, error) {
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}
	timestamp := time.Now().Unix()
	unsignedCallback := protocol.PostTransactionCallback{
		Utxos:      utxos,
		VaspDomain: &vaspDomain,
		Nonce:      nonce,
		Timestamp:  &timestamp,
	}
	signablePayload, err := unsignedCallback.SignablePayload()
	if err != nil {
		return nil, err
	}
	signature, err := utils.SignPayload(signablePayload, signingPrivateKey)
	if err != nil {
		return nil, err
	}
	unsignedCallback.Signature = signature
	return &unsignedCallback, nil
}

func ParsePostTransactionCallback(bytes []byte) (*protocol.PostTransactionCallback, error) {
	var callback protocol.PostTransactionCallback
	if err := json.Unmarshal(bytes, &callback); err != nil {
		return nil, &umaerrors.UmaError{
			Reason:    "invalid post transaction callback: " + err.Error(),
			ErrorCode: generated.ParseUtxoCallbackError,
		}
	}
	return &callback, nil
}

// VerifyPostTransactionCallbackSignature verifies the signature on a post transaction callback based on the public key
// of the counterparty VASP.
//
// Args:
//
//	callback: the signed callback to verify.
//	otherVaspPubKeyResponse: the PubKeyResponse of the VASP making this request.
//	nonceCache: the NonceCache cache to use to prevent replay attacks.
func VerifyPostTransactionCallbackSignature(
	callback *protocol.PostTransactionCallback,
	otherVaspPubKeyResponse protocol.PubKeyResponse,
	nonceCache NonceCache,
) error {
	if callback.Signature == nil || callback.Nonce == nil || callback.Timestamp == nil {
		return &umaerrors.UmaError{
			Reason:    "missing signature. Is this a v0 callback?",
			ErrorCode: generated.MissingRequiredUmaParameters,
		}
	}
	if err := nonceCache.CheckAndSaveNonce(*callback.Nonce, time.Unix(*callback.Timestamp, 0)); err != nil {
		return err
	}
	signablePayload, err := callback.SignablePayload()
	if err != nil {
		return err
	}
	otherVaspSigningPubKey, err := otherVaspPubKeyResponse.SigningPubKey()
	if err != nil {
		return err
	}
	return utils.VerifySignature(signablePayload, *callback.Signature, otherVaspSigningPubKey)
}

// CreateUmaInvoice creates a signed UMA invoice which can be paid by any
// sender, or by a specific sender when senderUma is set.
//
// Args:
//
//	receiverUma: the UMA address of the receiver.
//	amount: the amount of the invoice in the smallest unit of the receiving currency.
//	receivingCurrency: the currency of the invoice.
//	expiration: the unix timestamp at which the invoice expires.
//	callback: the URL that the sending VASP will call to send the PayRequest.
//	isSubjectToTravelRule: whether the receiving VASP is a financial institution that requires travel rule information.
//	requiredPayerData: the data about the payer that the receiving VASP requires.
//	commentCharsAllowed: the number of characters the sender can include in the comment field of the pay request.
//	senderUma: the UMA address of the sender when the invoice is addressed to a specific counterparty.
//	maxNumPayments: the maximum number of times the invoice can be paid.
//	kycStatus: whether the receiver is KYC verified by the receiving VASP.
//	privateKeyBytes: the private key of the VASP creating the invoice. This will be used to sign it.
func CreateUmaInvoice(
	receiverUma string,
	amount uint64,
	receivingCurrency protocol.InvoiceCurrency,
	expiration uint64,
	callback string,
	isSubjectToTravelRule bool,
	requiredPayerData *protocol.CounterPartyDataOptions,
	commentCharsAllowed *int,
	senderUma *string,
	maxNumPayments *int,
	kycStatus *protocol.KycStatus,
	privateKeyBytes []byte,
) (*protocol.UmaInvoice, error) {
	invoice := protocol.UmaInvoice{
		ReceiverUma:           receiverUma,
		InvoiceUUID:           uuid.New().String(),
		Amount:                amount,
		ReceivingCurrency:     receivingCurrency,
		Expiration:            expiration,
		IsSubjectToTravelRule: isSubjectToTravelRule,
		RequiredPayerData:     requiredPayerData,
		UmaVersions:           UmaProtocolVersion,
		CommentCharsAllowed:   commentCharsAllowed,
		SenderUma:             senderUma,
		MaxNumPayments:        maxNumPayments,
		KycStatus:             kycStatus,
		Callback:              callback,
	}
	unsignedTlv, err := invoice.MarshalTLV()
	if err != nil {
		return nil, err
	}
	signature, err := utils.SignPayloadToBytes(unsignedTlv, privateKeyBytes)
	if err != nil {
		return nil, err
	}
	invoice.Signature = &signature
	return &invoice, nil
}

// DecodeUmaInvoice decodes a bech32-encoded UMA invoice.
func DecodeUmaInvoice(invoice string) (*protocol.UmaInvoice, error) {
	return protocol.FromBech32String(invoice)
}

// VerifyUmaInvoiceSignature verifies the signature of an UMA invoice based on the public key of the VASP that created
// it.
func VerifyUmaInvoiceSignature(invoice protocol.UmaInvoice, otherVaspPubKeyResponse protocol.PubKeyResponse) error {
	if invoice.Signature == nil {
		return &umaerrors.UmaError{
			Reason:    "invoice is not signed",
			ErrorCode: generated.InvalidSignature,
		}
	}
	signature := *invoice.Signature
	unsignedInvoice := invoice
	unsignedInvoice.Signature = nil
	unsignedTlv, err := unsignedInvoice.MarshalTLV()
	if err != nil {
		return err
	}
	otherVaspSigningPubKey, err := otherVaspPubKeyResponse.SigningPubKey()
	if err != nil {
		return err
	}
	return utils.VerifySignatureBytes(unsignedTlv, signature, otherVaspSigningPubKey)
}
