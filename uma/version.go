package uma

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/errors"
	"github.com/uma-universal-money-address/uma-kotlin-sdk-sub000/uma/generated"
)

const MAJOR_VERSION = 1
const MINOR_VERSION = 0

// backCompatVersions are the versions of older protocol generations that this
// SDK still speaks, newest first.
var backCompatVersions = []string{"0.3"}

var UmaProtocolVersion = fmt.Sprintf("%d.%d", MAJOR_VERSION, MINOR_VERSION)

// UnsupportedVersionError is returned when a counterparty requests a major
// version this SDK does not speak. Its JSON body advertises the major
// versions the counterparty can retry with.
type UnsupportedVersionError struct {
	UnsupportedVersion     string `json:"unsupportedVersion"`
	SupportedMajorVersions []int  `json:"supportedMajorVersions"`
}

func (e UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported version: %s", e.UnsupportedVersion)
}

func (e UnsupportedVersionError) ToJSON() (string, error) {
	data := map[string]interface{}{
		"status":                 "ERROR",
		"reason":                 e.Error(),
		"code":                   generated.UnsupportedUmaVersion.Code,
		"unsupportedVersion":     e.UnsupportedVersion,
		"supportedMajorVersions": e.SupportedMajorVersions,
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}

func (e UnsupportedVersionError) ToHttpStatusCode() int {
	return generated.UnsupportedUmaVersion.HTTPStatusCode
}

// GetSupportedMajorVersionsFromErrorResponseBody extracts the counterparty's
// supported major versions from an UnsupportedVersionError response body.
func GetSupportedMajorVersionsFromErrorResponseBody(errorResponseBody []byte) ([]int, error) {
	var responseJson struct {
		SupportedMajorVersions []int `json:"supportedMajorVersions"`
	}
	err := json.Unmarshal(errorResponseBody, &responseJson)
	if err != nil {
		return nil, &errors.UmaError{
			Reason:    "invalid version negotiation response: " + err.Error(),
			ErrorCode: generated.ParseLnurlpResponseError,
		}
	}
	return responseJson.SupportedMajorVersions, nil
}

func GetSupportedMajorVersions() map[int]struct{} {
	majorVersions := map[int]struct{}{MAJOR_VERSION: {}}
	for _, version := range backCompatVersions {
		parsedVersion, err := ParseVersion(version)
		if err != nil {
			continue
		}
		majorVersions[parsedVersion.Major] = struct{}{}
	}
	return majorVersions
}

func GetHighestSupportedVersionForMajorVersion(majorVersion int) *ParsedVersion {
	if majorVersion == MAJOR_VERSION {
		return &ParsedVersion{MAJOR_VERSION, MINOR_VERSION}
	}
	for _, version := range backCompatVersions {
		parsedVersion, err := ParseVersion(version)
		if err != nil {
			continue
		}
		if parsedVersion.Major == majorVersion {
			return parsedVersion
		}
	}
	return nil
}

// SelectHighestSupportedVersion picks the best version to retry with after an
// UnsupportedVersionError, or nil if there is no overlap.
func SelectHighestSupportedVersion(otherVaspSupportedMajorVersions []int) *string {
	var highestVersion *ParsedVersion
	supportedMajorVersions := GetSupportedMajorVersions()
	for _, otherVaspMajorVersion := range otherVaspSupportedMajorVersions {
		if _, supported := supportedMajorVersions[otherVaspMajorVersion]; !supported {
			continue
		}
		if highestVersion == nil || otherVaspMajorVersion > highestVersion.Major {
			highestVersion = GetHighestSupportedVersionForMajorVersion(otherVaspMajorVersion)
		}
	}
	if highestVersion == nil {
		return nil
	}
	versionString := highestVersion.String()
	return &versionString
}

// SelectLowerVersion returns the lower of two versions, compared by major
// then minor. It deliberately does not mix majors and minors across the two
// inputs: the result is always one of the arguments.
func SelectLowerVersion(version1String string, version2String string) (*string, error) {
	version1, err := ParseVersion(version1String)
	if err != nil {
		return nil, err
	}
	version2, err := ParseVersion(version2String)
	if err != nil {
		return nil, err
	}
	if version1.Major > version2.Major || (version1.Major == version2.Major && version1.Minor > version2.Minor) {
		return &version2String, nil
	}
	return &version1String, nil
}

func IsVersionSupported(versionString string) bool {
	parsedVersion, err := ParseVersion(versionString)
	if err != nil || parsedVersion == nil {
		return false
	}
	_, supported := GetSupportedMajorVersions()[parsedVersion.Major]
	return supported
}

type ParsedVersion struct {
	Major int
	Minor int
}

// ParseVersion parses a strict "major.minor" string. Anything else, including
// extra components or non-numeric parts, is rejected.
func ParseVersion(version string) (*ParsedVersion, error) {
	invalidVersionError := &errors.UmaError{
		Reason:    "invalid version: " + version,
		ErrorCode: generated.InvalidInput,
	}
	parts := strings.Split(version, ".")
	if len(parts) != 2 {
		return nil, invalidVersionError
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, invalidVersionError
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, invalidVersionError
	}
	return &ParsedVersion{major, minor}, nil
}

func (v *ParsedVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
