package discovery

import (
	"fmt"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeBeaconTXT creates TXT records for a beacon advertisement.
func EncodeBeaconTXT(info *BeaconInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyRunID] = info.RunID
	txt[TXTKeyClock] = info.Clock
	txt[TXTKeyVersion] = info.Version

	// Optional fields
	if info.Model != "" {
		txt[TXTKeyModel] = info.Model
	}
	if info.DeviceName != "" {
		txt[TXTKeyDeviceName] = info.DeviceName
	}

	return txt
}

// DecodeBeaconTXT parses TXT records from a beacon advertisement.
func DecodeBeaconTXT(txt TXTRecordMap) (*BeaconInfo, error) {
	info := &BeaconInfo{}

	// Parse run ID (required)
	var ok bool
	info.RunID, ok = txt[TXTKeyRunID]
	if !ok || info.RunID == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyRunID)
	}

	// Parse clock (required)
	info.Clock, ok = txt[TXTKeyClock]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyClock)
	}

	// Parse version (required)
	info.Version, ok = txt[TXTKeyVersion]
	if !ok || info.Version == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}

	// Optional fields
	info.Model = txt[TXTKeyModel]
	info.DeviceName = txt[TXTKeyDeviceName]

	return info, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value"
// strings, the format used by mDNS libraries.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// TXTSize returns the encoded size of the records, one length byte plus
// "key=value" per entry.
func TXTSize(txt TXTRecordMap) int {
	size := 0
	for k, v := range txt {
		size += 1 + len(k) + 1 + len(v)
	}
	return size
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return ErrEmptyInstanceName
	}
	if len(name) > MaxInstanceNameLen {
		return fmt.Errorf("%w: %d", ErrInstanceNameTooLong, len(name))
	}
	return nil
}
