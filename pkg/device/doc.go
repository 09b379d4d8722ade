// Package device orchestrates a timebeacon device: it waits for a
// usable network, synchronizes the clock via NTP, negotiates a unique
// instance name by probing mDNS, advertises the beacon service, serves
// the HTTP status page, and periodically re-announces with a fresh
// clock value in the TXT records.
//
// The negotiation loop is unbounded by default: an unattended device
// keeps renaming and re-probing until a free name is found. All
// lifecycle state lives in the DeviceService; the naming logic itself
// is the pure pkg/naming negotiator.
package device
