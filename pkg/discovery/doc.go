// Package discovery implements mDNS/DNS-SD advertising, probing, and
// browsing for timebeacon devices.
//
// # Beacon Discovery (_timebeacon._tcp)
//
// Each device advertises one service instance under its negotiated
// instance name. TXT records carry: id (run ID), time (current clock,
// refreshed on every re-announcement), ver (firmware version), and
// optionally model and dn (user-configurable device name).
//
// # Probing
//
// Before a device claims an instance name it probes the network: the
// prober browses _timebeacon._tcp for a bounded window and reports the
// name as used if another device answers with the same instance name.
// The mDNS wire protocol itself (packet construction, record caching,
// retransmission) is owned by the zeroconf library; this package only
// configures and drives it.
//
// # Browsing
//
// The browser aggregates discovered services by instance name, merging
// addresses seen on multiple interfaces into a single entry.
package discovery
