// Package naming implements unique instance-name negotiation for
// timebeacon devices on the local network.
//
// A device wants to register a stable, human-readable instance name via
// DNS-SD, but another device may already hold that name. The package
// resolves conflicts with a numeric suffix scheme: the first conflict on
// "beacon" yields "beacon-2", the next "beacon-3", and so on. The
// unsuffixed name is conceptually index 1, so indexing starts at 2.
//
// # Suffix rules
//
// A name carries an index only if the text after the last divider
// occurrence is a clean, strictly positive decimal integer. Anything
// else - a non-numeric tail ("my-host"), a zero index ("host-0"), or
// trailing junk ("host-2x") - does not count, and a fresh "-2" suffix is
// appended to the whole name instead.
//
// # Negotiation cycle
//
// NextName is a pure function; Session drives the probe/rename loop
// against a Prober (typically mDNS-backed) until a free name is found:
//
//	Unset -> Probing -> Confirmed
//	         Probing -> Probing   (loop on conflict)
//
// The loop is unbounded by default: a pathological network where every
// candidate is taken keeps the session probing forever. Set MaxAttempts
// to impose a cap.
package naming
