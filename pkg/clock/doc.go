// Package clock synchronizes wall-clock time via NTP and formats the
// live clock value published in beacon TXT records.
//
// The syncer queries an NTP pool, remembers the measured offset, and
// applies it to the local monotonic clock so the device reports sane
// wall-clock time even when the host clock drifts. NTP packet handling
// is owned by the ntp library; this package only schedules queries and
// tracks health.
package clock
