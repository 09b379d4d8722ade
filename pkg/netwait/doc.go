// Package netwait blocks device startup until the host has a usable
// network address.
//
// Unattended devices have no operator to escalate to, so the policy is
// deliberate: wait forever, polling at a fixed interval, until some
// interface carries a global unicast address. The caller bounds the wait
// with its context. On Linux addresses are read via netlink; elsewhere
// the standard library interface list is used.
package netwait
