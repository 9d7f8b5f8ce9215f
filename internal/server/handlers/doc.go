// commonhandlers provides general infrastructure HTTP handlers
// (health, readiness, version).
//
// These endpoints sit outside the protocol API: they return plain or
// unversioned JSON payloads rather than the standard response envelope,
// so load balancers and uptime checks can consume them directly.
package commonhandlers
