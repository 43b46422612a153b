// Package kernel provides the shared value objects of the logistics domain.
//
// UUID identifies transient records such as detected exceptions so that an
// escalation can be correlated with log lines and event-stream messages
// emitted in the same scan cycle.
package kernel
