// Package memory implements the domain store interfaces in process memory.
// State is lost on restart, so these stores suit tests, local development
// and single-instance deployments.
package memory
