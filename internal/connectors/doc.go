// Package connectors groups the remote source clients. Each subpackage
// implements driven.SourceClient for one hosting service and owns that
// service's authentication, rate limiting and retry policy.
package connectors
