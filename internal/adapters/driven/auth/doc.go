// Package auth provides token providers for remote source clients.
//
// Providers:
//   - EnvTokenProvider: GITHUB_TOKEN or GH_TOKEN from the environment or dotenv files
//   - StaticTokenProvider: a fixed token
//   - NullTokenProvider: no credential
//   - Selector: one of the above, chosen from command-line flags
package auth
