// Package util provides small helpers and constants shared across remotec.
// It imports no other internal package.
package util

import "time"

const (
	// AppName names the config and cache directories.
	AppName = "remotec"

	// ConfigFileName is the config file created on first run.
	ConfigFileName = "config.yaml"

	// TunnelOpenDelay is how long the tunnel waits before opening its
	// configured target, giving ssh time to bind the forwarded ports.
	TunnelOpenDelay = 2 * time.Second

	// TunnelSleepSeconds keeps the remote side of a tunnel session idle.
	// It is the largest value a signed 32-bit sleep accepts.
	TunnelSleepSeconds = "2147483647"
)
