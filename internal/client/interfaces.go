// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client is the runnable terminal client process.
type Client interface {
	// Run blocks until the user quits or the process receives SIGINT/SIGTERM.
	Run() error
}
