// Copyright 2026 The Cartkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for cartkit binaries.
//
// Configuration is loaded from a single YAML file specified by:
//   - the CARTKIT_CONFIG environment variable, or
//   - the --config flag passed to the command
//
// There are no fallbacks or automatic discovery: if neither is set,
// the built-in defaults apply unchanged. An explicitly named file that
// cannot be read is an error, never silently ignored.
package config
