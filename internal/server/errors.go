// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated means the handlers carry neither a REST router nor a
// gRPC service, so there is nothing to listen on.
var errNoServersAreCreated = errors.New("no servers are created: configure an http or grpc address")
