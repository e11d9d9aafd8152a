// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package authn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess     = "success"
	resultDenied      = "denied"
	resultRateLimited = "rate_limited"
)

var authRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "image_viewer_auth_requests_total",
		Help: "Requests checked by the token auth middleware, by result",
	},
	[]string{"result"},
)
