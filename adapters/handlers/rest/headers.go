//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package rest

import "net/http"

// Request and response headers of the transactions protocol.
const (
	// HeaderActivation opts a request into locking when the mode is Headers.
	// Only its presence matters.
	HeaderActivation = "RestApiTransaction"
	// HeaderTransactionStart carries a comma separated resource list to
	// reserve for a new transaction.
	HeaderTransactionStart = "RestApiTransaction-Start"
	// HeaderTransactionEnd ends the request's transaction after its body ran.
	HeaderTransactionEnd = "RestApiTransaction-End"
	// HeaderTransactionID is returned when a transaction starts and sent back
	// by requests continuing it.
	HeaderTransactionID = "RestApiTransaction-Id"
)

func hasHeader(h http.Header, key string) bool {
	return len(h.Values(key)) > 0
}
