package customHttpClient

import (
	"net/http"

	"github.com/tiramai/ragapi/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// PooledClient returns the shared connection-reusing client handed to
// outbound HTTP SDKs.
func PooledClient() *http.Client {
	return pooledClient
}
