package network

import (
	"sakuracore/sources/configuration"
	"sakuracore/sources/tracing"

	"golang.org/x/net/proxy"
)

func NewProxyDialer(config *configuration.Config, log *tracing.Logger) proxy.Dialer {
	if config.Proxy.URL == "" {
		return proxy.Direct
	}

	var auth *proxy.Auth
	if config.Proxy.User != "" {
		auth = &proxy.Auth{User: config.Proxy.User, Password: config.Proxy.Password}
	}

	dialer, err := proxy.SOCKS5("tcp", config.Proxy.URL, auth, proxy.Direct)
	if err != nil {
		log.F("Failed to create proxy dialer", tracing.InnerError, err)
	}

	log.I("Proxy dialer initialized", tracing.ProxyUrl, config.Proxy.URL)
	return dialer
}
