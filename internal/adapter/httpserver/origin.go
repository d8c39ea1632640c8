package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"net/url"
)

// newCheckOrigin returns a CheckOrigin function for the view stream. It
// allows empty origins (non-browser clients), loopback origins, and the
// bridge's own listen address. The presentation runs on the kiosk itself,
// so nothing else may connect.
func newCheckOrigin(listenAddr string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if origin == "" {
			return true
		}

		u, err := url.Parse(origin)
		if err == nil && u.Host != "" {
			if u.Host == listenAddr || isLoopbackHost(u.Hostname()) {
				return true
			}
		}

		slog.Warn("WebSocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
		return false
	}
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
