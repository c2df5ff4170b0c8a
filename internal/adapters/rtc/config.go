// Package rtc builds the ICE configuration handed to browsers for their
// peer-to-peer connections. The server never terminates media itself.
package rtc

import (
	"fmt"

	"github.com/dkeye/huddle/internal/config"
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const defaultSTUN = "stun:stun.l.google.com:19302"

func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{defaultSTUN},
			},
		},
	}
}

// NewWebRTCConfig converts configured ICE servers, skipping URLs that do not
// parse as stun:/turn: URIs. With nothing usable left it falls back to the
// public STUN server.
func NewWebRTCConfig(servers []config.ICEServer) webrtc.Configuration {
	var out []webrtc.ICEServer
	for _, s := range servers {
		var urls []string
		for _, raw := range s.URLs {
			if err := validateURL(raw); err != nil {
				log.Warn().Err(err).Str("module", "rtc").Str("url", raw).Msg("ice server skipped")
				continue
			}
			urls = append(urls, raw)
		}
		if len(urls) == 0 {
			continue
		}
		srv := webrtc.ICEServer{URLs: urls, Username: s.Username}
		if s.Credential != "" {
			srv.Credential = s.Credential
		}
		out = append(out, srv)
	}
	if len(out) == 0 {
		return DefaultWebRTCConfig()
	}
	return webrtc.Configuration{ICEServers: out}
}

func validateURL(raw string) error {
	u, err := stun.ParseURI(raw)
	if err != nil {
		return fmt.Errorf("parse ice url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("parse ice url %q: empty host", raw)
	}
	return nil
}
