package config

import (
	"net"
	"strconv"
)

type ServerConfig struct {
	HTTP HTTPConfig
	GRPC GRPCConfig
}

type HTTPConfig struct {
	Enabled bool
	Host    string
	Port    int
}

// Addr returns host:port, bracketing IPv6 hosts.
func (c HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type GRPCConfig struct {
	Host string
	Port int
}

// Addr returns host:port, bracketing IPv6 hosts.
func (c GRPCConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
