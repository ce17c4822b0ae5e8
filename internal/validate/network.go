// Package validate provides network validation utilities for thinkmap
// endpoints.
//
// Implements address and port validation using the go-playground/validator
// library. Used for the server bind address and the CLI --api target.
package validate

import (
	"fmt"
	"net"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New()
}

// NetworkAddress represents a validated network address with host and port
// components. Struct tags drive validation via go-playground/validator.
type NetworkAddress struct {
	Host string `validate:"required,ip"`
	Port int    `validate:"required,min=0,max=65535"`
}

// String returns the network address in standard "host:port" format.
func (na NetworkAddress) String() string {
	return net.JoinHostPort(na.Host, strconv.Itoa(na.Port))
}

// ParseBindAddress parses and validates a "host:port" address string. The
// host must be a literal IP; hostnames are rejected so that the server binds
// exactly where the operator asked.
func ParseBindAddress(addr string) (*NetworkAddress, error) {
	if addr == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address format '%s': %w", addr, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port '%s': %w", portStr, err)
	}

	netAddr := &NetworkAddress{
		Host: host,
		Port: port,
	}

	if err := validate.Struct(netAddr); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return netAddr, nil
}

// ValidateField validates individual values against validator tags.
//
// Example: ValidateField("192.168.1.1", "required,ip")
func ValidateField(value any, tag string) error {
	return validate.Var(value, tag)
}

// Struct validates a struct against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// ParseDialAddress is ParseBindAddress for addresses a client connects to:
// wildcard hosts (0.0.0.0, ::) and port 0 are rejected.
func ParseDialAddress(addr string) (*NetworkAddress, error) {
	netAddr, err := ParseBindAddress(addr)
	if err != nil {
		return nil, err
	}
	if net.ParseIP(netAddr.Host).IsUnspecified() {
		return nil, fmt.Errorf("%s is a wildcard address, not a destination", netAddr.Host)
	}
	if err := ValidatePortRange(netAddr.Port); err != nil {
		return nil, fmt.Errorf("port %d out of range 1-65535", netAddr.Port)
	}
	return netAddr, nil
}
