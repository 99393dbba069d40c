package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/kbukum/hostkit/errors"
)

// TLSConfig holds client TLS settings for a backend connection.
type TLSConfig struct {
	// SkipVerify disables server certificate verification.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`

	// CAFile is a PEM bundle used to verify the server.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`

	// CertFile and KeyFile hold the client certificate for mutual TLS.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`

	// ServerName overrides the name checked against the server certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
}

// Enabled reports whether any TLS setting is present.
func (c *TLSConfig) Enabled() bool {
	if c == nil {
		return false
	}
	return c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.KeyFile != "" || c.ServerName != ""
}

// Validate checks that the settings are consistent without reading files.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return errors.InvalidInput("tls", "cert_file and key_file must be set together")
	}
	return nil
}

// Build returns the *tls.Config for these settings, or nil when TLS is not
// enabled. TLS 1.2 is the minimum version.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify,
		ServerName:         c.ServerName,
		MinVersion:         tls.VersionTLS12,
	}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, errors.InvalidInput("tls.ca_file", err.Error()).WithCause(err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.InvalidInput("tls.ca_file", fmt.Sprintf("no certificates in %s", c.CAFile))
		}
		cfg.RootCAs = pool
	}

	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, errors.InvalidInput("tls.cert_file", err.Error()).WithCause(err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}
