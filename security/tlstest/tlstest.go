// Package tlstest generates throwaway certificates for tests of TLS-enabled
// backends. Files are written under t.TempDir().
//
//	certs := tlstest.GenerateTLSCerts(t)
//	mini.StartTLS(certs.ServerConfig())
package tlstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TLSCerts holds a test CA and a leaf certificate signed by it.
type TLSCerts struct {
	// CAFile, CertFile and KeyFile are PEM files.
	CAFile   string
	CertFile string
	KeyFile  string

	CACert    *x509.Certificate
	ServerTLS tls.Certificate
	CertPool  *x509.CertPool
}

// GenerateTLSCerts creates a CA and a leaf certificate valid for localhost,
// 127.0.0.1 and ::1, usable as both server and client certificate.
func GenerateTLSCerts(t testing.TB) *TLSCerts {
	t.Helper()
	dir := t.TempDir()
	validity := func(c *x509.Certificate) {
		c.NotBefore = time.Now().Add(-time.Hour)
		c.NotAfter = time.Now().Add(24 * time.Hour)
	}

	caKey := newKey(t)
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"hostkit test CA"}},
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	validity(caTemplate)
	caDER := sign(t, caTemplate, caTemplate, caKey, caKey)
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		t.Fatalf("tlstest: parse CA cert: %v", err)
	}

	leafKey := newKey(t)
	leafTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{Organization: []string{"hostkit test"}, CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	validity(leafTemplate)
	leafDER := sign(t, leafTemplate, caCert, leafKey, caKey)

	keyDER, err := x509.MarshalECPrivateKey(leafKey)
	if err != nil {
		t.Fatalf("tlstest: marshal key: %v", err)
	}

	certs := &TLSCerts{
		CAFile:   writePEM(t, filepath.Join(dir, "ca.pem"), "CERTIFICATE", caDER),
		CertFile: writePEM(t, filepath.Join(dir, "cert.pem"), "CERTIFICATE", leafDER),
		KeyFile:  writePEM(t, filepath.Join(dir, "key.pem"), "EC PRIVATE KEY", keyDER),
		CACert:   caCert,
		CertPool: x509.NewCertPool(),
	}
	certs.CertPool.AddCert(caCert)

	certs.ServerTLS, err = tls.LoadX509KeyPair(certs.CertFile, certs.KeyFile)
	if err != nil {
		t.Fatalf("tlstest: load key pair: %v", err)
	}
	return certs
}

// ServerConfig returns a server-side tls.Config presenting the leaf
// certificate.
func (c *TLSCerts) ServerConfig() *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{c.ServerTLS},
		ClientCAs:    c.CertPool,
		MinVersion:   tls.VersionTLS12,
	}
}

// WriteInvalidPEM writes a PEM-framed file whose body is not a certificate.
func WriteInvalidPEM(t testing.TB, filename string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), filename)
	content := []byte("-----BEGIN CERTIFICATE-----\nnot-valid-base64-data\n-----END CERTIFICATE-----\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("tlstest: write invalid PEM: %v", err)
	}
	return path
}

func newKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("tlstest: generate key: %v", err)
	}
	return key
}

func sign(t testing.TB, template, parent *x509.Certificate, key, signer *ecdsa.PrivateKey) []byte {
	t.Helper()
	der, err := x509.CreateCertificate(rand.Reader, template, parent, &key.PublicKey, signer)
	if err != nil {
		t.Fatalf("tlstest: create certificate: %v", err)
	}
	return der
}

func writePEM(t testing.TB, path, blockType string, data []byte) string {
	t.Helper()
	buf := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: data})
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatalf("tlstest: write %s: %v", path, err)
	}
	return path
}
