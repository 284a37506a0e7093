package tool

import (
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"
)

func TestGenerateTlsCertificate(t *testing.T) {
	dir := t.TempDir()
	keyFilename := filepath.Join(dir, "key.pem")
	certFilename := filepath.Join(dir, "cert.pem")

	err := GenerateTlsCertificate("skyhat", "Skyhat Server", keyFilename, certFilename, []string{"127.0.0.1", "skyhat.local"}, 30)
	if err != nil {
		t.Fatalf("GenerateTlsCertificate failed: %v", err)
	}

	for _, filename := range []string{keyFilename, certFilename} {
		exists, err := IsFileExists(filename)
		if err != nil || !exists {
			t.Fatalf("expected %s to exist (err %v)", filename, err)
		}
	}

	rawCert, err := ioutil.ReadFile(certFilename)
	if err != nil {
		t.Fatalf("unable to read cert: %v", err)
	}
	block, _ := pem.Decode(rawCert)
	if block == nil || block.Type != "CERTIFICATE" {
		t.Fatalf("expected a PEM certificate block")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("unable to parse cert: %v", err)
	}

	if got := cert.Subject.CommonName; got != "Skyhat Server" {
		t.Errorf("unexpected common name %q", got)
	}
	if len(cert.IPAddresses) != 1 || cert.IPAddresses[0].String() != "127.0.0.1" {
		t.Errorf("unexpected ip addresses %v", cert.IPAddresses)
	}
	if len(cert.DNSNames) != 1 || cert.DNSNames[0] != "skyhat.local" {
		t.Errorf("unexpected dns names %v", cert.DNSNames)
	}

	wantNotAfter := cert.NotBefore.AddDate(0, 0, 30)
	if !cert.NotAfter.Equal(wantNotAfter) {
		t.Errorf("expected validity of 30 days, NotBefore %v NotAfter %v", cert.NotBefore, cert.NotAfter)
	}
}

func TestGenerateTlsCertificateDefaultValidity(t *testing.T) {
	dir := t.TempDir()
	keyFilename := filepath.Join(dir, "key.pem")
	certFilename := filepath.Join(dir, "cert.pem")

	if err := GenerateTlsCertificate("skyhat", "Skyhat Server", keyFilename, certFilename, nil, 0); err != nil {
		t.Fatalf("GenerateTlsCertificate failed: %v", err)
	}

	rawCert, err := ioutil.ReadFile(certFilename)
	if err != nil {
		t.Fatalf("unable to read cert: %v", err)
	}
	block, _ := pem.Decode(rawCert)
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("unable to parse cert: %v", err)
	}

	if years := cert.NotAfter.Sub(cert.NotBefore) / (24 * time.Hour) / 365; years < 9 {
		t.Errorf("expected roughly ten years of default validity, got NotBefore %v NotAfter %v", cert.NotBefore, cert.NotAfter)
	}
}
