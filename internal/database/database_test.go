package database

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func baseConfig() ScyllaKeyspaceConfig {
	return ScyllaKeyspaceConfig{
		Hosts:    []string{"127.0.0.1"},
		Keyspace: "ks_test",
		Timeout:  time.Second,
		NumConns: 1,
	}
}

func writeTestCA(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test-ca"},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "ca.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestCreateScyllaClusterSSL(t *testing.T) {
	t.Run("disabled leaves SslOpts nil", func(t *testing.T) {
		cluster, err := createScyllaCluster(baseConfig())
		if err != nil {
			t.Fatalf("createScyllaCluster() error = %v", err)
		}
		if cluster.SslOpts != nil {
			t.Error("SslOpts set although SSL is disabled")
		}
	})

	t.Run("enabled wires the CA pool", func(t *testing.T) {
		config := baseConfig()
		config.SSLEnabled = true
		config.CACertPath = writeTestCA(t)

		cluster, err := createScyllaCluster(config)
		if err != nil {
			t.Fatalf("createScyllaCluster() error = %v", err)
		}
		if cluster.SslOpts == nil || cluster.SslOpts.Config == nil || cluster.SslOpts.Config.RootCAs == nil {
			t.Fatal("SslOpts not wired with the CA pool")
		}
	})

	t.Run("unreadable CA path fails", func(t *testing.T) {
		config := baseConfig()
		config.SSLEnabled = true
		config.CACertPath = filepath.Join(t.TempDir(), "missing.pem")

		if _, err := createScyllaCluster(config); err == nil {
			t.Fatal("createScyllaCluster() with missing CA = nil error")
		}
	})

	t.Run("garbage CA fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.pem")
		if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		config := baseConfig()
		config.SSLEnabled = true
		config.CACertPath = path

		if _, err := createScyllaCluster(config); err == nil {
			t.Fatal("createScyllaCluster() with garbage CA = nil error")
		}
	})
}
