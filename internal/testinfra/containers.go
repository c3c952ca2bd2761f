// Package testinfra starts disposable PostgreSQL servers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "postgres"

	containerCertDir = "/tmp/testcontainers-go/postgres"
	sslEntrypoint    = "/usr/local/bin/docker-entrypoint-ssl.bash"
)

// PostgresContainer is a running server and a connection string that reaches it.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartSimplePostgres starts a server that accepts password logins without TLS.
func StartSimplePostgres(ctx context.Context) (*PostgresContainer, error) {
	return run(ctx, "sslmode=disable")
}

// StartMTLSPostgres starts a server that only accepts TLS connections
// authenticated by a client certificate signed by certs.CACert.
func StartMTLSPostgres(ctx context.Context, certs *CertPaths) (*PostgresContainer, error) {
	dir := filepath.Dir(certs.CACert)

	conf := fmt.Sprintf(`listen_addresses = '*'
ssl = on
ssl_cert_file = '%[1]s/server.cert'
ssl_key_file = '%[1]s/server.key'
ssl_ca_file = '%[1]s/ca_cert.pem'
`, containerCertDir)
	confPath := filepath.Join(dir, "postgresql.conf")
	if err := os.WriteFile(confPath, []byte(conf), 0644); err != nil {
		return nil, fmt.Errorf("write postgresql.conf: %w", err)
	}

	hba := `#!/bin/bash
cat > "$PGDATA/pg_hba.conf" << 'HBA'
local   all all                trust
hostssl all all 0.0.0.0/0      cert clientcert=verify-full
hostssl all all ::/0           cert clientcert=verify-full
HBA
`
	hbaPath := filepath.Join(dir, "init-mtls.sh")
	if err := os.WriteFile(hbaPath, []byte(hba), 0755); err != nil {
		return nil, fmt.Errorf("write init script: %w", err)
	}

	return run(ctx, "sslmode=verify-ca",
		postgres.WithSSLCert(certs.CACert, certs.ServerCert, certs.ServerKey),
		postgres.WithConfigFile(confPath),
		postgres.WithInitScripts(hbaPath),
		// WithSSLCert switches the entrypoint to sh, which lacks pipefail on some images.
		testcontainers.WithEntrypoint("bash", sslEntrypoint),
	)
}

func run(ctx context.Context, connArgs string, opts ...testcontainers.ContainerCustomizer) (*PostgresContainer, error) {
	opts = append([]testcontainers.ContainerCustomizer{
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		),
	}, opts...)

	ctr, err := postgres.Run(ctx, PostgresImage, opts...)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, connArgs)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}
