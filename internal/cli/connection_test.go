package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vvka-141/pgetl/internal/config"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

var connectionEnvVars = []string{
	"PGETL_CONNECTION_STRING", "DATABASE_URL",
	"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE",
	"PGSSLCERT", "PGSSLKEY", "PGSSLROOTCERT",
	"AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET", "AWS_REGION",
}

// clearConnectionEnv blanks every variable the resolver reads.
func clearConnectionEnv(t *testing.T) {
	t.Helper()
	for _, name := range connectionEnvVars {
		t.Setenv(name, "")
	}
}

func TestResolveConnection_WithEnvironment(t *testing.T) {
	tests := []struct {
		name          string
		flags         connectionFlags
		envConnString string
		wantHost      string
		wantDatabase  string
	}{
		{
			name:          "flag takes precedence over environment",
			flags:         connectionFlags{connection: "postgresql://user@localhost:5432/flagdb"},
			envConnString: "postgresql://user@envhost:5433/envdb",
			wantHost:      "localhost",
			wantDatabase:  "flagdb",
		},
		{
			name:          "use environment when flag not provided",
			envConnString: "postgresql://user@envhost:5433/envdb",
			wantHost:      "envhost",
			wantDatabase:  "envdb",
		},
		{
			name:         "use defaults when neither flag nor env provided",
			wantHost:     "localhost",
			wantDatabase: pgetl.DefaultDatabase,
		},
		{
			name:          "-d overrides the connection string database",
			flags:         connectionFlags{database: "override"},
			envConnString: "postgresql://user@envhost:5433/envdb",
			wantHost:      "envhost",
			wantDatabase:  "override",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConnectionEnv(t)
			t.Setenv("PGETL_CONNECTION_STRING", tt.envConnString)

			connConfig, err := resolveConnection(tt.flags, nil)
			if err != nil {
				t.Fatalf("resolveConnection() error = %v", err)
			}
			if connConfig.Host != tt.wantHost {
				t.Errorf("host = %v, want %v", connConfig.Host, tt.wantHost)
			}
			if connConfig.Database != tt.wantDatabase {
				t.Errorf("database = %v, want %v", connConfig.Database, tt.wantDatabase)
			}
		})
	}
}

func TestResolveConnection_GranularFlags(t *testing.T) {
	clearConnectionEnv(t)

	tests := []struct {
		name         string
		flags        connectionFlags
		wantHost     string
		wantPort     int
		wantUsername string
		wantDatabase string
		wantSSLMode  string
	}{
		{
			name: "all granular flags provided",
			flags: connectionFlags{
				host:     "customhost",
				port:     5433,
				username: "customuser",
				database: "customdb",
				sslMode:  "require",
			},
			wantHost:     "customhost",
			wantPort:     5433,
			wantUsername: "customuser",
			wantDatabase: "customdb",
			wantSSLMode:  "require",
		},
		{
			name:         "partial granular flags with defaults",
			flags:        connectionFlags{host: "myhost", database: "mydb"},
			wantHost:     "myhost",
			wantPort:     5432,
			wantDatabase: "mydb",
			wantSSLMode:  "prefer",
		},
		{
			name:         "no flags uses defaults",
			wantHost:     "localhost",
			wantPort:     5432,
			wantDatabase: pgetl.DefaultDatabase,
			wantSSLMode:  "prefer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connConfig, err := resolveConnection(tt.flags, nil)
			if err != nil {
				t.Fatalf("resolveConnection() error = %v", err)
			}
			if connConfig.Host != tt.wantHost {
				t.Errorf("host = %v, want %v", connConfig.Host, tt.wantHost)
			}
			if connConfig.Port != tt.wantPort {
				t.Errorf("port = %v, want %v", connConfig.Port, tt.wantPort)
			}
			if tt.wantUsername != "" && connConfig.Username != tt.wantUsername {
				t.Errorf("username = %v, want %v", connConfig.Username, tt.wantUsername)
			}
			if connConfig.Database != tt.wantDatabase {
				t.Errorf("database = %v, want %v", connConfig.Database, tt.wantDatabase)
			}
			if connConfig.SSLMode != tt.wantSSLMode {
				t.Errorf("sslmode = %v, want %v", connConfig.SSLMode, tt.wantSSLMode)
			}
		})
	}
}

func TestResolveConnection_ProjectConfig(t *testing.T) {
	clearConnectionEnv(t)
	projectCfg := &config.ProjectConfig{
		Connection: config.ConnectionConfig{Host: "yamlhost", Port: 6543, Database: "yamldb"},
	}

	connConfig, err := resolveConnection(connectionFlags{port: 7000}, projectCfg)
	if err != nil {
		t.Fatalf("resolveConnection() error = %v", err)
	}
	if connConfig.Host != "yamlhost" || connConfig.Database != "yamldb" {
		t.Errorf("expected pgetl.yaml host and database, got %s/%s", connConfig.Host, connConfig.Database)
	}
	if connConfig.Port != 7000 {
		t.Errorf("flag port should win over pgetl.yaml, got %d", connConfig.Port)
	}
}

func TestResolveConnection_Conflicts(t *testing.T) {
	clearConnectionEnv(t)

	tests := []struct {
		name  string
		flags connectionFlags
	}{
		{"connection string with host", connectionFlags{connection: "postgresql://localhost/db", host: "other"}},
		{"two cloud providers", connectionFlags{azure: true, aws: true, awsRegion: "us-east-1"}},
		{"aws without region", connectionFlags{aws: true}},
		{"google without instance", connectionFlags{google: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveConnection(tt.flags, nil)
			if !errors.Is(err, pgetl.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if code := pgetl.ExitCodeForError(err); code != pgetl.ExitConfigError {
				t.Errorf("exit code = %d, want %d", code, pgetl.ExitConfigError)
			}
		})
	}
}

func TestResolveConnection_ClientCertificate(t *testing.T) {
	clearConnectionEnv(t)

	connConfig, err := resolveConnection(connectionFlags{sslCert: "client.crt", sslKey: "client.key", sslMode: "verify-ca"}, nil)
	if err != nil {
		t.Fatalf("resolveConnection() error = %v", err)
	}
	if connConfig.AuthMethod != pgetl.AuthMethodCertificate {
		t.Errorf("auth method = %v, want %v", connConfig.AuthMethod, pgetl.AuthMethodCertificate)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		cfg, err := loadProjectConfig(t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg != nil {
			t.Errorf("expected nil config, got %+v", cfg)
		}
	})

	t.Run("invalid yaml is a config error", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("connection: [unterminated"), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := loadProjectConfig(dir)
		if !errors.Is(err, pgetl.ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("reads pgetl.yaml", func(t *testing.T) {
		dir := t.TempDir()
		content := "song_data: /srv/song_data\nlog_data: s3://bucket/log_data\ntimeout: 10m\ncreate_schema: true\n"
		if err := os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := loadProjectConfig(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SongData != "/srv/song_data" || cfg.LogData != "s3://bucket/log_data" || !cfg.CreateSchema {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})
}
