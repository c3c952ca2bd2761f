package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/pgetl/internal/config"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag.
// Use $PGPASSWORD, .pgpass or a connection string instead.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded because it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AzureFlags represents Azure Entra ID CLI flags.
// Client secret is only read from AZURE_CLIENT_SECRET.
type AzureFlags struct {
	Enabled  bool
	TenantID string
	ClientID string
}

func (a AzureFlags) requested() bool {
	return a.Enabled || a.TenantID != "" || a.ClientID != ""
}

// AWSFlags represents AWS RDS IAM CLI flags.
type AWSFlags struct {
	Enabled bool
	Region  string
}

// GoogleFlags represents Google Cloud SQL IAM CLI flags.
type GoogleFlags struct {
	Enabled  bool
	Instance string
}

// CertFlags holds client certificate paths for mTLS.
type CertFlags struct {
	SSLCert     string
	SSLKey      string
	SSLRootCert string
}

// AuthFlags groups the authentication-related CLI flags.
type AuthFlags struct {
	Azure  AzureFlags
	AWS    AWSFlags
	Google GoogleFlags
	Cert   CertFlags
}

// EnvVars represents PostgreSQL standard and cloud provider environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGETL_CONNECTION_STRING string
	DATABASE_URL            string

	PGHOST        string
	PGPORT        string
	PGUSER        string
	PGPASSWORD    string
	PGDATABASE    string
	PGSSLMODE     string
	PGSSLCERT     string
	PGSSLKEY      string
	PGSSLROOTCERT string

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string

	AWS_REGION string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGETL_CONNECTION_STRING: os.Getenv("PGETL_CONNECTION_STRING"),
		DATABASE_URL:            os.Getenv("DATABASE_URL"),
		PGHOST:                  os.Getenv("PGHOST"),
		PGPORT:                  os.Getenv("PGPORT"),
		PGUSER:                  os.Getenv("PGUSER"),
		PGPASSWORD:              os.Getenv("PGPASSWORD"),
		PGDATABASE:              os.Getenv("PGDATABASE"),
		PGSSLMODE:               os.Getenv("PGSSLMODE"),
		PGSSLCERT:               os.Getenv("PGSSLCERT"),
		PGSSLKEY:                os.Getenv("PGSSLKEY"),
		PGSSLROOTCERT:           os.Getenv("PGSSLROOTCERT"),
		AZURE_TENANT_ID:         os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:         os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:     os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:              os.Getenv("AWS_REGION"),
	}
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AZURE_TENANT_ID != "" || e.AZURE_CLIENT_ID != ""
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection)
//  2. $PGETL_CONNECTION_STRING
//  3. $DATABASE_URL, when no granular flags are given
//  4. Granular flags, then PG* environment variables, then pgetl.yaml, then defaults
//
// The -d flag always overrides the database of a connection string.
// The database defaults to sparkifydb.
//
// Authentication is chosen from the cloud flags first, then Azure environment
// variables, then the auth_method of pgetl.yaml. At most one cloud provider may be requested.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	authFlags *AuthFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgetl.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if authFlags == nil {
		authFlags = &AuthFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/sparkifydb\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d sparkifydb\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser: %w",
			pgetl.ErrInvalidConfig,
		)
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	var cfg *pgetl.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.PGETL_CONNECTION_STRING != "":
		cfg, err = resolveFromConnectionString(envVars.PGETL_CONNECTION_STRING, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, err
	}

	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}
	if cfg.Database == "" {
		cfg.Database = pgetl.DefaultDatabase
	}

	applyCertificates(cfg, authFlags.Cert, envVars, pc)

	if err := applyAuthMethod(cfg, authFlags, envVars, pc); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveFromConnectionString parses a connection string and applies
// environment fallbacks for parameters it does not specify.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*pgetl.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %v: %w", err, pgetl.ErrInvalidConfig)
	}

	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig with
// flag > environment > pgetl.yaml > default precedence per parameter.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	pc config.ConnectionConfig,
) (*pgetl.ConnectionConfig, error) {
	cfg := &pgetl.ConnectionConfig{
		AuthMethod:       pgetl.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, pgetl.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(envVars.PGDATABASE, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

func applyCertificates(cfg *pgetl.ConnectionConfig, flags CertFlags, env *EnvVars, pc config.ConnectionConfig) {
	cfg.SSLCert = firstNonEmpty(flags.SSLCert, cfg.SSLCert, env.PGSSLCERT, pc.SSLCert)
	cfg.SSLKey = firstNonEmpty(flags.SSLKey, cfg.SSLKey, env.PGSSLKEY, pc.SSLKey)
	cfg.SSLRootCert = firstNonEmpty(flags.SSLRootCert, cfg.SSLRootCert, env.PGSSLROOTCERT, pc.SSLRootCert)

	if cfg.SSLCert != "" && cfg.SSLKey != "" {
		cfg.AuthMethod = pgetl.AuthMethodCertificate
	}
}

func applyAuthMethod(cfg *pgetl.ConnectionConfig, flags *AuthFlags, env *EnvVars, pc config.ConnectionConfig) error {
	requested := 0
	for _, on := range []bool{flags.Azure.requested(), flags.AWS.Enabled, flags.Google.Enabled} {
		if on {
			requested++
		}
	}
	if requested > 1 {
		return fmt.Errorf("only one of --azure, --aws and --google may be used: %w", pgetl.ErrInvalidConfig)
	}

	method := ""
	switch {
	case flags.Azure.requested():
		method = "azure"
	case flags.AWS.Enabled:
		method = "aws"
	case flags.Google.Enabled:
		method = "google"
	case env.HasAzureCredentials():
		method = "azure"
	default:
		method = strings.ToLower(strings.TrimSpace(pc.AuthMethod))
	}

	switch method {
	case "", "standard":
		return nil
	case "azure":
		cfg.AuthMethod = pgetl.AuthMethodAzureEntraID
		cfg.AzureTenantID = firstNonEmpty(flags.Azure.TenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.Azure.ClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case "aws":
		cfg.AuthMethod = pgetl.AuthMethodAWSIAM
		cfg.AWSRegion = firstNonEmpty(flags.AWS.Region, env.AWS_REGION, pc.AWSRegion)
		if cfg.AWSRegion == "" {
			return fmt.Errorf("AWS IAM authentication requires a region (--aws-region or $AWS_REGION): %w", pgetl.ErrInvalidConfig)
		}
	case "google":
		cfg.AuthMethod = pgetl.AuthMethodGoogleIAM
		cfg.GoogleInstance = firstNonEmpty(flags.Google.Instance, pc.GoogleInstance)
		if cfg.GoogleInstance == "" {
			return fmt.Errorf("Google Cloud SQL IAM authentication requires --google-instance (project:region:instance): %w", pgetl.ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("auth_method %q in %s: %w", method, config.ConfigFileName, pgetl.ErrUnsupportedAuthMethod)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
