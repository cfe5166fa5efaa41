package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
)

const (
	EnvDatabase    = "DEMO_DB"
	EnvCertificate = "DEMO_CERT"
	EnvCluster     = "DEMO_CLUSTER"
	EnvVoyageKey   = "VOYAGE_API_KEY"
)

// ConnectionConfig is everything needed to open an X.509 authenticated
// connection. All fields are non-empty and CertificatePath exists once it
// has been returned by a Resolver.
type ConnectionConfig struct {
	ClusterURI      string
	DatabaseName    string
	CertificatePath string
}

// LookupEnv has the signature of os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// Resolver turns environment inputs into a ConnectionConfig.
type Resolver struct {
	Env LookupEnv
	Fs  afero.Fs
	// WorkDir is used for certificate references relative to the working directory.
	WorkDir string
	// AppDir is the directory holding the running executable; its parent is
	// the last place a relative certificate reference is looked up in.
	AppDir string
}

// NewResolver returns a Resolver backed by the process environment and the OS filesystem.
func NewResolver() (*Resolver, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get working directory")
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to locate executable")
	}
	return &Resolver{
		Env:     os.LookupEnv,
		Fs:      afero.NewOsFs(),
		WorkDir: wd,
		AppDir:  filepath.Dir(exe),
	}, nil
}

// LoadConnectionConfig resolves a ConnectionConfig from the process environment.
func LoadConnectionConfig() (*ConnectionConfig, error) {
	r, err := NewResolver()
	if err != nil {
		return nil, apperr.Internal("load connection config", err)
	}
	return r.Resolve()
}

func (r *Resolver) Resolve() (*ConnectionConfig, error) {
	values := map[string]string{}
	var missing []string
	for _, key := range []string{EnvDatabase, EnvCertificate, EnvCluster} {
		val, _ := r.Env(key)
		val = strings.TrimSpace(val)
		if val == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = val
	}
	if len(missing) > 0 {
		return nil, apperr.Configuration("load connection config",
			"missing one or more MongoDB environment variables: %s", strings.Join(missing, ", "))
	}

	certPath, err := r.ResolveCertificate(values[EnvCertificate])
	if err != nil {
		return nil, err
	}

	return &ConnectionConfig{
		ClusterURI:      values[EnvCluster],
		DatabaseName:    values[EnvDatabase],
		CertificatePath: certPath,
	}, nil
}

// ResolveCertificate finds the certificate file for ref: an absolute path is
// used as is, then ref is tried relative to the working directory, then
// relative to the parent of the application directory.
func (r *Resolver) ResolveCertificate(ref string) (string, error) {
	expanded, err := homedir.Expand(ref)
	if err != nil {
		return "", apperr.Configuration("resolve certificate", "invalid certificate reference %q: %v", ref, err)
	}

	var certPath string
	switch {
	case filepath.IsAbs(expanded):
		certPath = expanded
	case r.isFile(filepath.Join(r.WorkDir, expanded)):
		certPath = filepath.Join(r.WorkDir, expanded)
	default:
		certPath = filepath.Join(filepath.Dir(r.AppDir), expanded)
	}

	if !r.isFile(certPath) {
		return "", apperr.NotFound("resolve certificate", "certificate file not found at: %s", certPath)
	}
	return certPath, nil
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.Fs.Stat(path)
	return err == nil && !info.IsDir()
}

// VoyageAPIKey returns the Voyage AI key or a configuration error if it is unset.
func VoyageAPIKey(env LookupEnv) (string, error) {
	if env == nil {
		env = os.LookupEnv
	}
	key, _ := env(EnvVoyageKey)
	if strings.TrimSpace(key) == "" {
		return "", apperr.Configuration("load voyage config", "%s is not set", EnvVoyageKey)
	}
	return strings.TrimSpace(key), nil
}
