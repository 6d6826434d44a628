package httpsignature

import (
	"io"
	"maps"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the declarative configuration surface of the engine, loadable
// from YAML:
//
//	algorithms:
//	  - hmac-sha256
//	required_headers:
//	  default: ["(request-target)", "date"]
//	  post: ["(request-target)", "date", "digest"]
//	clock_skew: 300
type Config struct {
	// Algorithms lists the supported algorithm identifiers. Required,
	// must not be empty.
	Algorithms []string `yaml:"algorithms"`

	// RequiredHeaders maps a method name or "default" to the headers
	// that must be signed for that method.
	RequiredHeaders map[string][]string `yaml:"required_headers"`

	// ClockSkew is the maximum signature age in seconds. When absent
	// the default of 300 seconds applies; an explicit 0 disables the
	// tolerance entirely.
	ClockSkew *int `yaml:"clock_skew"`
}

// LoadConfig reads a YAML configuration document. Unknown fields are
// rejected.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Engine builds an engine from the configuration and the given
// collaborators.
func (c Config) Engine(signer Signer, verifier Verifier) (*Engine, error) {
	engine, err := New(c.Algorithms, signer, verifier)
	if err != nil {
		return nil, err
	}

	for _, method := range slices.Sorted(maps.Keys(c.RequiredHeaders)) {
		engine, err = engine.WithRequiredHeaders(method, c.RequiredHeaders[method])
		if err != nil {
			return nil, err
		}
	}

	if c.ClockSkew != nil {
		if *c.ClockSkew < 0 {
			return nil, configErrorf("clock skew must not be negative")
		}

		engine = engine.WithClockSkew(time.Duration(*c.ClockSkew) * time.Second)
	}

	return engine, nil
}
