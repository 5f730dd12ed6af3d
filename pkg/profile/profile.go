// Package profile handles security profile configuration.
//
// A profile declares what one deployment of the library supports: the
// message capabilities it advertises, the key exchange schemes it
// accepts, and the pre-shared key material some schemes depend on.
// Profiles are loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax), so key material can be
// injected at runtime instead of living in the file.
//
// # Example Profile
//
//	capabilities:
//	  compressionAlgorithms: [GZIP, LZW]
//	  languages: [en-US, de]
//	  encoderFormats: [CBOR, JSON]
//
//	keyExchange:
//	  schemes: [DIFFIE_HELLMAN, SYMMETRIC_WRAPPED]
//	  preSharedKeys:
//	    main: ${MSL_PSK_MAIN}
//	  ladderStorageKey: ${MSL_STORAGE_KEY}
//
// See [Load] for loading a profile from a file.
package profile

import (
	"encoding/base64"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-msl/pkg/capabilities"
	"github.com/sirosfoundation/go-msl/pkg/compression"
	"github.com/sirosfoundation/go-msl/pkg/encoder"
	"github.com/sirosfoundation/go-msl/pkg/keyx"
)

// Profile is the root profile structure
type Profile struct {
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
	KeyExchange  KeyExchangeConfig  `yaml:"keyExchange"`
	Compression  CompressionConfig  `yaml:"compression"`
}

// CapabilitiesConfig declares the advertised message capabilities.
// Entries this build does not recognize are dropped when the profile
// is turned into capabilities, matching the wire parsing rules.
type CapabilitiesConfig struct {
	CompressionAlgorithms []string `yaml:"compressionAlgorithms"`
	Languages             []string `yaml:"languages"`
	EncoderFormats        []string `yaml:"encoderFormats"`
}

// KeyExchangeConfig declares accepted schemes and long-lived key
// material. Keys are Base64 encoded in the file; in practice they
// arrive through environment expansion.
type KeyExchangeConfig struct {
	Schemes          []string          `yaml:"schemes"`
	PreSharedKeys    map[string]string `yaml:"preSharedKeys"`
	LadderStorageKey string            `yaml:"ladderStorageKey"`
}

// CompressionConfig holds payload compression settings
type CompressionConfig struct {
	// Level applies to GZIP. Absent means the default level; an
	// explicit 0 selects stored (uncompressed) output.
	Level *int `yaml:"level"`
}

// Default returns a profile advertising everything this build
// implements, with no pre-shared key material.
func Default() *Profile {
	return &Profile{
		Capabilities: CapabilitiesConfig{
			CompressionAlgorithms: []string{string(compression.AlgorithmGZIP), string(compression.AlgorithmLZW)},
			Languages:             []string{"en"},
			EncoderFormats:        []string{string(encoder.FormatCBOR), string(encoder.FormatJSON)},
		},
		KeyExchange: KeyExchangeConfig{
			Schemes: []string{
				string(keyx.SchemeAsymmetricWrapped),
				string(keyx.SchemeDiffieHellman),
				string(keyx.SchemeJWELadder),
				string(keyx.SchemeJWKLadder),
				string(keyx.SchemeSymmetricWrapped),
			},
		},
	}
}

// Load reads a profile from a YAML file, expanding environment
// variables before parsing.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var p Profile
	if err := yaml.Unmarshal([]byte(expanded), &p); err != nil {
		return nil, fmt.Errorf("parsing profile file: %w", err)
	}

	p.applyDefaults()

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("validating profile: %w", err)
	}

	return &p, nil
}

func (p *Profile) applyDefaults() {
	defaults := Default()
	if len(p.Capabilities.EncoderFormats) == 0 {
		p.Capabilities.EncoderFormats = defaults.Capabilities.EncoderFormats
	}
	if len(p.Capabilities.Languages) == 0 {
		p.Capabilities.Languages = defaults.Capabilities.Languages
	}
	if len(p.KeyExchange.Schemes) == 0 {
		p.KeyExchange.Schemes = defaults.KeyExchange.Schemes
	}
}

func (p *Profile) validate() error {
	for id, encoded := range p.KeyExchange.PreSharedKeys {
		if _, err := base64.StdEncoding.DecodeString(encoded); err != nil {
			return fmt.Errorf("pre-shared key %q is not valid Base64: %w", id, err)
		}
	}
	if p.KeyExchange.LadderStorageKey != "" {
		if _, err := base64.StdEncoding.DecodeString(p.KeyExchange.LadderStorageKey); err != nil {
			return fmt.Errorf("ladder storage key is not valid Base64: %w", err)
		}
	}
	if len(p.MessageCapabilities().EncoderFormats()) == 0 {
		return fmt.Errorf("no recognized encoder format configured")
	}
	return nil
}

// MessageCapabilities builds the capability advertisement for this
// profile. Unrecognized entries are dropped.
func (p *Profile) MessageCapabilities() *capabilities.MessageCapabilities {
	var algorithms []compression.Algorithm
	for _, name := range p.Capabilities.CompressionAlgorithms {
		if a, ok := compression.ParseAlgorithm(name); ok {
			algorithms = append(algorithms, a)
		}
	}
	var formats []encoder.Format
	for _, name := range p.Capabilities.EncoderFormats {
		if f, ok := encoder.ParseFormat(name); ok {
			formats = append(formats, f)
		}
	}
	return capabilities.New(algorithms, p.Capabilities.Languages, formats)
}

// Schemes returns the accepted key exchange schemes, dropping names
// this build does not implement.
func (p *Profile) Schemes() []keyx.Scheme {
	var schemes []keyx.Scheme
	for _, name := range p.KeyExchange.Schemes {
		if s, ok := keyx.ParseScheme(name); ok {
			schemes = append(schemes, s)
		}
	}
	return schemes
}

// KeySource materializes the profile's key material for the scheme
// registry.
func (p *Profile) KeySource() (keyx.StaticKeySource, error) {
	source := keyx.StaticKeySource{}
	if len(p.KeyExchange.PreSharedKeys) > 0 {
		source.PreSharedKeys = make(map[string][]byte, len(p.KeyExchange.PreSharedKeys))
		for id, encoded := range p.KeyExchange.PreSharedKeys {
			key, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return keyx.StaticKeySource{}, fmt.Errorf("pre-shared key %q: %w", id, err)
			}
			source.PreSharedKeys[id] = key
		}
	}
	if p.KeyExchange.LadderStorageKey != "" {
		key, err := base64.StdEncoding.DecodeString(p.KeyExchange.LadderStorageKey)
		if err != nil {
			return keyx.StaticKeySource{}, fmt.Errorf("ladder storage key: %w", err)
		}
		source.StorageKey = key
	}
	return source, nil
}

// Compressor builds a payload compressor honoring the configured
// level.
func (p *Profile) Compressor() *compression.Compressor {
	if p.Compression.Level == nil {
		return compression.NewCompressor()
	}
	return compression.NewCompressorWithLevel(*p.Compression.Level)
}
