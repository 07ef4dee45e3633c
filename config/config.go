package config

import (
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"wipeforge/logx"
	"wipeforge/types"
)

// Defaults applied when wipeforge.yml omits a field
const (
	DefaultJSONRPCAddr = ":9650"
	DefaultAPIAddr     = ":9651"
	DefaultDataDir     = "./data/records"
	DefaultLogDir      = "./logs/wipes"
	DefaultCertDir     = "./certs"
)

// LoadNodeConfig reads and parses the wipeforge.yml file. A missing file is
// not an error; defaults apply.
func LoadNodeConfig(path string) (*NodeConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Warn("CONFIG", "No config file at ", path, ", using defaults")
			cfg := &NodeConfig{}
			applyDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "Failed to decode YAML: ", err)
		return nil, err
	}
	applyDefaults(&cfgFile.Config)
	logx.Info("CONFIG", "Loaded node config from ", path)
	return &cfgFile.Config, nil
}

func applyDefaults(cfg *NodeConfig) {
	if cfg.Listen.JSONRPCAddr == "" {
		cfg.Listen.JSONRPCAddr = DefaultJSONRPCAddr
	}
	if cfg.Listen.APIAddr == "" {
		cfg.Listen.APIAddr = DefaultAPIAddr
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = DefaultDataDir
	}
	if cfg.Storage.LogDir == "" {
		cfg.Storage.LogDir = DefaultLogDir
	}
	if cfg.Storage.CertDir == "" {
		cfg.Storage.CertDir = DefaultCertDir
	}
}

// EngineConfig holds the wipe engine tunables
type EngineConfig struct {
	PassDelayMs   int    `ini:"pass_delay_ms"`
	DefaultMethod string `ini:"default_method"`
}

// LoadEngineConfig reads engine config from an .ini file. A missing file
// yields the zero-delay defaults.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	engineCfg := &EngineConfig{PassDelayMs: 0, DefaultMethod: types.MethodDoD5220}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return engineCfg, nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	engineSection := cfg.Section("engine")
	if err := engineSection.MapTo(engineCfg); err != nil {
		return nil, err
	}
	return engineCfg, nil
}
