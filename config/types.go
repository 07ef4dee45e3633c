package config

// ListenConfig holds the network addresses the node serves on
type ListenConfig struct {
	JSONRPCAddr string `yaml:"jsonrpc_addr"`
	APIAddr     string `yaml:"api_addr"`
}

// StorageConfig holds the directories the collaborators write to
type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	LogDir  string `yaml:"log_dir"`
	CertDir string `yaml:"cert_dir"`
}

// NodeConfig holds the configuration from wipeforge.yml
type NodeConfig struct {
	Listen  ListenConfig  `yaml:"listen"`
	Storage StorageConfig `yaml:"storage"`
}

// ConfigFile is the top-level structure for wipeforge.yml
type ConfigFile struct {
	Config NodeConfig `yaml:"config"`
}
