package config

const (
	// Configuration file paths
	ConfigPathEconomy = "configs/economy.yaml"
)

// EconomySchemaVersion is the economy config layout this build understands
const EconomySchemaVersion = "1"
