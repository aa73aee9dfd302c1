package config

import "github.com/google/wire"

// ProviderSet 配置基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	Load,
	NewServerConfig,
	NewUploadConfig,
)
