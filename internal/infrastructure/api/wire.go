package api

import "github.com/google/wire"

// ProviderSet 后端客户端 ProviderSet
var ProviderSet = wire.NewSet(
	NewClient,
)
