package chat

import "github.com/google/wire"

// ProviderSet 会话状态存储 ProviderSet
var ProviderSet = wire.NewSet(
	NewStore,
)
