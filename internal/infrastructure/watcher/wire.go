package watcher

import "github.com/google/wire"

// ProviderSet 监听器的依赖注入配置
var ProviderSet = wire.NewSet(NewUploadWatcher)
