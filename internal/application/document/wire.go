package document

import "github.com/google/wire"

// ProviderSet 文档应用层的依赖注入配置
var ProviderSet = wire.NewSet(NewStore)
