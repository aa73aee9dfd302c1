package cli

import "github.com/google/wire"

// ProviderSet 终端交互层的依赖注入配置
var ProviderSet = wire.NewSet(NewRepl)
