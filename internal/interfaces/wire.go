package interfaces

import (
	"github.com/docchat/client/internal/interfaces/cli"
	"github.com/google/wire"
)

// ProviderSet Interfaces 层总 ProviderSet
var ProviderSet = wire.NewSet(
	cli.ProviderSet,
)
