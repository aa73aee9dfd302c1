package application

import (
	"github.com/docchat/client/internal/application/chat"
	"github.com/docchat/client/internal/application/document"
	"github.com/google/wire"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	chat.ProviderSet,
	document.ProviderSet,
)
