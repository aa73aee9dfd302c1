package infrastructure

import (
	"github.com/docchat/client/internal/infrastructure/api"
	"github.com/docchat/client/internal/infrastructure/config"
	"github.com/docchat/client/internal/infrastructure/events"
	"github.com/docchat/client/internal/infrastructure/watcher"
	"github.com/google/wire"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	api.ProviderSet,
	events.ProviderSet,
	watcher.ProviderSet,
)
