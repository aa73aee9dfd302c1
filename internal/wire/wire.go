//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/docchat/client/internal/application"
	appChat "github.com/docchat/client/internal/application/chat"
	appDocument "github.com/docchat/client/internal/application/document"
	"github.com/docchat/client/internal/infrastructure"
	"github.com/docchat/client/internal/infrastructure/api"
	"github.com/docchat/client/internal/interfaces"
	"github.com/google/wire"
)

// InitializeApp 初始化整个应用
func InitializeApp() (*App, error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		// 接口绑定：两个存储的后端能力都由 API 客户端提供
		wire.Bind(new(appChat.Backend), new(*api.Client)),
		wire.Bind(new(appDocument.Backend), new(*api.Client)),
		NewApp, // 组合所有服务的应用结构
	)
	return nil, nil
}
