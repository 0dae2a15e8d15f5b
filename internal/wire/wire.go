//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"pingchat/internal/auth"
	chathandler "pingchat/internal/chat/handler"
	chatrepo "pingchat/internal/chat/repository"
	chatservice "pingchat/internal/chat/service"
	"pingchat/internal/common"
	"pingchat/internal/config"
	"pingchat/internal/dbmysql"
	"pingchat/internal/search"
	"pingchat/internal/user"
)

func InitializeApplication() (*Application, func(), error) {
	wire.Build(
		config.Load,
		dbmysql.NewMySQL,
		ProvideMongo,
		common.NewTokenManager,
		user.NewUserRepository,
		user.NewCredentialRepository,
		auth.NewService,
		auth.NewHandler,
		search.NewService,
		search.NewHandler,
		chatrepo.NewConversationRepository,
		chatservice.NewChatService,
		chathandler.NewChatHandler,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
