package wire

import (
	"gorm.io/gorm"

	"pingchat/internal/auth"
	chathandler "pingchat/internal/chat/handler"
	chatservice "pingchat/internal/chat/service"
	"pingchat/internal/common"
	"pingchat/internal/config"
	"pingchat/internal/dbmongo"
	"pingchat/internal/search"
)

// Application bundles everything the entrypoint needs.
type Application struct {
	Config        *config.Config
	DB            *gorm.DB
	Mongo         *dbmongo.MongoClient
	Tokens        *common.TokenManager
	AuthHandler   *auth.Handler
	SearchHandler *search.Handler
	ChatHandler   *chathandler.ChatHandler
	ChatService   chatservice.ChatService
}
