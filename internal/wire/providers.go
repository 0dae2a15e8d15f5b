package wire

import (
	"context"
	"log"
	"time"

	"pingchat/internal/config"
	"pingchat/internal/dbmongo"
)

// ProvideMongo wraps the connection constructor with a cleanup that
// disconnects the client on application teardown.
func ProvideMongo(cfg *config.Config) (*dbmongo.MongoClient, func(), error) {
	mc, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Close(ctx); err != nil {
			log.Printf("mongo disconnect failed: %v", err)
		}
	}
	return mc, cleanup, nil
}
