package database

import (
	"context"

	errprocess "messaging_service/pkg/err"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient inti Redis Sentinel connection
func NewRedisClient(masterName string, sentinelAddrs []string, db int) (*redis.Client, error) {
	rdb := redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:    masterName,    // 哨兵主节点名称
		SentinelAddrs: sentinelAddrs, // 哨兵地址列表
		DB:            db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, errprocess.Wrap("failed to connect to redis sentinel", err)
	}

	return rdb, nil
}
