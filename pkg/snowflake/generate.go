package snowflake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"

	"SpendWise/config"
)

var (
	node *snowflake.Node
	once sync.Once

	errUninitialized = errors.New("snowflake generator is not initialized")
)

// Init 用配置里的机器号和机房号组装节点 ID, 重复调用只生效一次
func Init() error {
	var initErr error

	once.Do(func() {
		machineID := config.Cfg.SnowflakeMachineID
		dataCenterID := config.Cfg.SnowflakeDataCenter

		// 两段各占 5 bit
		if machineID < 0 || machineID > 31 || dataCenterID < 0 || dataCenterID > 31 {
			initErr = fmt.Errorf("snowflake ids out of range: machine=%d datacenter=%d", machineID, dataCenterID)
			return
		}

		node, initErr = snowflake.NewNode(dataCenterID<<5 | machineID)
	})

	return initErr
}

// NextID 分配一个新的记录/消息 ID
func NextID() (int64, error) {
	if node == nil {
		return 0, errUninitialized
	}

	return node.Generate().Int64(), nil
}
