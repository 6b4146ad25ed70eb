package miner

import "github.com/UserR256/PRCYCoin/infrastructure/logger"

var log = logger.RegisterSubSystem("MINR")
