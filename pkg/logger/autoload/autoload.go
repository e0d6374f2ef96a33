// Package autoload configures the global logger from the environment on
// import. Blank-import it from main so logging is ready before any other
// init work runs.
package autoload

import (
	configx "github.com/aryansharma/shopassistant/pkg/config"
	logx "github.com/aryansharma/shopassistant/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
