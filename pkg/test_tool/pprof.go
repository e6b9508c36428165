package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"messaging_service/pkg/config"
	"messaging_service/pkg/logger"

	"go.uber.org/zap"
)

// StartPprof 非 production 環境時啟動 pprof 監控伺服器 (127.0.0.1:6060)
func StartPprof() {
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return
	}

	go func() {
		logger.Log.Info("Starting pprof server on 127.0.0.1:6060")
		if err := http.ListenAndServe("127.0.0.1:6060", nil); err != nil {
			logger.Log.Error("pprof server failed", zap.Error(err))
		}
	}()
}
