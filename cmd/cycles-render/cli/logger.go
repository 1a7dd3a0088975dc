// Copyright 2026 The gocycles Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gocycles/cycles"
)

// setupLogging builds the CLI's zap logger (console, plus rotating file
// output in --background mode with a --log-file path) and bridges it
// into cycles.SetLogger so every sub-package's internal logging lands
// in the same place, grounded on the teacher's internal/infra/logger
// file-rotation pattern.
func setupLogging(quiet, background bool, logFilePath string) (*zap.Logger, func()) {
	level := zapcore.InfoLevel
	if quiet {
		level = zapcore.WarnLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stderr), level),
	}

	var rotating *lumberjack.Logger
	if background && logFilePath != "" {
		rotating = &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    64,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		fileEncoderConfig := zap.NewProductionEncoderConfig()
		fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(rotating), level))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...))
	cycles.SetLogger(newLogBridge(zapLogger))

	closeFn := func() {
		_ = zapLogger.Sync()
		if rotating != nil {
			_ = rotating.Close()
		}
	}
	return zapLogger, closeFn
}
