package logger

import (
	"io"
	"log"
	"os"
)

var Log *log.Logger

func Init(logFilePath string) error {
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}

	Log = log.New(file, "", log.LstdFlags)
	Log.Println("Logger initialized.")
	return nil
}

// InitDiscard points the logger at a no-op sink so components that log as
// a side effect can run under `go test` without touching the filesystem.
func InitDiscard() {
	Log = log.New(io.Discard, "", log.LstdFlags)
}
