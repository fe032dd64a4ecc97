package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rfxtrx/rfxtrx-gateway/internal/config"
	"github.com/rfxtrx/rfxtrx-gateway/internal/framelog"
	"github.com/rfxtrx/rfxtrx-gateway/internal/storage"
)

var tailDevice string

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow the live frame log of a running gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.Setup(config.C); err != nil {
			return errors.Wrap(err, "setup storage error")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		flChan := make(chan framelog.FrameLog)
		go func() {
			for fl := range flChan {
				b, err := json.Marshal(fl)
				if err != nil {
					continue
				}
				fmt.Println(string(b))
			}
		}()

		if tailDevice != "" {
			return framelog.GetFrameLogForDevice(ctx, tailDevice, flChan)
		}
		return framelog.GetFrameLog(ctx, flChan)
	},
}

func init() {
	tailCmd.Flags().StringVar(&tailDevice, "device", "", "only show frames of the given device id")
}
