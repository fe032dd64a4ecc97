package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rfxtrx/rfxtrx-gateway/internal/backend/transceiver"
	"github.com/rfxtrx/rfxtrx-gateway/internal/backend/transceiver/serial"
	"github.com/rfxtrx/rfxtrx-gateway/internal/config"
	"github.com/rfxtrx/rfxtrx-gateway/internal/integration"
	"github.com/rfxtrx/rfxtrx-gateway/internal/integration/mqtt"
	"github.com/rfxtrx/rfxtrx-gateway/internal/monitoring"
	"github.com/rfxtrx/rfxtrx-gateway/internal/storage"
	"github.com/rfxtrx/rfxtrx-gateway/internal/uplink"
)

func run(cmd *cobra.Command, args []string) error {
	var server = new(uplink.Server)

	tasks := []func() error{
		setLogLevel,
		setSyslog,
		printStartMessage,
		setupMonitoring,
		setupStorage,
		setupIntegration,
		setupTransceiver,
		startGateway(server),
	}

	for _, t := range tasks {
		if err := t(); err != nil {
			log.Fatal(err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	exitChan := make(chan struct{})
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	log.WithField("signal", <-sigChan).Info("signal received")
	go func() {
		log.Warning("stopping rfxtrx-gateway")
		if err := server.Stop(); err != nil {
			log.Fatal(err)
		}
		if i := integration.GetIntegration(); i != nil {
			if err := i.Close(); err != nil {
				log.Fatal(err)
			}
		}
		exitChan <- struct{}{}
	}()
	select {
	case <-exitChan:
	case s := <-sigChan:
		log.WithField("signal", s).Info("signal received, stopping immediately")
	}

	return nil
}

func setLogLevel() error {
	log.SetLevel(log.Level(uint8(config.C.General.LogLevel)))
	return nil
}

func printStartMessage() error {
	log.WithFields(log.Fields{
		"version": version,
		"port":    config.C.Transceiver.Serial.Port,
	}).Info("starting RFXtrx Gateway")
	return nil
}

func setupMonitoring() error {
	if err := monitoring.Setup(config.C); err != nil {
		return errors.Wrap(err, "setup monitoring error")
	}
	return nil
}

func setupStorage() error {
	if err := storage.Setup(config.C); err != nil {
		return errors.Wrap(err, "setup storage error")
	}
	return nil
}

func setupIntegration() error {
	i, err := mqtt.New(config.C)
	if err != nil {
		return errors.Wrap(err, "setup mqtt integration error")
	}
	integration.SetIntegration(i)
	return nil
}

func setupTransceiver() error {
	b, err := serial.NewBackend(config.C)
	if err != nil {
		return errors.Wrap(err, "setup serial transceiver backend error")
	}
	transceiver.SetBackend(b)
	return nil
}

func startGateway(server *uplink.Server) func() error {
	return func() error {
		*server = *uplink.NewServer()
		return server.Start()
	}
}
