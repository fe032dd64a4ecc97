package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rfxtrx/rfxtrx-gateway/internal/config"
	"github.com/rfxtrx/rfxtrx-gateway/internal/storage"
)

var (
	devicesLimit  int
	devicesOffset int
	deviceType    uint8
	deviceSubtype uint8
	deviceFamily  string
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage the device registry",
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the devices seen by the gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.Setup(config.C); err != nil {
			return errors.Wrap(err, "setup storage error")
		}

		devices, err := storage.GetDevices(context.Background(), storage.DB(), devicesLimit, devicesOffset)
		if err != nil {
			return errors.Wrap(err, "get devices error")
		}

		fmt.Printf("%-14s  %-6s  %-9s  %-36s  %s\n", "id", "type", "subtype", "family", "last seen")
		for _, d := range devices {
			fmt.Printf("%-14s  0x%02x    0x%02x       %-36s  %s\n",
				d.ID,
				d.PacketType,
				d.PacketSubtype,
				d.Family,
				d.LastSeenAt.Format(time.RFC3339),
			)
		}

		return nil
	},
}

var devicesGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print the last packet received from the given device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.Setup(config.C); err != nil {
			return errors.Wrap(err, "setup storage error")
		}

		d, err := storage.GetDevice(context.Background(), storage.DB(), args[0])
		if err != nil {
			return errors.Wrap(err, "get device error")
		}

		fmt.Println(string(d.LastPacket))
		return nil
	},
}

var devicesAddCmd = &cobra.Command{
	Use:   "add [id]",
	Short: "Pre-register a device, e.g. to tail it before its first frame",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.Setup(config.C); err != nil {
			return errors.Wrap(err, "setup storage error")
		}

		err := storage.CreateDevice(context.Background(), storage.DB(), &storage.Device{
			ID:            args[0],
			PacketType:    deviceType,
			PacketSubtype: deviceSubtype,
			Family:        deviceFamily,
			LastPacket:    []byte("{}"),
		})
		if err != nil {
			return errors.Wrap(err, "create device error")
		}

		return nil
	},
}

var devicesRemoveCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a device from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := storage.Setup(config.C); err != nil {
			return errors.Wrap(err, "setup storage error")
		}

		err := storage.Transaction(func(tx *sqlx.Tx) error {
			return storage.DeleteDevice(context.Background(), tx, args[0])
		})
		if err != nil {
			return errors.Wrap(err, "delete device error")
		}

		return nil
	},
}

func init() {
	devicesListCmd.Flags().IntVar(&devicesLimit, "limit", 100, "maximum number of devices to list")
	devicesListCmd.Flags().IntVar(&devicesOffset, "offset", 0, "offset within the device list")

	devicesAddCmd.Flags().Uint8Var(&deviceType, "type", 0, "packet type of the device")
	devicesAddCmd.Flags().Uint8Var(&deviceSubtype, "subtype", 0, "packet subtype of the device")
	devicesAddCmd.Flags().StringVar(&deviceFamily, "family", "", "device family name")

	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesGetCmd)
	devicesCmd.AddCommand(devicesAddCmd)
	devicesCmd.AddCommand(devicesRemoveCmd)
}
