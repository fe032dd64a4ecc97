package storage_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/rfxtrx/rfxtrx-gateway/internal/storage"
	"github.com/rfxtrx/rfxtrx-gateway/internal/test"
)

func testDB(t *testing.T) *sqlx.DB {
	conf := test.GetConfig()

	db, err := sqlx.Open("postgres", conf.PostgreSQL.DSN)
	require.NoError(t, err)
	if err := db.Ping(); err != nil {
		t.Skipf("PostgreSQL is not available: %s", err)
	}

	test.MustResetDB(db)
	return db
}

func TestDevice(t *testing.T) {
	db := testDB(t)
	defer db.Close()

	ctx := context.Background()

	device := storage.Device{
		ID:            "0x7002",
		PacketType:    0x50,
		PacketSubtype: 0x02,
		Family:        "Temperature sensors",
		LastPacket:    []byte(`{"temperature": 16.8}`),
	}

	t.Run("create", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(storage.CreateDevice(ctx, db, &device))
		assert.False(device.CreatedAt.IsZero())
		assert.False(device.LastSeenAt.IsZero())

		assert.Equal(storage.ErrAlreadyExists, storage.CreateDevice(ctx, db, &device))
	})

	t.Run("get", func(t *testing.T) {
		assert := require.New(t)

		d, err := storage.GetDevice(ctx, db, device.ID)
		assert.NoError(err)
		assert.Equal(device.ID, d.ID)
		assert.EqualValues(0x50, d.PacketType)
		assert.Equal("Temperature sensors", d.Family)
		assert.JSONEq(`{"temperature": 16.8}`, string(d.LastPacket))

		_, err = storage.GetDevice(ctx, db, "0xFFFFFF")
		assert.Equal(storage.ErrDoesNotExist, err)
	})

	t.Run("upsert updates the last-seen timestamp", func(t *testing.T) {
		assert := require.New(t)

		before, err := storage.GetDevice(ctx, db, device.ID)
		assert.NoError(err)

		update := device
		update.LastPacket = []byte(`{"temperature": 17.1}`)
		assert.NoError(storage.UpsertDeviceSeen(ctx, db, &update))

		after, err := storage.GetDevice(ctx, db, device.ID)
		assert.NoError(err)
		assert.True(after.LastSeenAt.After(before.LastSeenAt))
		assert.JSONEq(`{"temperature": 17.1}`, string(after.LastPacket))
	})

	t.Run("upsert creates unknown devices", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(storage.UpsertDeviceSeen(ctx, db, &storage.Device{
			ID:            "0x123456",
			PacketType:    0x20,
			PacketSubtype: 0x01,
			Family:        "Security sensors",
			LastPacket:    []byte(`{}`),
		}))

		devices, err := storage.GetDevices(ctx, db, 10, 0)
		assert.NoError(err)
		assert.Len(devices, 2)

		// ordered by last-seen, the new device comes first
		assert.Equal("0x123456", devices[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(storage.DeleteDevice(ctx, db, device.ID))
		assert.Equal(storage.ErrDoesNotExist, storage.DeleteDevice(ctx, db, device.ID))
	})
}
