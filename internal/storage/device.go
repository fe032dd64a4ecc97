package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	log "github.com/sirupsen/logrus"

	"github.com/rfxtrx/rfxtrx-gateway/internal/logging"
)

// Device is a sensor or switch seen by the gateway, keyed by the id
// reported in its packets.
type Device struct {
	ID            string         `db:"id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
	LastSeenAt    time.Time      `db:"last_seen_at"`
	PacketType    byte           `db:"packet_type"`
	PacketSubtype byte           `db:"packet_subtype"`
	Family        string         `db:"family"`
	LastPacket    types.JSONText `db:"last_packet"`
}

// CreateDevice creates the given device.
func CreateDevice(ctx context.Context, db sqlx.Execer, d *Device) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.LastSeenAt.IsZero() {
		d.LastSeenAt = now
	}

	_, err := db.Exec(`
		insert into device (
			id,
			created_at,
			updated_at,
			last_seen_at,
			packet_type,
			packet_subtype,
			family,
			last_packet
		) values ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID,
		d.CreatedAt,
		d.UpdatedAt,
		d.LastSeenAt,
		d.PacketType,
		d.PacketSubtype,
		d.Family,
		d.LastPacket,
	)
	if err != nil {
		return handlePSQLError(err, "insert error")
	}

	log.WithFields(log.Fields{
		"id":     d.ID,
		"ctx_id": ctx.Value(logging.ContextIDKey),
	}).Info("storage: device created")

	return nil
}

// GetDevice returns the device matching the given id.
func GetDevice(ctx context.Context, db sqlx.Queryer, id string) (Device, error) {
	var d Device
	if err := sqlx.Get(db, &d, "select * from device where id = $1", id); err != nil {
		return d, handlePSQLError(err, "select error")
	}
	return d, nil
}

// GetDevices returns the devices ordered by last-seen timestamp.
func GetDevices(ctx context.Context, db sqlx.Queryer, limit, offset int) ([]Device, error) {
	var devices []Device
	err := sqlx.Select(db, &devices, `
		select *
		from device
		order by last_seen_at desc
		limit $1 offset $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, handlePSQLError(err, "select error")
	}
	return devices, nil
}

// DeleteDevice deletes the device matching the given id.
func DeleteDevice(ctx context.Context, db sqlx.Execer, id string) error {
	res, err := db.Exec("delete from device where id = $1", id)
	if err != nil {
		return handlePSQLError(err, "delete error")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return handlePSQLError(err, "get rows affected error")
	}
	if ra == 0 {
		return ErrDoesNotExist
	}

	log.WithFields(log.Fields{
		"id":     id,
		"ctx_id": ctx.Value(logging.ContextIDKey),
	}).Info("storage: device deleted")

	return nil
}

// UpsertDeviceSeen creates the device or, when it already exists,
// updates its last-seen timestamp and last packet.
func UpsertDeviceSeen(ctx context.Context, db sqlx.Execer, d *Device) error {
	now := time.Now()
	d.UpdatedAt = now
	d.LastSeenAt = now

	_, err := db.Exec(`
		insert into device (
			id,
			created_at,
			updated_at,
			last_seen_at,
			packet_type,
			packet_subtype,
			family,
			last_packet
		) values ($1, $2, $2, $3, $4, $5, $6, $7)
		on conflict (id) do update set
			updated_at = $2,
			last_seen_at = $3,
			packet_type = $4,
			packet_subtype = $5,
			family = $6,
			last_packet = $7`,
		d.ID,
		now,
		d.LastSeenAt,
		d.PacketType,
		d.PacketSubtype,
		d.Family,
		d.LastPacket,
	)
	if err != nil {
		return handlePSQLError(err, "upsert error")
	}

	log.WithFields(log.Fields{
		"id":     d.ID,
		"ctx_id": ctx.Value(logging.ContextIDKey),
	}).Debug("storage: device seen")

	return nil
}
